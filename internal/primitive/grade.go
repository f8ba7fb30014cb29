package primitive

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/cell"
)

// rowLess compares B's i-th and j-th major cells (first-axis rows)
// lexicographically using cell.Less, recursing into nested cells; this is
// the comparator spec.md §4.1 "Sort uses heapsort taking this comparator"
// refers to.
func rowLess(b *array.Value, i, j int, ct float64, descending bool) bool {
	bs := b.Shape()
	rowSize := 1
	for k := 1; k < len(bs); k++ {
		rowSize *= bs[k]
	}
	if rowSize == 0 {
		rowSize = 1
	}
	var nestedLess func(a, c cell.Cell) bool
	nestedLess = func(a, c cell.Cell) bool {
		av, aok := a.Pointer().(*array.Value)
		cv, cok := c.Pointer().(*array.Value)
		if !aok || !cok {
			return false
		}
		n := av.ElementCount()
		if cv.ElementCount() < n {
			n = cv.ElementCount()
		}
		for k := 0; k < n; k++ {
			if cell.Less(av.At(k), cv.At(k), ct, nestedLess) {
				return true
			}
			if cell.Less(cv.At(k), av.At(k), ct, nestedLess) {
				return false
			}
		}
		return av.ElementCount() < cv.ElementCount()
	}
	for k := 0; k < rowSize; k++ {
		ac := b.At(i*rowSize + k)
		bc := b.At(j*rowSize + k)
		lt := cell.Less(ac, bc, ct, nestedLess)
		gt := cell.Less(bc, ac, ct, nestedLess)
		if lt || gt {
			if descending {
				return gt
			}
			return lt
		}
	}
	return i < j // ties broken by original position (stability)
}

// heapsortIndices sorts the row numbers [0,n) according to less (a
// strict, tie-broken total order so the result is fully deterministic),
// via a classic binary-heap sort (spec.md §4.1 "Sort uses heapsort").
func heapsortIndices(n int, less func(a, b int) bool) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	// greaterRow(a,b) holds when row a must sort after row b, so a max-heap
	// keyed by greaterRow puts the last-sorting row at the root.
	greaterRow := func(a, b int) bool { return less(b, a) }
	siftDown := func(start, end int) {
		root := start
		for {
			child := 2*root + 1
			if child > end {
				break
			}
			if child+1 <= end && greaterRow(idx[child+1], idx[child]) {
				child++
			}
			if greaterRow(idx[child], idx[root]) {
				idx[root], idx[child] = idx[child], idx[root]
				root = child
			} else {
				break
			}
		}
	}
	for start := n/2 - 1; start >= 0; start-- {
		siftDown(start, n-1)
	}
	for end := n - 1; end > 0; end-- {
		idx[0], idx[end] = idx[end], idx[0]
		siftDown(0, end-1)
	}
	return idx
}

func grade(b *array.Value, origin int, ct float64, descending bool) (*array.Value, *aplerr.Error) {
	bs := b.Shape()
	n := 1
	if len(bs) > 0 {
		n = bs[0]
	}
	order := heapsortIndices(n, func(i, j int) bool { return rowLess(b, i, j, ct, descending) })
	out := make([]int, n)
	for i, v := range order {
		out[i] = v + origin
	}
	return IntVectorValue(out), nil
}

// GradeUp implements monadic ⍋B.
func GradeUp(b *array.Value, origin int, ct float64) (*array.Value, *aplerr.Error) {
	return grade(b, origin, ct, false)
}

// GradeDown implements monadic ⍒B.
func GradeDown(b *array.Value, origin int, ct float64) (*array.Value, *aplerr.Error) {
	return grade(b, origin, ct, true)
}
