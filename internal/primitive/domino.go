package primitive

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/cell"
)

// Domino implements monadic ⌹B (matrix inverse) and dyadic A⌹B (solve the
// linear system, or least-squares fit when B has more rows than columns),
// per spec.md §4.4 "Domino (⌹)". Both are built on Gauss-Jordan elimination
// with partial pivoting over B's augmented matrix (and BᵀB/BᵀA for the
// non-square least-squares path).
func Domino(b *array.Value) (*array.Value, *aplerr.Error) {
	bs := b.Shape()
	if len(bs) != 2 || bs[0] != bs[1] {
		return nil, aplerr.New(aplerr.DOMAIN, "domino: monadic ⌹ requires a square matrix")
	}
	n := bs[0]
	m := toMatrixCols(b, n, n)
	inv := identity(n)
	if !gaussJordan(m, inv, n, n) {
		return nil, aplerr.New(aplerr.DOMAIN, "domino: singular matrix")
	}
	return fromMatrixCols(inv, n, n), nil
}

// DominoSolve implements dyadic A⌹B: solve B·X=A for square B, or the
// least-squares X minimising |B·X-A| when B has more rows than columns.
func DominoSolve(a, b *array.Value) (*array.Value, *aplerr.Error) {
	bs := b.Shape()
	if len(bs) != 2 {
		return nil, aplerr.New(aplerr.RANK, "domino: right argument must be a matrix")
	}
	rows, cols := bs[0], bs[1]
	as := a.Shape()
	aCols := 1
	if len(as) == 2 {
		aCols = as[1]
	} else if len(as) != 1 {
		return nil, aplerr.New(aplerr.RANK, "domino: left argument must be a vector or matrix")
	}
	if as[0] != rows {
		return nil, aplerr.New(aplerr.LENGTH, "domino: row counts must match")
	}
	am := toMatrixCols(a, rows, aCols)
	bm := toMatrixCols(b, rows, cols)

	if rows == cols {
		if !gaussJordan(bm, am, rows, aCols) {
			return nil, aplerr.New(aplerr.DOMAIN, "domino: singular matrix")
		}
		return fromMatrixCols(am, cols, aCols), nil
	}

	// Over-determined: solve the normal equations (BᵀB)x = Bᵀa.
	bt := transposeMatrix(bm, rows, cols)
	btb := matMul(bt, bm, cols, rows, cols)
	bta := matMul(bt, am, cols, rows, aCols)
	if !gaussJordan(btb, bta, cols, cols) {
		return nil, aplerr.New(aplerr.DOMAIN, "domino: rank-deficient least-squares system")
	}
	return fromMatrixCols(bta, cols, aCols), nil
}

func toMatrixCols(v *array.Value, rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			m[i][j] = v.At(i*cols + j).Float()
		}
	}
	return m
}

func fromMatrixCols(m [][]float64, rows, cols int) *array.Value {
	out, _ := array.New(array.Shape{rows, cols})
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i*cols+j, cell.NewFloat(m[i][j]))
		}
	}
	out.CheckValue()
	return out
}

func identity(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}
	return m
}

// gaussJordan reduces square m (n×n) to the identity via partial pivoting,
// applying every row operation to aug (n×augCols) in lockstep; aug ends up
// holding the solution (m⁻¹·aug). Returns false if m is singular.
func gaussJordan(m [][]float64, aug [][]float64, n, augCols int) bool {
	for col := 0; col < n; col++ {
		pivot := col
		best := abs64(m[col][col])
		for r := col + 1; r < n; r++ {
			if v := abs64(m[r][col]); v > best {
				best, pivot = v, r
			}
		}
		if best < 1e-12 {
			return false
		}
		if pivot != col {
			m[col], m[pivot] = m[pivot], m[col]
			aug[col], aug[pivot] = aug[pivot], aug[col]
		}
		pv := m[col][col]
		for j := 0; j < n; j++ {
			m[col][j] /= pv
		}
		for j := 0; j < augCols; j++ {
			aug[col][j] /= pv
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := m[r][col]
			if factor == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				m[r][j] -= factor * m[col][j]
			}
			for j := 0; j < augCols; j++ {
				aug[r][j] -= factor * aug[col][j]
			}
		}
	}
	return true
}

func transposeMatrix(m [][]float64, rows, cols int) [][]float64 {
	out := make([][]float64, cols)
	for i := range out {
		out[i] = make([]float64, rows)
		for j := 0; j < rows; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}

func matMul(a, b [][]float64, aRows, aCols, bCols int) [][]float64 {
	out := make([][]float64, aRows)
	for i := range out {
		out[i] = make([]float64, bCols)
		for j := 0; j < bCols; j++ {
			var sum float64
			for k := 0; k < aCols; k++ {
				sum += a[i][k] * b[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

func abs64(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
