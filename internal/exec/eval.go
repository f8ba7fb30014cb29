package exec

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/operator"
	"goapl/internal/parser"
	"goapl/internal/primitive"
	"goapl/internal/token"
)

// Evaluator is the prefix-parser runtime of spec.md §4.9: it owns nothing
// but the Environment it evaluates against, so a Frame for a suspended
// call and a Frame for a top-level immediate-execution line share the
// exact same reduction logic.
type Evaluator struct {
	env Environment
}

func NewEvaluator(env Environment) *Evaluator { return &Evaluator{env: env} }

// Run drives every statement of fr.Exec from fr.StmtIdx, following →
// branches within the executable (spec.md §4.9 "Branch") until the last
// statement falls through or a branch terminates the frame. Scope note:
// branch targets are resolved as 1-based statement indices within the
// same Executable, not as LABEL symbol bindings across a multi-line
// user-defined function body — spec.md's label mechanism belongs to the
// ∇-defined function parser, which this evaluator does not yet implement.
func (ev *Evaluator) Run(fr *Frame) ([]Result, *aplerr.Error) {
	var results []Result
	stmts := fr.Exec.Statements
	for fr.StmtIdx >= 0 && fr.StmtIdx < len(stmts) {
		idx := fr.StmtIdx
		res, err := ev.evalStatement(stmts[idx].Items)
		if err != nil {
			fr.State = ErrorState
			fr.Err = err
			return results, err
		}
		results = append(results, res)
		if res.BranchExit {
			fr.State = Terminated
			return results, nil
		}
		if res.BranchTo != nil {
			target := *res.BranchTo - 1
			if target < 0 || target >= len(stmts) {
				fr.State = Terminated
				return results, nil
			}
			fr.StmtIdx = target
			continue
		}
		fr.StmtIdx++
	}
	fr.State = Terminated
	return results, nil
}

func (ev *Evaluator) evalStatement(items []parser.Item) (Result, *aplerr.Error) {
	if len(items) == 0 {
		return Result{}, nil
	}
	if items[0].Kind == parser.ItemToken && items[0].Tok.Type == token.Branch {
		rest := items[1:]
		if len(rest) == 0 {
			return Result{BranchExit: true}, nil
		}
		val, err := ev.evalExpr(rest)
		if err != nil {
			return Result{}, err
		}
		if val == nil || val.IsEmpty() {
			return Result{BranchExit: true}, nil
		}
		n := int(val.At(0).Float())
		return Result{BranchTo: &n}, nil
	}
	val, assigned, err := ev.evalAssignOrExpr(items)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: val, Assigned: assigned}, nil
}

// evalExpr evaluates items as a value-producing expression (assignment
// included, since `X←expr` itself yields a value) — the form used both at
// the top of a statement and recursively for a parenthesised or bracketed
// sub-expression.
func (ev *Evaluator) evalExpr(items []parser.Item) (*array.Value, *aplerr.Error) {
	v, _, err := ev.evalAssignOrExpr(items)
	return v, err
}

func (ev *Evaluator) evalAssignOrExpr(items []parser.Item) (*array.Value, bool, *aplerr.Error) {
	if len(items) >= 2 {
		head := items[0]
		if head.Kind == parser.ItemToken && (head.Tok.Type == token.Ident || head.Tok.Type == token.Quad) && head.Tok.LSymb {
			if items[1].Kind == parser.ItemToken && items[1].Tok.Type == token.Assign {
				rhs, err := ev.evalExpr(items[2:])
				if err != nil {
					return nil, false, err
				}
				if serr := ev.env.Set(head.Tok.Text, rhs); serr != nil {
					return nil, false, serr
				}
				return rhs, true, nil
			}
		}
	}
	resolved, err := ev.resolveParens(items)
	if err != nil {
		return nil, false, err
	}
	val, err := ev.evalChain(resolved)
	return val, false, err
}

// resolveParens recursively evaluates every non-literal parenthesised
// span (an all-literal span was already constant-folded by
// internal/parser) and replaces it with a single folded value item.
func (ev *Evaluator) resolveParens(items []parser.Item) ([]parser.Item, *aplerr.Error) {
	for {
		lo, hi, found := findInnermostParen(items)
		if !found {
			return items, nil
		}
		val, err := ev.evalExpr(items[lo+1 : hi])
		if err != nil {
			return nil, err
		}
		folded := parser.Item{Kind: parser.ItemValue, Value: val, FromParen: true}
		next := make([]parser.Item, 0, len(items)-(hi-lo))
		next = append(next, items[:lo]...)
		next = append(next, folded)
		next = append(next, items[hi+1:]...)
		items = next
	}
}

func findInnermostParen(items []parser.Item) (int, int, bool) {
	var stack []int
	for i, it := range items {
		if it.Kind != parser.ItemToken {
			continue
		}
		switch it.Tok.Type {
		case token.LParen:
			stack = append(stack, i)
		case token.RParen:
			if len(stack) == 0 {
				return 0, 0, false
			}
			open := stack[len(stack)-1]
			return open, i, true
		}
	}
	return 0, 0, false
}

// evalChain implements the right-to-left reduction of spec.md §4.9: shift
// the rightmost value, then repeatedly resolve the function (with any
// operator decoration) immediately to its left and apply it, monadically
// or dyadically depending on what remains further left.
func (ev *Evaluator) evalChain(items []parser.Item) (*array.Value, *aplerr.Error) {
	if len(items) == 0 {
		return nil, nil
	}
	val, i, err := ev.parseOperand(items, len(items)-1)
	if err != nil {
		return nil, err
	}
	for i >= 0 {
		fn, newI, found, ferr := ev.parseFunction(items, i)
		if ferr != nil {
			return nil, ferr
		}
		if !found {
			return nil, aplerr.New(aplerr.SYNTAX, "malformed expression")
		}
		if newI >= 0 {
			left, newI2, lerr := ev.parseOperand(items, newI)
			if lerr != nil {
				return nil, lerr
			}
			val, err = fn.Dyadic(left, val)
			i = newI2
		} else {
			val, err = fn.Monadic(val)
			i = newI
		}
		if err != nil {
			return nil, err
		}
	}
	return val, nil
}

// parseOperand consumes a single value off the right: a folded literal, a
// bound name, or a B[I] index expression (single axis only — spec.md
// §4.10's `;` multi-axis subscript list is out of scope here).
func (ev *Evaluator) parseOperand(items []parser.Item, i int) (*array.Value, int, *aplerr.Error) {
	if i < 0 {
		return nil, i, aplerr.New(aplerr.SYNTAX, "missing operand")
	}
	it := items[i]
	if it.Kind == parser.ItemToken && it.Tok.Type == token.RBracket {
		lb, ok := findMatchingOpen(items, i, token.LBracket, token.RBracket)
		if !ok {
			return nil, i, aplerr.New(aplerr.SYNTAX, "mismatched bracket")
		}
		idxVal, ierr := ev.evalExpr(items[lb+1 : i])
		if ierr != nil {
			return nil, i, ierr
		}
		base, newI, berr := ev.parseOperand(items, lb-1)
		if berr != nil {
			return nil, i, berr
		}
		sel, serr := primitive.IntVector(idxVal)
		if serr != nil {
			return nil, i, serr
		}
		axisSel := make([]int, len(sel))
		for k, v := range sel {
			axisSel[k] = v - ev.env.Origin()
		}
		idx := make([][]int, base.Rank())
		if base.Rank() > 0 {
			idx[0] = axisSel
		}
		result, qerr := primitive.Squad(base, idx)
		if qerr != nil {
			return nil, i, qerr
		}
		return result, newI, nil
	}
	if it.Kind == parser.ItemValue {
		return it.Value, i - 1, nil
	}
	if it.Kind == parser.ItemToken {
		switch it.Tok.Type {
		case token.Ident, token.Quad:
			v, ok := ev.env.Get(it.Tok.Text)
			if !ok {
				return nil, i, aplerr.New(aplerr.VALUE, "undefined name %s", it.Tok.Text)
			}
			return v, i - 1, nil
		}
	}
	return nil, i, aplerr.New(aplerr.SYNTAX, "expected a value")
}

func findMatchingOpen(items []parser.Item, closeIdx int, openT, closeT token.Type) (int, bool) {
	depth := 0
	for k := closeIdx; k >= 0; k-- {
		it := items[k]
		if it.Kind != parser.ItemToken {
			continue
		}
		switch it.Tok.Type {
		case closeT:
			depth++
		case openT:
			depth--
			if depth == 0 {
				return k, true
			}
		}
	}
	return 0, false
}

func glyphAt(it parser.Item) rune {
	if it.Kind != parser.ItemToken || it.Tok.Type != token.Primitive {
		return 0
	}
	r := []rune(it.Tok.Text)
	if len(r) != 1 {
		return 0
	}
	return r[0]
}

// isFunctionStart reports whether it could begin a function reference: a
// primitive glyph other than the operator-only glyphs that never stand
// alone as a function (¨, ⍨, ⍣, ⍤, the outer/inner product markers ∘, .).
func isFunctionStart(it parser.Item) bool {
	switch glyphAt(it) {
	case 0, '¨', '⍨', '⍣', '⍤', '∘', '.':
		return false
	default:
		return true
	}
}

type decoStep struct {
	glyph rune
	n     int
	cond  operator.Func
	y     []int
}

// parseFunction resolves the function (with any trailing operator
// decoration — reduce/scan/each/commute/power/rank, or a `.`/`∘.`
// inner/outer product) that ends at position i, scanning leftward, and
// returns the Func plus the index of the next unconsumed token (or -1).
func (ev *Evaluator) parseFunction(items []parser.Item, i int) (operator.Func, int, bool, *aplerr.Error) {
	j := i
	var decos []decoStep
	var base operator.Func

	for j >= 0 {
		g := glyphAt(items[j])

		if g == 0 {
			// only meaningful here as the N/Y right-operand of a
			// preceding ⍣/⍤, consumed in one step together with it.
			if j-1 < 0 {
				break
			}
			og := glyphAt(items[j-1])
			if og != '⍣' && og != '⍤' {
				break
			}
			opnd, afterIdx, operr := ev.parseOperand(items, j)
			if operr != nil {
				return nil, j, false, operr
			}
			d := decoStep{glyph: og}
			if og == '⍣' {
				d.n = int(opnd.At(0).Float())
			} else {
				ys, ierr := primitive.IntVector(opnd)
				if ierr != nil {
					return nil, j, false, ierr
				}
				d.y = ys
			}
			decos = append(decos, d)
			j = afterIdx - 1
			continue
		}

		switch g {
		case '¨', '⍨':
			decos = append(decos, decoStep{glyph: g})
			j--
			continue
		case '/', '⌿', '\\', '⍀':
			if j-1 >= 0 && isFunctionStart(items[j-1]) {
				decos = append(decos, decoStep{glyph: g})
				j--
				continue
			}
			fn, berr := ev.lookupBase(items[j].Tok.Text)
			if berr != nil {
				return nil, j, false, berr
			}
			base, j = fn, j-1
		case '⍣', '⍤':
			return nil, j, false, aplerr.New(aplerr.SYNTAX, "%c needs a right operand", g)
		default:
			if j-1 >= 0 && glyphAt(items[j-1]) == '.' {
				gFn, gerr := ev.lookupBase(items[j].Tok.Text)
				if gerr != nil {
					return nil, j, false, gerr
				}
				if j-2 >= 0 && glyphAt(items[j-2]) == '∘' {
					fn := outerFunc(gFn)
					return fn, j - 3, true, nil
				}
				if j-2 >= 0 && isFunctionStart(items[j-2]) {
					fFn, ferr := ev.lookupBase(items[j-2].Tok.Text)
					if ferr != nil {
						return nil, j, false, ferr
					}
					fn := innerFunc(fFn, gFn)
					return fn, j - 3, true, nil
				}
				return nil, j, false, aplerr.New(aplerr.SYNTAX, "malformed . product")
			}
			if j-1 >= 0 && glyphAt(items[j-1]) == '⍣' {
				gFn, gerr := ev.lookupBase(items[j].Tok.Text)
				if gerr != nil {
					return nil, j, false, gerr
				}
				decos = append(decos, decoStep{glyph: '⍣', cond: gFn})
				j -= 2
				continue
			}
			fn, berr := ev.lookupBase(items[j].Tok.Text)
			if berr != nil {
				return nil, j, false, berr
			}
			base, j = fn, j-1
		}
		break
	}

	if base == nil {
		return nil, j, false, nil
	}
	for k := len(decos) - 1; k >= 0; k-- {
		base = ev.applyDeco(base, decos[k])
	}
	return base, j, true, nil
}

func outerFunc(g operator.Func) operator.Func {
	return operator.Plain{
		NameStr: "∘." + g.Name(),
		DyadicFn: func(a, b *array.Value) (*array.Value, *aplerr.Error) {
			return operator.Outer(g, a, b)
		},
	}
}

func innerFunc(f, g operator.Func) operator.Func {
	return operator.Plain{
		NameStr: f.Name() + "." + g.Name(),
		DyadicFn: func(a, b *array.Value) (*array.Value, *aplerr.Error) {
			return operator.Inner(f, g, a, b)
		},
	}
}

// applyDeco wraps base in the derived function an operator glyph
// produces (spec.md §4.5-§4.7).
func (ev *Evaluator) applyDeco(base operator.Func, d decoStep) operator.Func {
	switch d.glyph {
	case '/':
		return operator.Plain{NameStr: base.Name() + "/",
			MonadicFn: func(b *array.Value) (*array.Value, *aplerr.Error) { return operator.Reduce(base, b, lastAxis(b)) },
			DyadicFn:  func(a, b *array.Value) (*array.Value, *aplerr.Error) { return operator.NReduce(base, a, b, lastAxis(b)) },
		}
	case '⌿':
		return operator.Plain{NameStr: base.Name() + "⌿",
			MonadicFn: func(b *array.Value) (*array.Value, *aplerr.Error) { return operator.Reduce(base, b, 0) },
			DyadicFn:  func(a, b *array.Value) (*array.Value, *aplerr.Error) { return operator.NReduce(base, a, b, 0) },
		}
	case '\\':
		return operator.Plain{NameStr: base.Name() + "\\",
			MonadicFn: func(b *array.Value) (*array.Value, *aplerr.Error) { return operator.Scan(base, b, lastAxis(b)) },
		}
	case '⍀':
		return operator.Plain{NameStr: base.Name() + "⍀",
			MonadicFn: func(b *array.Value) (*array.Value, *aplerr.Error) { return operator.Scan(base, b, 0) },
		}
	case '¨':
		return operator.Plain{NameStr: base.Name() + "¨",
			MonadicFn: func(b *array.Value) (*array.Value, *aplerr.Error) { return operator.Each(base, b) },
			DyadicFn:  func(a, b *array.Value) (*array.Value, *aplerr.Error) { return operator.EachDyadic(base, a, b) },
		}
	case '⍨':
		return operator.Plain{NameStr: base.Name() + "⍨",
			MonadicFn: func(b *array.Value) (*array.Value, *aplerr.Error) { return operator.Commute(base, nil, b) },
			DyadicFn:  func(a, b *array.Value) (*array.Value, *aplerr.Error) { return operator.Commute(base, a, b) },
		}
	case '⍣':
		if d.cond != nil {
			cond := d.cond
			return operator.Plain{NameStr: base.Name() + "⍣" + cond.Name(),
				MonadicFn: func(b *array.Value) (*array.Value, *aplerr.Error) { return operator.PowerUntil(base, cond, nil, b) },
				DyadicFn:  func(a, b *array.Value) (*array.Value, *aplerr.Error) { return operator.PowerUntil(base, cond, a, b) },
			}
		}
		n := d.n
		return operator.Plain{NameStr: base.Name() + "⍣N",
			MonadicFn: func(b *array.Value) (*array.Value, *aplerr.Error) { return operator.Power(base, nil, b, n) },
			DyadicFn:  func(a, b *array.Value) (*array.Value, *aplerr.Error) { return operator.Power(base, a, b, n) },
		}
	case '⍤':
		y := d.y
		return operator.Plain{NameStr: base.Name() + "⍤Y",
			MonadicFn: func(b *array.Value) (*array.Value, *aplerr.Error) { return operator.Rank(base, b, y) },
			DyadicFn:  func(a, b *array.Value) (*array.Value, *aplerr.Error) { return operator.RankDyadic(base, a, b, y) },
		}
	}
	return base
}
