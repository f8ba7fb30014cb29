package parser

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/cell"
	"goapl/internal/token"
)

func isLiteral(it Item) bool {
	if it.Kind == ItemValue {
		return true
	}
	return it.Tok.Type == token.Number || it.Tok.Type == token.Str
}

// foldParenLiterals constant-folds any parenthesised group whose entire
// interior is already literal (numbers, strings, or nested literal
// groups) into a single FromParen value item, so the adjacency scan in
// collapseVectorLiterals can treat `(1 2) 3` as spec.md §4.10 describes:
// a run of "numeric/character/parenthesised-value tokens". A group
// containing any non-literal item (an identifier, primitive, or quad
// name) is left untouched for internal/exec's runtime prefix parser to
// evaluate.
func foldParenLiterals(items []Item) ([]Item, *aplerr.Error) {
	for {
		lo, hi, found, err := innermostLiteralParen(items)
		if err != nil {
			return nil, err
		}
		if !found {
			return items, nil
		}
		v, verr := literalVectorOf(items[lo+1 : hi])
		if verr != nil {
			return nil, verr
		}
		folded := Item{Kind: ItemValue, Value: v, FromParen: true}
		next := make([]Item, 0, len(items)-(hi-lo))
		next = append(next, items[:lo]...)
		next = append(next, folded)
		next = append(next, items[hi+1:]...)
		items = next
	}
}

func innermostLiteralParen(items []Item) (lo, hi int, found bool, err *aplerr.Error) {
	var stack []int
	for i, it := range items {
		if it.Kind != ItemToken {
			continue
		}
		switch it.Tok.Type {
		case token.LParen:
			stack = append(stack, i)
		case token.RParen:
			if len(stack) == 0 {
				return 0, 0, false, aplerr.New(aplerr.SYNTAX, "mismatched closing parenthesis")
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if open+1 < i && allLiteral(items[open+1:i]) {
				return open, i, true, nil
			}
		}
	}
	return 0, 0, false, nil
}

func allLiteral(items []Item) bool {
	for _, it := range items {
		if !isLiteral(it) {
			return false
		}
	}
	return true
}

// collapseVectorLiterals implements spec.md §4.10's "collapse vector
// literals by scanning runs of adjacent numeric/character/parenthesised-
// value tokens into a single value token." A lone literal (run length 1)
// is used as-is; a run of more than one item is spliced into a single
// vector, with bare numbers/strings contributing their cells directly and
// parenthesised-derived values enclosed as a single nested cell.
func collapseVectorLiterals(items []Item) ([]Item, *aplerr.Error) {
	var out []Item
	i := 0
	for i < len(items) {
		if !isLiteral(items[i]) {
			out = append(out, items[i])
			i++
			continue
		}
		j := i
		for j < len(items) && isLiteral(items[j]) {
			j++
		}
		run := items[i:j]
		if len(run) == 1 {
			v, err := literalValueOf(run[0])
			if err != nil {
				return nil, err
			}
			out = append(out, Item{Kind: ItemValue, Value: v})
		} else {
			v, err := spliceRun(run)
			if err != nil {
				return nil, err
			}
			out = append(out, Item{Kind: ItemValue, Value: v})
		}
		i = j
	}
	return out, nil
}

func literalValueOf(it Item) (*array.Value, *aplerr.Error) {
	if it.Kind == ItemValue {
		return it.Value, nil
	}
	return tokenLiteralValue(it.Tok)
}

func tokenLiteralValue(t token.Token) (*array.Value, *aplerr.Error) {
	switch t.Type {
	case token.Number:
		c, err := numberCell(t.Text)
		if err != nil {
			return nil, err
		}
		return array.NewScalar(c), nil
	case token.Str:
		return stringValue(t.Text), nil
	default:
		return nil, aplerr.New(aplerr.SYNTAX, "not a literal token: %s", t.Type)
	}
}

func numberCell(text string) (cell.Cell, *aplerr.Error) {
	v, err := token.ParseNumber(text)
	if err != nil {
		return cell.Cell{}, aplerr.New(aplerr.SYNTAX, "malformed number %q", text)
	}
	switch n := v.(type) {
	case int64:
		return cell.NewInt(n), nil
	case float64:
		return cell.NewFloat(n), nil
	case complex128:
		return cell.NewComplex(n), nil
	default:
		return cell.NewInt(0), nil
	}
}

func stringValue(s string) *array.Value {
	rs := []rune(s)
	if len(rs) == 0 {
		return array.NewEmptyCharVector()
	}
	cells := make([]cell.Cell, len(rs))
	for i, r := range rs {
		cells[i] = cell.NewChar(r)
	}
	return array.NewVector(cells)
}

// literalVectorOf folds a parenthesised group's interior (already known
// all-literal) into one value, applying the same splice/enclose rule as
// collapseVectorLiterals since the interior may itself contain nested
// parenthesised-literal groups.
func literalVectorOf(items []Item) (*array.Value, *aplerr.Error) {
	if len(items) == 1 {
		return literalValueOf(items[0])
	}
	return spliceRun(items)
}

func spliceRun(run []Item) (*array.Value, *aplerr.Error) {
	var cells []cell.Cell
	for _, it := range run {
		v, err := literalValueOf(it)
		if err != nil {
			return nil, err
		}
		if it.FromParen {
			cells = append(cells, cell.NewPointer(v))
			continue
		}
		cells = append(cells, v.Ravel()...)
	}
	return array.NewVector(cells), nil
}
