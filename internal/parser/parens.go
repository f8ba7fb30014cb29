package parser

import (
	"goapl/internal/aplerr"
	"goapl/internal/token"
)

// removeRedundantParens implements spec.md §4.10's "remove redundant
// parentheses (`((X…)) → (X…)`; `(X) → X` when X is a single token)":
// repeatedly unwraps any LParen...RParen pair whose interior is exactly
// one item or exactly one parenthesised group, until no more such pairs
// remain.
func removeRedundantParens(items []Item) ([]Item, *aplerr.Error) {
	for {
		lo, hi, found, err := innermostSingletonParen(items)
		if err != nil {
			return nil, err
		}
		if !found {
			return items, nil
		}
		next := make([]Item, 0, len(items)-2)
		next = append(next, items[:lo]...)
		next = append(next, items[lo+1:hi]...)
		next = append(next, items[hi+1:]...)
		items = next
	}
}

// innermostSingletonParen finds the first LParen/RParen pair (matched via a
// stack so nesting is respected) whose interior is a single item or a
// single parenthesised group.
func innermostSingletonParen(items []Item) (lo, hi int, found bool, err *aplerr.Error) {
	var stack []int
	lastOpen, lastClose := -1, -1
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
			if i-open-1 == 1 || (lastOpen == open+1 && lastClose == i-1) {
				return open, i, true, nil
			}
			lastOpen, lastClose = open, i
		}
	}
	return 0, 0, false, nil
}
