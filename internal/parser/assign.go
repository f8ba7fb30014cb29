package parser

import "goapl/internal/token"

// markAssignTargets implements spec.md §4.10's "mark symbols to the left
// of ← as L-SYMB (or, for `(S S … S) ← …`, each symbol inside the
// parentheses as L-SYMB2)". Runs after paren removal/literal folding, so
// a parenthesised strand-assignment target `(A B) ← ...` still has its
// own LParen/Ident/Ident/RParen shape (it is never all-literal, since
// identifiers are not literals, so foldParenLiterals leaves it alone).
func markAssignTargets(items []Item) {
	for i, it := range items {
		if it.Kind != ItemToken || it.Tok.Type != token.Assign {
			continue
		}
		if i == 0 {
			continue
		}
		prev := items[i-1]
		if prev.Kind == ItemToken && prev.Tok.Type == token.RParen {
			markStrandTargets(items, i-1)
			continue
		}
		if prev.Kind == ItemToken && prev.Tok.Type == token.Ident {
			items[i-1].Tok.LSymb = true
		}
	}
}

// markStrandTargets walks backward from a RParen at rparenIdx to its
// matching LParen and marks every identifier inside as L-SYMB2.
func markStrandTargets(items []Item, rparenIdx int) {
	depth := 0
	for i := rparenIdx; i >= 0; i-- {
		it := items[i]
		if it.Kind != ItemToken {
			continue
		}
		switch it.Tok.Type {
		case token.RParen:
			depth++
		case token.LParen:
			depth--
			if depth == 0 {
				return
			}
		case token.Ident:
			if depth == 1 {
				items[i].Tok.LSymb = true
			}
		}
	}
}
