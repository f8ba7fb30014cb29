// Package parser implements the two-pass APL parser of spec.md §4.10: split
// the token stream on ◇ into statements, then within each statement remove
// redundant parentheses, constant-fold and collapse literal runs into
// vector-literal value tokens, and mark assignment targets. Unlike the
// teacher's internal/parser (which builds a Stmt/Expr AST), this produces a
// flat Executable of Items per spec.md §4.9's prefix-parser architecture:
// the right-to-left runtime scanner in internal/exec does the actual
// reduction, so there is no tree here — only a cleaned-up token strand.
package parser

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/token"
)

// ItemKind distinguishes a raw passthrough token from a folded literal
// value produced by vector-literal collapsing.
type ItemKind int

const (
	ItemToken ItemKind = iota
	ItemValue
)

// Item is one element of a parsed statement: either an unresolved token
// (primitive, identifier, quad name, assignment arrow, parenthesis,
// branch arrow) or a folded constant value.
type Item struct {
	Kind  ItemKind
	Tok   token.Token
	Value *array.Value
	// FromParen marks a folded literal that came from a parenthesised
	// sub-expression (as opposed to a bare NUMBER/STRING token); when
	// merged into a larger literal run it must be enclosed rather than
	// spliced, per spec.md §4.10's "parenthesised-value tokens" rule.
	FromParen bool
}

// Statement is one ◇-delimited unit of a parsed line.
type Statement struct {
	Items []Item
}

// Executable is the parsed form of one line of source: the unit
// internal/exec pushes onto a StateIndicator frame (spec.md §4.9).
type Executable struct {
	Source     string
	Statements []Statement
}

// Parse tokenizes and parses one line of source per spec.md §4.10.
func Parse(source string) (*Executable, *aplerr.Error) {
	toks, err := token.NewScanner(source).ScanTokens()
	if err != nil {
		return nil, err
	}
	body := stripEOF(toks)
	if err := validateBrackets(body); err != nil {
		return nil, err
	}
	groups := splitOnDiamond(body)
	ex := &Executable{Source: source}
	for _, g := range groups {
		items := tokensToItems(g)
		items, err := removeRedundantParens(items)
		if err != nil {
			return nil, err
		}
		items, err = foldParenLiterals(items)
		if err != nil {
			return nil, err
		}
		items, err = collapseVectorLiterals(items)
		if err != nil {
			return nil, err
		}
		markAssignTargets(items)
		ex.Statements = append(ex.Statements, Statement{Items: items})
	}
	return ex, nil
}

func stripEOF(toks []token.Token) []token.Token {
	if len(toks) > 0 && toks[len(toks)-1].Type == token.EOF {
		toks = toks[:len(toks)-1]
	}
	if len(toks) == 1 && toks[0].Type == token.Void {
		return nil
	}
	return toks
}

func tokensToItems(toks []token.Token) []Item {
	items := make([]Item, len(toks))
	for i, t := range toks {
		items[i] = Item{Kind: ItemToken, Tok: t}
	}
	return items
}

// splitOnDiamond implements spec.md §4.10 parser pass 1: "Split on ◇ into
// statements."
func splitOnDiamond(toks []token.Token) [][]token.Token {
	var groups [][]token.Token
	var cur []token.Token
	for _, t := range toks {
		if t.Type == token.Diamond {
			groups = append(groups, cur)
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	groups = append(groups, cur)
	return groups
}

// validateBrackets enforces spec.md §4.10 "Mismatched brackets/parentheses
// raise SYNTAX_ERROR."
func validateBrackets(toks []token.Token) *aplerr.Error {
	var parens, brackets int
	for _, t := range toks {
		switch t.Type {
		case token.LParen:
			parens++
		case token.RParen:
			parens--
		case token.LBracket:
			brackets++
		case token.RBracket:
			brackets--
		}
		if parens < 0 || brackets < 0 {
			return aplerr.New(aplerr.SYNTAX, "mismatched closing bracket").At(aplerr.Location{Line: t.Line, TokenCaret: t.Col})
		}
	}
	if parens != 0 || brackets != 0 {
		return aplerr.New(aplerr.SYNTAX, "mismatched brackets")
	}
	return nil
}
