// Package plugin implements C12 of spec.md §4.13: the native plugin
// contract, a fixed vocabulary of eval entry points a loadable table may
// implement, plus a loader for in-process tables and a control channel for
// out-of-process ones.
package plugin

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
)

// Token is the opaque value handle spec.md §4.13 passes across the plugin
// boundary: either a Value or an error-tagged failure, never both.
type Token struct {
	Value *array.Value
	Err   *aplerr.Error
}

// ValueToken wraps a successful result.
func ValueToken(v *array.Value) Token { return Token{Value: v} }

// ErrorToken wraps a failure the way spec.md §4.13 says errors "are
// conveyed as a token carrying an error code".
func ErrorToken(err *aplerr.Error) Token { return Token{Err: err} }

// IsError reports whether t carries a failure rather than a value.
func (t Token) IsError() bool { return t.Err != nil }

// Func is an operator operand passed across the plugin boundary: the
// L/R-suffixed vocabulary entries (eval_LB, eval_ALRB, ...) receive one of
// these per operand instead of a Token.
type Func func(a, b Token) Token

// Signature is the bitmask get_signature returns: one bit per vocabulary
// entry point (besides get_signature/close_fun themselves) the table
// implements, so the interpreter never probes an entry point blind.
type Signature uint32

const (
	SigEval0 Signature = 1 << iota
	SigEvalB
	SigEvalAB
	SigEvalXB
	SigEvalAXB
	SigEvalLB
	SigEvalALB
	SigEvalLXB
	SigEvalALXB
	SigEvalLRB
	SigEvalALRB
	SigEvalLRXB
	SigEvalALRXB
	SigEvalFillB
	SigEvalFillAB
	SigEvalIdentBx
)

// Has reports whether sig advertises support for entry.
func (sig Signature) Has(entry Signature) bool { return sig&entry != 0 }

// Vocabulary lists the fixed set of dispatch names spec.md §4.13 defines,
// in the order it lists them.
var Vocabulary = []string{
	"get_signature", "close_fun",
	"eval_", "eval_B", "eval_AB", "eval_XB", "eval_AXB",
	"eval_LB", "eval_ALB", "eval_LXB", "eval_ALXB",
	"eval_LRB", "eval_ALRB", "eval_LRXB", "eval_ALRXB",
	"eval_fill_B", "eval_fill_AB", "eval_ident_Bx",
}

// The Go function types a conforming dispatch entry must return, one per
// vocabulary name above (after get_signature/close_fun, which have their
// own fixed shapes — see Bind).
type (
	Func0       func() Token
	FuncB       func(b Token) Token
	FuncAB      func(a, b Token) Token
	FuncXB      func(x, b Token) Token
	FuncAXB     func(a, x, b Token) Token
	FuncLB      func(l Func, b Token) Token
	FuncALB     func(a Token, l Func, b Token) Token
	FuncLXB     func(l Func, x, b Token) Token
	FuncALXB    func(a Token, l Func, x, b Token) Token
	FuncLRB     func(l, r Func, b Token) Token
	FuncALRB    func(a Token, l, r Func, b Token) Token
	FuncLRXB    func(l, r Func, x, b Token) Token
	FuncALRXB   func(a Token, l, r Func, x, b Token) Token
	FuncFillB   func(b Token) Token
	FuncFillAB  func(a, b Token) Token
	FuncIdentBx func(b Token, axis int) Token
)

// Dispatcher is the single function spec.md §4.13 requires every plugin to
// expose: given a vocabulary name, return the matching entry point (one of
// the Func* types above) or nil if the table doesn't implement it.
type Dispatcher func(name string) any
