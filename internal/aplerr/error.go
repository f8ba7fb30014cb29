// Package aplerr defines the error taxonomy shared across the evaluation
// engine: every scalar function, structural primitive, operator, tokenizer
// and parser failure resolves to one of these kinds and unwinds through the
// same caret-annotated display.
package aplerr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind is one APL error category (⎕ET major class).
type Kind string

const (
	VALUE       Kind = "VALUE ERROR"
	SYNTAX      Kind = "SYNTAX ERROR"
	DOMAIN      Kind = "DOMAIN ERROR"
	LENGTH      Kind = "LENGTH ERROR"
	RANK        Kind = "RANK ERROR"
	INDEX       Kind = "INDEX ERROR"
	AXIS        Kind = "AXIS ERROR"
	LEFT_SYNTAX Kind = "LEFT SYNTAX ERROR"
	INTERRUPT   Kind = "INTERRUPT"
	NO_TOKEN    Kind = "NO TOKEN"
	STRING_END  Kind = "STRING NOT TERMINATED"
	OK          Kind = ""
)

// ordinal gives each Kind a stable minor code for ⎕ET.
var ordinal = map[Kind]int{
	OK: 0, VALUE: 1, SYNTAX: 2, DOMAIN: 3, LENGTH: 4, RANK: 5, INDEX: 6,
	AXIS: 7, LEFT_SYNTAX: 8, INTERRUPT: 9, NO_TOKEN: 10, STRING_END: 11,
}

// Location is the caret position of a failure inside one source line:
// TokenCaret marks the token that failed, ExprCaret marks the start of the
// containing expression, matching the two-caret display of spec.md §7.
type Location struct {
	File       string
	Line       int
	TokenCaret int
	ExprCaret  int
}

// Error is the control-flow value every engine operation returns on
// failure; the frame driver in internal/exec unwinds on a non-nil *Error
// exactly the way the teacher's evaluator unwinds on *SentraError.
type Error struct {
	Kind    Kind
	Message string
	Loc     Location
	Source  string // the offending source line, for caret display
	Cause   error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.Source != "" {
		sb.WriteByte('\n')
		sb.WriteString(e.Source)
		sb.WriteByte('\n')
		sb.WriteString(caretLine(e.Source, e.Loc.TokenCaret, e.Loc.ExprCaret))
	}
	if e.Cause != nil {
		sb.WriteString("\n  caused by: ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap lets errors.Is/errors.As (and github.com/pkg/errors.Cause) see
// through to the underlying cause, e.g. an *os.PathError from the workspace
// library or a native-plugin I/O failure.
func (e *Error) Unwrap() error { return e.Cause }

// caretLine renders the two-caret underline: "^" at the failing token,
// a second "^" at the start of the containing expression.
func caretLine(source string, tokenCol, exprCol int) string {
	n := len(source)
	if tokenCol > n {
		tokenCol = n
	}
	if exprCol > n {
		exprCol = n
	}
	lo, hi := exprCol, tokenCol
	mark := "^"
	if lo > hi {
		lo, hi = hi, lo
	}
	line := make([]byte, hi+1)
	for i := range line {
		line[i] = ' '
	}
	if exprCol >= 0 && exprCol < len(line) {
		line[exprCol] = '^'
	}
	if tokenCol >= 0 && tokenCol < len(line) && tokenCol != exprCol {
		line[tokenCol] = '^'
	}
	_ = mark
	return string(line)
}

// New builds a bare error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// At attaches a source location to an existing error, returning a new
// value so call sites can chain: `return aplerr.New(aplerr.DOMAIN, "...").At(loc)`.
func (e *Error) At(loc Location) *Error {
	e2 := *e
	e2.Loc = loc
	return &e2
}

// WithSource attaches the offending source line for caret display.
func (e *Error) WithSource(src string) *Error {
	e2 := *e
	e2.Source = src
	return &e2
}

// Wrap attaches a lower-level cause (e.g. a driver error from
// internal/wslib, or a transport error from internal/plugin) while keeping
// the APL Kind in front, using pkg/errors so %+v still prints a stack.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: errors.WithStack(cause)}
}

// ET returns the ⎕ET major/minor pair for kind.
func ET(kind Kind) (major, minor int) {
	if kind == OK {
		return 0, 0
	}
	return 1, ordinal[kind]
}

// Is reports whether err is an *Error of the given kind (errors.As under
// the hood, so it also matches wrapped errors).
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
