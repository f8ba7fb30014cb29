package exec

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/parser"
)

// State is a StateIndicator entry's run state (spec.md §4.9).
type State int

const (
	Running State = iota
	SuspendedAtCall
	ErrorState
	Terminated
)

// Frame is one StateIndicator entry: an Executable being stepped through,
// the statement index to resume at, the Environment it evaluates against,
// and a link to the caller frame it will resume when it completes —
// grounded on the teacher's EnhancedCallFrame (internal/vm), generalised
// from a bytecode instruction pointer to a statement index since this
// runtime interprets the flat Item list directly rather than compiling it.
type Frame struct {
	Exec     *parser.Executable
	StmtIdx  int
	Env      Environment
	State    State
	Err      *aplerr.Error
	Caller   *Frame
	eocChain []EOCHandler
}

// NewFrame starts a fresh StateIndicator entry at statement 0.
func NewFrame(ex *parser.Executable, env Environment, caller *Frame) *Frame {
	return &Frame{Exec: ex, Env: env, State: Running, Caller: caller}
}

// Result is the outcome of evaluating one statement: either a value (and
// whether it came from an assignment, which suppresses display in an
// interactive session), or a branch directive.
type Result struct {
	Value      *array.Value
	Assigned   bool
	BranchTo   *int
	BranchExit bool
}
