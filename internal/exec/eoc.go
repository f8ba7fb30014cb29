package exec

// EOCHandler is a bookkeeping entry an operator installs while one of its
// operand calls is running (spec.md §4.9's "the operator installs an EOC
// handler so the next line of execution resumes the operator's own
// reduction once the call returns"). Because this runtime evaluates
// derived functions with ordinary blocking Go calls rather than a
// stackless bytecode VM, the continuation itself needs no bookkeeping —
// the Go call stack already resumes the operator's loop when the nested
// call returns. What the chain still buys is observability (a `)SI`-style
// listing of which operator is suspended on what) and a way to notify an
// in-flight operator when the frame is cancelled (interrupt, spec.md
// §4.9's INTERRUPT kind). No operator in internal/operator calls PushEOC,
// so the chain is empty unless a caller installs a handler itself.
type EOCHandler struct {
	Operator string
	Cancel   func()
}

// PushEOC installs h for the duration of an operand call and returns the
// function that uninstalls it; callers use `defer fr.PushEOC(h)()`.
func (fr *Frame) PushEOC(h EOCHandler) func() {
	fr.eocChain = append(fr.eocChain, h)
	idx := len(fr.eocChain) - 1
	return func() {
		fr.eocChain = append(fr.eocChain[:idx], fr.eocChain[idx+1:]...)
	}
}

// SuspendedOperators lists the installed EOC handlers innermost first, for
// )SI-style introspection.
func (fr *Frame) SuspendedOperators() []string {
	names := make([]string, len(fr.eocChain))
	for i, h := range fr.eocChain {
		names[len(fr.eocChain)-1-i] = h.Operator
	}
	return names
}

// Cancel notifies every installed handler, innermost first, and marks the
// frame Terminated — the soft-interrupt path (spec.md §4.9 INTERRUPT).
func (fr *Frame) Cancel() {
	for i := len(fr.eocChain) - 1; i >= 0; i-- {
		if fr.eocChain[i].Cancel != nil {
			fr.eocChain[i].Cancel()
		}
	}
	fr.State = Terminated
}
