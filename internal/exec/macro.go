package exec

import (
	"sync"

	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/parser"
	"goapl/internal/primitive"
)

// Macro is a derived primitive implemented as a fixed line of APL source
// evaluated through the ordinary executable machinery instead of native Go
// — the same choice the original interpreter makes for a handful of
// primitives (monadic ⍕'s default formatting of a nested value, some ⎕EC
// paths) rather than hand-coding every one of them natively
// (SUPPLEMENTED FEATURES "Macro expansion of derived primitives", grounded
// on Macro.cc/Macro.hh's text-body UserFunction subclass).
type Macro struct {
	src string

	once sync.Once
	ex   *parser.Executable
	err  *aplerr.Error
}

func newMacro(src string) *Macro {
	return &Macro{src: src}
}

// compile parses the macro's source once, on first use, and caches the
// Executable the way Macro::init_macros() builds each macro's body once
// at start-up rather than per call.
func (m *Macro) compile() (*parser.Executable, *aplerr.Error) {
	m.once.Do(func() {
		m.ex, m.err = parser.Parse(m.src)
	})
	return m.ex, m.err
}

// run evaluates the macro against a fresh environment with W bound to arg,
// returning the value last assigned.
func (m *Macro) run(arg *array.Value) (*array.Value, *aplerr.Error) {
	ex, err := m.compile()
	if err != nil {
		return nil, err
	}
	env := NewMapEnv()
	if serr := env.Set("W", arg); serr != nil {
		return nil, serr
	}
	ev := NewEvaluator(env)
	fr := NewFrame(ex, env, nil)
	results, rerr := ev.Run(fr)
	if rerr != nil {
		return nil, rerr
	}
	if len(results) == 0 || results[len(results)-1].Value == nil {
		return nil, aplerr.New(aplerr.DOMAIN, "macro produced no value")
	}
	return results[len(results)-1].Value, nil
}

// defaultFormatMacro is monadic ⍕'s fallback for a nested element: format
// each enclosed sub-value, append a separating space to each, then
// disclose the whole thing into one flat character vector.
var defaultFormatMacro = newMacro("Z←∊(⍕¨W),¨' '")

func init() {
	primitive.NestedFormatter = defaultFormatMacro.run
}
