package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/primitive"
)

// colorer wraps a string in an ANSI colour code when the destination is a
// real terminal; go-isatty is checked once at startup and cached here the
// way a CLI entrypoint — never the engine — is allowed to care about
// terminal capabilities.
type colorer struct {
	enabled bool
}

func newColorer(f *os.File) colorer {
	return colorer{enabled: isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())}
}

func (c colorer) wrap(code, s string) string {
	if !c.enabled {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

func (c colorer) red(s string) string    { return c.wrap("31", s) }
func (c colorer) yellow(s string) string { return c.wrap("33", s) }

var stderrColor = newColorer(os.Stderr)

// printResult displays one statement's value the way an interactive APL
// session does: suppressed entirely for an assignment, otherwise rendered
// through ⍕'s default format.
func printResult(w io.Writer, v *array.Value, assigned bool) {
	if assigned || v == nil {
		return
	}
	formatted := primitive.Format(v, primitive.FormatOpts{PP: 10, PW: 80})
	fmt.Fprintln(w, renderChars(formatted))
}

func renderChars(v *array.Value) string {
	rs := make([]rune, v.ElementCount())
	for i := range rs {
		rs[i] = v.At(i).Rune()
	}
	return string(rs)
}

// printError displays an *Error the way spec.md §7 describes: the kind and
// message, the offending source line, and the two-caret underline beneath
// it, coloured red on a real terminal.
func printError(w io.Writer, err *aplerr.Error) {
	fmt.Fprintln(w, stderrColor.red(err.Error()))
}
