package workspace

import (
	"fmt"
	"strings"

	"goapl/internal/array"
	"goapl/internal/primitive"
)

// Dump implements spec.md §6's `)DUMP`: a text listing of every variable
// binding of this one as `name←value`, value rendered by formatLiteral
// (which says which lines reproduce their binding when executed).
// Functions and state-indicator entries belong to the `∇`-defined function
// machinery this build does not implement (see DESIGN.md); only variable
// bindings are listed.
func (w *Workspace) Dump() string {
	var b strings.Builder
	for _, name := range w.symbols.VariableNames() {
		v, ok := w.Get(name)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s←%s\n", name, formatLiteral(v))
	}
	return b.String()
}

// formatLiteral renders v with ⍕'s default monadic format at PP 10. Typed
// back in, that reproduces a numeric scalar or a numeric vector with no
// negative element and no more than 10 significant digits per element. A
// character value is written without quotes, a negative vector element
// with `-` rather than `¯`, and a matrix as newline-separated rows without
// its shape, so those lines do not reproduce the binding.
func formatLiteral(v *array.Value) string {
	formatted := primitive.Format(v, primitive.FormatOpts{PP: 10, PW: 1 << 20})
	return charValueToString(formatted)
}

func charValueToString(v *array.Value) string {
	rs := make([]rune, v.ElementCount())
	for i := range rs {
		rs[i] = v.At(i).Rune()
	}
	return string(rs)
}
