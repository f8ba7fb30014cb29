package primitive

import (
	"fmt"
	"strconv"
	"strings"

	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/cell"
)

// FormatOpts carries print settings for monadic ⍕ (spec.md §4.4 "Format
// (⍕)"). Only PP is read: PW and FC are not consulted, so output is not
// wrapped and no format-control characters apply. Every caller passes fixed
// values (PP 10), not the workspace's ⎕PP/⎕PW/⎕FC.
type FormatOpts struct {
	PP int    // print precision, 1..34
	PW int    // print width, >=30
	FC string // 6-char format-control string
}

// NestedFormatter renders a nested (boxed) element encountered while
// formatting an array, when set. internal/exec wires this at start-up to
// the default-format macro (SUPPLEMENTED FEATURES "Macro expansion of
// derived primitives"), so a nested cell's display comes from evaluating
// ⍕ again through the ordinary executable machinery rather than from
// hand-rolled recursion in this package. Left nil, formatCell falls back
// to a plain placeholder (e.g. in tests that construct primitive.Format
// directly, with no evaluator wired in).
var NestedFormatter func(*array.Value) (*array.Value, *aplerr.Error)

// Format implements monadic ⍕B: render B as a simple character vector using
// opts.PP as the print precision; the rows of a higher-rank B are joined
// with newlines.
func Format(b *array.Value, opts FormatOpts) *array.Value {
	s := formatValue(b, opts.PP)
	return array.NewVector(runesToCells(s))
}

// FormatWidth implements dyadic W⍕B: W gives an explicit width (and, for a
// 2-element W, decimal count) per numeric element (spec.md §4.4).
func FormatWidth(w, b *array.Value) (*array.Value, *aplerr.Error) {
	dims, err := IntVector(w)
	if err != nil {
		return nil, err
	}
	width := 0
	decimals := -1
	if len(dims) >= 1 {
		width = dims[0]
	}
	if len(dims) >= 2 {
		decimals = dims[1]
	}
	var parts []string
	for _, c := range b.Ravel() {
		var s string
		if decimals >= 0 && c.IsNumeric() {
			s = strconv.FormatFloat(c.Float(), 'f', decimals, 64)
		} else {
			s = c.String()
		}
		if width > 0 {
			s = padLeft(s, width)
		}
		parts = append(parts, s)
	}
	joined := strings.Join(parts, " ")
	return array.NewVector(runesToCells(joined)), nil
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func runesToCells(s string) []cell.Cell {
	rs := []rune(s)
	cells := make([]cell.Cell, len(rs))
	for i, r := range rs {
		cells[i] = cell.NewChar(r)
	}
	if len(cells) == 0 {
		cells = []cell.Cell{cell.Space}
	}
	return cells
}

func formatValue(v *array.Value, pp int) string {
	if v.Rank() == 0 {
		return formatCell(v.At(0), pp)
	}
	if v.Rank() == 1 {
		// a simple character vector displays as plain text
		if isCharVector(v) {
			var sb strings.Builder
			for _, c := range v.Ravel() {
				sb.WriteRune(c.Rune())
			}
			return sb.String()
		}
		var parts []string
		for _, c := range v.Ravel() {
			parts = append(parts, formatCell(c, pp))
		}
		return strings.Join(parts, " ")
	}
	bs := v.Shape()
	rowSize := 1
	for i := 1; i < len(bs); i++ {
		rowSize *= bs[i]
	}
	var rows []string
	for r := 0; r < bs[0]; r++ {
		var parts []string
		for c := 0; c < rowSize; c++ {
			parts = append(parts, formatCell(v.At(r*rowSize+c), pp))
		}
		rows = append(rows, strings.Join(parts, " "))
	}
	return strings.Join(rows, "\n")
}

func isCharVector(v *array.Value) bool {
	for _, c := range v.Ravel() {
		if !c.IsChar() {
			return false
		}
	}
	return true
}

func formatCell(c cell.Cell, pp int) string {
	if c.IsNested() {
		if NestedFormatter != nil {
			if v, ok := c.Pointer().(*array.Value); ok {
				if out, err := NestedFormatter(v); err == nil {
					var sb strings.Builder
					for _, rc := range out.Ravel() {
						sb.WriteRune(rc.Rune())
					}
					return sb.String()
				}
			}
		}
		return "<nested>"
	}
	if c.IsChar() {
		return string(c.Rune())
	}
	if c.Tag().String() == "Int" {
		return fmt.Sprintf("%d", c.Int())
	}
	return strconv.FormatFloat(c.Float(), 'g', pp, 64)
}
