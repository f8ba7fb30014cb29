package serialize

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/cell"
)

// Archive is the top-level document of spec.md §4.12's XML archive
// format: workspace metadata, a pool of Value shape declarations keyed by
// integer vid, a pool of Ravel elements, then the symbol table. Parent/
// child relationships among nested values are recorded as `parent=<vid>`;
// LoadArchive rebuilds nesting from the `U6<vid>` references in each Ravel
// and does not read `parent`.
type Archive struct {
	XMLName      xml.Name       `xml:"Workspace"`
	Name         string         `xml:"name,attr"`
	Timestamp    string         `xml:"timestamp,attr"`
	TZOffset     int            `xml:"tzoffset,attr"`
	ToolRevision string         `xml:"revision,attr"`
	Values       []valueDecl    `xml:"Value"`
	Ravels       []ravelElem    `xml:"Ravel"`
	Symbols      []symbolEntry  `xml:"SymbolTable>Symbol"`
}

type valueDecl struct {
	Vid    int    `xml:"vid,attr"`
	Rank   int    `xml:"rank,attr"`
	Shape  string `xml:"shape,attr"`
	Parent int    `xml:"parent,attr,omitempty"`
}

type ravelElem struct {
	Vid  int    `xml:"vid,attr"`
	Data string `xml:",chardata"`
}

type symbolEntry struct {
	Name string `xml:"name,attr"`
	Vid  int    `xml:"vid,attr"`
}

// encoder assigns a stable vid to every Value reachable from the saved
// variable set and detects cycles (spec.md §5 "the design chooses to
// forbid cycles at check_value time").
type encoder struct {
	ids      map[*array.Value]int
	visiting map[*array.Value]bool
	next     int
	archive  *Archive
}

// BuildArchive serialises a name→Value variable set into the XML archive
// of spec.md §4.12. StateIndicator entries are omitted: this build has no
// `∇`-defined function call frames to suspend (see DESIGN.md).
func BuildArchive(wsid string, vars map[string]*array.Value, meta ArchiveMeta) (*Archive, *aplerr.Error) {
	a := &Archive{Name: wsid, Timestamp: meta.Timestamp, TZOffset: meta.TZOffset, ToolRevision: meta.ToolRevision}
	enc := &encoder{ids: map[*array.Value]int{}, visiting: map[*array.Value]bool{}, archive: a}
	for _, name := range sortedKeys(vars) {
		vid, err := enc.visit(vars[name], 0)
		if err != nil {
			return nil, err
		}
		a.Symbols = append(a.Symbols, symbolEntry{Name: name, Vid: vid})
	}
	return a, nil
}

// ArchiveMeta is the workspace metadata spec.md §4.12 lists alongside the
// value/ravel/symbol pools.
type ArchiveMeta struct {
	Timestamp    string
	TZOffset     int
	ToolRevision string
}

func sortedKeys(m map[string]*array.Value) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	return names
}

func (e *encoder) visit(v *array.Value, parent int) (int, *aplerr.Error) {
	if id, ok := e.ids[v]; ok {
		return id, nil
	}
	if e.visiting[v] {
		return 0, aplerr.New(aplerr.DOMAIN, "cyclic value cannot be serialised")
	}
	e.visiting[v] = true
	defer delete(e.visiting, v)

	vid := e.next
	e.next++
	// e.ids[v] is set only once the value is fully encoded below — while
	// e.visiting[v] is true a recursive visit of the same Value is a
	// genuine cycle (spec.md §5 "the design chooses to forbid cycles at
	// check_value time"), not an already-completed shared reference.

	dims := make([]string, v.Rank())
	for i, d := range v.Shape() {
		dims[i] = strconv.Itoa(d)
	}
	e.archive.Values = append(e.archive.Values, valueDecl{Vid: vid, Rank: v.Rank(), Shape: strings.Join(dims, " "), Parent: parent})

	var tokens []string
	for _, c := range v.Ravel() {
		tok, err := e.encodeCell(c, vid)
		if err != nil {
			return 0, err
		}
		tokens = append(tokens, tok)
	}
	e.archive.Ravels = append(e.archive.Ravels, ravelElem{Vid: vid, Data: strings.Join(tokens, " ")})
	e.ids[v] = vid
	return vid, nil
}

func (e *encoder) encodeCell(c cell.Cell, parent int) (string, *aplerr.Error) {
	switch c.Tag() {
	case cell.Char:
		if c.Rune() <= 0x7F {
			return fmt.Sprintf("U0%c", c.Rune()), nil
		}
		return fmt.Sprintf("U1%X", c.Rune()), nil
	case cell.Int:
		return fmt.Sprintf("U3%d", c.Int()), nil
	case cell.Float:
		return fmt.Sprintf("U4%g", c.Float()), nil
	case cell.Complex:
		z := c.Complex()
		return fmt.Sprintf("U5%gJ%g", real(z), imag(z)), nil
	case cell.Pointer:
		sub, ok := c.Pointer().(*array.Value)
		if !ok {
			return "", aplerr.New(aplerr.DOMAIN, "cannot serialise non-array nested cell")
		}
		vid, err := e.visit(sub, parent)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("U6%d", vid), nil
	case cell.LValue:
		return "", aplerr.New(aplerr.DOMAIN, "L-value cells are statement-scoped and cannot be serialised")
	}
	return "", aplerr.New(aplerr.DOMAIN, "unknown cell tag")
}

// Marshal renders the archive as indented UTF-8 XML with the standard
// declaration spec.md §6 requires.
func Marshal(a *Archive) ([]byte, error) {
	body, err := xml.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

// LoadArchive reverses BuildArchive: reconstructs every declared Value
// from its Ravel tokens, then resolves the symbol table to a name→Value
// map (`)LOAD`).
func LoadArchive(a *Archive) (map[string]*array.Value, *aplerr.Error) {
	ravelByVid := map[int]string{}
	for _, r := range a.Ravels {
		ravelByVid[r.Vid] = r.Data
	}
	values := map[int]*array.Value{}
	for _, vd := range a.Values {
		v, err := decodeValueDecl(vd, ravelByVid, values, a)
		if err != nil {
			return nil, err
		}
		values[vd.Vid] = v
	}
	out := map[string]*array.Value{}
	for _, s := range a.Symbols {
		v, ok := values[s.Vid]
		if !ok {
			return nil, aplerr.New(aplerr.SYNTAX, "symbol %s references unknown vid %d", s.Name, s.Vid)
		}
		out[s.Name] = v
	}
	return out, nil
}

func decodeValueDecl(vd valueDecl, ravels map[int]string, values map[int]*array.Value, a *Archive) (*array.Value, *aplerr.Error) {
	if v, ok := values[vd.Vid]; ok {
		return v, nil
	}
	var shape array.Shape
	if vd.Shape != "" {
		for _, f := range strings.Fields(vd.Shape) {
			d, err := strconv.Atoi(f)
			if err != nil {
				return nil, aplerr.New(aplerr.SYNTAX, "bad shape dimension %q", f)
			}
			shape = append(shape, d)
		}
	}
	v, err := array.New(shape)
	if err != nil {
		return nil, err
	}
	values[vd.Vid] = v

	tokens := strings.Fields(ravels[vd.Vid])
	for i, tok := range tokens {
		c, derr := decodeCellToken(tok, values, ravels, a)
		if derr != nil {
			return nil, derr
		}
		v.Set(i, c)
	}
	return v, nil
}

func decodeCellToken(tok string, values map[int]*array.Value, ravels map[int]string, a *Archive) (cell.Cell, *aplerr.Error) {
	if len(tok) < 2 {
		return cell.Cell{}, aplerr.New(aplerr.SYNTAX, "malformed ravel token %q", tok)
	}
	mode, rest := tok[:2], tok[2:]
	switch mode {
	case "U0":
		return cell.NewChar(rune(rest[0])), nil
	case "U1":
		n, err := strconv.ParseInt(rest, 16, 32)
		if err != nil {
			return cell.Cell{}, aplerr.New(aplerr.SYNTAX, "bad unicode token %q", tok)
		}
		return cell.NewChar(rune(n)), nil
	case "U3":
		n, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return cell.Cell{}, aplerr.New(aplerr.SYNTAX, "bad integer token %q", tok)
		}
		return cell.NewInt(n), nil
	case "U4":
		f, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return cell.Cell{}, aplerr.New(aplerr.SYNTAX, "bad float token %q", tok)
		}
		return cell.NewFloat(f), nil
	case "U5":
		parts := strings.SplitN(rest, "J", 2)
		if len(parts) != 2 {
			return cell.Cell{}, aplerr.New(aplerr.SYNTAX, "bad complex token %q", tok)
		}
		re, err1 := strconv.ParseFloat(parts[0], 64)
		im, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil {
			return cell.Cell{}, aplerr.New(aplerr.SYNTAX, "bad complex token %q", tok)
		}
		return cell.NewComplex(complex(re, im)), nil
	case "U6":
		vid, err := strconv.Atoi(rest)
		if err != nil {
			return cell.Cell{}, aplerr.New(aplerr.SYNTAX, "bad sub-value reference %q", tok)
		}
		var vd valueDecl
		found := false
		for _, cand := range a.Values {
			if cand.Vid == vid {
				vd, found = cand, true
				break
			}
		}
		if !found {
			return cell.Cell{}, aplerr.New(aplerr.SYNTAX, "unresolved sub-value vid %d", vid)
		}
		sub, derr := decodeValueDecl(vd, ravels, values, a)
		if derr != nil {
			return cell.Cell{}, derr
		}
		return cell.NewPointer(sub), nil
	}
	return cell.Cell{}, aplerr.New(aplerr.SYNTAX, "unknown ravel mode %q", mode)
}
