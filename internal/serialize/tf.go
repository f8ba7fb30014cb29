package serialize

import (
	"fmt"
	"sort"

	"goapl/internal/aplerr"
	"goapl/internal/array"
)

// TransferForm is `⎕TF`'s left-argument selector (spec.md §4.12's heading
// names "3 ⎕TF" without describing the surface itself; carried forward
// from the original's Quad_TF.cc, see DESIGN.md "supplemented features"):
// 1 selects the plain APL source-text transfer form, 2 the extended text
// form (adds value-sharing annotations), 3 the CDR binary form.
type TransferForm int

const (
	TFText TransferForm = 1 + iota
	TFExtendedText
	TFBinary
)

// TransferText implements forms 1 and 2: a `)DUMP`-style `name←value`
// listing, one assignment per line in name order. Form 2 additionally
// prefixes a line recording which names currently alias the very same
// Value (the extended form's value-sharing annotation) rather than
// silently re-encoding the shared value once per alias.
func TransferText(form TransferForm, vars map[string]*array.Value, render func(*array.Value) string) (string, *aplerr.Error) {
	if form != TFText && form != TFExtendedText {
		return "", aplerr.New(aplerr.DOMAIN, "⎕TF form %d is not a text form", form)
	}
	names := make([]string, 0, len(vars))
	for n := range vars {
		names = append(names, n)
	}
	sort.Strings(names)

	var out string
	if form == TFExtendedText {
		byIdentity := map[*array.Value][]string{}
		for _, n := range names {
			v := vars[n]
			byIdentity[v] = append(byIdentity[v], n)
		}
		for _, n := range names {
			aliases := byIdentity[vars[n]]
			if len(aliases) > 1 && aliases[0] == n {
				out += fmt.Sprintf("⍝ shared: %v\n", aliases)
			}
		}
	}
	for _, n := range names {
		out += fmt.Sprintf("%s←%s\n", n, render(vars[n]))
	}
	return out, nil
}

// TransferBinary implements form 3: one CDR record per named value,
// concatenated in name order (spec.md §4.12 "3 ⎕TF").
func TransferBinary(vars map[string]*array.Value) ([]byte, *aplerr.Error) {
	names := make([]string, 0, len(vars))
	for n := range vars {
		names = append(names, n)
	}
	sort.Strings(names)

	var out []byte
	for _, n := range names {
		rec, err := EncodeCDR(vars[n])
		if err != nil {
			return nil, err
		}
		out = append(out, rec...)
	}
	return out, nil
}
