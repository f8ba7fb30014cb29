package wslib

import (
	"os"
	"path/filepath"

	"goapl/internal/aplerr"
)

// Resolve finds the on-disk archive for wsid: first consults the catalog
// for a recorded path, then falls back to scanning the library search
// path for `<wsid>.xml` (spec.md §6's `)LOAD wsid` / search-library
// lookup).
func (c *Catalog) Resolve(wsid string) (string, *aplerr.Error) {
	if e, ok, err := c.Lookup(wsid); err != nil {
		return "", err
	} else if ok {
		if _, statErr := os.Stat(e.Path); statErr == nil {
			return e.Path, nil
		}
	}

	dirs, err := c.SearchPath()
	if err != nil {
		return "", err
	}
	for _, dir := range dirs {
		candidate := filepath.Join(dir, wsid+".xml")
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, nil
		}
	}
	return "", aplerr.New(aplerr.VALUE, "workspace %s not found in catalog or search path", wsid)
}
