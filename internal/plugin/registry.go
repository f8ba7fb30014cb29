package plugin

import (
	stdplugin "plugin"
	"sync"

	"goapl/internal/aplerr"
)

// Registry tracks every loaded native plugin table by name (spec.md
// §4.13's "a plugin is a file loadable at runtime").
type Registry struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tables: map[string]*Table{}}
}

// Load opens a Go plugin (.so) at path and binds its exported Dispatch
// symbol as the vocabulary lookup function spec.md §4.13 requires. Go's
// own plugin package is the literal runtime-loadable-native-code mechanism
// the contract describes — there is nothing in the pack's ecosystem
// libraries that loads native code more directly (see DESIGN.md).
func (r *Registry) Load(name, path string) (*Table, *aplerr.Error) {
	p, oerr := stdplugin.Open(path)
	if oerr != nil {
		return nil, aplerr.Wrap(aplerr.DOMAIN, oerr, "cannot load plugin %s", name)
	}
	sym, lerr := p.Lookup("Dispatch")
	if lerr != nil {
		return nil, aplerr.Wrap(aplerr.DOMAIN, lerr, "plugin %s has no Dispatch symbol", name)
	}
	d, ok := sym.(func(string) any)
	if !ok {
		return nil, aplerr.New(aplerr.DOMAIN, "plugin %s: Dispatch has the wrong signature", name)
	}
	t, berr := Bind(name, Dispatcher(d))
	if berr != nil {
		return nil, berr
	}
	r.mu.Lock()
	r.tables[name] = t
	r.mu.Unlock()
	return t, nil
}

// Register installs an already-bound table directly, bypassing
// stdplugin.Open — used for tables backed by a remote connection (see
// host.go) rather than an on-disk .so file.
func (r *Registry) Register(t *Table) {
	r.mu.Lock()
	r.tables[t.Name] = t
	r.mu.Unlock()
}

// Get returns the table registered under name, if any.
func (r *Registry) Get(name string) (*Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[name]
	return t, ok
}

// Unload closes and removes the table registered under name.
func (r *Registry) Unload(name string) {
	r.mu.Lock()
	t, ok := r.tables[name]
	delete(r.tables, name)
	r.mu.Unlock()
	if ok {
		t.Close()
	}
}

// Names lists every currently registered plugin name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tables))
	for n := range r.tables {
		names = append(names, n)
	}
	return names
}
