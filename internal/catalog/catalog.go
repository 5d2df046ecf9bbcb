// Package catalog holds named, ready-made extensions that manifests and
// the CLI can merge into wrapper types by name.
package catalog

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/roach88/thevalue/internal/value"
)

// ErrUnknownExtension is returned by Lookup for unregistered names.
var ErrUnknownExtension = errors.New("unknown extension")

// Catalog maps extension names to extensions.
type Catalog struct {
	exts map[string]*value.Extension
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{exts: make(map[string]*value.Extension)}
}

// Default returns a catalog with the built-in extensions registered:
// strings, math, collections and types.
func Default() *Catalog {
	c := New()
	c.MustRegister("strings", Strings())
	c.MustRegister("math", Math())
	c.MustRegister("collections", Collections())
	c.MustRegister("types", Types())
	return c
}

// Register adds ext under name. Names are unique; extensions with a
// builder error are rejected.
func (c *Catalog) Register(name string, ext *value.Extension) error {
	if name == "" {
		return fmt.Errorf("register: extension name must not be empty")
	}
	if ext == nil {
		return fmt.Errorf("register %q: extension is nil", name)
	}
	if err := ext.Err(); err != nil {
		return fmt.Errorf("register %q: %w", name, err)
	}
	if _, exists := c.exts[name]; exists {
		return fmt.Errorf("register %q: already registered", name)
	}
	c.exts[name] = ext
	return nil
}

// MustRegister is like Register but panics on error.
func (c *Catalog) MustRegister(name string, ext *value.Extension) {
	if err := c.Register(name, ext); err != nil {
		panic(err)
	}
}

// Lookup returns the extension registered under name.
func (c *Catalog) Lookup(name string) (*value.Extension, error) {
	ext, ok := c.exts[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownExtension, name, c.Names())
	}
	return ext, nil
}

// Names returns the registered names in sorted order.
func (c *Catalog) Names() []string {
	return slices.Sorted(maps.Keys(c.exts))
}
