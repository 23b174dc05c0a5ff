package skin

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/vitae/pkg/errors"
)

//go:embed skins.toml
var builtin []byte

// Registry is an ordered, read-only set of skins keyed by ID.
// It is safe for concurrent use once built.
type Registry struct {
	order []*Skin
	byID  map[string]*Skin
}

// NewRegistry validates skins and indexes them in the given order.
// Duplicate IDs are rejected.
func NewRegistry(skins ...Skin) (*Registry, error) {
	r := &Registry{byID: make(map[string]*Skin, len(skins))}
	for i := range skins {
		s := skins[i]
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate skin id %q", s.ID)
		}
		r.order = append(r.order, &s)
		r.byID[s.ID] = &s
	}
	if len(r.order) == 0 {
		return nil, fmt.Errorf("registry has no skins")
	}
	return r, nil
}

type skinFile struct {
	Skins []Skin `toml:"skins"`
}

// Parse builds a registry from a TOML document with a [[skins]] array.
func Parse(data []byte) (*Registry, error) {
	var f skinFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse skins: %w", err)
	}
	return NewRegistry(f.Skins...)
}

// LoadFile builds a registry from a TOML file on disk.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skins: %w", err)
	}
	return Parse(data)
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the registry of built-in skins. It panics if the embedded
// table is malformed, which can only happen at build time.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := Parse(builtin)
		if err != nil {
			panic("skin: embedded skins.toml: " + err.Error())
		}
		defaultReg = r
	})
	return defaultReg
}

// Lookup returns the skin with the given ID.
func (r *Registry) Lookup(id string) (*Skin, error) {
	if s, ok := r.byID[id]; ok {
		return s, nil
	}
	return nil, errors.New(errors.ErrCodeUnknownTemplate, "unknown template: %q", id)
}

// List returns every skin in declaration order.
func (r *Registry) List() []*Skin {
	out := make([]*Skin, len(r.order))
	copy(out, r.order)
	return out
}

// IDs returns every skin ID in declaration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	for i, s := range r.order {
		ids[i] = s.ID
	}
	return ids
}
