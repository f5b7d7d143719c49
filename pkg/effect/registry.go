package effect

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/quill/pkg/domain"
)

// Registry is an ordered set of effect prototypes keyed by name.
// It is immutable after construction and safe for concurrent use.
type Registry struct {
	order  []string
	protos map[string]Effect
}

// NewRegistry registers prototypes in order. Names must be non-empty and
// unique ignoring case, since tags match case-insensitively.
func NewRegistry(prototypes ...Effect) (*Registry, error) {
	r := &Registry{
		order:  make([]string, 0, len(prototypes)),
		protos: make(map[string]Effect, len(prototypes)),
	}
	folded := make(map[string]string, len(prototypes))
	for _, p := range prototypes {
		name := p.Name()
		if name == "" {
			return nil, fmt.Errorf("%w: empty name for %s effect", ErrInvalidParams, p.Kind())
		}
		key := strings.ToLower(name)
		if prev, exists := folded[key]; exists {
			if prev == name {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateEffect, name)
			}
			return nil, fmt.Errorf("%w: %q collides with %q", ErrDuplicateEffect, name, prev)
		}
		folded[key] = name
		r.order = append(r.order, name)
		r.protos[name] = p.Clone()
	}
	return r, nil
}

// DefaultRegistry returns one default-valued prototype of every kind,
// registered under the kind's name.
func DefaultRegistry() *Registry {
	protos := make([]Effect, 0, len(Kinds))
	for _, k := range Kinds {
		e, _ := New(k, "")
		protos = append(protos, e)
	}
	r, _ := NewRegistry(protos...)
	return r
}

// Pick returns a fresh clone of the prototype registered under exactly name.
func (r *Registry) Pick(name string) (Effect, bool) {
	p, ok := r.protos[name]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Tags returns the registered names in registration order.
func (r *Registry) Tags() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Effects returns clones of every prototype in registration order.
func (r *Registry) Effects() []Effect {
	out := make([]Effect, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.protos[name].Clone())
	}
	return out
}

// Len returns the number of registered effects.
func (r *Registry) Len() int {
	return len(r.order)
}

// Instantiate rebuilds an effect from its serialised form.
func (r *Registry) Instantiate(spec domain.EffectSpec) (Effect, error) {
	e, ok := r.Pick(spec.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, spec.Name)
	}
	configured, err := e.Configure(spec.Params)
	if err != nil {
		return nil, fmt.Errorf("effect %q: %w", spec.Name, err)
	}
	return configured, nil
}

// Fingerprint identifies the registry contents. Two registries with the same
// names, kinds and params in the same order share a fingerprint.
func (r *Registry) Fingerprint() string {
	type entry struct {
		Kind Kind              `json:"kind"`
		Spec domain.EffectSpec `json:"spec"`
	}
	entries := make([]entry, 0, len(r.order))
	for _, name := range r.order {
		p := r.protos[name]
		entries = append(entries, entry{Kind: p.Kind(), Spec: p.Spec()})
	}
	raw, _ := json.Marshal(entries)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8])
}
