package effect

import "fmt"

// Definition describes one registry entry as data, e.g. in quill.yaml:
//
//	effects:
//	  - name: jelly
//	    kind: wobble
//	    params: {strength: 0.02, amplitude: 4}
type Definition struct {
	Name   string         `json:"name" yaml:"name" mapstructure:"name"`
	Kind   Kind           `json:"kind" yaml:"kind" mapstructure:"kind"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
}

// Build constructs a registry from definitions. An empty Kind defaults to the
// kind named like the definition.
func Build(defs []Definition) (*Registry, error) {
	protos := make([]Effect, 0, len(defs))
	for i, def := range defs {
		kind := def.Kind
		if kind == "" {
			kind = Kind(def.Name)
		}
		proto, err := New(kind, def.Name)
		if err != nil {
			return nil, fmt.Errorf("effect #%d: %w", i, err)
		}
		configured, err := proto.Configure(def.Params)
		if err != nil {
			return nil, fmt.Errorf("effect %q: %w", proto.Name(), err)
		}
		protos = append(protos, configured)
	}
	return NewRegistry(protos...)
}

// Definitions returns the data form of every registered prototype.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		p := r.protos[name]
		out = append(out, Definition{Name: name, Kind: p.Kind(), Params: p.Spec().Params})
	}
	return out
}
