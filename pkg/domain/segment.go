package domain

// EffectSpec is the serialisable description of one effect instance.
type EffectSpec struct {
	Name   string         `json:"name" yaml:"name" mapstructure:"name"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
}

// Segment is one animation configuration in serialisable form: a run of plain
// text and the effects applied uniformly to every character of it.
type Segment struct {
	Text    string       `json:"text" yaml:"text"`
	Effects []EffectSpec `json:"effects,omitempty" yaml:"effects,omitempty"`
}
