package effect

import (
	"errors"
	"fmt"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Kind identifies an effect variant.
type Kind string

const (
	KindWobble  Kind = "wobble"
	KindWave    Kind = "wave"
	KindShake   Kind = "shake"
	KindTrigger Kind = "trigger"
)

// Kinds lists every supported variant.
var Kinds = []Kind{KindWobble, KindWave, KindShake, KindTrigger}

var (
	ErrUnknownKind     = errors.New("unknown effect kind")
	ErrDuplicateEffect = errors.New("duplicate effect name")
	ErrNotRegistered   = errors.New("effect not registered")
	ErrInvalidParams   = errors.New("invalid effect params")
)

// Effect is a named, cloneable animation prototype.
type Effect interface {
	// Name is the tag the effect is registered under.
	Name() string
	Kind() Kind
	Tween() domain.Tween
	// Clone returns a copy sharing no mutable state with the receiver.
	Clone() Effect
	// Spec returns the serialisable form of the effect.
	Spec() domain.EffectSpec
	// Configure returns a clone with params applied on top of the current values.
	Configure(params map[string]any) (Effect, error)
}

// New returns the default-valued prototype of kind registered under name.
func New(kind Kind, name string) (Effect, error) {
	if name == "" {
		name = string(kind)
	}
	switch kind {
	case KindWobble:
		return NewWobble(name), nil
	case KindWave:
		return NewWave(name), nil
	case KindShake:
		return NewShake(name), nil
	case KindTrigger:
		return NewTrigger(name), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// decodeParams overlays params onto a copy of base.
func decodeParams[T any](base T, params map[string]any) (T, error) {
	out := base
	if len(params) == 0 {
		return out, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return base, err
	}
	if err := dec.Decode(params); err != nil {
		return base, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return out, nil
}
