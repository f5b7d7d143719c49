package compiler

import (
	"errors"
	"fmt"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/effect"
)

// ErrUnknownEffect is returned when a token carries a tag with no registered effect.
var ErrUnknownEffect = errors.New("unknown effect")

// Configuration pairs a run of text with the effects applied to each of its characters.
type Configuration struct {
	Text    string
	Effects []effect.Effect
}

// Tween composes the configuration's effects into one tween.
func (c Configuration) Tween() domain.Tween {
	tweens := make([]domain.Tween, len(c.Effects))
	for i, e := range c.Effects {
		tweens[i] = e.Tween()
	}
	return domain.ComposeTweens(tweens...)
}

// Configure resolves every tag of every token against the registry.
// A single unresolved tag fails the whole build.
func Configure(tokens []domain.Token, reg *effect.Registry) ([]Configuration, error) {
	out := make([]Configuration, 0, len(tokens))
	for _, tok := range tokens {
		cfg := Configuration{Text: tok.Text}
		for _, tag := range tok.Tags {
			e, ok := reg.Pick(tag)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, tag)
			}
			cfg.Effects = append(cfg.Effects, e)
		}
		out = append(out, cfg)
	}
	return out, nil
}

// Build reduces configurations into one preset.
func Build(configs []Configuration) domain.Preset {
	presets := make([]domain.Preset, len(configs))
	for i, c := range configs {
		presets[i] = domain.NewPreset(c.Text, c.Tween())
	}
	return domain.AppendPresets(presets...)
}

// ToSegments returns the serialisable form of configs.
func ToSegments(configs []Configuration) []domain.Segment {
	out := make([]domain.Segment, len(configs))
	for i, c := range configs {
		out[i].Text = c.Text
		for _, e := range c.Effects {
			out[i].Effects = append(out[i].Effects, e.Spec())
		}
	}
	return out
}

// FromSegments rebuilds configurations from cached segments.
func FromSegments(segments []domain.Segment, reg *effect.Registry) ([]Configuration, error) {
	out := make([]Configuration, len(segments))
	for i, s := range segments {
		out[i].Text = s.Text
		for _, spec := range s.Effects {
			e, err := reg.Instantiate(spec)
			if err != nil {
				if errors.Is(err, effect.ErrNotRegistered) {
					return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, spec.Name)
				}
				return nil, err
			}
			out[i].Effects = append(out[i].Effects, e)
		}
	}
	return out, nil
}
