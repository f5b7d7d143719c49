package effect

import (
	"math"
	"math/rand/v2"

	"github.com/aretw0/quill/pkg/domain"
)

// Wobble moves each vertex along a circle whose phase depends on time and on
// the vertex's horizontal position.
type Wobble struct {
	name      string
	Speed     float64 `mapstructure:"speed"`
	Strength  float64 `mapstructure:"strength"`
	Amplitude float64 `mapstructure:"amplitude"`
}

func NewWobble(name string) *Wobble {
	return &Wobble{name: name, Speed: 2, Strength: 0.01, Amplitude: 10}
}

func (w *Wobble) Name() string { return w.name }
func (w *Wobble) Kind() Kind   { return KindWobble }

func (w *Wobble) Tween() domain.Tween {
	speed, strength, amp := w.Speed, w.Strength, w.Amplitude
	return func(origin domain.Vec3, t float64) domain.Vec3 {
		phase := t*speed + origin.X*strength
		return domain.Vec3{
			X: math.Cos(phase) * amp,
			Y: math.Sin(phase) * amp,
			Z: math.Tan(phase) * amp,
		}
	}
}

func (w *Wobble) Clone() Effect {
	c := *w
	return &c
}

func (w *Wobble) Spec() domain.EffectSpec {
	return domain.EffectSpec{Name: w.name, Params: map[string]any{
		"speed":     w.Speed,
		"strength":  w.Strength,
		"amplitude": w.Amplitude,
	}}
}

func (w *Wobble) Configure(params map[string]any) (Effect, error) {
	c, err := decodeParams(*w, params)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Wave lifts vertices on a sine wave travelling along the line.
type Wave struct {
	name      string
	Speed     float64 `mapstructure:"speed"`
	Frequency float64 `mapstructure:"frequency"`
	Amplitude float64 `mapstructure:"amplitude"`
}

func NewWave(name string) *Wave {
	return &Wave{name: name, Speed: 2, Frequency: 0.01, Amplitude: 10}
}

func (w *Wave) Name() string { return w.name }
func (w *Wave) Kind() Kind   { return KindWave }

func (w *Wave) Tween() domain.Tween {
	speed, freq, amp := w.Speed, w.Frequency, w.Amplitude
	return func(origin domain.Vec3, t float64) domain.Vec3 {
		return domain.Vec3{Y: math.Sin(t*speed+origin.X*freq) * amp}
	}
}

func (w *Wave) Clone() Effect {
	c := *w
	return &c
}

func (w *Wave) Spec() domain.EffectSpec {
	return domain.EffectSpec{Name: w.name, Params: map[string]any{
		"speed":     w.Speed,
		"frequency": w.Frequency,
		"amplitude": w.Amplitude,
	}}
}

func (w *Wave) Configure(params map[string]any) (Effect, error) {
	c, err := decodeParams(*w, params)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Shake jitters vertices by a bounded pseudo-random offset. The offset is a
// pure function of the vertex position and of time quantised to Rate steps
// per second, so it is stable within one step.
type Shake struct {
	name      string
	Amplitude float64 `mapstructure:"amplitude"`
	Rate      float64 `mapstructure:"rate"`
	Seed      uint64  `mapstructure:"seed"`
}

func NewShake(name string) *Shake {
	return &Shake{name: name, Amplitude: 0.25, Rate: 12}
}

func (s *Shake) Name() string { return s.name }
func (s *Shake) Kind() Kind   { return KindShake }

func (s *Shake) Tween() domain.Tween {
	amp, rate, seed := s.Amplitude, s.Rate, s.Seed
	return func(origin domain.Vec3, t float64) domain.Vec3 {
		step := uint64(int64(math.Floor(t * rate)))
		cell := math.Float64bits(origin.X)*31 ^ math.Float64bits(origin.Y)
		rng := rand.New(rand.NewPCG(seed^step, cell))
		return domain.Vec3{
			X: (rng.Float64()*2 - 1) * amp,
			Y: (rng.Float64()*2 - 1) * amp,
		}
	}
}

func (s *Shake) Clone() Effect {
	c := *s
	return &c
}

func (s *Shake) Spec() domain.EffectSpec {
	return domain.EffectSpec{Name: s.name, Params: map[string]any{
		"amplitude": s.Amplitude,
		"rate":      s.Rate,
		"seed":      s.Seed,
	}}
}

func (s *Shake) Configure(params map[string]any) (Effect, error) {
	c, err := decodeParams(*s, params)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Trigger marks text for stages that react to it. It never moves vertices.
type Trigger struct {
	name string
}

func NewTrigger(name string) *Trigger {
	return &Trigger{name: name}
}

func (tr *Trigger) Name() string        { return tr.name }
func (tr *Trigger) Kind() Kind          { return KindTrigger }
func (tr *Trigger) Tween() domain.Tween { return domain.ZeroTween }

func (tr *Trigger) Clone() Effect {
	c := *tr
	return &c
}

func (tr *Trigger) Spec() domain.EffectSpec {
	return domain.EffectSpec{Name: tr.name}
}

func (tr *Trigger) Configure(params map[string]any) (Effect, error) {
	c, err := decodeParams(*tr, params)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
