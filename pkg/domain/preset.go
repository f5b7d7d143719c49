package domain

import "unicode/utf8"

// Preset is the fully reduced artifact handed to the player: the concatenated
// plain text and one tween per character (rune) of that text.
type Preset struct {
	Text   string
	Tweens []Tween
}

// NewPreset replicates tween once per rune of text.
func NewPreset(text string, tween Tween) Preset {
	if tween == nil {
		tween = ZeroTween
	}
	n := utf8.RuneCountInString(text)
	tweens := make([]Tween, n)
	for i := range tweens {
		tweens[i] = tween
	}
	return Preset{Text: text, Tweens: tweens}
}

// Append returns a new preset with the text and tweens of other after p's.
// Neither operand is modified.
func (p Preset) Append(other Preset) Preset {
	tweens := make([]Tween, 0, len(p.Tweens)+len(other.Tweens))
	tweens = append(tweens, p.Tweens...)
	tweens = append(tweens, other.Tweens...)
	return Preset{
		Text:   p.Text + other.Text,
		Tweens: tweens,
	}
}

// Len returns the number of characters covered by the preset.
func (p Preset) Len() int {
	return len(p.Tweens)
}

// TweenAt returns the tween for character i, or ZeroTween when i is out of range.
func (p Preset) TweenAt(i int) Tween {
	if i < 0 || i >= len(p.Tweens) || p.Tweens[i] == nil {
		return ZeroTween
	}
	return p.Tweens[i]
}

// Prefix returns the preset covering the first n characters. n is clamped to
// [0, Len()].
func (p Preset) Prefix(n int) Preset {
	n = max(0, min(n, len(p.Tweens)))
	end := 0
	for i := 0; i < n; i++ {
		_, size := utf8.DecodeRuneInString(p.Text[end:])
		end += size
	}
	return Preset{Text: p.Text[:end], Tweens: p.Tweens[:n:n]}
}

// AppendPresets folds presets left to right into one.
func AppendPresets(presets ...Preset) Preset {
	var out Preset
	for _, p := range presets {
		out = out.Append(p)
	}
	return out
}
