package domain

// Tween maps a base vertex position and the current time to an offset that is
// added to the position. Tweens must be pure: the same inputs give the same offset.
type Tween func(origin Vec3, t float64) Vec3

// ZeroTween is the identity animation: it never moves a vertex.
func ZeroTween(Vec3, float64) Vec3 {
	return Vec3{}
}

// ComposeTweens returns a tween whose offset is the sum of every given tween's
// offset. Nil entries are ignored. With no tweens the result is ZeroTween.
func ComposeTweens(tweens ...Tween) Tween {
	parts := make([]Tween, 0, len(tweens))
	for _, tw := range tweens {
		if tw != nil {
			parts = append(parts, tw)
		}
	}

	switch len(parts) {
	case 0:
		return ZeroTween
	case 1:
		return parts[0]
	}

	return func(origin Vec3, t float64) Vec3 {
		var sum Vec3
		for _, tw := range parts {
			sum = sum.Add(tw(origin, t))
		}
		return sum
	}
}
