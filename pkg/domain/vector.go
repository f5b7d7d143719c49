package domain

// Vec3 is a vertex position or offset in text-field space.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns the coordinate-wise sum of v and o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v minus o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale multiplies every coordinate by f.
func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

// Color is an 8-bit RGBA vertex color.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Transparent is the fully transparent color used by dissolve.
var Transparent = Color{}

// Opaque reports whether the color is fully opaque.
func (c Color) Opaque() bool {
	return c.A == 0xff
}
