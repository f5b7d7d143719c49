package domain

// VerticesPerChar is the number of corner vertices of one glyph quad.
const VerticesPerChar = 4

// CharacterInfo describes one laid-out character.
// Its quad occupies Vertices[VertexIndex:VertexIndex+4] of Sections[Section].
type CharacterInfo struct {
	Char        rune
	Visible     bool
	Section     int
	VertexIndex int
}

// MeshSection is one renderable vertex buffer (one per material).
type MeshSection struct {
	Vertices []Vec3
	Colors   []Color
}

// TextInfo is the glyph snapshot of a text field after a layout pass.
// The player is allowed to rewrite Vertices and Colors in place before committing.
type TextInfo struct {
	Characters []CharacterInfo
	Sections   []MeshSection
}

// Quad returns the four vertices of character i, sharing the section's backing array.
func (ti *TextInfo) Quad(i int) []Vec3 {
	c := ti.Characters[i]
	return ti.Sections[c.Section].Vertices[c.VertexIndex : c.VertexIndex+VerticesPerChar]
}

// QuadColors returns the four vertex colors of character i.
func (ti *TextInfo) QuadColors(i int) []Color {
	c := ti.Characters[i]
	return ti.Sections[c.Section].Colors[c.VertexIndex : c.VertexIndex+VerticesPerChar]
}
