package grid_test

import (
	"testing"

	"github.com/aretw0/quill/pkg/adapters/grid"
	"github.com/aretw0/quill/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_Layout(t *testing.T) {
	f := grid.New(grid.WithCellSize(10, 20))
	f.SetText("a b\nc")

	info, err := f.Layout()
	require.NoError(t, err)
	require.Len(t, info.Characters, 5)
	require.Len(t, info.Sections, 1)
	assert.Len(t, info.Sections[0].Vertices, 5*domain.VerticesPerChar)

	visible := make([]bool, 5)
	for i, c := range info.Characters {
		visible[i] = c.Visible
	}
	assert.Equal(t, []bool{true, false, true, false, true}, visible)

	// "c" starts the second line.
	q := info.Quad(4)
	assert.Equal(t, domain.Vec3{X: 0, Y: 40}, q[0])
	assert.Equal(t, domain.Vec3{X: 0, Y: 20}, q[1])
	assert.Equal(t, domain.Vec3{X: 10, Y: 20}, q[2])
	assert.Equal(t, domain.Vec3{X: 10, Y: 40}, q[3])
}

func TestField_LayoutResetsGeometry(t *testing.T) {
	f := grid.New()
	f.SetText("x")

	info, err := f.Layout()
	require.NoError(t, err)
	base := info.Quad(0)[0]
	info.Quad(0)[0] = base.Add(domain.Vec3{X: 100})

	again, err := f.Layout()
	require.NoError(t, err)
	assert.Equal(t, base, again.Quad(0)[0])
}

func TestField_ColorsSurviveRelayout(t *testing.T) {
	f := grid.New()
	f.SetText("ab")
	info, err := f.Layout()
	require.NoError(t, err)

	red := domain.Color{R: 255, A: 255}
	for i := range info.QuadColors(1) {
		info.QuadColors(1)[i] = red
	}

	again, err := f.Layout()
	require.NoError(t, err)
	assert.Equal(t, red, again.QuadColors(1)[0])

	f.SetText("cd")
	fresh, err := f.Layout()
	require.NoError(t, err)
	assert.NotEqual(t, red, fresh.QuadColors(1)[0])
}

func TestField_Wrap(t *testing.T) {
	f := grid.New(grid.WithWrap(3))
	f.SetText("abcdef")
	_, err := f.Layout()
	require.NoError(t, err)
	require.NoError(t, f.CommitGeometry(0))

	frame := f.Frame()
	require.Len(t, frame.Glyphs, 6)
	assert.Equal(t, 0, frame.Glyphs[2].Row)
	assert.Equal(t, 1, frame.Glyphs[3].Row)
	assert.Equal(t, 0, frame.Glyphs[3].Col)
}

func TestField_Commit(t *testing.T) {
	f := grid.New(grid.WithCellSize(10, 20))

	assert.ErrorIs(t, f.CommitGeometry(0), grid.ErrNotLaidOut)
	assert.ErrorIs(t, f.CommitColors(), grid.ErrNotLaidOut)

	f.SetText("hi")
	info, err := f.Layout()
	require.NoError(t, err)
	assert.ErrorIs(t, f.CommitGeometry(1), grid.ErrNoSection)

	notified := 0
	cancel := f.OnCommit(func() { notified++ })

	for i := range info.Quad(0) {
		info.Quad(0)[i] = info.Quad(0)[i].Add(domain.Vec3{Y: -5})
	}
	// Not visible until committed.
	assert.Empty(t, f.Frame().Glyphs)

	require.NoError(t, f.CommitGeometry(0))
	frame := f.Frame()
	require.Len(t, frame.Glyphs, 2)
	assert.Equal(t, "hi", frame.Text)
	assert.InDelta(t, 5.0, frame.Glyphs[0].X, 1e-9)
	assert.InDelta(t, 5.0, frame.Glyphs[0].Y, 1e-9)
	assert.Equal(t, 1, notified)

	f.SetRendering(true)
	assert.True(t, f.Frame().Rendering)
	assert.Equal(t, 2, notified)

	cancel()
	require.NoError(t, f.CommitColors())
	assert.Equal(t, 2, notified)

	geometry, colors := f.Commits()
	assert.Equal(t, 1, geometry)
	assert.Equal(t, 1, colors)
}

func TestField_WideRunes(t *testing.T) {
	f := grid.New(grid.WithCellSize(10, 20))
	f.SetText("世a")
	info, err := f.Layout()
	require.NoError(t, err)

	assert.Equal(t, 20.0, info.Quad(0)[2].X)
	assert.Equal(t, 20.0, info.Quad(1)[0].X)
}
