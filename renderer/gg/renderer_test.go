package ggrenderer

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/labelpress/fonts"
	"github.com/ByLCY/labelpress/layout"
)

var goBold = layout.FontResource{Family: "Go", Style: "Bold", Src: fonts.EmbedPrefix + "Go-Bold"}

func TestMeasureBlankLineKeepsHeight(t *testing.T) {
	r := NewRenderer()
	two, err := r.MeasureText([]string{"A", "B"}, goBold, 30, 0)
	require.NoError(t, err)
	three, err := r.MeasureText([]string{"A", " ", "B"}, goBold, 30, 0)
	require.NoError(t, err)

	assert.Equal(t, two.Height/2*3, three.Height)
	assert.Equal(t, two.Width, three.Width)
}

func TestSpacingAddsBetweenLines(t *testing.T) {
	r := NewRenderer()
	base, err := r.MeasureText([]string{"A", "B", "C"}, goBold, 30, 0)
	require.NoError(t, err)
	wide, err := r.MeasureText([]string{"A", "B", "C"}, goBold, 30, 15)
	require.NoError(t, err)
	assert.Equal(t, base.Height+30, wide.Height)
}

func TestDrawTextUsesForeColor(t *testing.T) {
	r := NewRenderer()
	lines := []string{"RED"}
	size, err := r.MeasureText(lines, goBold, 48, 0)
	require.NoError(t, err)

	dst := image.NewRGBA(image.Rect(0, 0, size.Width+20, size.Height+20))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	require.NoError(t, r.DrawText(dst, lines, goBold, 48, color.RGBA{R: 255, A: 255}, layout.AlignLeft, 0, image.Pt(10, 10)))

	red := 0
	for y := 0; y < dst.Bounds().Dy(); y++ {
		for x := 0; x < dst.Bounds().Dx(); x++ {
			c := dst.RGBAAt(x, y)
			if c.R == 255 && c.G == 0 && c.B == 0 {
				red++
			}
		}
	}
	assert.Positive(t, red)
}

func TestUnknownEmbeddedFont(t *testing.T) {
	r := NewRenderer()
	_, err := r.MeasureText([]string{"x"}, layout.FontResource{Src: fonts.EmbedPrefix + "Nope"}, 20, 0)
	assert.Error(t, err)
}

func TestUnreadableFontIsMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.otf")
	require.NoError(t, os.WriteFile(path, []byte("OTTO not really a font"), 0o644))

	r := NewRenderer()
	_, err := r.MeasureText([]string{"x"}, layout.FontResource{Family: "Broken", Style: "Regular", Src: path}, 20, 0)
	var missing *layout.MissingFontError
	require.True(t, errors.As(err, &missing), "got %v", err)
	assert.Equal(t, "Broken", missing.Family)
}

func TestParseFontKeepsTrueTypeOutlines(t *testing.T) {
	data, err := fonts.Load(fonts.FallbackSrc)
	require.NoError(t, err)
	f, err := parseFont(data)
	require.NoError(t, err)
	assert.NotNil(t, f.tt)
	assert.Nil(t, f.ot)
}
