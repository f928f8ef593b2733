package designer

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/labelpress/fonts"
	"github.com/ByLCY/labelpress/layout"
	"github.com/ByLCY/labelpress/qr"
	canvasrenderer "github.com/ByLCY/labelpress/renderer/canvas"
)

func newDesigner() *Designer {
	catalog := fonts.NewCatalog(fonts.Embedded())
	def, _ := catalog.PickDefault([]layout.FontResource{fonts.ParseCandidate("Go:Regular")})
	return &Designer{
		Catalog:     catalog,
		DefaultFont: def,
		Build: layout.BuildOptions{
			Typesetter: canvasrenderer.NewRenderer(),
			Encoder:    qr.Skip2Encoder{},
		},
	}
}

func TestSpecDefaults(t *testing.T) {
	d := newDesigner()
	p := DefaultParams()
	p.Text = "hello"

	spec, err := d.Spec(p, nil)
	require.NoError(t, err)
	assert.Equal(t, layout.TextOnly, spec.Content)
	assert.Equal(t, layout.Endless, spec.Kind)
	assert.Equal(t, 696, spec.BaseWidth)
	assert.Equal(t, layout.Margins{Top: 24, Bottom: 45, Left: 35, Right: 35}, spec.Margins)
	assert.Equal(t, layout.Black, spec.ForeColor)
	assert.Equal(t, fonts.FallbackSrc, spec.Font.Src)
	assert.Equal(t, []string{"hello"}, spec.Text)
	assert.Equal(t, "hello", spec.QR.Data)
	assert.Equal(t, layout.CorrectionL, spec.QR.Correction)
}

func TestSpecMarginsTruncate(t *testing.T) {
	p := DefaultParams()
	p.FontSize = 70
	spec, err := newDesigner().Spec(p, nil)
	require.NoError(t, err)
	assert.Equal(t, layout.Margins{Top: 16, Bottom: 31, Left: 24, Right: 24}, spec.Margins)
}

func TestSpecRedOnlyOnTwoColorStock(t *testing.T) {
	d := newDesigner()
	p := DefaultParams()
	p.PrintColor = "red"

	spec, err := d.Spec(p, nil)
	require.NoError(t, err)
	assert.Equal(t, layout.Black, spec.ForeColor, "62 不是双色纸")

	p.LabelSize = "62red"
	spec, err = d.Spec(p, nil)
	require.NoError(t, err)
	assert.Equal(t, layout.Red, spec.ForeColor)

	dir, err := d.Directive(p)
	require.NoError(t, err)
	assert.True(t, dir.RedBlack)
}

func TestSpecContentModes(t *testing.T) {
	d := newDesigner()
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	cases := map[string]layout.ContentMode{
		PrintText:       layout.TextOnly,
		PrintQRCode:     layout.QrOnly,
		PrintQRCodeText: layout.QrAndText,
		PrintImage:      layout.ImageOnly,
		"whatever":      layout.ImageOnly,
	}
	for printType, want := range cases {
		p := DefaultParams()
		p.PrintType = printType
		spec, err := d.Spec(p, img)
		require.NoError(t, err)
		assert.Equal(t, want, spec.Content, printType)
		if want == layout.ImageOnly {
			assert.NotNil(t, spec.Image)
		} else {
			assert.Nil(t, spec.Image)
		}
	}
}

func TestSpecErrors(t *testing.T) {
	d := newDesigner()

	p := DefaultParams()
	p.LabelSize = "999"
	_, err := d.Spec(p, nil)
	var unknown *layout.UnknownLabelSizeError
	assert.True(t, errors.As(err, &unknown))

	p = DefaultParams()
	p.FontFamily, p.FontStyle = "Go", "Condensed"
	_, err = d.Spec(p, nil)
	var missing *layout.MissingFontError
	assert.True(t, errors.As(err, &missing))

	p = DefaultParams()
	p.FontSize = 0
	_, err = d.Spec(p, nil)
	assert.ErrorIs(t, err, ErrInvalidParam)

	p = DefaultParams()
	p.Align = "justify"
	_, err = d.Spec(p, nil)
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestSpecFontLookup(t *testing.T) {
	p := DefaultParams()
	p.FontFamily, p.FontStyle = "Go", "Bold"
	spec, err := newDesigner().Spec(p, nil)
	require.NoError(t, err)
	assert.Equal(t, fonts.EmbedPrefix+"Go-Bold", spec.Font.Src)

	// 只给出字体族时回退到默认字体
	p.FontStyle = ""
	spec, err = newDesigner().Spec(p, nil)
	require.NoError(t, err)
	assert.Equal(t, fonts.FallbackSrc, spec.Font.Src)
}

func TestRenderDieCutQR(t *testing.T) {
	p := DefaultParams()
	p.LabelSize = "29x90"
	p.PrintType = PrintQRCode
	p.Text = "hello"

	res, err := newDesigner().Render(p, nil)
	require.NoError(t, err)
	assert.Equal(t, 991, res.Width)
	assert.Equal(t, 306, res.Height)
	assert.Equal(t, layout.RotateAuto, res.Rotate)
	assert.Equal(t, 210, res.Measured.BitmapSize.Width)
}

func TestDecodeUpload(t *testing.T) {
	d := newDesigner()
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	img, err := d.DecodeUpload("logo.PNG", &buf)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, 2, img.Bounds().Dx())

	img, err = d.DecodeUpload("scan.pdf", bytes.NewReader([]byte("%PDF")))
	require.NoError(t, err)
	assert.Nil(t, img)

	_, err = d.DecodeUpload("broken.png", bytes.NewReader([]byte("nope")))
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestQRDataOverridesText(t *testing.T) {
	p := DefaultParams()
	p.PrintType = PrintQRCodeText
	p.Text = "Shelf A"
	p.QRCodeData = "https://inv.example/a"
	spec, err := newDesigner().Spec(p, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://inv.example/a", spec.QR.Data)
	assert.Equal(t, []string{"Shelf A"}, spec.Text)
}
