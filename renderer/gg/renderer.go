// Package ggrenderer is the alternative text backend built on github.com/fogleman/gg
// and golang/freetype. It rasterizes glyphs directly at pixel sizes.
package ggrenderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/ByLCY/labelpress/fonts"
	"github.com/ByLCY/labelpress/layout"
	"github.com/ByLCY/labelpress/renderer"
)

// Renderer 实现 layout.Typesetter 与 renderer.Renderer。
type Renderer struct {
	mu    sync.Mutex
	fonts map[string]parsedFont
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

func NewRenderer() *Renderer {
	return &Renderer{fonts: map[string]parsedFont{}}
}

func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	return renderer.EncodePNG(result)
}

func (r *Renderer) MeasureText(lines []string, res layout.FontResource, fontSize float64, spacing int) (layout.Size, error) {
	face, err := r.face(res, fontSize)
	if err != nil {
		return layout.Size{}, err
	}
	defer face.Close()
	if len(lines) == 0 {
		return layout.Size{}, nil
	}

	dc := gg.NewContext(1, 1)
	dc.SetFontFace(face)
	width := 0.0
	for _, ln := range lines {
		w, _ := dc.MeasureString(ln)
		width = math.Max(width, w)
	}
	lh := lineHeight(face)
	height := len(lines)*lh + (len(lines)-1)*spacing
	return layout.Size{Width: int(math.Ceil(width)), Height: max(height, 0)}, nil
}

func (r *Renderer) DrawText(dst *image.RGBA, lines []string, res layout.FontResource, fontSize float64, col color.Color, align layout.TextAlign, spacing int, origin image.Point) error {
	face, err := r.face(res, fontSize)
	if err != nil {
		return err
	}
	defer face.Close()

	dc := gg.NewContextForRGBA(dst)
	dc.SetFontFace(face)
	dc.SetColor(col)

	blockWidth := 0.0
	for _, ln := range lines {
		w, _ := dc.MeasureString(ln)
		blockWidth = math.Max(blockWidth, w)
	}

	ascent := float64(face.Metrics().Ascent.Ceil())
	step := lineHeight(face) + spacing
	for i, ln := range lines {
		if ln == "" {
			continue
		}
		w, _ := dc.MeasureString(ln)
		x := float64(origin.X)
		switch align {
		case layout.AlignLeft:
		case layout.AlignRight:
			x += blockWidth - w
		default:
			x += (blockWidth - w) / 2
		}
		y := float64(origin.Y+i*step) + ascent
		dc.DrawString(ln, x, y)
	}
	return nil
}

func lineHeight(face font.Face) int {
	m := face.Metrics()
	return m.Ascent.Ceil() + m.Descent.Ceil()
}

// face 以像素为单位创建字体面：DPI 取 72 时 1pt 等于 1px。
func (r *Renderer) face(res layout.FontResource, sizePx float64) (font.Face, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("字号必须为正数，实际 %g", sizePx)
	}
	f, err := r.load(res)
	if err != nil {
		return nil, err
	}
	if f.tt != nil {
		return truetype.NewFace(f.tt, &truetype.Options{Size: sizePx, DPI: 72, Hinting: font.HintingNone}), nil
	}
	face, err := opentype.NewFace(f.ot, &opentype.FaceOptions{Size: sizePx, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("创建字体面 %s 失败: %w", res.Src, err)
	}
	return face, nil
}

// parsedFont 二选一：freetype 只能读 TrueType 轮廓，CFF 轮廓的 .otf 交给 opentype。
type parsedFont struct {
	tt *truetype.Font
	ot *opentype.Font
}

func (r *Renderer) load(res layout.FontResource) (parsedFont, error) {
	src := res.Src
	if src == "" {
		src = fonts.FallbackSrc
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.fonts[src]; ok {
		return f, nil
	}
	data, err := fonts.Load(src)
	if err != nil {
		return parsedFont{}, err
	}
	f, err := parseFont(data)
	if err != nil {
		missing := &layout.MissingFontError{Family: res.Family, Style: res.Style}
		return parsedFont{}, fmt.Errorf("%w: 无法解析 %s: %w", missing, src, err)
	}
	r.fonts[src] = f
	return f, nil
}

func parseFont(data []byte) (parsedFont, error) {
	if tt, err := truetype.Parse(data); err == nil {
		return parsedFont{tt: tt}, nil
	}
	ot, err := opentype.Parse(data)
	if err != nil {
		return parsedFont{}, err
	}
	return parsedFont{ot: ot}, nil
}
