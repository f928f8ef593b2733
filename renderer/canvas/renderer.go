package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/labelpress/fonts"
	"github.com/ByLCY/labelpress/layout"
	"github.com/ByLCY/labelpress/renderer"
)

// Renderer measures and draws label text via github.com/tdewolff/canvas.
// One canvas millimeter maps to one label pixel, so font sizes in px are
// converted to pt with layout.MmToPt.
type Renderer struct {
	fontMu sync.Mutex
	loaded map[layout.FontResource]loadedFont
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// NewRenderer creates a canvas-based typesetter and PNG renderer.
func NewRenderer() *Renderer {
	return &Renderer{loaded: map[layout.FontResource]loadedFont{}}
}

// Render encodes the finished label canvas as PNG.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	return renderer.EncodePNG(result)
}

// MeasureText 实现 layout.Typesetter：块宽为最宽行，块高为行数×行高加行间距。
func (r *Renderer) MeasureText(lines []string, font layout.FontResource, fontSize float64, spacing int) (layout.Size, error) {
	face, err := r.fontFace(font, fontSize, color.Black)
	if err != nil {
		return layout.Size{}, err
	}
	if len(lines) == 0 {
		return layout.Size{}, nil
	}
	width := 0.0
	for _, ln := range lines {
		width = math.Max(width, face.TextWidth(ln))
	}
	lh := lineHeight(face)
	height := len(lines)*lh + (len(lines)-1)*spacing
	return layout.Size{Width: int(math.Ceil(width)), Height: max(height, 0)}, nil
}

// DrawText 实现 layout.Typesetter：在 origin 处绘制文本块，块内按 align 对齐每一行。
func (r *Renderer) DrawText(dst *image.RGBA, lines []string, font layout.FontResource, fontSize float64, col color.Color, align layout.TextAlign, spacing int, origin image.Point) error {
	face, err := r.fontFace(font, fontSize, col)
	if err != nil {
		return err
	}
	bounds := dst.Bounds()
	if bounds.Empty() || len(lines) == 0 {
		return nil
	}

	blockWidth := 0.0
	for _, ln := range lines {
		blockWidth = math.Max(blockWidth, face.TextWidth(ln))
	}

	// 处理水平对齐：left/center（默认）/right。
	var textAlign canvas.TextAlign
	anchorX := float64(origin.X)
	switch align {
	case layout.AlignLeft:
		textAlign = canvas.Left
	case layout.AlignRight:
		textAlign = canvas.Right
		anchorX += blockWidth
	default:
		textAlign = canvas.Center
		anchorX += blockWidth / 2
	}

	c := canvas.New(float64(bounds.Dx()), float64(bounds.Dy()))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与画布保持左上角为原点

	ascent := face.Metrics().Ascent
	step := lineHeight(face) + spacing
	for i, ln := range lines {
		if ln == "" {
			continue
		}
		top := float64(origin.Y + i*step)
		ctx.DrawText(anchorX, top+ascent, canvas.NewTextLine(face, ln, textAlign))
	}

	layer := rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
	draw.Draw(dst, bounds, layer, layer.Bounds().Min, draw.Over)
	return nil
}

func lineHeight(face *canvas.FontFace) int {
	m := face.Metrics()
	return int(math.Ceil(m.Ascent + math.Abs(m.Descent)))
}

func (r *Renderer) fontFace(font layout.FontResource, sizePx float64, col color.Color) (*canvas.FontFace, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("字号必须为正数，实际 %g", sizePx)
	}
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePx*layout.MmToPt, col, style, canvas.FontNormal), nil
}

// loadedFont 是已经解析过的字体族及其样式。
type loadedFont struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// ensureFontFamily 按 FontResource 缓存解析结果；Src 为空时使用内置字体。
func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	if font.Src == "" {
		font = layout.FontResource{Family: "labelpress-fallback", Src: fonts.FallbackSrc}
	}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if lf, ok := r.loaded[font]; ok {
		return lf.family, lf.style, nil
	}

	data, err := fonts.Load(font.Src)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	style := parseFontStyle(font.Style)
	name := font.Family
	if name == "" {
		name = font.Src
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("加载字体 %s 失败: %w", font.Src, err)
	}
	r.loaded[font] = loadedFont{family: family, style: style}
	return family, style, nil
}

// 按顺序匹配，extrabold 必须先于 bold。
var fontWeights = []struct {
	keys   []string
	weight canvas.FontStyle
}{
	{[]string{"extrabold", "ultrabold"}, canvas.FontExtraBold},
	{[]string{"semibold", "demibold"}, canvas.FontSemiBold},
	{[]string{"bold"}, canvas.FontBold},
	{[]string{"black", "heavy"}, canvas.FontBlack},
	{[]string{"medium"}, canvas.FontMedium},
	{[]string{"light", "thin"}, canvas.FontLight},
}

// parseFontStyle 把 fontconfig 样式名（Book、Bold Italic、SemiBold…）映射为 canvas 字重与斜体。
func parseFontStyle(name string) canvas.FontStyle {
	s := strings.ToLower(name)
	style := canvas.FontRegular
weights:
	for _, w := range fontWeights {
		for _, k := range w.keys {
			if strings.Contains(s, k) {
				style = w.weight
				break weights
			}
		}
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		style |= canvas.FontItalic
	}
	return style
}
