package designer

import (
	"fmt"
	"image"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/ByLCY/labelpress/bitmap"
	"github.com/ByLCY/labelpress/fonts"
	"github.com/ByLCY/labelpress/labels"
	"github.com/ByLCY/labelpress/layout"
	"github.com/ByLCY/labelpress/printer"
	"github.com/ByLCY/labelpress/qr"
)

// Designer 持有字体目录与渲染依赖，多个请求可并发使用。
type Designer struct {
	Catalog     *fonts.Catalog
	DefaultFont layout.FontResource
	Build       layout.BuildOptions
	Upload      bitmap.Options
	Log         *zap.Logger
}

// Spec 根据参数与（可选的）上传图片构造 LabelSpec。
func (d *Designer) Spec(p Params, img image.Image) (layout.LabelSpec, error) {
	if err := p.Validate(); err != nil {
		return layout.LabelSpec{}, err
	}
	label, err := labels.Lookup(p.LabelSize)
	if err != nil {
		return layout.LabelSpec{}, err
	}
	font, err := d.font(p.FontFamily, p.FontStyle)
	if err != nil {
		return layout.LabelSpec{}, err
	}

	size := float64(p.FontSize)
	spec := layout.LabelSpec{
		Content:    contentMode(p.PrintType),
		Kind:       label.Kind,
		BaseWidth:  label.DotsPrintable.X,
		BaseHeight: label.DotsPrintable.Y,
		Margins: layout.Margins{
			Top:    layout.MarginFromPercent(size, p.MarginTop),
			Bottom: layout.MarginFromPercent(size, p.MarginBottom),
			Left:   layout.MarginFromPercent(size, p.MarginLeft),
			Right:  layout.MarginFromPercent(size, p.MarginRight),
		},
		Align:       layout.TextAlign(strings.ToLower(p.Align)),
		Font:        font,
		FontSize:    size,
		LineSpacing: p.LineSpacing,
		QR: layout.QRContent{
			Data:       p.QRData(),
			ModuleSize: p.QRCodeSize,
			Correction: qr.ParseCorrection(p.QRCodeCorrection),
		},
	}
	if p.Orientation == "rotated" {
		spec.Orientation = layout.Rotated
	}
	if label.TwoColor && p.PrintColor == "red" {
		spec.ForeColor = layout.Red
	}
	if p.Text != "" {
		spec.Text = []string{p.Text}
	}
	if spec.Content == layout.ImageOnly {
		spec.Image = img
	}
	return spec, nil
}

// Render 构造 LabelSpec 并执行布局与绘制。
func (d *Designer) Render(p Params, img image.Image) (*layout.Result, error) {
	spec, err := d.Spec(p, img)
	if err != nil {
		return nil, err
	}
	return layout.Build(spec, d.Build)
}

// Directive 返回与参数对应的打印指令；双色标签纸总是以红黑模式打印。
func (d *Designer) Directive(p Params) (printer.Directive, error) {
	label, err := labels.Lookup(p.LabelSize)
	if err != nil {
		return printer.Directive{}, err
	}
	return printer.Directive{LabelID: label.ID, RedBlack: label.TwoColor}, nil
}

// DecodeUpload 按扩展名解码并二值化上传图片；不支持的格式返回 nil 图片。
func (d *Designer) DecodeUpload(name string, r io.Reader) (image.Image, error) {
	img, err := bitmap.Decode(name, r, d.Upload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParam, err)
	}
	if img == nil {
		d.logger().Warn("忽略不支持的上传格式", zap.String("file", name))
	}
	return img, nil
}

// font 在字体族或样式缺省时使用默认字体，与表单行为一致。
func (d *Designer) font(family, style string) (layout.FontResource, error) {
	if family == "" || style == "" {
		return d.DefaultFont, nil
	}
	if d.Catalog == nil {
		return layout.FontResource{}, &layout.MissingFontError{Family: family, Style: style}
	}
	return d.Catalog.Lookup(family, style)
}

func (d *Designer) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// contentMode 将 print_type 映射为内容模式，未知值按图片处理。
func contentMode(printType string) layout.ContentMode {
	switch printType {
	case PrintText:
		return layout.TextOnly
	case PrintQRCode:
		return layout.QrOnly
	case PrintQRCodeText:
		return layout.QrAndText
	default:
		return layout.ImageOnly
	}
}
