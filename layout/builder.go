package layout

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
)

// Build 依次执行内容解析、画布尺寸计算、摆放与绘制，返回最终画布。
// 二维码编码失败时直接返回 EncodingError，不产生任何画布。
func Build(spec LabelSpec, opts BuildOptions) (*Result, error) {
	measured, err := Resolve(spec, opts)
	if err != nil {
		return nil, err
	}

	width, height := CanvasSize(spec, measured)
	placement := Place(spec, measured, width, height)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	// 先贴位图（二维码或上传图片），再绘制文本，文本覆盖在最上层。
	if measured.Bitmap != nil {
		b := measured.Bitmap.Bounds()
		target := image.Rectangle{Min: placement.Image, Max: placement.Image.Add(b.Size())}
		draw.Draw(img, target, measured.Bitmap, b.Min, draw.Src)
	}
	if spec.Content.HasText() && len(measured.Text) > 0 {
		if err := opts.Typesetter.DrawText(img, measured.Text, spec.Font, spec.FontSize,
			spec.ForeColor.RGBA(), alignOrDefault(spec.Align), measured.Spacing, placement.Text); err != nil {
			return nil, err
		}
	}
	if opts.Debug.Boxes {
		outline(img, image.Rectangle{Min: placement.Image, Max: placement.Image.Add(toPoint(measured.BitmapSize))})
		outline(img, image.Rectangle{Min: placement.Text, Max: placement.Text.Add(toPoint(measured.TextSize))})
	}

	return &Result{
		Width:     width,
		Height:    height,
		Placement: placement,
		Measured:  measured,
		Rotate:    RotateFor(spec),
		Image:     img,
	}, nil
}

// Resolve 生成位图并测量位图与文本块的自然尺寸。
func Resolve(spec LabelSpec, opts BuildOptions) (MeasuredContent, error) {
	var measured MeasuredContent

	switch {
	case spec.Content.HasQR():
		if opts.Encoder == nil {
			return MeasuredContent{}, ErrNoEncoder
		}
		level := spec.QR.Correction
		if level == "" {
			level = CorrectionL
		}
		bmp, err := opts.Encoder.Encode(spec.QR.Data, level, spec.QR.ModuleSize, spec.ForeColor.RGBA())
		if err != nil {
			if _, ok := err.(*EncodingError); ok {
				return MeasuredContent{}, err
			}
			return MeasuredContent{}, &EncodingError{Data: spec.QR.Data, Level: level, Err: err}
		}
		measured.Bitmap = bmp
	case spec.Content == ImageOnly:
		// 没有上传图片时画布为空白，这是合法的退化情况。
		measured.Bitmap = spec.Image
	}
	if measured.Bitmap != nil {
		b := measured.Bitmap.Bounds()
		measured.BitmapSize = Size{Width: b.Dx(), Height: b.Dy()}
	}

	if spec.Content.HasText() {
		if opts.Typesetter == nil {
			return MeasuredContent{}, ErrNoTypesetter
		}
		lines := SplitLines(spec.Text)
		measured.Text = lines
		measured.Spacing = EffectiveSpacing(spec.FontSize, spec.LineSpacing)
		size, err := opts.Typesetter.MeasureText(measurableLines(lines), spec.Font, spec.FontSize, measured.Spacing)
		if err != nil {
			return MeasuredContent{}, err
		}
		measured.TextSize = size
	}
	return measured, nil
}

// Normalize 对打印机原生可打印区域做两步归一化：
// 先保证宽不小于高，若为旋转方向再交换一次。
func Normalize(spec LabelSpec) (width, height int) {
	width, height = spec.BaseWidth, spec.BaseHeight
	if height > width {
		width, height = height, width
	}
	if spec.Orientation == Rotated {
		width, height = height, width
	}
	return width, height
}

// CanvasSize 计算最终画布尺寸。连续标签沿进纸方向按内容增长，模切标签尺寸固定。
func CanvasSize(spec LabelSpec, measured MeasuredContent) (width, height int) {
	width, height = Normalize(spec)
	if spec.Kind != Endless {
		return width, height
	}
	m := spec.Margins
	if spec.Orientation == Rotated {
		width = measured.BitmapSize.Width + measured.TextSize.Width + m.Left + m.Right
	} else {
		height = measured.BitmapSize.Height + measured.TextSize.Height + m.Top + m.Bottom
	}
	return width, height
}

// Place 计算位图与文本块在画布中的偏移。
// 所有折半均向负无穷取整，内容超出模切画布时允许裁切或重叠。
func Place(spec LabelSpec, measured MeasuredContent, width, height int) Placement {
	m := spec.Margins
	bw, bh := measured.BitmapSize.Width, measured.BitmapSize.Height
	tw, th := measured.TextSize.Width, measured.TextSize.Height

	var p Placement
	if spec.Orientation == Rotated {
		// 进纸方向为水平：文本排在位图右侧，垂直方向居中并按上下边距差微调。
		p.Text.Y = half(height-th) + half(m.Top-m.Bottom)
		if spec.Kind.Fixed() {
			p.Text.X = max(half(width-bw-tw), 0)
		} else {
			p.Text.X = m.Left
		}
		p.Text.X += bw
		p.Image = image.Pt(m.Left, half(height-bh))
		return p
	}

	if spec.Kind.Fixed() {
		p.Text.Y = half(height-bh-th) + half(m.Top-m.Bottom)
	} else {
		p.Text.Y = m.Top
	}
	p.Text.Y += bh
	p.Text.X = max(half(width-tw), 0)
	p.Image = image.Pt(half(width-bw), m.Top)
	return p
}

// RotateFor 返回打印时的旋转指令：模切标签交给打印驱动自动判断，连续标签按方向给出 0/90。
func RotateFor(spec LabelSpec) Rotation {
	if spec.Kind != Endless {
		return RotateAuto
	}
	if spec.Orientation == Rotated {
		return Rotate90
	}
	return Rotate0
}

// SplitLines 将文本按换行拆分，兼容 \r\n，保留空行。
func SplitLines(text []string) []string {
	var lines []string
	for _, chunk := range text {
		chunk = strings.ReplaceAll(chunk, "\r\n", "\n")
		lines = append(lines, strings.Split(chunk, "\n")...)
	}
	return lines
}

// measurableLines 把空行替换为单个空格，仅用于测量：
// 某些字体度量对空字符串返回零高度，替换后空行仍占据一行。
func measurableLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if line == "" {
			line = " "
		}
		out[i] = line
	}
	return out
}

func alignOrDefault(a TextAlign) TextAlign {
	switch a {
	case AlignLeft, AlignRight:
		return a
	default:
		return AlignCenter
	}
}

func toPoint(s Size) image.Point { return image.Pt(s.Width, s.Height) }

var debugBoxColor = color.RGBA{R: 160, G: 160, B: 160, A: 255}

func outline(img *image.RGBA, r image.Rectangle) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, debugBoxColor)
		img.Set(x, r.Max.Y-1, debugBoxColor)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, debugBoxColor)
		img.Set(r.Max.X-1, y, debugBoxColor)
	}
}
