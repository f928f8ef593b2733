// Package printer 把标签画布转换成 Brother QL 光栅命令，并通过后端发送给打印机。
package printer

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ByLCY/labelpress/labels"
	"github.com/ByLCY/labelpress/layout"
)

// DefaultThreshold 为黑白阈值（百分比），越大越多灰度被当作黑色。
const DefaultThreshold = 70

const (
	mediaEndless = 0x0A
	mediaDieCut  = 0x0B

	flagValid   = 0x80
	flagKind    = 0x02
	flagWidth   = 0x04
	flagLength  = 0x08
	flagQuality = 0x40
)

// Directive 是一页标签的打印指令。
type Directive struct {
	LabelID  string
	RedBlack bool
	Cut      bool
	Rotate   layout.Rotation
}

// Page 是待编码的一页。
type Page struct {
	Image     image.Image
	Directive Directive
}

// Raster 逐页累积打印机命令。零值不可用，使用 NewRaster 创建。
type Raster struct {
	model Model
	// Threshold 为百分比阈值，0 表示 DefaultThreshold。
	Threshold   int
	HighQuality bool

	buf   bytes.Buffer
	pages int
}

// NewRaster 为指定机型创建编码器。
func NewRaster(model Model) *Raster {
	return &Raster{model: model, HighQuality: true}
}

// Encode 将多页编码为一个完整的打印作业。
func Encode(model Model, threshold int, pages []Page) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("打印作业为空")
	}
	r := NewRaster(model)
	r.Threshold = threshold
	r.Begin()
	for i, p := range pages {
		if err := r.AddPage(p.Image, p.Directive, i == len(pages)-1); err != nil {
			return nil, fmt.Errorf("编码第 %d 页失败: %w", i+1, err)
		}
	}
	return r.Bytes(), nil
}

// Begin 写入清空缓冲、初始化与切换到光栅模式的命令。
func (r *Raster) Begin() {
	r.buf.Write(make([]byte, r.model.InvalidateBytes))
	r.buf.Write([]byte{0x1B, 0x40})
	if r.model.ModeSetting {
		r.buf.Write([]byte{0x1B, 0x69, 0x61, 0x01})
	}
}

// Bytes 返回目前为止的全部命令。
func (r *Raster) Bytes() []byte { return r.buf.Bytes() }

// AddPage 将一页标签编码为光栅数据；last 为 true 时以 0x1A 结束整个作业。
func (r *Raster) AddPage(img image.Image, d Directive, last bool) error {
	label, err := labels.Lookup(d.LabelID)
	if err != nil {
		return err
	}
	if d.RedBlack && !r.model.TwoColor {
		return fmt.Errorf("打印机 %s 不支持红黑双色打印", r.model.Name)
	}
	if d.RedBlack && !label.TwoColor {
		return fmt.Errorf("标签 %s 不支持红黑双色打印", label.ID)
	}

	prepared, err := r.prepare(img, label, d.Rotate)
	if err != nil {
		return err
	}
	rows := prepared.Bounds().Dy()

	r.mediaAndQuality(label, rows)
	if r.model.Cutting && d.Cut {
		r.buf.Write([]byte{0x1B, 0x69, 0x4D, 0x40}) // 自动裁切
		r.buf.Write([]byte{0x1B, 0x69, 0x41, 0x01}) // 每 1 张裁切一次
	}
	if r.model.ExpandedMode {
		var flags byte
		if d.Cut {
			flags |= 0x08
		}
		if d.RedBlack {
			flags |= 0x01
		}
		r.buf.Write([]byte{0x1B, 0x69, 0x4B, flags})
	}
	margin := make([]byte, 2)
	binary.LittleEndian.PutUint16(margin, uint16(label.FeedMargin))
	r.buf.Write([]byte{0x1B, 0x69, 0x64})
	r.buf.Write(margin)

	if d.RedBlack {
		black, red := r.splitColors(prepared)
		r.rows(black, red)
	} else {
		r.rows(r.monochrome(prepared), nil)
	}

	if last {
		r.buf.WriteByte(0x1A)
	} else {
		r.buf.WriteByte(0x0C)
	}
	r.pages++
	return nil
}

func (r *Raster) mediaAndQuality(label labels.Label, rows int) {
	kind := byte(mediaEndless)
	length := byte(0)
	if label.Kind.Fixed() {
		kind = mediaDieCut
		length = byte(label.TapeSize.Y)
	}
	flags := byte(flagValid | flagKind | flagWidth | flagLength)
	if r.HighQuality {
		flags |= flagQuality
	}
	r.buf.Write([]byte{0x1B, 0x69, 0x7A, flags, kind, byte(label.TapeSize.X), length})
	n := make([]byte, 4)
	binary.LittleEndian.PutUint32(n, uint32(rows))
	r.buf.Write(n)
	if r.pages == 0 {
		r.buf.WriteByte(0x00)
	} else {
		r.buf.WriteByte(0x01)
	}
	r.buf.WriteByte(0x00)
}

// prepare 按方向旋转、校验尺寸，并把画布放到打印头宽度的白底上。
func (r *Raster) prepare(img image.Image, label labels.Label, rotate layout.Rotation) (*image.NRGBA, error) {
	out := imaging.Clone(img)
	want := label.DotsPrintable
	b := out.Bounds()

	if label.Kind.Fixed() {
		switch rotate {
		case layout.RotateAuto:
			if b.Dx() == want.Y && b.Dy() == want.X {
				out = imaging.Rotate90(out)
			}
		case layout.Rotate90:
			out = imaging.Rotate90(out)
		}
		b = out.Bounds()
		if b.Dx() != want.X || b.Dy() != want.Y {
			return nil, fmt.Errorf("图像尺寸 %dx%d 与标签 %s 的可打印区域 %dx%d 不符",
				b.Dx(), b.Dy(), label.ID, want.X, want.Y)
		}
	} else {
		if rotate == layout.Rotate90 {
			out = imaging.Rotate90(out)
		}
		if out.Bounds().Dx() != want.X {
			out = imaging.Resize(out, want.X, 0, imaging.Lanczos)
		}
	}

	head := r.model.HeadDots()
	offset := label.RightOffset + r.model.ExtraRightOffset
	w := out.Bounds().Dx()
	if w+offset > head {
		return nil, fmt.Errorf("标签 %s 超出打印机 %s 的打印头宽度", label.ID, r.model.Name)
	}
	canvas := imaging.New(head, out.Bounds().Dy(), color.White)
	canvas = imaging.Paste(canvas, out, image.Pt(head-w-offset, 0))
	// 打印头从右向左出墨，光栅行需水平镜像。
	return imaging.FlipH(canvas), nil
}

// monochrome 返回每个像素是否出墨。
func (r *Raster) monochrome(img *image.NRGBA) [][]bool {
	cut := r.cutoff()
	return mask(img, func(c color.NRGBA) bool {
		return 255-luminance(c) >= cut
	})
}

// splitColors 将画布拆成黑、红两层。
func (r *Raster) splitColors(img *image.NRGBA) (black, red [][]bool) {
	cut := r.cutoff()
	red = mask(img, isRed)
	black = mask(img, func(c color.NRGBA) bool {
		return !isRed(c) && 255-luminance(c) >= cut
	})
	return black, red
}

func (r *Raster) cutoff() int {
	t := r.Threshold
	if t <= 0 {
		t = DefaultThreshold
	}
	v := int((1 - float64(t)/100) * 255)
	return min(255, max(0, v))
}

// rows 以 MSB 在前打包每一行；双色时黑、红两行交替写出。
func (r *Raster) rows(black, red [][]bool) {
	width := r.model.BytesPerRow
	for y := range black {
		if red == nil {
			r.buf.Write([]byte{0x67, 0x00, byte(width)})
			r.buf.Write(pack(black[y], width))
			continue
		}
		r.buf.Write([]byte{0x77, 0x01, byte(width)})
		r.buf.Write(pack(black[y], width))
		r.buf.Write([]byte{0x77, 0x02, byte(width)})
		r.buf.Write(pack(red[y], width))
	}
}

func pack(row []bool, width int) []byte {
	out := make([]byte, width)
	for x, on := range row {
		if on && x/8 < width {
			out[x/8] |= 0x80 >> (x % 8)
		}
	}
	return out
}

func mask(img *image.NRGBA, on func(color.NRGBA) bool) [][]bool {
	b := img.Bounds()
	out := make([][]bool, b.Dy())
	for y := 0; y < b.Dy(); y++ {
		out[y] = make([]bool, b.Dx())
		for x := 0; x < b.Dx(); x++ {
			c := img.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			if c.A == 0 {
				continue
			}
			out[y][x] = on(c)
		}
	}
	return out
}

func luminance(c color.NRGBA) int {
	return int((299*uint32(c.R) + 587*uint32(c.G) + 114*uint32(c.B)) / 1000)
}

// isRed 以 HSV 判定红色：色相接近 0°，饱和度与明度都足够高。
func isRed(c color.NRGBA) bool {
	r, g, b := int(c.R), int(c.G), int(c.B)
	hi := max(r, g, b)
	lo := min(r, g, b)
	if hi != r || hi <= 80 {
		return false
	}
	if (hi-lo)*255/hi <= 100 {
		return false
	}
	// 色相（0–360）落在 ±40° 以内
	hue := 60 * (g - b) / (hi - lo)
	return hue > -40 && hue < 40
}
