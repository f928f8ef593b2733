package layout

// 该文件定义标签描述、测量结果与画布结果，供内容解析、画布尺寸计算、摆放与调试 JSON 共用。

import (
	"image"
	"image/color"
)

// ContentMode 决定标签上出现哪些内容。
type ContentMode int

const (
	TextOnly ContentMode = iota
	QrOnly
	QrAndText
	ImageOnly
)

// HasText 报告该模式是否需要测量并绘制文本。
func (m ContentMode) HasText() bool { return m == TextOnly || m == QrAndText }

// HasQR 报告该模式是否需要生成二维码。
func (m ContentMode) HasQR() bool { return m == QrOnly || m == QrAndText }

func (m ContentMode) String() string {
	switch m {
	case TextOnly:
		return "text"
	case QrOnly:
		return "qrcode"
	case QrAndText:
		return "qrcode_text"
	case ImageOnly:
		return "image"
	default:
		return "unknown"
	}
}

// Orientation 表示标签方向：标准或旋转 90°。
type Orientation int

const (
	Standard Orientation = iota
	Rotated
)

func (o Orientation) String() string {
	if o == Rotated {
		return "rotated"
	}
	return "standard"
}

// LabelKind 描述标签纸的物理类型。
type LabelKind int

const (
	Endless LabelKind = iota
	DieCut
	RoundDieCut
)

// Fixed 报告画布两个轴是否都固定（模切/圆形模切）。
func (k LabelKind) Fixed() bool { return k == DieCut || k == RoundDieCut }

func (k LabelKind) String() string {
	switch k {
	case Endless:
		return "endless"
	case DieCut:
		return "die-cut"
	case RoundDieCut:
		return "round-die-cut"
	default:
		return "unknown"
	}
}

// ForeColor 为前景色，Red 只在红黑双色标签纸上有意义，由调用方保证。
type ForeColor int

const (
	Black ForeColor = iota
	Red
)

// RGBA 返回前景色对应的像素颜色。
func (c ForeColor) RGBA() color.RGBA {
	if c == Red {
		return color.RGBA{R: 255, A: 255}
	}
	return color.RGBA{A: 255}
}

func (c ForeColor) String() string {
	if c == Red {
		return "red"
	}
	return "black"
}

// TextAlign 控制多行文本块内部每行的水平对齐。
type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// Correction 是二维码纠错等级。
type Correction string

const (
	CorrectionL Correction = "L"
	CorrectionM Correction = "M"
	CorrectionQ Correction = "Q"
	CorrectionH Correction = "H"
)

// Margins 四边边距，单位为像素（调用方已从字号百分比换算）。
type Margins struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

// FontResource 是字体的不透明句柄，Src 可以是文件路径或 embed:<name>。
type FontResource struct {
	Family string `json:"family"`
	Style  string `json:"style"`
	Src    string `json:"src"`
}

// QRContent 描述二维码内容与模块尺寸。
type QRContent struct {
	Data       string     `json:"data"`
	ModuleSize int        `json:"moduleSize"`
	Correction Correction `json:"correction"`
}

// LabelSpec 是一次渲染请求的完整输入，构造后不再修改。
type LabelSpec struct {
	Content     ContentMode `json:"content"`
	Orientation Orientation `json:"orientation"`
	Kind        LabelKind   `json:"kind"`
	// BaseWidth/BaseHeight 为打印机原生可打印区域（像素），引擎内部负责按方向交换。
	BaseWidth  int       `json:"baseWidth"`
	BaseHeight int       `json:"baseHeight"`
	Margins    Margins   `json:"margins"`
	ForeColor  ForeColor `json:"foreColor"`

	Text        []string     `json:"text,omitempty"`
	Align       TextAlign    `json:"align"`
	Font        FontResource `json:"font"`
	FontSize    float64      `json:"fontSize"`
	LineSpacing int          `json:"lineSpacing"` // 100 为单倍行距

	QR    QRContent   `json:"qr"`
	Image image.Image `json:"-"` // 已二值化的上传图片，可为空
}

// Size 是以像素为单位的宽高。
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MeasuredContent 是内容解析阶段的产物，只在一次渲染中存在。
type MeasuredContent struct {
	Bitmap     image.Image `json:"-"`
	BitmapSize Size        `json:"bitmapSize"`
	Text       []string    `json:"text,omitempty"` // 原始行（绘制用，不做空行替换）
	TextSize   Size        `json:"textSize"`
	Spacing    int         `json:"spacing"` // 行间额外间距，可为负
}

// Placement 保存两组偏移量。
type Placement struct {
	Image image.Point `json:"image"`
	Text  image.Point `json:"text"`
}

// Rotation 是交给打印机传输层的旋转指令。
type Rotation int

const (
	RotateAuto Rotation = -1
	Rotate0    Rotation = 0
	Rotate90   Rotation = 90
)

func (r Rotation) String() string {
	switch r {
	case RotateAuto:
		return "auto"
	case Rotate90:
		return "90"
	default:
		return "0"
	}
}

// MarshalText 让调试 JSON 输出 auto/0/90。
func (r Rotation) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// Result 是最终画布：尺寸、偏移、像素缓冲以及旋转指令。
type Result struct {
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Placement Placement       `json:"placement"`
	Measured  MeasuredContent `json:"measured"`
	Rotate    Rotation        `json:"rotate"`
	Image     *image.RGBA     `json:"-"`
}
