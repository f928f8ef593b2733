package layout

import (
	"image"
	"image/color"
)

// BuildOptions 配置布局阶段所需的依赖，例如排版后端与二维码编码器。
type BuildOptions struct {
	Typesetter Typesetter
	Encoder    QREncoder
	Debug      DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Boxes bool // 在画布上描出位图与文本块的外框，便于预览时核对摆放
}

// Typesetter 负责多行文本的测量与绘制。
// lines 已按行拆分；spacing 为行间额外像素，可以为负。
type Typesetter interface {
	MeasureText(lines []string, font FontResource, fontSize float64, spacing int) (Size, error)
	DrawText(dst *image.RGBA, lines []string, font FontResource, fontSize float64, col color.Color, align TextAlign, spacing int, origin image.Point) error
}

// QREncoder 将数据编码为无静区的正方形二维码位图，背景为白色。
type QREncoder interface {
	Encode(data string, level Correction, moduleSize int, fg color.Color) (image.Image, error)
}
