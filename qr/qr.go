// Package qr 提供二维码编码器，输出无静区、白底、按模块尺寸放大的正方形位图。
package qr

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/ByLCY/labelpress/layout"
)

// Encoder 名称，用于配置项 render.qr_encoder。
const (
	NameSkip2     = "skip2"
	NameYeqown    = "yeqown"
	NameBoombuler = "boombuler"
)

// New 按名字返回编码器，空名字返回默认的 skip2。
func New(name string) (layout.QREncoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameSkip2:
		return Skip2Encoder{}, nil
	case NameYeqown:
		return YeqownEncoder{}, nil
	case NameBoombuler:
		return BoombulerEncoder{}, nil
	default:
		return nil, fmt.Errorf("未知的二维码编码器 %q", name)
	}
}

// ParseCorrection 解析纠错等级，无法识别时退回 L。
func ParseCorrection(s string) layout.Correction {
	switch layout.Correction(strings.ToUpper(strings.TrimSpace(s))) {
	case layout.CorrectionM:
		return layout.CorrectionM
	case layout.CorrectionQ:
		return layout.CorrectionQ
	case layout.CorrectionH:
		return layout.CorrectionH
	default:
		return layout.CorrectionL
	}
}

// paint 将模块矩阵放大绘制：true 为前景色，其余为白色。
func paint(modules [][]bool, moduleSize int, fg color.Color) *image.RGBA {
	if moduleSize <= 0 {
		moduleSize = 1
	}
	side := len(modules) * moduleSize
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	ink := image.NewUniform(fg)
	for y, row := range modules {
		for x, dark := range row {
			if !dark {
				continue
			}
			r := image.Rect(x*moduleSize, y*moduleSize, (x+1)*moduleSize, (y+1)*moduleSize)
			draw.Draw(img, r, ink, image.Point{}, draw.Src)
		}
	}
	return img
}

// modulesFromImage 把每像素一个模块的图像转换成模块矩阵。
func modulesFromImage(img image.Image) [][]bool {
	b := img.Bounds()
	modules := make([][]bool, b.Dy())
	for y := 0; y < b.Dy(); y++ {
		modules[y] = make([]bool, b.Dx())
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			modules[y][x] = (r+g+bl)/3 < 0x8000
		}
	}
	return modules
}

func encodingError(data string, level layout.Correction, err error) error {
	return &layout.EncodingError{Data: data, Level: level, Err: err}
}
