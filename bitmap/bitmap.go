// Package bitmap 把上传的图片转换为可直接贴到标签画布上的黑白位图。
package bitmap

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/makeworld-the-better-one/dither/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// DefaultThreshold 是上传图片二值化的默认灰度阈值。
const DefaultThreshold = 200

// Dither 模式，用于照片类图片。
const (
	DitherNone           = "none"
	DitherFloydSteinberg = "floydsteinberg"
	DitherAtkinson       = "atkinson"
)

// Options 控制上传图片的二值化方式。
type Options struct {
	Threshold int
	Dither    string
}

// Decode 按文件扩展名解码并二值化上传图片。
// 不支持的扩展名返回 (nil, nil)，此时标签为空白画布。
func Decode(name string, r io.Reader, opts Options) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		img, err = imaging.Decode(r, imaging.AutoOrientation(true))
	case ".svg":
		img, err = decodeSVG(r)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("解码图片 %s 失败: %w", name, err)
	}
	return Prepare(img, opts)
}

// Prepare 对已解码图片执行抖动或阈值二值化。
func Prepare(img image.Image, opts Options) (image.Image, error) {
	switch strings.ToLower(opts.Dither) {
	case "", DitherNone:
		t := opts.Threshold
		if t <= 0 {
			t = DefaultThreshold
		}
		return Threshold(img, t), nil
	case DitherFloydSteinberg, DitherAtkinson:
		return Dither(img, opts.Dither), nil
	default:
		return nil, fmt.Errorf("未知的抖动模式 %q", opts.Dither)
	}
}

// Threshold 将图片转为灰度，灰度大于 t 的像素变白，其余变黑。
func Threshold(img image.Image, t int) *image.NRGBA {
	gray := imaging.Grayscale(flatten(img))
	return imaging.AdjustFunc(gray, func(c color.NRGBA) color.NRGBA {
		if int(c.R) > t {
			return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		}
		return color.NRGBA{A: 255}
	})
}

// Dither 使用误差扩散抖动到黑白两色。
func Dither(img image.Image, mode string) image.Image {
	d := dither.NewDitherer([]color.Color{color.Black, color.White})
	switch strings.ToLower(mode) {
	case DitherAtkinson:
		d.Matrix = dither.Atkinson
	default:
		d.Matrix = dither.FloydSteinberg
	}
	return d.Dither(flatten(img))
}

// flatten 把透明区域合成到白底上，透明 PNG 的背景不会被当成黑色。
func flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := imaging.New(b.Dx(), b.Dy(), color.White)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}

func decodeSVG(r io.Reader) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return nil, err
	}
	w, h := int(icon.ViewBox.W), int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("SVG 缺少有效的 viewBox")
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), image.White, image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return rgba, nil
}
