package qr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"

	"github.com/ByLCY/labelpress/layout"
)

// YeqownEncoder 基于 github.com/yeqown/go-qrcode/v2。
// 先以每模块 1 像素、无边框输出 PNG，再解析出模块矩阵后按模块尺寸重绘。
type YeqownEncoder struct{}

var _ layout.QREncoder = YeqownEncoder{}

type bufferCloser struct{ *bytes.Buffer }

func (bufferCloser) Close() error { return nil }

func (YeqownEncoder) Encode(data string, level layout.Correction, moduleSize int, fg color.Color) (image.Image, error) {
	qrc, err := qrcode.NewWith(data, yeqownLevel(level))
	if err != nil {
		return nil, encodingError(data, level, err)
	}
	buf := bufferCloser{Buffer: &bytes.Buffer{}}
	w := standard.NewWithWriter(buf,
		standard.WithQRWidth(1),
		standard.WithBorderWidth(0),
		standard.WithBgColor(color.RGBA{R: 255, G: 255, B: 255, A: 255}),
		standard.WithFgColor(color.RGBA{A: 255}),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	if err := qrc.Save(w); err != nil {
		return nil, encodingError(data, level, err)
	}
	matrix, err := png.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, encodingError(data, level, err)
	}
	return paint(modulesFromImage(matrix), moduleSize, fg), nil
}

func yeqownLevel(level layout.Correction) qrcode.EncodeOption {
	switch level {
	case layout.CorrectionM:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium)
	case layout.CorrectionQ:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart)
	case layout.CorrectionH:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest)
	default:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionLow)
	}
}
