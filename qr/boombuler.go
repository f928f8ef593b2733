package qr

import (
	"image"
	"image/color"

	"github.com/boombuler/barcode/qr"

	"github.com/ByLCY/labelpress/layout"
)

// BoombulerEncoder 基于 github.com/boombuler/barcode/qr，生成的符号本身不带静区。
type BoombulerEncoder struct{}

var _ layout.QREncoder = BoombulerEncoder{}

func (BoombulerEncoder) Encode(data string, level layout.Correction, moduleSize int, fg color.Color) (image.Image, error) {
	code, err := qr.Encode(data, boombulerLevel(level), qr.Auto)
	if err != nil {
		return nil, encodingError(data, level, err)
	}
	return paint(modulesFromImage(code), moduleSize, fg), nil
}

func boombulerLevel(level layout.Correction) qr.ErrorCorrectionLevel {
	switch level {
	case layout.CorrectionM:
		return qr.M
	case layout.CorrectionQ:
		return qr.Q
	case layout.CorrectionH:
		return qr.H
	default:
		return qr.L
	}
}
