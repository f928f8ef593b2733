package qr

import (
	"image"
	"image/color"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/ByLCY/labelpress/layout"
)

// Skip2Encoder 基于 github.com/skip2/go-qrcode。
type Skip2Encoder struct{}

var _ layout.QREncoder = Skip2Encoder{}

func (Skip2Encoder) Encode(data string, level layout.Correction, moduleSize int, fg color.Color) (image.Image, error) {
	q, err := qrcode.New(data, skip2Level(level))
	if err != nil {
		return nil, encodingError(data, level, err)
	}
	q.DisableBorder = true
	return paint(q.Bitmap(), moduleSize, fg), nil
}

func skip2Level(level layout.Correction) qrcode.RecoveryLevel {
	switch level {
	case layout.CorrectionM:
		return qrcode.Medium
	case layout.CorrectionQ:
		return qrcode.High
	case layout.CorrectionH:
		return qrcode.Highest
	default:
		return qrcode.Low
	}
}
