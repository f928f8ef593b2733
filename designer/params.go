// Package designer 把标签设计参数（HTTP 表单、标签描述文件）转换为布局引擎的 LabelSpec。
package designer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidParam 表示请求参数不合法，HTTP 层映射为 400。
var ErrInvalidParam = errors.New("参数不合法")

// 打印类型
const (
	PrintText       = "text"
	PrintQRCode     = "qrcode"
	PrintQRCodeText = "qrcode_text"
	PrintImage      = "image"
)

// Params 是一次标签设计的原始参数，字段名与表单键一致。
type Params struct {
	LabelSize        string  `form:"label_size,default=62" json:"label_size"`
	PrintType        string  `form:"print_type,default=text" json:"print_type"`
	Orientation      string  `form:"orientation,default=standard" json:"orientation"`
	MarginTop        float64 `form:"margin_top,default=24" json:"margin_top"`
	MarginBottom     float64 `form:"margin_bottom,default=45" json:"margin_bottom"`
	MarginLeft       float64 `form:"margin_left,default=35" json:"margin_left"`
	MarginRight      float64 `form:"margin_right,default=35" json:"margin_right"`
	Text             string  `form:"text" json:"text"`
	Align            string  `form:"align,default=center" json:"align"`
	QRCodeSize       int     `form:"qrcode_size,default=10" json:"qrcode_size"`
	QRCodeCorrection string  `form:"qrcode_correction,default=L" json:"qrcode_correction"`
	// QRCodeData 为空时二维码内容取 Text。
	QRCodeData  string `form:"qrcode_data" json:"qrcode_data,omitempty"`
	FontSize    int    `form:"font_size,default=100" json:"font_size"`
	LineSpacing int    `form:"line_spacing,default=100" json:"line_spacing"`
	FontFamily  string `form:"font_family" json:"font_family"`
	FontStyle   string `form:"font_style" json:"font_style"`
	PrintColor  string `form:"print_color,default=black" json:"print_color"`
	PrintCount  int    `form:"print_count,default=1" json:"print_count"`
	CutOnce     bool   `form:"cut_once" json:"cut_once"`
}

// DefaultParams 返回与表单缺省值一致的参数。
func DefaultParams() Params {
	return Params{
		LabelSize:        "62",
		PrintType:        PrintText,
		Orientation:      "standard",
		MarginTop:        24,
		MarginBottom:     45,
		MarginLeft:       35,
		MarginRight:      35,
		Align:            "center",
		QRCodeSize:       10,
		QRCodeCorrection: "L",
		FontSize:         100,
		LineSpacing:      100,
		PrintColor:       "black",
		PrintCount:       1,
	}
}

// Validate 检查数值范围与枚举值。
func (p Params) Validate() error {
	switch {
	case p.FontSize <= 0:
		return fmt.Errorf("%w: font_size 必须为正数，实际 %d", ErrInvalidParam, p.FontSize)
	case p.QRCodeSize <= 0:
		return fmt.Errorf("%w: qrcode_size 必须为正数，实际 %d", ErrInvalidParam, p.QRCodeSize)
	case p.LineSpacing <= 0:
		return fmt.Errorf("%w: line_spacing 必须为正数，实际 %d", ErrInvalidParam, p.LineSpacing)
	case p.PrintCount < 1:
		return fmt.Errorf("%w: print_count 至少为 1，实际 %d", ErrInvalidParam, p.PrintCount)
	case p.MarginTop < 0 || p.MarginBottom < 0 || p.MarginLeft < 0 || p.MarginRight < 0:
		return fmt.Errorf("%w: 边距不能为负数", ErrInvalidParam)
	}
	switch strings.ToLower(p.Align) {
	case "", "left", "center", "right":
	default:
		return fmt.Errorf("%w: align 只能是 left、center 或 right，实际 %q", ErrInvalidParam, p.Align)
	}
	return nil
}

// QRData 返回二维码内容。
func (p Params) QRData() string {
	if p.QRCodeData != "" {
		return p.QRCodeData
	}
	return p.Text
}
