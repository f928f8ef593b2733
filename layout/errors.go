package layout

import (
	"errors"
	"fmt"
)

var (
	ErrNoTypesetter = errors.New("layout: 缺少排版后端 Typesetter")
	ErrNoEncoder    = errors.New("layout: 缺少二维码编码器 QREncoder")
)

// EncodingError 表示二维码数据无法按指定纠错等级编码，不重试。
type EncodingError struct {
	Data  string
	Level Correction
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("二维码编码失败（%d 字节，纠错等级 %s）: %v", len(e.Data), e.Level, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// MissingFontError 表示字体族或样式查找失败。
type MissingFontError struct {
	Family string
	Style  string
}

func (e *MissingFontError) Error() string {
	return fmt.Sprintf("找不到字体 %q（样式 %q）", e.Family, e.Style)
}

// UnknownLabelSizeError 表示标签尺寸表中没有该标识。
type UnknownLabelSizeError struct {
	ID string
}

func (e *UnknownLabelSizeError) Error() string {
	return fmt.Sprintf("未知的标签尺寸 %q", e.ID)
}
