package renderer

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/ByLCY/labelpress/layout"
)

// Renderer 将布局结果输出为最终文件，例如 PNG 预览。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// EncodePNG 将画布编码为 PNG。
func EncodePNG(result *layout.Result) ([]byte, error) {
	if result == nil || result.Image == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, result.Image, imaging.PNG); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// Base64 包装另一个 Renderer，把输出转成 base64 文本，供预览接口直接嵌入 <img>。
type Base64 struct {
	Renderer Renderer
}

func (b Base64) Render(result *layout.Result) ([]byte, error) {
	raw, err := b.Renderer.Render(result)
	if err != nil {
		return nil, err
	}
	out := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(out, raw)
	return out, nil
}
