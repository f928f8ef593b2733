package fonts

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// EmbedPrefix 标记内置字体资源，例如 "embed:Go-Regular"。
const EmbedPrefix = "embed:"

// EmbeddedFamily 是内置字体族的名字。
const EmbeddedFamily = "Go"

var embedded = map[string][]byte{
	"Go-Regular":    goregular.TTF,
	"Go-Bold":       gobold.TTF,
	"Go-Italic":     goitalic.TTF,
	"Go-BoldItalic": gobolditalic.TTF,
	"Go-Mono":       gomono.TTF,
}

var embeddedStyles = []Entry{
	{Family: EmbeddedFamily, Style: "Regular", Src: EmbedPrefix + "Go-Regular"},
	{Family: EmbeddedFamily, Style: "Bold", Src: EmbedPrefix + "Go-Bold"},
	{Family: EmbeddedFamily, Style: "Italic", Src: EmbedPrefix + "Go-Italic"},
	{Family: EmbeddedFamily, Style: "Bold Italic", Src: EmbedPrefix + "Go-BoldItalic"},
	{Family: EmbeddedFamily, Style: "Mono", Src: EmbedPrefix + "Go-Mono"},
}

// Embedded 返回内置 Go 字体族的目录条目。
func Embedded() []Entry {
	return append([]Entry(nil), embeddedStyles...)
}

// FallbackSrc 是渲染后端在字体无法加载时使用的字体。
const FallbackSrc = EmbedPrefix + "Go-Regular"

// Load 返回字体的字节数据。src 可写为 "embed:Go-Regular" 或文件路径。
func Load(src string) ([]byte, error) {
	if name, ok := strings.CutPrefix(src, EmbedPrefix); ok {
		data, ok := embedded[name]
		if !ok {
			return nil, fmt.Errorf("读取内置字体 %s 失败: 不存在", name)
		}
		return data, nil
	}
	if src == "" {
		return nil, fmt.Errorf("字体路径为空")
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("读取字体文件 %s 失败: %w", src, err)
	}
	return data, nil
}
