package fonts

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/sfnt"
)

// fcScanFormat 让 fc-scan 输出与 fc-list 相同的 "file:family:style=…" 格式。
const fcScanFormat = "%{file}:%{family}:style=%{style}\n"

// ScanSystem 通过 fc-list 枚举系统已安装的 TrueType/OpenType 字体。
func ScanSystem(ctx context.Context) ([]Entry, error) {
	out, err := exec.CommandContext(ctx, "fc-list").Output()
	if err != nil {
		return nil, fmt.Errorf("执行 fc-list 失败: %w", err)
	}
	return ParseFontList(out), nil
}

// ScanFolder 枚举目录中的字体。优先使用 fc-scan；系统没有 fontconfig 时，
// 直接遍历目录并从字体 name 表读取字体族与样式。
func ScanFolder(ctx context.Context, dir string) ([]Entry, error) {
	if dir == "" {
		return nil, nil
	}
	out, err := exec.CommandContext(ctx, "fc-scan", "--format", fcScanFormat, dir).Output()
	if err == nil {
		return ParseFontList(out), nil
	}
	if !errors.Is(err, exec.ErrNotFound) {
		return nil, fmt.Errorf("执行 fc-scan 失败: %w", err)
	}
	return WalkFolder(dir)
}

// ParseFontList 解析 fc-list/fc-scan 的输出，只保留 .ttf 与 .otf。
// 每行形如 "/path/DejaVuSerif.ttf: DejaVu Serif:style=Book"；字体族带别名时取第一个，样式同理。
func ParseFontList(raw []byte) []Entry {
	var entries []Entry
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		parts := strings.Split(sc.Text(), ":")
		if len(parts) < 3 {
			continue
		}
		path := strings.TrimSpace(parts[0])
		if !isOutlineFont(path) {
			continue
		}
		family := strings.ReplaceAll(parts[1], `\`, "")
		family, _, _ = strings.Cut(family, ",")
		family = strings.TrimSpace(family)

		style := strings.TrimPrefix(strings.TrimSpace(parts[2]), "style=")
		style, _, _ = strings.Cut(style, ",")
		style = strings.TrimSpace(style)

		if family == "" {
			continue
		}
		entries = append(entries, Entry{Family: family, Style: style, Src: path})
	}
	return entries
}

// WalkFolder 遍历目录，读取每个字体文件的字体族与样式名。无法解析的文件被跳过。
func WalkFolder(dir string) ([]Entry, error) {
	var entries []Entry
	var buf sfnt.Buffer
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isOutlineFont(path) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f, err := sfnt.Parse(data)
		if err != nil {
			return nil
		}
		family := fontName(f, &buf, sfnt.NameIDTypographicFamily, sfnt.NameIDFamily)
		style := fontName(f, &buf, sfnt.NameIDTypographicSubfamily, sfnt.NameIDSubfamily)
		if family == "" {
			family = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		if style == "" {
			style = "Regular"
		}
		entries = append(entries, Entry{Family: family, Style: style, Src: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("遍历字体目录 %s 失败: %w", dir, err)
	}
	return entries, nil
}

func fontName(f *sfnt.Font, buf *sfnt.Buffer, ids ...sfnt.NameID) string {
	for _, id := range ids {
		if name, err := f.Name(buf, id); err == nil && strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name)
		}
	}
	return ""
}

func isOutlineFont(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".ttf" || ext == ".otf"
}
