// Package fonts 维护可用字体目录：系统字体、字体目录中的字体以及内置 Go 字体。
// 目录在启动时构建一次，之后只读；需要热加载时构建新目录替换旧值。
package fonts

import (
	"sort"
	"strings"

	"github.com/ByLCY/labelpress/layout"
)

// Entry 是一条字体记录。
type Entry struct {
	Family string
	Style  string
	Src    string
}

// Catalog 是 family → style → src 的只读映射，可被多个 goroutine 并发读取。
type Catalog struct {
	fonts map[string]map[string]string
}

// NewCatalog 按顺序收录条目，同名 family/style 以后出现的为准。
func NewCatalog(entries ...[]Entry) *Catalog {
	c := &Catalog{fonts: map[string]map[string]string{}}
	for _, group := range entries {
		for _, e := range group {
			if e.Family == "" || e.Src == "" {
				continue
			}
			styles, ok := c.fonts[e.Family]
			if !ok {
				styles = map[string]string{}
				c.fonts[e.Family] = styles
			}
			styles[e.Style] = e.Src
		}
	}
	return c
}

// Rebuild 基于当前目录追加条目并返回新目录，原目录不受影响。
func (c *Catalog) Rebuild(entries ...[]Entry) *Catalog {
	return NewCatalog(append([][]Entry{c.Entries()}, entries...)...)
}

// Len 返回字体族数量。
func (c *Catalog) Len() int { return len(c.fonts) }

// Families 返回按不区分大小写排序的字体族名。
func (c *Catalog) Families() []string {
	names := make([]string, 0, len(c.fonts))
	for name := range c.fonts {
		names = append(names, name)
	}
	sortFold(names)
	return names
}

// Styles 返回某字体族的 style → src 映射副本；字体族不存在时 ok 为 false。
func (c *Catalog) Styles(family string) (map[string]string, bool) {
	styles, ok := c.fonts[family]
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(styles))
	for k, v := range styles {
		out[k] = v
	}
	return out, true
}

// Lookup 查找字体，找不到时返回 *layout.MissingFontError，从不替换。
func (c *Catalog) Lookup(family, style string) (layout.FontResource, error) {
	styles, ok := c.fonts[family]
	if !ok {
		return layout.FontResource{}, &layout.MissingFontError{Family: family, Style: style}
	}
	src, ok := styles[style]
	if !ok {
		return layout.FontResource{}, &layout.MissingFontError{Family: family, Style: style}
	}
	return layout.FontResource{Family: family, Style: style, Src: src}, nil
}

// Entries 以确定的顺序列出全部条目。
func (c *Catalog) Entries() []Entry {
	var out []Entry
	for _, family := range c.Families() {
		styles := c.fonts[family]
		names := make([]string, 0, len(styles))
		for s := range styles {
			names = append(names, s)
		}
		sort.Strings(names)
		for _, s := range names {
			out = append(out, Entry{Family: family, Style: s, Src: styles[s]})
		}
	}
	return out
}

// PickDefault 返回第一个可用的候选字体。
// 全部不可用时退回目录中排序最靠前的字体并令 ok=false，由调用方记录替换日志。
func (c *Catalog) PickDefault(candidates []layout.FontResource) (res layout.FontResource, ok bool) {
	for _, cand := range candidates {
		if r, err := c.Lookup(cand.Family, cand.Style); err == nil {
			return r, true
		}
	}
	entries := c.Entries()
	if len(entries) == 0 {
		return layout.FontResource{}, false
	}
	e := entries[0]
	return layout.FontResource{Family: e.Family, Style: e.Style, Src: e.Src}, false
}

// ParseCandidate 解析 "family:style" 形式的候选字体，缺省 style 时为 Regular。
func ParseCandidate(s string) layout.FontResource {
	family, style, found := strings.Cut(s, ":")
	if !found || strings.TrimSpace(style) == "" {
		style = "Regular"
	}
	return layout.FontResource{Family: strings.TrimSpace(family), Style: strings.TrimSpace(style)}
}

func sortFold(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li == lj {
			return names[i] < names[j]
		}
		return li < lj
	})
}
