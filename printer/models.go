package printer

import (
	"fmt"
	"sort"
	"strings"
)

// Model 描述一种 QL 打印机支持的命令集。
type Model struct {
	Name string
	// BytesPerRow 为每行光栅数据的字节数，90 字节对应 720 点打印头。
	BytesPerRow int
	// ExtraRightOffset 为宽幅机型在标签右侧额外留出的点数。
	ExtraRightOffset int
	InvalidateBytes  int
	ModeSetting      bool
	Cutting          bool
	ExpandedMode     bool
	Compression      bool
	TwoColor         bool
}

// HeadDots 返回打印头宽度（点）。
func (m Model) HeadDots() int { return m.BytesPerRow * 8 }

func base(name string) Model {
	return Model{
		Name:            name,
		BytesPerRow:     90,
		InvalidateBytes: 200,
		ModeSetting:     true,
		Cutting:         true,
		ExpandedMode:    true,
		Compression:     true,
	}
}

var models = func() map[string]Model {
	list := []Model{}

	ql500 := base("QL-500")
	ql500.ModeSetting, ql500.Cutting, ql500.ExpandedMode, ql500.Compression = false, false, false, false
	list = append(list, ql500)

	for _, name := range []string{"QL-550", "QL-560", "QL-570", "QL-700"} {
		m := base(name)
		m.ModeSetting, m.Compression = false, false
		list = append(list, m)
	}
	for _, name := range []string{"QL-580N", "QL-650TD", "QL-710W", "QL-720NW"} {
		list = append(list, base(name))
	}

	ql800 := base("QL-800")
	ql800.TwoColor, ql800.Compression, ql800.InvalidateBytes = true, false, 400
	list = append(list, ql800)
	for _, name := range []string{"QL-810W", "QL-820NWB"} {
		m := base(name)
		m.TwoColor, m.InvalidateBytes = true, 400
		list = append(list, m)
	}

	for _, name := range []string{"QL-1050", "QL-1060N"} {
		m := base(name)
		m.BytesPerRow, m.ExtraRightOffset = 162, 44
		list = append(list, m)
	}

	out := make(map[string]Model, len(list))
	for _, m := range list {
		out[m.Name] = m
	}
	return out
}()

// LookupModel 按型号名查找打印机，忽略大小写。
func LookupModel(name string) (Model, error) {
	m, ok := models[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return Model{}, fmt.Errorf("不支持的打印机型号 %q", name)
	}
	return m, nil
}

// Models 返回排序后的型号名列表。
func Models() []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
