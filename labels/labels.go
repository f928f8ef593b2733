// Package labels 保存 Brother QL 系列标签纸的几何参数表（300 dpi 下的点数）。
package labels

import (
	"image"

	"github.com/ByLCY/labelpress/layout"
)

// Label 描述一种标签纸。
type Label struct {
	ID   string
	Name string
	// TapeSize 为纸带宽×长，单位毫米；连续纸长度为 0。
	TapeSize      image.Point
	DotsTotal     image.Point
	DotsPrintable image.Point
	// RightOffset 为打印头右侧需要留空的点数。
	RightOffset int
	FeedMargin  int
	Kind        layout.LabelKind
	// TwoColor 表示支持红黑双色打印（例如 62red）。
	TwoColor bool
}

// PrintableMM 返回可打印区域的宽和长（毫米），连续纸长度为 0。
func (l Label) PrintableMM() (width, length float64) {
	return layout.DotsToMM(l.DotsPrintable.X), layout.DotsToMM(l.DotsPrintable.Y)
}

// Round 报告是否为圆形模切标签。
func (l Label) Round() bool { return l.Kind == layout.RoundDieCut }

var table = []Label{
	{ID: "12", Name: "12mm endless", TapeSize: image.Pt(12, 0), DotsTotal: image.Pt(142, 0), DotsPrintable: image.Pt(106, 0), RightOffset: 29, FeedMargin: 35, Kind: layout.Endless},
	{ID: "29", Name: "29mm endless", TapeSize: image.Pt(29, 0), DotsTotal: image.Pt(342, 0), DotsPrintable: image.Pt(306, 0), RightOffset: 6, FeedMargin: 35, Kind: layout.Endless},
	{ID: "38", Name: "38mm endless", TapeSize: image.Pt(38, 0), DotsTotal: image.Pt(449, 0), DotsPrintable: image.Pt(413, 0), RightOffset: 12, FeedMargin: 35, Kind: layout.Endless},
	{ID: "50", Name: "50mm endless", TapeSize: image.Pt(50, 0), DotsTotal: image.Pt(590, 0), DotsPrintable: image.Pt(554, 0), RightOffset: 12, FeedMargin: 35, Kind: layout.Endless},
	{ID: "54", Name: "54mm endless", TapeSize: image.Pt(54, 0), DotsTotal: image.Pt(636, 0), DotsPrintable: image.Pt(590, 0), RightOffset: 0, FeedMargin: 35, Kind: layout.Endless},
	{ID: "62", Name: "62mm endless", TapeSize: image.Pt(62, 0), DotsTotal: image.Pt(732, 0), DotsPrintable: image.Pt(696, 0), RightOffset: 12, FeedMargin: 35, Kind: layout.Endless},
	{ID: "62red", Name: "62mm endless (black/red/white)", TapeSize: image.Pt(62, 0), DotsTotal: image.Pt(732, 0), DotsPrintable: image.Pt(696, 0), RightOffset: 12, FeedMargin: 35, Kind: layout.Endless, TwoColor: true},
	{ID: "102", Name: "102mm endless", TapeSize: image.Pt(102, 0), DotsTotal: image.Pt(1200, 0), DotsPrintable: image.Pt(1164, 0), RightOffset: 12, FeedMargin: 35, Kind: layout.Endless},
	{ID: "17x54", Name: "17mm x 54mm die-cut", TapeSize: image.Pt(17, 54), DotsTotal: image.Pt(201, 636), DotsPrintable: image.Pt(165, 566), RightOffset: 0, Kind: layout.DieCut},
	{ID: "17x87", Name: "17mm x 87mm die-cut", TapeSize: image.Pt(17, 87), DotsTotal: image.Pt(201, 1026), DotsPrintable: image.Pt(165, 956), RightOffset: 0, Kind: layout.DieCut},
	{ID: "23x23", Name: "23mm x 23mm die-cut", TapeSize: image.Pt(23, 23), DotsTotal: image.Pt(272, 272), DotsPrintable: image.Pt(202, 202), RightOffset: 42, Kind: layout.DieCut},
	{ID: "29x42", Name: "29mm x 42mm die-cut", TapeSize: image.Pt(29, 42), DotsTotal: image.Pt(342, 495), DotsPrintable: image.Pt(306, 425), RightOffset: 6, Kind: layout.DieCut},
	{ID: "29x90", Name: "29mm x 90mm die-cut", TapeSize: image.Pt(29, 90), DotsTotal: image.Pt(342, 1061), DotsPrintable: image.Pt(306, 991), RightOffset: 6, Kind: layout.DieCut},
	{ID: "39x90", Name: "38mm x 90mm die-cut", TapeSize: image.Pt(38, 90), DotsTotal: image.Pt(449, 1061), DotsPrintable: image.Pt(413, 991), RightOffset: 12, Kind: layout.DieCut},
	{ID: "39x48", Name: "39mm x 48mm die-cut", TapeSize: image.Pt(39, 48), DotsTotal: image.Pt(461, 565), DotsPrintable: image.Pt(425, 495), RightOffset: 6, Kind: layout.DieCut},
	{ID: "52x29", Name: "52mm x 29mm die-cut", TapeSize: image.Pt(52, 29), DotsTotal: image.Pt(614, 341), DotsPrintable: image.Pt(578, 271), RightOffset: 0, Kind: layout.DieCut},
	{ID: "62x29", Name: "62mm x 29mm die-cut", TapeSize: image.Pt(62, 29), DotsTotal: image.Pt(732, 341), DotsPrintable: image.Pt(696, 271), RightOffset: 12, Kind: layout.DieCut},
	{ID: "62x100", Name: "62mm x 100mm die-cut", TapeSize: image.Pt(62, 100), DotsTotal: image.Pt(732, 1179), DotsPrintable: image.Pt(696, 1109), RightOffset: 12, Kind: layout.DieCut},
	{ID: "102x51", Name: "102mm x 51mm die-cut", TapeSize: image.Pt(102, 51), DotsTotal: image.Pt(1200, 596), DotsPrintable: image.Pt(1164, 526), RightOffset: 12, Kind: layout.DieCut},
	{ID: "102x152", Name: "102mm x 153mm die-cut", TapeSize: image.Pt(102, 153), DotsTotal: image.Pt(1200, 1804), DotsPrintable: image.Pt(1164, 1660), RightOffset: 12, Kind: layout.DieCut},
	{ID: "d12", Name: "12mm round die-cut", TapeSize: image.Pt(12, 12), DotsTotal: image.Pt(142, 142), DotsPrintable: image.Pt(94, 94), RightOffset: 113, Kind: layout.RoundDieCut},
	{ID: "d24", Name: "24mm round die-cut", TapeSize: image.Pt(24, 24), DotsTotal: image.Pt(284, 284), DotsPrintable: image.Pt(236, 236), RightOffset: 42, Kind: layout.RoundDieCut},
	{ID: "d58", Name: "58mm round die-cut", TapeSize: image.Pt(58, 58), DotsTotal: image.Pt(688, 688), DotsPrintable: image.Pt(618, 618), RightOffset: 51, Kind: layout.RoundDieCut},
}

var byID = func() map[string]Label {
	m := make(map[string]Label, len(table))
	for _, l := range table {
		m[l.ID] = l
	}
	return m
}()

// Lookup 按标识查找标签，找不到时返回 *layout.UnknownLabelSizeError。
func Lookup(id string) (Label, error) {
	l, ok := byID[id]
	if !ok {
		return Label{}, &layout.UnknownLabelSizeError{ID: id}
	}
	return l, nil
}

// All 按表内顺序返回全部标签。
func All() []Label {
	return append([]Label(nil), table...)
}
