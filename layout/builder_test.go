package layout

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"
)

// stubTypesetter 是一个最小实现，仅用于测试，避免引入 renderer 造成循环依赖。
// 每个字符宽 charWidth，每行高 lineHeight；fixed 非零时直接返回固定尺寸。
type stubTypesetter struct {
	charWidth  int
	lineHeight int
	fixed      Size

	measured []string
	drawn    []string
	origin   image.Point
}

func (s *stubTypesetter) MeasureText(lines []string, font FontResource, fontSize float64, spacing int) (Size, error) {
	s.measured = append([]string(nil), lines...)
	if s.fixed != (Size{}) {
		return s.fixed, nil
	}
	w := 0
	for _, ln := range lines {
		// 与真实后端一致：空字符串量不出高度
		if ln == "" {
			continue
		}
		w = max(w, len(ln)*s.charWidth)
	}
	h := 0
	for i, ln := range lines {
		if ln == "" {
			continue
		}
		h += s.lineHeight
		if i > 0 {
			h += spacing
		}
	}
	return Size{Width: w, Height: max(h, 0)}, nil
}

func (s *stubTypesetter) DrawText(dst *image.RGBA, lines []string, font FontResource, fontSize float64, col color.Color, align TextAlign, spacing int, origin image.Point) error {
	s.drawn = append([]string(nil), lines...)
	s.origin = origin
	r := image.Rect(origin.X, origin.Y, origin.X+4, origin.Y+4)
	draw.Draw(dst, r, image.NewUniform(col), image.Point{}, draw.Over)
	return nil
}

// stubEncoder 返回边长 side 的纯色方块，err 非空时模拟编码失败。
type stubEncoder struct {
	side int
	err  error
	fg   color.Color
}

func (e *stubEncoder) Encode(data string, level Correction, moduleSize int, fg color.Color) (image.Image, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.fg = fg
	img := image.NewRGBA(image.Rect(0, 0, e.side, e.side))
	draw.Draw(img, img.Bounds(), image.NewUniform(fg), image.Point{}, draw.Src)
	return img, nil
}

func mustBuild(t *testing.T, spec LabelSpec, opts BuildOptions) *Result {
	t.Helper()
	res, err := Build(spec, opts)
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	return res
}

// TestEndlessTextOnlyScenario 对应 62mm 连续标签上只有一行文本的典型场景。
func TestEndlessTextOnlyScenario(t *testing.T) {
	ts := &stubTypesetter{fixed: Size{Width: 200, Height: 80}}
	spec := LabelSpec{
		Content:     TextOnly,
		Kind:        Endless,
		BaseWidth:   696,
		Margins:     Margins{Top: 10, Bottom: 10},
		Text:        []string{"HELLO"},
		FontSize:    70,
		LineSpacing: 100,
	}
	res := mustBuild(t, spec, BuildOptions{Typesetter: ts})
	if res.Width != 696 || res.Height != 100 {
		t.Fatalf("画布尺寸错误: got=%dx%d want=696x100", res.Width, res.Height)
	}
	if res.Placement.Text != image.Pt(248, 10) {
		t.Fatalf("文本偏移错误: got=%v want=(248,10)", res.Placement.Text)
	}
	if ts.origin != res.Placement.Text {
		t.Fatalf("绘制原点与摆放不一致: %v vs %v", ts.origin, res.Placement.Text)
	}
	if res.Rotate != Rotate0 {
		t.Fatalf("连续标签标准方向应为 0，实际 %v", res.Rotate)
	}
}

// TestDieCutQROnly 验证模切标签上的二维码水平居中、垂直贴上边距，且不绘制文本。
func TestDieCutQROnly(t *testing.T) {
	enc := &stubEncoder{side: 210}
	ts := &stubTypesetter{charWidth: 10, lineHeight: 20}
	spec := LabelSpec{
		Content:    QrOnly,
		Kind:       DieCut,
		BaseWidth:  300,
		BaseHeight: 300,
		QR:         QRContent{Data: "https://example.com", ModuleSize: 10},
	}
	res := mustBuild(t, spec, BuildOptions{Typesetter: ts, Encoder: enc})
	if res.Width != 300 || res.Height != 300 {
		t.Fatalf("模切画布尺寸应固定: got=%dx%d", res.Width, res.Height)
	}
	if want := image.Pt((300-210)/2, 0); res.Placement.Image != want {
		t.Fatalf("二维码偏移错误: got=%v want=%v", res.Placement.Image, want)
	}
	if ts.drawn != nil || ts.measured != nil {
		t.Fatalf("QrOnly 不应测量或绘制文本")
	}
	if res.Rotate != RotateAuto {
		t.Fatalf("模切标签应交给打印驱动自动旋转，实际 %v", res.Rotate)
	}
	if got := res.Image.RGBAAt(45, 0); got != (color.RGBA{A: 255}) {
		t.Fatalf("二维码左上角应为黑色，实际 %v", got)
	}
	if got := res.Image.RGBAAt(44, 0); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("二维码左侧应为白色，实际 %v", got)
	}
}

// TestEmptyDieCutIsWhite 空内容的模切标签输出全白画布，不报错。
func TestEmptyDieCutIsWhite(t *testing.T) {
	spec := LabelSpec{Content: ImageOnly, Kind: DieCut, BaseWidth: 300, BaseHeight: 300}
	res := mustBuild(t, spec, BuildOptions{})
	if res.Width != 300 || res.Height != 300 {
		t.Fatalf("画布尺寸错误: got=%dx%d", res.Width, res.Height)
	}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for y := 0; y < res.Height; y++ {
		for x := 0; x < res.Width; x++ {
			if res.Image.RGBAAt(x, y) != white {
				t.Fatalf("像素 (%d,%d) 不是白色", x, y)
			}
		}
	}
}

// TestBlankLinesMeasuredAsSpace 验证空行在测量前被替换为空格，而绘制时保持原样。
func TestBlankLinesMeasuredAsSpace(t *testing.T) {
	ts := &stubTypesetter{charWidth: 10, lineHeight: 20}
	spec := LabelSpec{
		Content:     TextOnly,
		Kind:        Endless,
		BaseWidth:   696,
		Text:        []string{"A\n\nB"},
		LineSpacing: 100,
		FontSize:    20,
	}
	res := mustBuild(t, spec, BuildOptions{Typesetter: ts})
	if len(ts.measured) != 3 || ts.measured[1] != " " {
		t.Fatalf("测量输入应为三行且空行被替换: %q", ts.measured)
	}
	if len(ts.drawn) != 3 || ts.drawn[1] != "" {
		t.Fatalf("绘制输入应保留空行: %q", ts.drawn)
	}
	if res.Measured.TextSize.Height != 60 {
		t.Fatalf("三行文本高度应为 60，实际 %d", res.Measured.TextSize.Height)
	}
}

// TestDieCutDimensionsFixed 不同内容尺寸下模切画布都等于归一化后的基础尺寸，包括内容溢出时。
func TestDieCutDimensionsFixed(t *testing.T) {
	for _, kind := range []LabelKind{DieCut, RoundDieCut} {
		for _, orient := range []Orientation{Standard, Rotated} {
			for _, side := range []int{10, 150, 500} {
				spec := LabelSpec{
					Content:     QrAndText,
					Kind:        kind,
					Orientation: orient,
					BaseWidth:   165,
					BaseHeight:  566,
					Margins:     Margins{Top: 5, Bottom: 9, Left: 7, Right: 7},
					Text:        []string{"oversized text line"},
					FontSize:    20,
					LineSpacing: 100,
					QR:          QRContent{Data: "x", ModuleSize: 5},
				}
				res := mustBuild(t, spec, BuildOptions{
					Typesetter: &stubTypesetter{charWidth: 30, lineHeight: 40},
					Encoder:    &stubEncoder{side: side},
				})
				w, h := 566, 165
				if orient == Rotated {
					w, h = h, w
				}
				if res.Width != w || res.Height != h {
					t.Fatalf("%v/%v/%d 画布尺寸错误: got=%dx%d want=%dx%d", kind, orient, side, res.Width, res.Height, w, h)
				}
				if res.Placement.Text.X < 0 && orient == Standard {
					t.Fatalf("文本水平偏移不应为负: %v", res.Placement.Text)
				}
			}
		}
	}
}

// TestCanvasSizeGrowsAlongFeed 连续标签沿进纸方向按内容与边距增长，另一轴保持打印宽度；模切标签不变。
func TestCanvasSizeGrowsAlongFeed(t *testing.T) {
	m := Margins{Top: 16, Bottom: 31, Left: 24, Right: 24}
	measured := MeasuredContent{BitmapSize: Size{Width: 100, Height: 100}, TextSize: Size{Width: 300, Height: 80}}

	w, h := CanvasSize(LabelSpec{Kind: Endless, BaseWidth: 696, Margins: m}, measured)
	if w != 696 || h != 100+80+16+31 {
		t.Fatalf("标准方向尺寸错误: %dx%d", w, h)
	}
	w, h = CanvasSize(LabelSpec{Kind: Endless, Orientation: Rotated, BaseWidth: 696, Margins: m}, measured)
	if w != 100+300+24+24 || h != 696 {
		t.Fatalf("旋转方向尺寸错误: %dx%d", w, h)
	}
	w, h = CanvasSize(LabelSpec{Kind: DieCut, BaseWidth: 306, BaseHeight: 991, Margins: m}, measured)
	if w != 991 || h != 306 {
		t.Fatalf("模切标签尺寸应固定: %dx%d", w, h)
	}
}

// TestEndlessExtentCoversMargins 连续标签沿进纸方向的尺寸至少为两侧边距之和。
func TestEndlessExtentCoversMargins(t *testing.T) {
	m := Margins{Top: 17, Bottom: 31, Left: 24, Right: 24}
	for _, c := range []ContentMode{TextOnly, QrOnly, QrAndText, ImageOnly} {
		std := mustBuild(t, LabelSpec{Content: c, Kind: Endless, BaseWidth: 696, Margins: m, LineSpacing: 50, FontSize: 40},
			BuildOptions{Typesetter: &stubTypesetter{charWidth: 10, lineHeight: 20}, Encoder: &stubEncoder{side: 0}})
		if std.Height < m.Top+m.Bottom {
			t.Fatalf("%v 标准方向高度 %d 小于边距之和", c, std.Height)
		}
		rot := mustBuild(t, LabelSpec{Content: c, Kind: Endless, Orientation: Rotated, BaseWidth: 696, Margins: m, LineSpacing: 50, FontSize: 40},
			BuildOptions{Typesetter: &stubTypesetter{charWidth: 10, lineHeight: 20}, Encoder: &stubEncoder{side: 0}})
		if rot.Width < m.Left+m.Right {
			t.Fatalf("%v 旋转方向宽度 %d 小于边距之和", c, rot.Width)
		}
	}
}

// TestOrientationSymmetry 连续标签在两种方向下画布宽高互换，内容尺寸不随轴向改变。
func TestOrientationSymmetry(t *testing.T) {
	m := Margins{Top: 20, Bottom: 20, Left: 20, Right: 20}
	base := LabelSpec{Content: QrOnly, Kind: Endless, Margins: m, QR: QRContent{Data: "sym", ModuleSize: 4}}

	std := base
	std.BaseWidth, std.BaseHeight = 696, 0
	rot := base
	rot.Orientation = Rotated
	rot.BaseWidth, rot.BaseHeight = 0, 696

	a := mustBuild(t, std, BuildOptions{Encoder: &stubEncoder{side: 120}})
	b := mustBuild(t, rot, BuildOptions{Encoder: &stubEncoder{side: 120}})
	if a.Width != b.Height || a.Height != b.Width {
		t.Fatalf("画布未互换: standard=%dx%d rotated=%dx%d", a.Width, a.Height, b.Width, b.Height)
	}
	if a.Height-m.Top-m.Bottom != b.Width-m.Left-m.Right {
		t.Fatalf("内容尺寸不一致: %d vs %d", a.Height-m.Top-m.Bottom, b.Width-m.Left-m.Right)
	}
	if b.Rotate != Rotate90 {
		t.Fatalf("连续标签旋转方向应为 90，实际 %v", b.Rotate)
	}
}

// TestCenteringFloor 模切标签零边距时文本水平偏移严格为 (W-tw)//2。
func TestCenteringFloor(t *testing.T) {
	ts := &stubTypesetter{fixed: Size{Width: 101, Height: 30}}
	spec := LabelSpec{Content: TextOnly, Kind: DieCut, BaseWidth: 306, BaseHeight: 425, Text: []string{"x"}}
	res := mustBuild(t, spec, BuildOptions{Typesetter: ts})
	if res.Width != 425 {
		t.Fatalf("归一化后宽度应为 425，实际 %d", res.Width)
	}
	if want := (425 - 101) / 2; res.Placement.Text.X != want {
		t.Fatalf("水平偏移错误: got=%d want=%d", res.Placement.Text.X, want)
	}
	if want := (306 - 30) / 2; res.Placement.Text.Y != want {
		t.Fatalf("垂直偏移错误: got=%d want=%d", res.Placement.Text.Y, want)
	}
}

// TestOversizedTextClampsAndFloors 文本宽于画布时左对齐到 0，负数折半向下取整。
func TestOversizedTextClampsAndFloors(t *testing.T) {
	ts := &stubTypesetter{fixed: Size{Width: 500, Height: 305}}
	spec := LabelSpec{Content: TextOnly, Kind: DieCut, BaseWidth: 300, BaseHeight: 300, Margins: Margins{Top: 0, Bottom: 3}, Text: []string{"x"}}
	res := mustBuild(t, spec, BuildOptions{Typesetter: ts})
	if res.Placement.Text.X != 0 {
		t.Fatalf("溢出文本应从 0 开始，实际 %d", res.Placement.Text.X)
	}
	// (300-305)//2 = -3，(0-3)//2 = -2
	if res.Placement.Text.Y != -5 {
		t.Fatalf("垂直偏移应为 -5，实际 %d", res.Placement.Text.Y)
	}
}

// TestRotatedPlacement 旋转方向下文本排在位图右侧。
func TestRotatedPlacement(t *testing.T) {
	ts := &stubTypesetter{fixed: Size{Width: 200, Height: 60}}
	spec := LabelSpec{
		Content:     QrAndText,
		Kind:        Endless,
		Orientation: Rotated,
		BaseWidth:   696,
		Margins:     Margins{Top: 10, Bottom: 30, Left: 15, Right: 15},
		Text:        []string{"side"},
		QR:          QRContent{Data: "r", ModuleSize: 3},
	}
	res := mustBuild(t, spec, BuildOptions{Typesetter: ts, Encoder: &stubEncoder{side: 90}})
	if res.Width != 90+200+30 || res.Height != 696 {
		t.Fatalf("画布尺寸错误: %dx%d", res.Width, res.Height)
	}
	if want := image.Pt(15, (696-90)/2); res.Placement.Image != want {
		t.Fatalf("位图偏移错误: got=%v want=%v", res.Placement.Image, want)
	}
	if want := image.Pt(15+90, (696-60)/2-10); res.Placement.Text != want {
		t.Fatalf("文本偏移错误: got=%v want=%v", res.Placement.Text, want)
	}
}

// TestEncodingErrorAborts 编码失败时不生成画布。
func TestEncodingErrorAborts(t *testing.T) {
	spec := LabelSpec{Content: QrAndText, Kind: Endless, BaseWidth: 696, Text: []string{"t"}, QR: QRContent{Data: "too long", Correction: CorrectionH}}
	ts := &stubTypesetter{charWidth: 10, lineHeight: 20}
	res, err := Build(spec, BuildOptions{Typesetter: ts, Encoder: &stubEncoder{err: errors.New("capacity exceeded")}})
	if res != nil {
		t.Fatalf("编码失败时不应返回结果")
	}
	var encErr *EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("期望 EncodingError，实际 %v", err)
	}
	if encErr.Level != CorrectionH {
		t.Fatalf("纠错等级未传递: %v", encErr.Level)
	}
	if ts.measured != nil {
		t.Fatalf("编码失败后不应继续测量文本")
	}
}

// TestRedForegroundReachesEncoder 红色前景传给二维码编码器与文本绘制。
func TestRedForegroundReachesEncoder(t *testing.T) {
	enc := &stubEncoder{side: 30}
	spec := LabelSpec{Content: QrOnly, Kind: Endless, BaseWidth: 696, ForeColor: Red, QR: QRContent{Data: "red"}}
	mustBuild(t, spec, BuildOptions{Encoder: enc})
	if enc.fg != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("编码器前景色错误: %v", enc.fg)
	}
}

func TestMissingCollaborators(t *testing.T) {
	if _, err := Build(LabelSpec{Content: TextOnly, Text: []string{"a"}}, BuildOptions{}); !errors.Is(err, ErrNoTypesetter) {
		t.Fatalf("期望 ErrNoTypesetter，实际 %v", err)
	}
	if _, err := Build(LabelSpec{Content: QrOnly}, BuildOptions{}); !errors.Is(err, ErrNoEncoder) {
		t.Fatalf("期望 ErrNoEncoder，实际 %v", err)
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		w, h   int
		orient Orientation
		ww, wh int
	}{
		{696, 0, Standard, 696, 0},
		{696, 0, Rotated, 0, 696},
		{306, 991, Standard, 991, 306},
		{306, 991, Rotated, 306, 991},
		{202, 202, Rotated, 202, 202},
	}
	for _, c := range cases {
		w, h := Normalize(LabelSpec{BaseWidth: c.w, BaseHeight: c.h, Orientation: c.orient})
		if w != c.ww || h != c.wh {
			t.Fatalf("Normalize(%d,%d,%v)=%d,%d want %d,%d", c.w, c.h, c.orient, w, h, c.ww, c.wh)
		}
	}
}

func TestDebugBoxesOutline(t *testing.T) {
	spec := LabelSpec{Content: QrOnly, Kind: DieCut, BaseWidth: 100, BaseHeight: 100, QR: QRContent{Data: "d"}}
	res := mustBuild(t, spec, BuildOptions{Encoder: &stubEncoder{side: 20}, Debug: DebugOptions{Boxes: true}})
	if got := res.Image.RGBAAt(40, 0); got != debugBoxColor {
		t.Fatalf("调试外框未绘制: %v", got)
	}
}
