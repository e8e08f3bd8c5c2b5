package layout

import (
	"image/color"
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back-pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
	for _, px := range samples {
		back := Length{Value: Length{Value: px, Unit: UnitPX}.ToMM(), Unit: UnitMM}.ToPX()
		if diff := math.Abs(back-px); diff > 1e-9 {
			t.Fatalf("px→mm→px 往返误差过大: in=%gpx back=%g diff=%g", px, back, diff)
		}
	}
}

// TestLengthToConversions 覆盖 Length 在常见单位上的转换正确性。
func TestLengthToConversions(t *testing.T) {
	tests := []struct {
		in     Length
		target Unit
		want   float64
	}{
		{Length{1, UnitIN}, UnitMM, 25.4},
		{Length{2.54, UnitCM}, UnitMM, 25.4},
		{Length{12, UnitPT}, UnitMM, 12 * PtToMm},
		{Length{10, UnitMM}, UnitPT, 10 * MmToPt},
		{Length{1, UnitIN}, UnitPX, 96},
		{Length{96, UnitPX}, UnitIN, 1},
		{Length{12, UnitPX}, UnitPX, 12},
		{Length{3, UnitNone}, UnitPX, 3},
	}
	for _, tt := range tests {
		if got := tt.in.To(tt.target); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("%s 转 %s 期望 %g，实际 %g", tt.in, UnitToString(tt.target), tt.want, got)
		}
	}
	if got := (Length{Value: 72, Unit: UnitPT}).ToPX(); math.Abs(got-96) > 1e-3 {
		t.Fatalf("72pt 应约为 96px，实际 %g", got)
	}
}

func TestParseLength(t *testing.T) {
	tests := map[string]Length{
		"240px": {240, UnitPX},
		"12pt":  {12, UnitPT},
		" 5mm ": {5, UnitMM},
		"1.5IN": {1.5, UnitIN},
		"7":     {7, UnitNone},
	}
	for in, want := range tests {
		got, err := ParseLength(in)
		if err != nil || got != want {
			t.Fatalf("ParseLength(%q) = %+v, %v; want %+v", in, got, err, want)
		}
	}
	for _, bad := range []string{"abc", "px", "1..2mm"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("ParseLength(%q) 应返回错误", bad)
		}
	}
}

// TestLineHeightResolve 验证行高解析：倍数与绝对值两种语义在目标单位下的解析结果。
func TestLineHeightResolve(t *testing.T) {
	fontSize := Length{Value: 12, Unit: UnitPX}
	lh, err := ParseLineHeight("1.5x")
	if err != nil {
		t.Fatalf("解析行高失败: %v", err)
	}
	if got := lh.Resolve(fontSize, UnitPX); math.Abs(got-18) > 1e-9 {
		t.Fatalf("1.5x 解析为 px 错误: got=%g", got)
	}
	lh, err = ParseLineHeight("20px")
	if err != nil {
		t.Fatalf("解析行高失败: %v", err)
	}
	if lh.Kind != LineHeightAbsolute || lh.Resolve(fontSize, UnitPX) != 20 {
		t.Fatalf("20px 行高解析错误: %+v", lh)
	}
	lhAbsPT := LineHeightSpec{Kind: LineHeightAbsolute, Len: Length{Value: 18, Unit: UnitPT}}
	if got, want := lhAbsPT.Resolve(fontSize, UnitMM), 18*PtToMm; math.Abs(got-want) > 1e-9 {
		t.Fatalf("18pt 行高解析为 mm 错误: got=%g want=%g", got, want)
	}
	if _, err := ParseLineHeight("0x"); err == nil {
		t.Fatalf("0x 应被拒绝")
	}
}

func TestParseColor(t *testing.T) {
	tests := map[string]color.RGBA{
		"#f00":      {R: 0xff, A: 0xff},
		"#336699":   {R: 0x33, G: 0x66, B: 0x99, A: 0xff},
		"#33669980": {R: 0x33, G: 0x66, B: 0x99, A: 0x80},
	}
	for in, want := range tests {
		got, err := ParseColor(in)
		if err != nil || got != want {
			t.Fatalf("ParseColor(%q) = %+v, %v; want %+v", in, got, err, want)
		}
	}
	if _, err := ParseColor("#12"); err == nil {
		t.Fatalf("长度不合法的颜色应返回错误")
	}
}
