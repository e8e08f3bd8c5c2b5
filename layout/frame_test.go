package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/folio/linewrap"
	"github.com/ByLCY/folio/model"
)

// stubShaper 是一个最小实现，仅用于测试，避免引入 renderer 造成循环依赖。
type stubShaper struct{}

func (stubShaper) Shape(text model.StyledText, base model.Style, maxWidth float64) linewrap.TextLayout {
	adv := make([]float64, text.Len())
	for i := range adv {
		adv[i] = 10
	}
	return linewrap.NewAdvances(adv, 16, maxWidth)
}

func (stubShaper) LineHeight(model.Style) float64 { return 16 }

func computeFrame(t *testing.T, doc *model.Document, origin model.Point) *Frame {
	t.Helper()
	fr, err := Compute(doc, BuildOptions{Shaper: stubShaper{}, Measure: linewrap.Options{MaxWidth: 200}, Origin: origin})
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	return fr
}

func TestComputeStacksFields(t *testing.T) {
	doc := model.NewDocument()
	img := doc.Image("logo", 30, 40)
	doc.Reset(
		[]model.Block{doc.Text("ab"), img, doc.Text("c"), doc.NewLine()},
		[]model.Block{doc.Text("second")},
	)
	fr := computeFrame(t, doc, model.Point{})
	if len(fr.Fields) != 2 {
		t.Fatalf("字段数 %d", len(fr.Fields))
	}
	if fr.Fields[0].Height != 40 {
		t.Fatalf("含图片的字段高度应为图片高度 40，实际 %g", fr.Fields[0].Height)
	}
	if fr.Fields[1].Origin.Y != 40 || fr.Height != 56 {
		t.Fatalf("字段应自上而下堆叠: y=%g total=%g", fr.Fields[1].Origin.Y, fr.Height)
	}
	box, ok := fr.Box(doc.Field(0).ID, img.ID())
	if !ok {
		t.Fatalf("找不到图片块的排版结果")
	}
	if box.Origin.X != 20 || box.Width != 30 || box.Origin.Y != 0 {
		t.Fatalf("图片位置错误: %+v", box)
	}
	text, _ := fr.Box(doc.Field(0).ID, doc.Field(0).Blocks[2].ID())
	if text.Origin.Y != 24 {
		t.Fatalf("文本应与图片底部对齐, y=%g", text.Origin.Y)
	}
	if _, ok := fr.Box(doc.Field(1).ID, img.ID()); ok {
		t.Fatalf("块不在给定字段内时应返回 false")
	}
}

func TestToRootAppliesOrigins(t *testing.T) {
	doc := model.NewDocument()
	doc.Reset([]model.Block{doc.Text("ab"), doc.NewLine()}, []model.Block{doc.Text("cd")})
	fr := computeFrame(t, doc, model.Point{X: 5, Y: 7})
	f1 := doc.Field(1)
	box, ok := fr.Box(f1.ID, f1.Blocks[0].ID())
	if !ok {
		t.Fatalf("缺少排版结果")
	}
	r := box.CursorRect(1)
	p, ok := fr.ToRoot(f1.ID, model.Point{X: r.X, Y: r.Y})
	if !ok || p.X != 15 || p.Y != 23 {
		t.Fatalf("ToRoot = %+v,%v; want (15,23)", p, ok)
	}
	if _, ok := fr.ToRoot(model.FieldID(999), model.Point{}); ok {
		t.Fatalf("未知字段应返回 false")
	}
}

func TestHitTest(t *testing.T) {
	doc := model.NewDocument()
	doc.Reset(
		[]model.Block{doc.Text("abcd"), doc.NewLine()},
		[]model.Block{doc.Text("ef"), doc.Image("i", 20, 10), doc.Text("gh")},
	)
	fr := computeFrame(t, doc, model.Point{})
	f0, f1 := doc.Field(0), doc.Field(1)
	tests := []struct {
		name  string
		p     model.Point
		field model.FieldID
		block model.BlockID
		off   int
	}{
		{name: "inside text", p: model.Point{X: 23, Y: 5}, field: f0.ID, block: f0.Blocks[0].ID(), off: 2},
		{name: "past newline", p: model.Point{X: 150, Y: 5}, field: f0.ID, block: f0.Blocks[0].ID(), off: 4},
		{name: "right half of image", p: model.Point{X: 35, Y: 20}, field: f1.ID, block: f1.Blocks[2].ID(), off: 0},
		{name: "left half of image", p: model.Point{X: 22, Y: 20}, field: f1.ID, block: f1.Blocks[0].ID(), off: 2},
		{name: "below document", p: model.Point{X: 55, Y: 500}, field: f1.ID, block: f1.Blocks[2].ID(), off: 2},
		{name: "above document", p: model.Point{X: -3, Y: -50}, field: f0.ID, block: f0.Blocks[0].ID(), off: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fid, bid, off, ok := fr.HitTest(tt.p)
			if !ok || fid != tt.field || bid != tt.block || off != tt.off {
				t.Fatalf("HitTest(%+v) = %d,%d,%d,%v; want %d,%d,%d", tt.p, fid, bid, off, ok, tt.field, tt.block, tt.off)
			}
		})
	}
}

func TestBuildReportAndDebugJSON(t *testing.T) {
	doc := model.NewDocument()
	doc.Reset([]model.Block{doc.Text("ab"), doc.Tab(), doc.NewLine()}, nil)
	fr := computeFrame(t, doc, model.Point{})
	rep := BuildReport(doc, fr, DebugOptions{Blocks: true})
	if len(rep.Fields) != 2 {
		t.Fatalf("报告字段数 %d", len(rep.Fields))
	}
	f0 := rep.Fields[0]
	if f0.BlockCount != 3 || !f0.TrailingNewLine || f0.Overflowed || f0.Text != "ab\t\n" {
		t.Fatalf("字段报告错误: %+v", f0)
	}
	if len(f0.Blocks) != 3 || f0.Blocks[1].Delim != "tab" || f0.Blocks[1].X != 20 {
		t.Fatalf("块报告错误: %+v", f0.Blocks)
	}
	if rep.Fields[1].TrailingNewLine || rep.Fields[1].Y != 16 {
		t.Fatalf("第二个字段报告错误: %+v", rep.Fields[1])
	}

	path := filepath.Join(t.TempDir(), "report.json")
	if err := WriteDebugJSON(rep, path); err != nil {
		t.Fatalf("写入调试 JSON 失败: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取调试 JSON 失败: %v", err)
	}
	var back Report
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("调试 JSON 无法解析: %v", err)
	}
	if len(back.Fields) != 2 || back.Fields[0].Text != "ab\t\n" {
		t.Fatalf("调试 JSON 内容不符: %+v", back.Fields)
	}
}
