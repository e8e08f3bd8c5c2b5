package selection

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/linewrap"
	"github.com/ByLCY/folio/model"
)

type stubShaper struct{}

func (stubShaper) Shape(text model.StyledText, base model.Style, maxWidth float64) linewrap.TextLayout {
	adv := make([]float64, text.Len())
	for i := range adv {
		adv[i] = 10
	}
	return linewrap.NewAdvances(adv, 16, maxWidth)
}

func (stubShaper) LineHeight(model.Style) float64 { return 16 }

func frameOf(t *testing.T, doc *model.Document) *layout.Frame {
	t.Helper()
	fr, err := layout.Compute(doc, layout.BuildOptions{Shaper: stubShaper{}, Measure: linewrap.Options{MaxWidth: 300}})
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	return fr
}

func mark(doc *model.Document, fi, bi, off int) Mark {
	f := doc.Field(fi)
	return Mark{Field: f.ID, Block: f.Blocks[bi].ID(), Offset: off}
}

func TestIsActiveAndOrder(t *testing.T) {
	doc := model.NewDocument()
	doc.Reset([]model.Block{doc.Text("hello"), doc.NewLine()}, []model.Block{doc.Text("world")})
	var s Selection
	s.Begin(mark(doc, 1, 0, 3))
	if s.IsActive() {
		t.Fatalf("锚点与焦点相同时不应激活")
	}
	s.Extend(mark(doc, 0, 0, 2))
	if !s.IsActive() {
		t.Fatalf("焦点移动后应激活")
	}
	start, end, ok := s.Order(doc)
	if !ok {
		t.Fatalf("端点应可解析")
	}
	if start.FieldIndex != 0 || start.Offset != 2 || end.FieldIndex != 1 || end.Offset != 3 {
		t.Fatalf("排序错误: start=%+v end=%+v", start, end)
	}
	if s.Anchor.Field != doc.Field(1).ID {
		t.Fatalf("锚点不应随焦点移动")
	}
}

func TestRebuildSegments(t *testing.T) {
	doc := model.NewDocument()
	doc.Reset(
		[]model.Block{doc.Text("hello"), doc.NewLine()},
		[]model.Block{doc.Text("big"), doc.Image("i", 20, 30), doc.Text("x"), doc.NewLine()},
		[]model.Block{doc.Text("world")},
	)
	fr := frameOf(t, doc)

	t.Run("single field", func(t *testing.T) {
		var s Selection
		s.Begin(mark(doc, 0, 0, 1))
		s.Extend(mark(doc, 0, 0, 4))
		s.Rebuild(doc, fr)
		want := []Segment{{Field: doc.Field(0).ID, Rect: model.Rect{X: 10, Y: 0, W: 30, H: 16}}}
		if diff := cmp.Diff(want, s.Segments); diff != "" {
			t.Fatalf("segments (-want +got):\n%s", diff)
		}
	})

	t.Run("multi field", func(t *testing.T) {
		var s Selection
		s.Begin(mark(doc, 2, 0, 2))
		s.Extend(mark(doc, 0, 0, 3))
		s.Rebuild(doc, fr)
		want := []Segment{
			{Field: doc.Field(0).ID, Rect: model.Rect{X: 30, Y: 0, W: 20, H: 16}},
			{Field: doc.Field(1).ID, Rect: model.Rect{X: 0, Y: 16 + 14, W: 60, H: 16}},
			{Field: doc.Field(2).ID, Rect: model.Rect{X: 0, Y: 46, W: 20, H: 16}},
		}
		if diff := cmp.Diff(want, s.Segments); diff != "" {
			t.Fatalf("segments (-want +got):\n%s", diff)
		}
	})

	t.Run("stale endpoint discards", func(t *testing.T) {
		var s Selection
		s.Begin(mark(doc, 0, 0, 1))
		s.Extend(Mark{Field: doc.Field(0).ID, Block: model.BlockID(9999)})
		s.Rebuild(doc, fr)
		if s.Anchor != nil || s.Focus != nil || s.Segments != nil {
			t.Fatalf("失效的选区应被丢弃: %+v", s)
		}
	})

	t.Run("out of range offset discards", func(t *testing.T) {
		var s Selection
		s.Begin(mark(doc, 0, 0, 1))
		s.Extend(mark(doc, 0, 0, 99))
		s.Rebuild(doc, fr)
		if s.IsActive() {
			t.Fatalf("越界偏移应丢弃选区")
		}
	})
}

func TestCollapseAcrossFields(t *testing.T) {
	doc := model.NewDocument()
	doc.Reset(
		[]model.Block{doc.Text("hello"), doc.Tab()},
		[]model.Block{doc.Text("world")},
	)
	var s Selection
	s.Begin(mark(doc, 0, 0, 2))
	s.Extend(mark(doc, 1, 0, 3))
	m, ok := s.Collapse(doc, doc.IDs())
	if !ok {
		t.Fatalf("折叠失败")
	}
	if got := model.Describe(m.Blocks); got != `[T"held"]` {
		t.Fatalf("合并结果 %s", got)
	}
	if m.StartIndex != 0 || len(m.Remove) != 1 || m.Remove[0] != doc.Field(1).ID {
		t.Fatalf("应删除终点字段: %+v", m)
	}
	if m.CaretBlock != doc.Field(0).Blocks[0].ID() || m.CaretOffset != 2 {
		t.Fatalf("光标应落在起点块偏移 2: %+v", m)
	}
}

func TestCollapseSameFieldOverImage(t *testing.T) {
	doc := model.NewDocument()
	doc.Reset([]model.Block{doc.Text("ab"), doc.Image("i", 5, 5), doc.Text("cd")})
	var s Selection
	s.Begin(mark(doc, 0, 2, 1))
	s.Extend(mark(doc, 0, 0, 1))
	m, ok := s.Collapse(doc, doc.IDs())
	if !ok {
		t.Fatalf("折叠失败")
	}
	if got := model.Describe(m.Blocks); got != `[T"ad"]` {
		t.Fatalf("合并结果 %s", got)
	}
	if len(m.Remove) != 0 || m.CaretOffset != 1 {
		t.Fatalf("merge = %+v", m)
	}
	if err := model.Validate(m.Blocks); err != nil {
		t.Fatalf("合并结果不满足约束: %v", err)
	}
}

func TestSelectedText(t *testing.T) {
	doc := model.NewDocument()
	doc.Reset(
		[]model.Block{doc.Text("hello"), doc.NewLine()},
		[]model.Block{doc.Text("a"), doc.Image("i", 5, 5), doc.Text("b")},
	)
	var s Selection
	s.Begin(mark(doc, 0, 0, 3))
	s.Extend(mark(doc, 1, 2, 1))
	if got := s.Text(doc); got != "lo\na￼b" {
		t.Fatalf("Text = %q", got)
	}
	s.Clear()
	if s.Text(doc) != "" {
		t.Fatalf("无选区时应返回空串")
	}
}
