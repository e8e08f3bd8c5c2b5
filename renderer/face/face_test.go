package face

import (
	"testing"

	"github.com/ByLCY/folio/linewrap"
	"github.com/ByLCY/folio/model"
	"github.com/ByLCY/folio/renderer"
)

func newShaper(t *testing.T) *Shaper {
	t.Helper()
	s, err := New(renderer.Options{FontSize: 12})
	if err != nil {
		t.Fatalf("New 失败: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCursorIsMonotonic(t *testing.T) {
	s := newShaper(t)
	text := model.Plain("Hello, wörld! AV")
	l := s.Shape(text, model.Style{}, 0)
	prev := -1.0
	for i := 0; i <= text.Len(); i++ {
		x := l.CursorRect(i).X
		if x < prev {
			t.Fatalf("CursorRect(%d).X = %g 小于前一个 %g", i, x, prev)
		}
		prev = x
	}
	if l.Width() <= 0 || l.Height() <= 0 {
		t.Fatalf("宽高应为正: %gx%g", l.Width(), l.Height())
	}
}

func TestStylesChangeWidth(t *testing.T) {
	s := newShaper(t)
	plain := s.Shape(model.Plain("iiii"), model.Style{}, 0).Width()
	mono := s.Shape(model.NewStyledText("iiii", model.Style{Code: true}), model.Style{}, 0).Width()
	if mono <= plain {
		t.Fatalf("等宽字体中 i 应更宽: mono=%g plain=%g", mono, plain)
	}
	big := s.Shape(model.NewStyledText("iiii", model.Style{Scale: 2}), model.Style{}, 0)
	if big.Width() <= plain*1.9 || big.Height() <= s.LineHeight(model.Style{}) {
		t.Fatalf("放大后宽高应随之增大: %g", big.Width())
	}
}

func TestMeasureFieldWithFace(t *testing.T) {
	s := newShaper(t)
	text := model.Plain("the quick brown fox")
	full := s.Shape(text, model.Style{}, 0).Width()
	doc := model.NewDocument()
	rep := linewrap.MeasureField([]model.Block{doc.StyledRun(text)}, linewrap.Options{MaxWidth: full / 2}, s)
	if !rep.Overflowed || rep.OverflowPos == nil {
		t.Fatalf("半宽时应溢出: %+v", rep)
	}
	if off := rep.OverflowPos.Offset; off <= 0 || off >= text.Len() {
		t.Fatalf("切分点 %d 不在文本内部", off)
	}
}

func TestMissingFontPath(t *testing.T) {
	if _, err := New(renderer.Options{Fonts: map[string]string{"regular": "missing.ttf"}}); err == nil {
		t.Fatalf("没有资源目录时字体路径应返回错误")
	}
}
