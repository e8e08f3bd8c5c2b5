package canvasrenderer

import (
	"math"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/folio/model"
	"github.com/ByLCY/folio/renderer"
)

func newShaper(t *testing.T) *Shaper {
	t.Helper()
	s, err := NewShaper(renderer.Options{FontSize: 12})
	if err != nil {
		t.Fatalf("NewShaper error: %v", err)
	}
	return s
}

// 逐字符累加的宽度与整段测量的宽度应基本一致（仅差字距调整）。
func TestShapeMatchesWholeStringWidth(t *testing.T) {
	s := newShaper(t)
	text := model.Plain("hello world again")
	l := s.Shape(text, model.Style{}, 0)

	face, err := s.fontFace("regular", 12)
	if err != nil {
		t.Fatalf("fontFace error: %v", err)
	}
	whole := face.TextWidth(text.String()) * 96 / 25.4
	if diff := math.Abs(l.Width() - whole); diff > whole*0.05 {
		t.Fatalf("width mismatch: shaped=%g whole=%g", l.Width(), whole)
	}
	prev := -1.0
	for i := 0; i <= text.Len(); i++ {
		if x := l.CursorRect(i).X; x < prev {
			t.Fatalf("cursor x must be monotonic at %d: %g < %g", i, x, prev)
		} else {
			prev = x
		}
	}
}

func TestLineHeightScales(t *testing.T) {
	s := newShaper(t)
	h := s.LineHeight(model.Style{})
	if h <= 0 {
		t.Fatalf("invalid line height: %g", h)
	}
	h2 := s.LineHeight(model.Style{Scale: 2})
	if math.Abs(h2-2*h) > 1e-6*h {
		t.Fatalf("line height should scale with font size: %g vs %g", h2, h)
	}
}

func TestBoldIsWider(t *testing.T) {
	s := newShaper(t)
	plain := s.Shape(model.Plain("Papyrus folio"), model.Style{}, 0).Width()
	bold := s.Shape(model.Plain("Papyrus folio"), model.Style{Bold: true}, 0).Width()
	if bold <= plain {
		t.Fatalf("bold text should be wider: bold=%g plain=%g", bold, plain)
	}
}

func TestMissingVariantFallsBack(t *testing.T) {
	s, err := NewShaper(renderer.Options{BaseDir: t.TempDir(), Fonts: map[string]string{"bold": "missing.ttf"}})
	if err != nil {
		t.Fatalf("NewShaper error: %v", err)
	}
	if w := s.Shape(model.Plain("abc"), model.Style{Bold: true}, 0).Width(); w <= 0 {
		t.Fatalf("fallback face should still measure, got %g", w)
	}
	if _, err := NewShaper(renderer.Options{Fonts: map[string]string{"regular": "missing.ttf"}}); err != nil {
		t.Fatalf("regular font falls back to the built-in face, got %v", err)
	}
}

func TestParseFontStyle(t *testing.T) {
	cases := map[string]canvas.FontStyle{
		"regular":    canvas.FontRegular,
		"bold":       canvas.FontBold,
		"italic":     canvas.FontRegular | canvas.FontItalic,
		"bolditalic": canvas.FontBold | canvas.FontItalic,
		"mono":       canvas.FontRegular,
	}
	for in, want := range cases {
		if got := parseFontStyle(in); got != want {
			t.Fatalf("parseFontStyle(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRegistered(t *testing.T) {
	sh, err := renderer.New("canvas", renderer.Options{})
	if err != nil {
		t.Fatalf("renderer.New error: %v", err)
	}
	if sh.LineHeight(model.Style{}) <= 0 {
		t.Fatalf("registered canvas shaper should measure")
	}
}
