package renderer

import (
	"errors"
	"testing"

	"github.com/ByLCY/folio/linewrap"
	"github.com/ByLCY/folio/model"
)

type fixed struct{ size float64 }

func (f fixed) Shape(text model.StyledText, base model.Style, maxWidth float64) linewrap.TextLayout {
	return linewrap.NewAdvances(make([]float64, text.Len()), f.size, maxWidth)
}

func (f fixed) LineHeight(model.Style) float64 { return f.size }

func TestRegistry(t *testing.T) {
	Register("test-fixed", func(o Options) (linewrap.Shaper, error) {
		if o.FontSize < 0 {
			return nil, errors.New("negative size")
		}
		return fixed{size: o.Size()}, nil
	})

	sh, err := New("test-fixed", Options{})
	if err != nil {
		t.Fatalf("New 失败: %v", err)
	}
	if sh.LineHeight(model.Style{}) != DefaultFontSize {
		t.Fatalf("未配置字号时应使用默认字号")
	}
	if _, err := New("test-fixed", Options{FontSize: -1}); err == nil {
		t.Fatalf("工厂错误应向上传递")
	}
	if _, err := New("nope", Options{}); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("err = %v, want ErrUnknownBackend", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("重复注册应 panic")
		}
	}()
	Register("test-fixed", func(Options) (linewrap.Shaper, error) { return nil, nil })
}

func TestOptionsSource(t *testing.T) {
	o := Options{Fonts: map[string]string{"bold": "fonts/Heavy.ttf"}}
	if got := o.Source("bold"); got != "fonts/Heavy.ttf" {
		t.Fatalf("Source(bold) = %s", got)
	}
	if got := o.Source("mono"); got != "embed:mono" {
		t.Fatalf("Source(mono) = %s", got)
	}
}
