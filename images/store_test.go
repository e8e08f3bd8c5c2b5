package images

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/bmp"
)

func encode(t *testing.T, w, h int, enc func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.Gray{Y: 200})
	var buf bytes.Buffer
	if err := enc(&buf, img); err != nil {
		t.Fatalf("编码失败: %v", err)
	}
	return buf.Bytes()
}

func TestPutDecodesDimensions(t *testing.T) {
	s := NewStore()
	pngData := encode(t, 12, 7, func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) })
	bmpData := encode(t, 3, 5, func(b *bytes.Buffer, m image.Image) error { return bmp.Encode(b, m) })

	for _, tc := range []struct {
		name   string
		data   []byte
		format string
		w, h   float64
	}{
		{"logo", pngData, "png", 12, 7},
		{"icon", bmpData, "bmp", 3, 5},
	} {
		e, err := s.Put(tc.name, tc.data)
		if err != nil {
			t.Fatalf("Put(%s) 失败: %v", tc.name, err)
		}
		if e.Format != tc.format || e.Width != tc.w || e.Height != tc.h {
			t.Fatalf("Put(%s) = %s %gx%g", tc.name, e.Format, e.Width, e.Height)
		}
		got, err := s.Get(tc.name)
		if err != nil {
			t.Fatalf("Get(%s) 失败: %v", tc.name, err)
		}
		if diff := cmp.Diff(e, got); diff != "" {
			t.Fatalf("entry mismatch (-put +get):\n%s", diff)
		}
	}
	if diff := cmp.Diff([]string{"icon", "logo"}, s.Names()); diff != "" {
		t.Fatalf("names (-want +got):\n%s", diff)
	}
}

func TestPutRejectsGarbage(t *testing.T) {
	var s Store
	if _, err := s.Put("x", []byte("not an image")); err == nil {
		t.Fatalf("无法解码的载荷应返回错误")
	}
	if _, err := s.Get("x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("失败的 Put 不应保存, err=%v", err)
	}
}

func TestPutSized(t *testing.T) {
	var s Store
	if _, err := s.PutSized("dot", 8, 8); err != nil {
		t.Fatalf("PutSized 失败: %v", err)
	}
	e, err := s.Get("dot")
	if err != nil || e.Width != 8 || e.Height != 8 || e.Data != nil {
		t.Fatalf("Get(dot) = %+v, %v", e, err)
	}
	if _, err := s.PutSized("huge", MaxWidth+1, 1); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("超限应返回 ErrTooLarge, got %v", err)
	}
	if _, err := s.PutSized("zero", 0, 4); err == nil {
		t.Fatalf("零尺寸应返回错误")
	}
}
