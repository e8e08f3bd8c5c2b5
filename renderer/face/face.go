// Package face 基于 golang.org/x/image 的 OpenType 字体测量文本。
// 字形前进宽度按 26.6 定点数累加（含字距调整），再换算成像素。
package face

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/folio/fonts"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/linewrap"
	"github.com/ByLCY/folio/model"
	"github.com/ByLCY/folio/renderer"
)

func init() {
	renderer.Register("face", func(o renderer.Options) (linewrap.Shaper, error) {
		return New(o)
	})
}

type faceKey struct {
	variant string
	size    float64
}

// Shaper 是 OpenType 测量后端，可以被多个编辑器共用。
type Shaper struct {
	opts renderer.Options

	mu    sync.Mutex
	fonts map[string]*opentype.Font
	faces map[faceKey]font.Face
}

var _ linewrap.Shaper = (*Shaper)(nil)

// New 创建后端并预先解析常规字体，字体无法加载时返回错误。
func New(opts renderer.Options) (*Shaper, error) {
	s := &Shaper{
		opts:  opts,
		fonts: map[string]*opentype.Font{},
		faces: map[faceKey]font.Face{},
	}
	if _, err := s.face(fonts.Regular, opts.Size()); err != nil {
		return nil, err
	}
	return s, nil
}

// Close 释放缓存的字体面。
func (s *Shaper) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, f := range s.faces {
		if err := f.Close(); err != nil {
			return fmt.Errorf("关闭字体面 %s 失败: %w", k.variant, err)
		}
		delete(s.faces, k)
	}
	return nil
}

func (s *Shaper) face(variant string, size float64) (font.Face, error) {
	key := faceKey{variant: variant, size: size}
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.faces[key]; ok {
		return f, nil
	}
	otf, ok := s.fonts[variant]
	if !ok {
		data, err := loadFontBytes(s.opts.BaseDir, s.opts.Source(variant))
		if err != nil {
			return nil, err
		}
		otf, err = opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("解析字体 %s 失败: %w", variant, err)
		}
		s.fonts[variant] = otf
	}
	f, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     layout.DPI,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("创建字体面 %s@%gpt 失败: %w", variant, size, err)
	}
	s.faces[key] = f
	return f, nil
}

// faceFor 返回样式对应的字体面。变体字体加载失败时退回常规字体。
func (s *Shaper) faceFor(st model.Style) font.Face {
	size := s.opts.Size() * st.EffectiveScale()
	f, err := s.face(fonts.Variant(st.Bold, st.Italic, st.Code), size)
	if err == nil {
		return f
	}
	f, err = s.face(fonts.Regular, size)
	if err != nil {
		// New 已经验证过常规字体
		panic(fmt.Sprintf("face: regular font unavailable: %v", err))
	}
	return f
}

func (s *Shaper) Shape(text model.StyledText, base model.Style, maxWidth float64) linewrap.TextLayout {
	adv := make([]float64, text.Len())
	height := s.LineHeight(base)
	for _, p := range text.Runs() {
		f := s.faceFor(p.Style.Over(base))
		height = max(height, toPx(f.Metrics().Height))
		prev := rune(-1)
		for i := p.Start; i < p.End; i++ {
			var a fixed.Int26_6
			for _, r := range text.Cluster(i) {
				if prev >= 0 {
					a += f.Kern(prev, r)
				}
				ga, ok := f.GlyphAdvance(r)
				if !ok {
					ga, _ = f.GlyphAdvance('\uFFFD')
				}
				a += ga
				prev = r
			}
			adv[i] = max(toPx(a), 0)
		}
	}
	return linewrap.NewAdvances(adv, height, maxWidth)
}

func (s *Shaper) LineHeight(base model.Style) float64 {
	return toPx(s.faceFor(base).Metrics().Height)
}

func toPx(v fixed.Int26_6) float64 { return float64(v) / 64 }

// loadFontBytes 解析字体来源：embed: 前缀为内置字体，其余按文件路径读取。
func loadFontBytes(baseDir, src string) ([]byte, error) {
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if !filepath.IsAbs(path) {
		if baseDir == "" {
			return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 embed:）", src)
		}
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}
