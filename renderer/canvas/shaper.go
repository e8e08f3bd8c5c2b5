// Package canvasrenderer measures text through github.com/tdewolff/canvas font
// faces. canvas reports widths in millimeters; results are converted to pixels.
package canvasrenderer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/folio/fonts"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/linewrap"
	"github.com/ByLCY/folio/model"
	"github.com/ByLCY/folio/renderer"
)

func init() {
	renderer.Register("canvas", func(o renderer.Options) (linewrap.Shaper, error) {
		return NewShaper(o)
	})
}

// Shaper measures styled text with canvas font faces.
type Shaper struct {
	opts renderer.Options

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry // by variant
	faces          map[faceKey]*canvas.FontFace
	fallbackFamily *canvas.FontFamily
}

var _ linewrap.Shaper = (*Shaper)(nil)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

type faceKey struct {
	variant string
	size    float64
}

// NewShaper creates a canvas shaper; the regular face is loaded eagerly so a
// broken configuration is reported here rather than on first use.
func NewShaper(opts renderer.Options) (*Shaper, error) {
	s := &Shaper{
		opts:         opts,
		fontFamilies: map[string]*fontFamilyEntry{},
		faces:        map[faceKey]*canvas.FontFace{},
	}
	if _, err := s.fontFace(fonts.Regular, opts.Size()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Shaper) Shape(text model.StyledText, base model.Style, maxWidth float64) linewrap.TextLayout {
	adv := make([]float64, text.Len())
	height := s.LineHeight(base)
	for _, p := range text.Runs() {
		face := s.faceFor(p.Style.Over(base))
		height = max(height, face.Metrics().LineHeight*layout.MmToPx)
		for i := p.Start; i < p.End; i++ {
			adv[i] = face.TextWidth(text.Cluster(i)) * layout.MmToPx
		}
	}
	return linewrap.NewAdvances(adv, height, maxWidth)
}

func (s *Shaper) LineHeight(base model.Style) float64 {
	return s.faceFor(base).Metrics().LineHeight * layout.MmToPx
}

func (s *Shaper) faceFor(st model.Style) *canvas.FontFace {
	size := s.opts.Size() * st.EffectiveScale()
	face, err := s.fontFace(fonts.Variant(st.Bold, st.Italic, st.Code), size)
	if err != nil {
		// the regular family was verified by NewShaper and the fallback is built in
		panic(fmt.Sprintf("canvasrenderer: no usable font: %v", err))
	}
	return face
}

func (s *Shaper) fontFace(variant string, size float64) (*canvas.FontFace, error) {
	key := faceKey{variant: variant, size: size}
	family, style, err := s.ensureFontFamily(variant)
	if err != nil {
		return nil, err
	}
	s.fontMu.Lock()
	defer s.fontMu.Unlock()
	if face, ok := s.faces[key]; ok {
		return face, nil
	}
	face := family.Face(size, canvas.Black, style, canvas.FontNormal)
	s.faces[key] = face
	return face, nil
}

func (s *Shaper) ensureFontFamily(variant string) (*canvas.FontFamily, canvas.FontStyle, error) {
	s.fontMu.Lock()
	defer s.fontMu.Unlock()

	if entry, ok := s.fontFamilies[variant]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(variant)
	family := canvas.NewFontFamily("folio-" + variant)
	if err := s.loadFontIntoFamily(family, variant, style); err != nil {
		fallback, fbStyle, fbErr := s.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		s.fontFamilies[variant] = &fontFamilyEntry{family: fallback, style: fbStyle}
		return fallback, fbStyle, nil
	}

	entry := &fontFamilyEntry{family: family, style: style}
	s.fontFamilies[variant] = entry
	return family, style, nil
}

func (s *Shaper) loadFontIntoFamily(family *canvas.FontFamily, variant string, style canvas.FontStyle) error {
	data, err := s.loadFontBytes(s.opts.Source(variant))
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

func (s *Shaper) loadFontBytes(src string) ([]byte, error) {
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if s.opts.BaseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.opts.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

// fallback is called with fontMu held.
func (s *Shaper) fallback() (*canvas.FontFamily, canvas.FontStyle, error) {
	if s.fallbackFamily != nil {
		return s.fallbackFamily, canvas.FontRegular, nil
	}
	data, err := fonts.Load(fonts.Regular)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily("folio-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, canvas.FontRegular, err
	}
	s.fallbackFamily = family
	return family, canvas.FontRegular, nil
}

func parseFontStyle(variant string) canvas.FontStyle {
	s := strings.ToLower(variant)
	result := canvas.FontRegular
	if strings.Contains(s, "bold") {
		result = canvas.FontBold
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}
