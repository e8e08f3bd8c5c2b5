// Package cell 按终端单元宽度测量文本：每个字符占 go-runewidth 给出的单元数，
// 结果完全确定，适合终端宿主与测试。
package cell

import (
	"github.com/mattn/go-runewidth"

	"github.com/ByLCY/folio/linewrap"
	"github.com/ByLCY/folio/model"
	"github.com/ByLCY/folio/renderer"
)

// 默认单元尺寸（像素）。
const (
	DefaultWidth  = 8.0
	DefaultHeight = 16.0
)

func init() {
	renderer.Register("cell", func(o renderer.Options) (linewrap.Shaper, error) {
		return New(o.CellWidth, o.CellHeight), nil
	})
}

// Shaper 是终端单元测量后端。
type Shaper struct {
	width  float64
	height float64
	cond   *runewidth.Condition
}

var _ linewrap.Shaper = (*Shaper)(nil)

// New 创建单元尺寸为 width×height 像素的后端，非正值取默认尺寸。
func New(width, height float64) *Shaper {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	return &Shaper{width: width, height: height, cond: cond}
}

// Cells 返回一个字符占用的单元数。
func (s *Shaper) Cells(cluster string) int {
	return s.cond.StringWidth(cluster)
}

func (s *Shaper) Shape(text model.StyledText, base model.Style, maxWidth float64) linewrap.TextLayout {
	adv := make([]float64, text.Len())
	height := s.LineHeight(base)
	for _, p := range text.Runs() {
		scale := p.Style.Over(base).EffectiveScale()
		for i := p.Start; i < p.End; i++ {
			adv[i] = float64(s.Cells(text.Cluster(i))) * s.width * scale
		}
		height = max(height, s.height*scale)
	}
	return linewrap.NewAdvances(adv, height, maxWidth)
}

func (s *Shaper) LineHeight(base model.Style) float64 {
	return s.height * base.EffectiveScale()
}
