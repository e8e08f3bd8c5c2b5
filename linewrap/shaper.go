// Package linewrap 实现字段的单行测量与跨字段的重排（下推 / 上拉）。
//
// 文字宽度由外部注入的 Shaper 提供，本包只依赖它的宽度与光标矩形查询。
package linewrap

import (
	"sort"

	"github.com/ByLCY/folio/model"
)

// TextLayout 是一段文本单行排版（不自动换行）后的结果。
type TextLayout interface {
	Width() float64
	Height() float64
	// CursorRect 返回偏移 offset 处（第 offset 个字符之前）的光标矩形，
	// 坐标相对文本段左上角。offset 会被夹取到 [0, Len]。
	CursorRect(offset int) model.Rect
	// Overflowed 报告宽度是否达到或超过排版时给定的 maxWidth。
	Overflowed() bool
	// OffsetAt 返回与横坐标 x 最接近的字符边界偏移。
	OffsetAt(x float64) int
}

// Shaper 是文字测量后端。实现必须是确定性的、无副作用的，
// 并且光标横坐标随偏移单调不减。
type Shaper interface {
	Shape(text model.StyledText, base model.Style, maxWidth float64) TextLayout
	LineHeight(base model.Style) float64
}

// Advances 是按字符前进宽度构造的 TextLayout，供各测量后端复用。
type Advances struct {
	xs       []float64 // xs[i] 为第 i 个字符之前的横坐标，len = n+1
	height   float64
	maxWidth float64
}

// NewAdvances 由每个字符的前进宽度构造排版结果。
func NewAdvances(advances []float64, height, maxWidth float64) *Advances {
	xs := make([]float64, len(advances)+1)
	for i, a := range advances {
		xs[i+1] = xs[i] + a
	}
	return &Advances{xs: xs, height: height, maxWidth: maxWidth}
}

func (a *Advances) Width() float64  { return a.xs[len(a.xs)-1] }
func (a *Advances) Height() float64 { return a.height }

func (a *Advances) Overflowed() bool {
	return a.maxWidth > 0 && a.Width() >= a.maxWidth
}

func (a *Advances) CursorRect(offset int) model.Rect {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(a.xs) {
		offset = len(a.xs) - 1
	}
	return model.Rect{X: a.xs[offset], H: a.height}
}

func (a *Advances) OffsetAt(x float64) int {
	n := len(a.xs) - 1
	if x <= 0 || n == 0 {
		return 0
	}
	if x >= a.xs[n] {
		return n
	}
	// 第一个右边界超过 x 的字符；落在字符右半边时取其后的边界
	i := sort.Search(n, func(i int) bool { return a.xs[i+1] > x })
	if x-a.xs[i] >= a.xs[i+1]-x {
		return i + 1
	}
	return i
}
