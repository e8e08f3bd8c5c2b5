package model

import (
	"image/color"

	"github.com/ByLCY/folio/internal/grapheme"
)

// Style 描述一段文字的视觉属性。零值表示继承文档基础样式。
type Style struct {
	Bold      bool       `json:"bold,omitempty"`
	Italic    bool       `json:"italic,omitempty"`
	Underline bool       `json:"underline,omitempty"`
	Code      bool       `json:"code,omitempty"` // 等宽字体
	Scale     float64    `json:"scale,omitempty"` // 字号倍数，0 视为 1
	Color     color.RGBA `json:"color,omitempty"`
}

// IsZero reports whether s carries no annotation.
func (s Style) IsZero() bool { return s == Style{} }

// EffectiveScale 返回有效的字号倍数。
func (s Style) EffectiveScale() float64 {
	if s.Scale <= 0 {
		return 1
	}
	return s.Scale
}

// Over 将 s 叠加到 base 上：s 中设置的属性覆盖 base。
func (s Style) Over(base Style) Style {
	out := base
	out.Bold = out.Bold || s.Bold
	out.Italic = out.Italic || s.Italic
	out.Underline = out.Underline || s.Underline
	out.Code = out.Code || s.Code
	if s.Scale > 0 {
		out.Scale = s.Scale
	}
	if s.Color != (color.RGBA{}) {
		out.Color = s.Color
	}
	return out
}

// StyleSpan 标注 [Start, End) 范围（字符偏移）的样式。
type StyleSpan struct {
	Start int   `json:"start"`
	End   int   `json:"end"`
	Style Style `json:"style"`
}

// StyledText 是带样式区间的字符序列。字符以字素簇为单位。
//
// 值语义：所有操作都返回新值，不修改接收者。样式区间保持有序、互不重叠、
// 非空，且相邻的同样式区间会被合并，因此两个内容相同的 StyledText 的区间
// 表示也相同。
type StyledText struct {
	clusters []string
	spans    []StyleSpan
}

// NewStyledText 用统一样式构造文本。
func NewStyledText(text string, style Style) StyledText {
	st := StyledText{clusters: grapheme.Split(text)}
	if !style.IsZero() && len(st.clusters) > 0 {
		st.spans = []StyleSpan{{Start: 0, End: len(st.clusters), Style: style}}
	}
	return st
}

// Plain 构造无样式文本。
func Plain(text string) StyledText { return NewStyledText(text, Style{}) }

// Len 返回字符数。
func (t StyledText) Len() int { return len(t.clusters) }

// String 返回纯文本。
func (t StyledText) String() string { return grapheme.Join(t.clusters) }

// Cluster returns the i-th character.
func (t StyledText) Cluster(i int) string { return t.clusters[i] }

// Spans returns a copy of the style spans.
func (t StyledText) Spans() []StyleSpan { return append([]StyleSpan(nil), t.spans...) }

// StyleAt 返回偏移 i 处字符的标注样式（未标注返回零值）。
func (t StyledText) StyleAt(i int) Style {
	for _, sp := range t.spans {
		if i >= sp.Start && i < sp.End {
			return sp.Style
		}
		if sp.Start > i {
			break
		}
	}
	return Style{}
}

// Slice 返回 [i, j) 的子文本，样式区间随之裁剪平移。
func (t StyledText) Slice(i, j int) StyledText {
	i = clamp(i, 0, len(t.clusters))
	j = clamp(j, i, len(t.clusters))
	out := StyledText{clusters: append([]string(nil), t.clusters[i:j]...)}
	for _, sp := range t.spans {
		s, e := max(sp.Start, i), min(sp.End, j)
		if s >= e {
			continue
		}
		out.spans = append(out.spans, StyleSpan{Start: s - i, End: e - i, Style: sp.Style})
	}
	return out
}

// Concat 拼接两段文本，保留各自的样式区间边界。
func (t StyledText) Concat(o StyledText) StyledText {
	out := StyledText{
		clusters: make([]string, 0, len(t.clusters)+len(o.clusters)),
		spans:    make([]StyleSpan, 0, len(t.spans)+len(o.spans)),
	}
	out.clusters = append(append(out.clusters, t.clusters...), o.clusters...)
	out.spans = append(out.spans, t.spans...)
	shift := len(t.clusters)
	for _, sp := range o.spans {
		out.spans = append(out.spans, StyleSpan{Start: sp.Start + shift, End: sp.End + shift, Style: sp.Style})
	}
	out.spans = coalesce(out.spans)
	if len(out.spans) == 0 {
		out.spans = nil
	}
	return out
}

// Insert 在偏移 off 处插入 s，插入部分使用 style。
func (t StyledText) Insert(off int, s string, style Style) StyledText {
	if s == "" {
		return t
	}
	off = clamp(off, 0, len(t.clusters))
	return t.Slice(0, off).Concat(NewStyledText(s, style)).Concat(t.Slice(off, len(t.clusters)))
}

// Delete 删除 [i, j) 的字符。
func (t StyledText) Delete(i, j int) StyledText {
	if i >= j {
		return t
	}
	return t.Slice(0, i).Concat(t.Slice(j, len(t.clusters)))
}

// Equal reports whether t and o hold the same characters and styles.
func (t StyledText) Equal(o StyledText) bool {
	if len(t.clusters) != len(o.clusters) || len(t.spans) != len(o.spans) {
		return false
	}
	for i := range t.clusters {
		if t.clusters[i] != o.clusters[i] {
			return false
		}
	}
	for i := range t.spans {
		if t.spans[i] != o.spans[i] {
			return false
		}
	}
	return true
}

// Piece 是一段样式统一的连续字符。
type Piece struct {
	Start int
	End   int
	Text  string
	Style Style
}

// Runs 按样式把文本切成覆盖全部字符的最大连续片段，供测量后端逐段排版。
func (t StyledText) Runs() []Piece {
	if len(t.clusters) == 0 {
		return nil
	}
	var out []Piece
	emit := func(s, e int, st Style) {
		if s < e {
			out = append(out, Piece{Start: s, End: e, Text: grapheme.Join(t.clusters[s:e]), Style: st})
		}
	}
	pos := 0
	for _, sp := range t.spans {
		emit(pos, sp.Start, Style{})
		emit(sp.Start, sp.End, sp.Style)
		pos = sp.End
	}
	emit(pos, len(t.clusters), Style{})
	return out
}

// coalesce 合并相邻且样式相同的区间，丢弃空区间与零样式区间。
func coalesce(spans []StyleSpan) []StyleSpan {
	out := spans[:0]
	for _, sp := range spans {
		if sp.Start >= sp.End || sp.Style.IsZero() {
			continue
		}
		if n := len(out); n > 0 && out[n-1].End == sp.Start && out[n-1].Style == sp.Style {
			out[n-1].End = sp.End
			continue
		}
		out = append(out, sp)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
