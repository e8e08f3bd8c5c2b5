package editor

import (
	"strings"

	"github.com/ByLCY/folio/caret"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/model"
	"github.com/ByLCY/folio/selection"
)

// Caret 返回光标的快照。
func (e *Editor) Caret() caret.Caret { return *e.caret }

// HasSelection reports whether a non-empty selection exists.
func (e *Editor) HasSelection() bool { return e.sel.IsActive() }

// Segments 返回选区高亮矩形（文档根坐标），没有选区时为空。
func (e *Editor) Segments() []selection.Segment {
	return append([]selection.Segment(nil), e.sel.Segments...)
}

// Text 返回整个文档的纯文本。软换行不产生字符。
func (e *Editor) Text() string {
	var sb strings.Builder
	for _, f := range e.doc.Fields() {
		sb.WriteString(model.PlainText(f.Blocks))
	}
	return sb.String()
}

// SelectedText 返回选区内容的纯文本。
func (e *Editor) SelectedText() string { return e.sel.Text(e.doc) }

// Version 返回已发出的变更次数。
func (e *Editor) Version() uint64 { return e.version }

// Report 返回当前结构的诊断报告。
func (e *Editor) Report() *layout.Report {
	rep := layout.BuildReport(e.doc, e.frame, layout.DebugOptions{Blocks: e.opts.Debug})
	rep.Version = e.version
	c := e.caret
	rep.Caret = &layout.CaretReport{
		Field:      c.Field,
		Block:      c.Block,
		Offset:     c.Offset,
		X:          c.Pos.X,
		Y:          c.Pos.Y,
		LineHeight: c.LineHeight,
		Visible:    c.Visible,
	}
	for _, seg := range e.sel.Segments {
		rep.Selection = append(rep.Selection, layout.SegmentReport{Field: seg.Field, Rect: seg.Rect})
	}
	return rep
}
