package editor

import (
	"fmt"
	"strings"

	"github.com/ByLCY/folio/linewrap"
	"github.com/ByLCY/folio/model"
)

// InsertText 在光标处插入文本，'\n' 插入换行符，'\t' 插入制表符。
// 有选区时先删除选区内容。
func (e *Editor) InsertText(s string) {
	if s == "" {
		return
	}
	st, changed := e.collapseIfActive()
	var chunk strings.Builder
	flush := func() {
		if chunk.Len() == 0 {
			return
		}
		run := model.NewTextRun(e.doc.IDs().NextBlock(), model.NewStyledText(chunk.String(), e.typing))
		chunk.Reset()
		if d, ok := e.insertBlocks(run); ok {
			st, changed = st.Add(d), true
		}
	}
	for _, r := range s {
		switch r {
		case '\n':
			flush()
			if d, ok := e.insertNewline(); ok {
				st, changed = st.Add(d), true
			}
		case '\t':
			flush()
			if d, ok := e.insertBlocks(e.doc.Tab()); ok {
				st, changed = st.Add(d), true
			}
		default:
			chunk.WriteRune(r)
		}
	}
	flush()
	if changed {
		e.commit("insert-text", ChangeEdit, st)
	}
}

// InsertChar 插入单个字符。
func (e *Editor) InsertChar(r rune) { e.InsertText(string(r)) }

// InsertTab 插入制表符。
func (e *Editor) InsertTab() { e.InsertText("\t") }

// InsertNewline 在光标处断开当前字段。
func (e *Editor) InsertNewline() { e.InsertText("\n") }

// InsertImage 在光标处插入图片仓库中的图片，尺寸取图片的固有尺寸。
func (e *Editor) InsertImage(ref string) error {
	if e.opts.Images == nil {
		return fmt.Errorf("插入图片 %q 失败: 未配置图片仓库", ref)
	}
	entry, err := e.opts.Images.Get(ref)
	if err != nil {
		return fmt.Errorf("插入图片失败: %w", err)
	}
	st, changed := e.collapseIfActive()
	if d, ok := e.insertBlocks(e.doc.Image(ref, entry.Width, entry.Height)); ok {
		st, changed = st.Add(d), true
	}
	if changed {
		e.commit("insert-image", ChangeEdit, st)
	}
	return nil
}

// SetTypingStyle 设置之后输入文字使用的样式。
func (e *Editor) SetTypingStyle(style model.Style) { e.typing = style }

// TypingStyle 返回当前输入样式。
func (e *Editor) TypingStyle() model.Style { return e.typing }

// insertBlocks 在光标处插入块，光标移到插入内容之后，然后从当前字段下推溢出。
func (e *Editor) insertBlocks(ins ...model.Block) (linewrap.Stats, bool) {
	fi, bi, ok := e.caret.Resolve(e.doc)
	if !ok {
		e.logf("insert: caret (%d, %d) is stale; ignored", e.caret.Field, e.caret.Block)
		return linewrap.Stats{}, false
	}
	ids := e.doc.IDs()
	blocks := e.doc.Blocks(fi)
	pos := model.Pos{Block: bi, Offset: e.caret.Offset}
	left, right, ok := model.SplitAt(blocks, pos, ids)
	if !ok {
		e.logf("insert: caret %+v cannot split %s; ignored", pos, model.Describe(blocks))
		return linewrap.Stats{}, false
	}
	flat := model.FlatOffset(blocks, pos)
	e.doc.SetBlocks(fi, model.Normalize(model.Concat(model.Concat(left, ins), right), ids))

	tr := linewrap.Tracker{Field: fi, Flat: flat + model.FlatLen(ins), Active: true}
	st := linewrap.PullDown(e.doc, fi, e.opts.measure(), e.opts.Shaper, &tr)
	e.land(tr)
	return st, true
}

// insertNewline 在光标处切分字段并在左半结尾放置换行符。右半以换行符结尾或
// 当前字段是最后一个字段时成为新字段，否则前置到下一字段（软换行的续行）。
// 光标移到右半开头。
func (e *Editor) insertNewline() (linewrap.Stats, bool) {
	fi, bi, ok := e.caret.Resolve(e.doc)
	if !ok {
		e.logf("newline: caret (%d, %d) is stale; ignored", e.caret.Field, e.caret.Block)
		return linewrap.Stats{}, false
	}
	ids := e.doc.IDs()
	blocks := e.doc.Blocks(fi)
	left, right, ok := model.SplitAt(blocks, model.Pos{Block: bi, Offset: e.caret.Offset}, ids)
	if !ok {
		return linewrap.Stats{}, false
	}
	last := fi == e.doc.NumFields()-1
	left = model.Normalize(append(left, e.doc.NewLine()), ids)
	right = model.Normalize(right, ids)
	e.doc.SetBlocks(fi, left)

	var st linewrap.Stats
	if model.EndsWithNewLine(right) || last {
		e.doc.InsertField(fi+1, right)
		st.Created++
	} else {
		e.doc.SetBlocks(fi+1, model.Normalize(model.Concat(right, e.doc.Blocks(fi+1)), ids))
	}
	st.Splits++

	tr := linewrap.Tracker{Field: fi + 1, Flat: 0, Active: true}
	opts := e.opts.measure()
	// 在软换行续行的开头断行时，换行符可能还能回到上一行
	if fi > 0 && !model.EndsWithNewLine(e.doc.Blocks(fi-1)) {
		st = st.Add(linewrap.PullUp(e.doc, fi-1, opts, e.opts.Shaper, &tr))
	}
	st = st.Add(linewrap.PullDown(e.doc, tr.Field, opts, e.opts.Shaper, &tr))
	e.land(tr)
	return st, true
}

// Backspace 删除光标前的一个单位；有选区时只删除选区内容。
func (e *Editor) Backspace() {
	if e.sel.IsActive() {
		if st, ok := e.collapse(); ok {
			e.commit("backspace", ChangeEdit, st)
		}
		return
	}
	if st, ok := e.backspace(); ok {
		e.commit("backspace", ChangeEdit, st)
	}
}

// Delete 删除光标后的一个单位：先右移一个单位再按退格处理。
// 有选区时只删除选区内容。
func (e *Editor) Delete() {
	if e.sel.IsActive() {
		if st, ok := e.collapse(); ok {
			e.commit("delete", ChangeEdit, st)
		}
		return
	}
	fi, _, ok := e.caret.Flat(e.doc)
	if !ok {
		e.logf("delete: caret (%d, %d) is stale; ignored", e.caret.Field, e.caret.Block)
		return
	}
	saved := *e.caret
	if !e.caret.MoveRight(e.doc) {
		return
	}
	// 软换行处字段末尾与下一字段开头是同一位置，要删除的是下一字段的首个单位
	if next, _, _ := e.caret.Flat(e.doc); next != fi && !e.doc.Field(fi).EndsWithNewLine() {
		if !e.caret.MoveRight(e.doc) {
			*e.caret = saved
			return
		}
	}
	if st, ok := e.backspace(); ok {
		e.commit("delete", ChangeEdit, st)
		return
	}
	*e.caret = saved
}

type backspaceCase int

const (
	bsNoop   backspaceCase = iota // 文档开头
	bsLocal                       // 只删除本字段内的一个单位
	bsJoin                        // 字段开头：删除上一字段的最后一个单位后上拉
	bsReflow                      // 软换行字段内部：删除后从本字段上拉
)

// classifyBackspace 对退格做情形划分。四种情形必须恰好成立一种。
func classifyBackspace(doc *model.Document, fi, flat int) backspaceCase {
	f := doc.Field(fi)
	atOrigin := flat == 0
	last := fi == doc.NumFields()-1
	endsNL := f.EndsWithNewLine()
	single := doc.NumFields() == 1

	cases := []struct {
		c  backspaceCase
		ok bool
	}{
		{bsNoop, atOrigin && fi == 0},
		{bsLocal, !atOrigin && (last || endsNL || single)},
		{bsJoin, atOrigin && fi > 0},
		{bsReflow, !atOrigin && !endsNL && !last},
	}
	var (
		hit   backspaceCase
		count int
	)
	for _, c := range cases {
		if c.ok {
			hit = c.c
			count++
		}
	}
	if count != 1 {
		panic(fmt.Sprintf("editor: backspace at field %d flat %d matches %d cases (fields=%d last=%v newline=%v)",
			fi, flat, count, doc.NumFields(), last, endsNL))
	}
	return hit
}

func (e *Editor) backspace() (linewrap.Stats, bool) {
	fi, flat, ok := e.caret.Flat(e.doc)
	if !ok {
		e.logf("backspace: caret (%d, %d) is stale; ignored", e.caret.Field, e.caret.Block)
		return linewrap.Stats{}, false
	}
	opts := e.opts.measure()
	var st linewrap.Stats
	var tr linewrap.Tracker
	switch classifyBackspace(e.doc, fi, flat) {
	case bsNoop:
		return linewrap.Stats{}, false
	case bsLocal:
		e.deleteUnit(fi, flat)
		tr = linewrap.Tracker{Field: fi, Flat: flat - 1, Active: true}
	case bsJoin:
		prev := fi - 1
		end := e.doc.Field(prev).Len()
		if end == 0 {
			// 上一字段已经为空，整个删除
			e.doc.RemoveField(prev)
			tr = linewrap.Tracker{Field: prev, Flat: 0, Active: true}
			st.Removed++
			break
		}
		e.deleteUnit(prev, end)
		tr = linewrap.Tracker{Field: prev, Flat: end - 1, Active: true}
		st = linewrap.PullUp(e.doc, prev, opts, e.opts.Shaper, &tr)
	case bsReflow:
		e.deleteUnit(fi, flat)
		tr = linewrap.Tracker{Field: fi, Flat: flat - 1, Active: true}
		st = linewrap.PullUp(e.doc, fi, opts, e.opts.Shaper, &tr)
	default:
		panic("editor: unhandled backspace case")
	}
	e.land(tr)
	return st, true
}

// deleteUnit 删除第 fi 个字段中扁平偏移 flat 之前的一个单位。
// 图片与其后的空文本段作为一个单位一起删除。
func (e *Editor) deleteUnit(fi, flat int) {
	ids := e.doc.IDs()
	blocks := e.doc.Blocks(fi)
	left, rest, ok := model.SplitAt(blocks, model.CutAt(blocks, flat-1), ids)
	if !ok {
		panic(fmt.Sprintf("editor: cannot cut %s before %d", model.Describe(blocks), flat-1))
	}
	_, right, ok := model.SplitAt(rest, model.CutAt(rest, 1), ids)
	if !ok {
		panic(fmt.Sprintf("editor: cannot cut %s after the first unit", model.Describe(rest)))
	}
	e.doc.SetBlocks(fi, model.Normalize(model.Concat(left, right), ids))
}

func (e *Editor) collapseIfActive() (linewrap.Stats, bool) {
	if !e.sel.IsActive() {
		return linewrap.Stats{}, false
	}
	return e.collapse()
}

// collapse 删除选区内容：起点之前与终点之后的内容合并进起点字段，
// 中间字段与终点字段被删除，然后重排起点字段。
func (e *Editor) collapse() (linewrap.Stats, bool) {
	m, ok := e.sel.Collapse(e.doc, e.doc.IDs())
	if !ok {
		e.logf("collapse: selection is stale; discarded")
		e.sel.Clear()
		return linewrap.Stats{}, false
	}
	e.doc.SetBlocks(m.StartIndex, m.Blocks)
	st := linewrap.Stats{Merges: 1}
	for i := len(m.Remove) - 1; i >= 0; i-- {
		if fi, ok := e.doc.FieldIndex(m.Remove[i]); ok {
			e.doc.RemoveField(fi)
			st.Removed++
		}
	}
	e.sel.Clear()
	if !e.caret.PlaceAt(e.doc, m.StartField, m.CaretBlock, m.CaretOffset) {
		panic(fmt.Sprintf("editor: merged caret (%d, %d) does not resolve", m.CaretBlock, m.CaretOffset))
	}
	tr := e.tracker()
	opts := e.opts.measure()
	st = st.Add(linewrap.PullDown(e.doc, m.StartIndex, opts, e.opts.Shaper, &tr))
	st = st.Add(linewrap.PullUp(e.doc, m.StartIndex, opts, e.opts.Shaper, &tr))
	e.land(tr)
	return st, true
}
