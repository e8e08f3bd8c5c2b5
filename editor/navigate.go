package editor

import (
	"github.com/ByLCY/folio/linewrap"
	"github.com/ByLCY/folio/model"
	"github.com/ByLCY/folio/selection"
)

// Direction 指定折叠选区时光标落在哪一端。
type Direction int

const (
	Backward Direction = iota // 选区起点
	Forward                   // 选区终点
)

// MoveLeft 左移一个单位；有选区时折叠到选区起点。
func (e *Editor) MoveLeft() {
	if e.sel.IsActive() {
		e.CollapseSelection(Backward)
		return
	}
	e.move("move-left", false, func() bool { return e.caret.MoveLeft(e.doc) })
}

// MoveRight 右移一个单位；有选区时折叠到选区终点。
func (e *Editor) MoveRight() {
	if e.sel.IsActive() {
		e.CollapseSelection(Forward)
		return
	}
	e.move("move-right", false, func() bool { return e.caret.MoveRight(e.doc) })
}

// MoveUp 移到上一行像素横坐标最接近的位置。
func (e *Editor) MoveUp() {
	e.move("move-up", false, func() bool { return e.caret.MoveUp(e.doc, e.frame) })
}

// MoveDown 移到下一行像素横坐标最接近的位置。
func (e *Editor) MoveDown() {
	e.move("move-down", false, func() bool { return e.caret.MoveDown(e.doc, e.frame) })
}

// Home 移到行首。
func (e *Editor) Home() {
	e.move("home", false, func() bool { return e.caret.MoveHome(e.doc) })
}

// End 移到行尾。
func (e *Editor) End() {
	e.move("end", false, func() bool { return e.caret.MoveEnd(e.doc) })
}

// ExtendLeft 左移并扩展选区。
func (e *Editor) ExtendLeft() {
	e.move("extend-left", true, func() bool { return e.caret.MoveLeft(e.doc) })
}

// ExtendRight 右移并扩展选区。
func (e *Editor) ExtendRight() {
	e.move("extend-right", true, func() bool { return e.caret.MoveRight(e.doc) })
}

// ExtendUp 上移并扩展选区。
func (e *Editor) ExtendUp() {
	e.move("extend-up", true, func() bool { return e.caret.MoveUp(e.doc, e.frame) })
}

// ExtendDown 下移并扩展选区。
func (e *Editor) ExtendDown() {
	e.move("extend-down", true, func() bool { return e.caret.MoveDown(e.doc, e.frame) })
}

// move 执行一次光标移动。extend 为真时锚点保持不动、焦点跟随光标，否则清除选区。
func (e *Editor) move(op string, extend bool, step func() bool) {
	if _, _, ok := e.caret.Resolve(e.doc); !ok {
		e.logf("%s: caret (%d, %d) is stale; ignored", op, e.caret.Field, e.caret.Block)
		return
	}
	had := e.sel.Anchor != nil
	if extend && !had {
		e.sel.Begin(selection.MarkOf(e.caret))
	}
	if !step() && extend == had {
		return
	}
	kind := ChangeCaret
	if extend {
		e.sel.Extend(selection.MarkOf(e.caret))
		kind = ChangeSelection
	} else {
		e.sel.Clear()
	}
	e.commit(op, kind, linewrap.Stats{})
}

// Click 把光标放到点击位置（文档根坐标）并清除选区。
func (e *Editor) Click(p model.Point) {
	fid, bid, off, ok := e.frame.HitTest(p)
	if !ok || !e.caret.PlaceAt(e.doc, fid, bid, off) {
		return
	}
	e.sel.Clear()
	e.commit("click", ChangeCaret, linewrap.Stats{})
}

// StartDrag 在按下位置放置光标并开始选区。
func (e *Editor) StartDrag(p model.Point) {
	fid, bid, off, ok := e.frame.HitTest(p)
	if !ok || !e.caret.PlaceAt(e.doc, fid, bid, off) {
		return
	}
	e.sel.Begin(selection.MarkOf(e.caret))
	e.dragging = true
	e.commit("drag-start", ChangeSelection, linewrap.Stats{})
}

// UpdateDrag 把选区焦点与光标移到拖动位置。
func (e *Editor) UpdateDrag(p model.Point) {
	if !e.dragging {
		return
	}
	fid, bid, off, ok := e.frame.HitTest(p)
	if !ok || !e.caret.PlaceAt(e.doc, fid, bid, off) {
		return
	}
	e.sel.Extend(selection.MarkOf(e.caret))
	e.commit("drag", ChangeSelection, linewrap.Stats{})
}

// FinishDrag 结束拖动。没有拖出范围时不保留选区。
func (e *Editor) FinishDrag() {
	if !e.dragging {
		return
	}
	e.dragging = false
	if !e.sel.IsActive() {
		e.sel.Clear()
	}
	e.commit("drag-end", ChangeSelection, linewrap.Stats{})
}

// CollapseSelection 取消选区，光标落在 dir 指定的一端。
func (e *Editor) CollapseSelection(dir Direction) {
	if !e.sel.IsActive() {
		return
	}
	start, end, ok := e.sel.Order(e.doc)
	e.sel.Clear()
	if ok {
		at := start
		if dir == Forward {
			at = end
		}
		e.caret.PlaceAt(e.doc, at.Field, at.Block, at.Offset)
	}
	e.commit("collapse", ChangeSelection, linewrap.Stats{})
}

// SelectAll 选中整个文档，光标停在文档末尾。
func (e *Editor) SelectAll() {
	e.caret.Place(e.doc, 0, 0)
	e.sel.Begin(selection.MarkOf(e.caret))
	e.caret.Place(e.doc, e.doc.NumFields()-1, 0)
	e.caret.MoveEnd(e.doc)
	e.sel.Extend(selection.MarkOf(e.caret))
	e.commit("select-all", ChangeSelection, linewrap.Stats{})
}

// SetCaretVisible 切换光标可见性（闪烁）。不触发重新排版。
func (e *Editor) SetCaretVisible(v bool) {
	if e.caret.Visible == v {
		return
	}
	e.caret.Visible = v
	e.version++
	e.notify(ChangeEvent{Version: e.version, Kind: ChangeCaret, Op: "blink"})
}
