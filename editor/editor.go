// Package editor 是文档上下文对象：持有文档、光标、选区与最近一次排版结果，
// 对外提供插入、删除、导航与查询入口。
//
// 每个入口都是同步的，完成后依次执行：规范化、测量与重排、排版、光标重算、
// 选区重建、不变量检查、变更通知。
package editor

import (
	"errors"
	"fmt"
	"log"

	"github.com/ByLCY/folio/caret"
	"github.com/ByLCY/folio/images"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/linewrap"
	"github.com/ByLCY/folio/model"
	"github.com/ByLCY/folio/selection"
)

// ErrNoShaper is returned by New when Options.Shaper is nil.
var ErrNoShaper = errors.New("editor: shaper is required")

// Options 配置编辑器。
type Options struct {
	Shaper   linewrap.Shaper
	Width    float64     // 行宽预算（像素），<= 0 表示不限宽
	Style    model.Style // 文档基础样式
	TabWidth float64     // 制表位间距（像素）
	Origin   model.Point // 文档根在宿主坐标系中的位置

	Images *images.Store // 插入图片时查询尺寸，可为空
	Logger *log.Logger   // 失效引用与重排摘要，可为空
	Debug  bool          // 在日志中输出每次重排摘要；报告中附带块明细
}

func (o Options) measure() linewrap.Options {
	return linewrap.Options{MaxWidth: o.Width, Style: o.Style, TabWidth: o.TabWidth}
}

// Editor 是一个文档的编辑上下文。不同 Editor 之间没有共享状态；
// 单个 Editor 不是并发安全的。
type Editor struct {
	opts Options
	doc  *model.Document

	caret  *caret.Caret
	sel    selection.Selection
	frame  *layout.Frame
	typing model.Style

	dragging  bool
	version   uint64
	listeners map[int]func(ChangeEvent)
	nextID    int
}

// New 创建只含一个空行的编辑器。
func New(opts Options) (*Editor, error) {
	if opts.Shaper == nil {
		return nil, ErrNoShaper
	}
	e := &Editor{
		opts:      opts,
		doc:       model.NewDocument(),
		listeners: make(map[int]func(ChangeEvent)),
	}
	e.caret = caret.New(e.doc)
	e.refresh()
	return e, nil
}

// Load 用给定内容替换整个文档：每个元素对应一个字段，字段按宽度重排（不以换行
// 结尾的字段与后续字段相连），光标回到文档开头，选区清空。
func (e *Editor) Load(fields ...[]model.Block) {
	e.doc.Reset(fields...)
	e.sel.Clear()
	var st linewrap.Stats
	for fi := 0; fi < e.doc.NumFields(); fi++ {
		st = st.Add(linewrap.PullUp(e.doc, fi, e.opts.measure(), e.opts.Shaper, nil))
		st = st.Add(linewrap.PullDown(e.doc, fi, e.opts.measure(), e.opts.Shaper, nil))
	}
	e.caret.Place(e.doc, 0, 0)
	e.commit("load", ChangeEdit, st)
}

// Document 返回底层文档。调用方只应读取。
func (e *Editor) Document() *model.Document { return e.doc }

// Frame 返回最近一次排版结果。
func (e *Editor) Frame() *layout.Frame { return e.frame }

// SetWidth 修改行宽预算并重排全部字段。
func (e *Editor) SetWidth(width float64) {
	e.opts.Width = width
	tr := e.tracker()
	var st linewrap.Stats
	for fi := 0; fi < e.doc.NumFields(); fi++ {
		st = st.Add(linewrap.PullUp(e.doc, fi, e.opts.measure(), e.opts.Shaper, &tr))
		st = st.Add(linewrap.PullDown(e.doc, fi, e.opts.measure(), e.opts.Shaper, &tr))
	}
	e.land(tr)
	e.commit("resize", ChangeEdit, st)
}

// tracker 返回以当前光标位置初始化的重排跟踪点；光标失效时不激活。
func (e *Editor) tracker() linewrap.Tracker {
	fi, flat, ok := e.caret.Flat(e.doc)
	return linewrap.Tracker{Field: fi, Flat: flat, Active: ok}
}

// land 把光标放到跟踪点最终所在的位置。
func (e *Editor) land(tr linewrap.Tracker) {
	if !tr.Active {
		return
	}
	if !e.caret.Place(e.doc, tr.Field, tr.Flat) {
		panic(fmt.Sprintf("editor: tracked caret (%d, %d) does not resolve", tr.Field, tr.Flat))
	}
}

// refresh 重新排版并刷新光标与选区的像素状态。
func (e *Editor) refresh() {
	frame, err := layout.Compute(e.doc, layout.BuildOptions{
		Shaper:  e.opts.Shaper,
		Measure: e.opts.measure(),
		Origin:  e.opts.Origin,
		Debug:   layout.DebugOptions{Blocks: e.opts.Debug},
	})
	if err != nil {
		// 只有缺少 Shaper 时会失败，New 已经排除
		panic(fmt.Sprintf("editor: layout failed: %v", err))
	}
	e.frame = frame
	if !e.caret.Recompute(e.doc, e.frame) {
		e.logf("caret (%d, %d, %d) is stale; keeping previous position", e.caret.Field, e.caret.Block, e.caret.Offset)
	}
	hadSelection := e.sel.IsActive()
	e.sel.Rebuild(e.doc, e.frame)
	if hadSelection && !e.sel.IsActive() {
		e.logf("selection endpoint is stale; selection discarded")
	}
}

// commit 完成一次入口调用：排版、检查不变量、同步文本段光标范围、通知。
func (e *Editor) commit(op string, kind ChangeKind, st linewrap.Stats) {
	if kind == ChangeEdit {
		// 编辑之后不保留（可能尚未展开的）锚点
		e.sel.Clear()
	}
	e.refresh()
	model.MustValidate(e.doc)
	e.syncCursors()
	if e.opts.Debug && kind == ChangeEdit {
		e.logf("%s: %s fields=%d", op, st, e.doc.NumFields())
	}
	e.version++
	e.notify(ChangeEvent{Version: e.version, Kind: kind, Op: op, Stats: st})
}

// syncCursors 把光标与选区写回各文本段的 Cursor 范围。
func (e *Editor) syncCursors() {
	for _, f := range e.doc.Fields() {
		for _, b := range f.Blocks {
			if r, ok := b.(*model.TextRun); ok {
				r.Cursor = nil
			}
		}
	}
	if fi, bi, ok := e.caret.Resolve(e.doc); ok {
		if r, ok := e.doc.Blocks(fi)[bi].(*model.TextRun); ok {
			r.Cursor = &model.TextRange{Start: e.caret.Offset, End: e.caret.Offset}
		}
	}
	if !e.sel.IsActive() {
		return
	}
	start, end, ok := e.sel.Order(e.doc)
	if !ok {
		return
	}
	for fi := start.FieldIndex; fi <= end.FieldIndex; fi++ {
		for bi, b := range e.doc.Blocks(fi) {
			r, ok := b.(*model.TextRun)
			if !ok {
				continue
			}
			if fi == start.FieldIndex && bi < start.BlockIndex || fi == end.FieldIndex && bi > end.BlockIndex {
				continue
			}
			lo, hi := 0, r.Len()
			if fi == start.FieldIndex && bi == start.BlockIndex {
				lo = start.Offset
			}
			if fi == end.FieldIndex && bi == end.BlockIndex {
				hi = end.Offset
			}
			r.Cursor = &model.TextRange{Start: lo, End: hi}
		}
	}
}

func (e *Editor) logf(format string, args ...any) {
	if e.opts.Logger != nil {
		e.opts.Logger.Printf(format, args...)
	}
}
