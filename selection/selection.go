// Package selection 实现锚点/焦点选区：端点排序、高亮矩形计算与选区折叠合并。
//
// 高亮矩形是由锚点与焦点推导出的缓存，每次端点变化都整体重算，不做增量修补。
package selection

import (
	"strings"

	"github.com/ByLCY/folio/caret"
	"github.com/ByLCY/folio/model"
)

// Mark 是选区端点：光标位置的轻量快照。
type Mark struct {
	Field  model.FieldID `json:"field"`
	Block  model.BlockID `json:"block"`
	Offset int           `json:"offset"`
	Pos    model.Point   `json:"pos"`
}

// MarkOf 记录光标当前位置。
func MarkOf(c *caret.Caret) Mark {
	return Mark{Field: c.Field, Block: c.Block, Offset: c.Offset, Pos: c.Pos}
}

func (m Mark) samePlace(o Mark) bool {
	return m.Field == o.Field && m.Block == o.Block && m.Offset == o.Offset
}

// Segment 是一个字段内的高亮矩形（文档根坐标）。
type Segment struct {
	Field model.FieldID `json:"field"`
	Rect  model.Rect    `json:"rect"`
}

// Selection 是可选的锚点/焦点对。
type Selection struct {
	Anchor   *Mark
	Focus    *Mark
	Segments []Segment
}

// IsActive 当且仅当锚点与焦点都存在且位置不同。
func (s *Selection) IsActive() bool {
	return s.Anchor != nil && s.Focus != nil && !s.Anchor.samePlace(*s.Focus)
}

// Begin 在 m 处开始选区，锚点固定于此。
func (s *Selection) Begin(m Mark) {
	a, f := m, m
	s.Anchor, s.Focus = &a, &f
	s.Segments = nil
}

// Extend 移动焦点；还没有锚点时以 m 开始选区。
func (s *Selection) Extend(m Mark) {
	if s.Anchor == nil {
		s.Begin(m)
		return
	}
	f := m
	s.Focus = &f
}

// Clear 取消选区。
func (s *Selection) Clear() {
	s.Anchor, s.Focus, s.Segments = nil, nil, nil
}

// Endpoint 是解析到文档下标的端点。
type Endpoint struct {
	Mark
	FieldIndex int
	BlockIndex int
	Flat       int // 字段内扁平偏移
}

func (e Endpoint) less(o Endpoint) bool {
	if e.FieldIndex != o.FieldIndex {
		return e.FieldIndex < o.FieldIndex
	}
	if e.BlockIndex != o.BlockIndex {
		return e.BlockIndex < o.BlockIndex
	}
	return e.Offset < o.Offset
}

func resolve(doc *model.Document, m Mark) (Endpoint, bool) {
	fi, bi, ok := doc.Resolve(m.Field, m.Block)
	if !ok {
		return Endpoint{}, false
	}
	blocks := doc.Blocks(fi)
	if m.Offset < 0 || m.Offset > blocks[bi].Len() {
		return Endpoint{}, false
	}
	return Endpoint{
		Mark:       m,
		FieldIndex: fi,
		BlockIndex: bi,
		Flat:       model.FlatOffset(blocks, model.Pos{Block: bi, Offset: m.Offset}),
	}, true
}

// Order 按 (字段下标, 块下标, 偏移) 字典序返回起点与终点。
// 任一端点失效或偏移越界时 ok 为 false。
func (s *Selection) Order(doc *model.Document) (start, end Endpoint, ok bool) {
	if s.Anchor == nil || s.Focus == nil {
		return Endpoint{}, Endpoint{}, false
	}
	a, ok := resolve(doc, *s.Anchor)
	if !ok {
		return Endpoint{}, Endpoint{}, false
	}
	f, ok := resolve(doc, *s.Focus)
	if !ok {
		return Endpoint{}, Endpoint{}, false
	}
	if f.less(a) {
		return f, a, true
	}
	return a, f, true
}

// Rebuild 重新计算高亮矩形。端点失效时直接丢弃选区；缺少排版结果的片段被忽略。
func (s *Selection) Rebuild(doc *model.Document, loc caret.Locator) {
	s.Segments = nil
	if !s.IsActive() {
		return
	}
	start, end, ok := s.Order(doc)
	if !ok {
		s.Clear()
		return
	}
	if loc == nil {
		return
	}
	for fi := start.FieldIndex; fi <= end.FieldIndex; fi++ {
		f := doc.Field(fi)
		from, okFrom := fieldStart(loc, f)
		to, okTo := fieldEnd(loc, f)
		if fi == start.FieldIndex {
			from, okFrom = caret.RectAt(loc, f.ID, start.Block, start.Offset)
		}
		if fi == end.FieldIndex {
			to, okTo = caret.RectAt(loc, f.ID, end.Block, end.Offset)
		}
		if !okFrom || !okTo {
			continue
		}
		s.Segments = append(s.Segments, Segment{Field: f.ID, Rect: from.Union(to)})
	}
	// 端点像素位置随排版刷新
	if r, ok := caret.RectAt(loc, s.Anchor.Field, s.Anchor.Block, s.Anchor.Offset); ok {
		s.Anchor.Pos = model.Point{X: r.X, Y: r.Y}
	}
	if r, ok := caret.RectAt(loc, s.Focus.Field, s.Focus.Block, s.Focus.Offset); ok {
		s.Focus.Pos = model.Point{X: r.X, Y: r.Y}
	}
}

func fieldStart(loc caret.Locator, f *model.Field) (model.Rect, bool) {
	return caret.RectAt(loc, f.ID, f.Blocks[0].ID(), 0)
}

func fieldEnd(loc caret.Locator, f *model.Field) (model.Rect, bool) {
	last := f.Blocks[len(f.Blocks)-1]
	return caret.RectAt(loc, f.ID, last.ID(), last.Len())
}

// Merge 描述选区折叠后的编辑：用 Blocks 替换起点字段的内容，删除 Remove 中的字段，
// 光标落在 (CaretBlock, CaretOffset)。
type Merge struct {
	StartField  model.FieldID
	StartIndex  int
	Blocks      []model.Block
	Remove      []model.FieldID
	CaretBlock  model.BlockID
	CaretOffset int
}

// Collapse 构造删除选区内容后的合并块列表：起点之前的内容接上终点之后的内容，
// 跨字段时删除中间的所有字段以及终点字段。结果已规范化。
func (s *Selection) Collapse(doc *model.Document, ids model.BlockAllocator) (Merge, bool) {
	if !s.IsActive() {
		return Merge{}, false
	}
	start, end, ok := s.Order(doc)
	if !ok {
		return Merge{}, false
	}
	left, _, ok := model.SplitAt(doc.Blocks(start.FieldIndex), model.Pos{Block: start.BlockIndex, Offset: start.Offset}, ids)
	if !ok {
		return Merge{}, false
	}
	_, right, ok := model.SplitAt(doc.Blocks(end.FieldIndex), model.Pos{Block: end.BlockIndex, Offset: end.Offset}, ids)
	if !ok {
		return Merge{}, false
	}
	merged := model.Normalize(model.Concat(left, right), ids)
	m := Merge{
		StartField: start.Field,
		StartIndex: start.FieldIndex,
		Blocks:     merged,
	}
	for fi := start.FieldIndex + 1; fi <= end.FieldIndex; fi++ {
		m.Remove = append(m.Remove, doc.Field(fi).ID)
	}
	// 起点块仍在时落在它上面，否则落在合并处的文本段
	pos, ok := model.ResolveFlat(merged, model.FlatLen(left))
	if !ok {
		panic("selection: merged block list cannot host the caret")
	}
	m.CaretBlock, m.CaretOffset = merged[pos.Block].ID(), pos.Offset
	return m, true
}

// Text 返回选区内容的纯文本，图片为 U+FFFC，字段之间按换行符原样输出。
func (s *Selection) Text(doc *model.Document) string {
	if !s.IsActive() {
		return ""
	}
	start, end, ok := s.Order(doc)
	if !ok {
		return ""
	}
	var scratch model.IDs
	var sb strings.Builder
	for fi := start.FieldIndex; fi <= end.FieldIndex; fi++ {
		blocks := doc.Blocks(fi)
		if fi == end.FieldIndex {
			blocks, _, _ = model.SplitAt(blocks, model.CutAt(blocks, end.Flat), &scratch)
		}
		if fi == start.FieldIndex {
			_, blocks, _ = model.SplitAt(blocks, model.CutAt(blocks, start.Flat), &scratch)
		}
		sb.WriteString(model.PlainText(blocks))
	}
	return sb.String()
}
