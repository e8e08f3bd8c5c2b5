// Package caret 维护全局光标：逻辑位置 (字段 id, 块 id, 块内偏移) 与由排版结果
// 推导出的像素位置。
//
// 逻辑位置是权威的，像素位置只是缓存：每次结构或位置变化后由 Recompute 重新计算。
// 所有操作在引用失效（id 不再能解析）时静默放弃，保持原状态。
package caret

import (
	"math"

	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/model"
)

// Locator 提供块的排版结果与坐标变换，*layout.Frame 实现了该接口。
type Locator interface {
	Box(fid model.FieldID, bid model.BlockID) (*layout.Box, bool)
	ToRoot(fid model.FieldID, local model.Point) (model.Point, bool)
	FieldRect(fid model.FieldID) (model.Rect, bool)
}

// Caret 是文档中的光标。
type Caret struct {
	Field  model.FieldID
	Block  model.BlockID
	Offset int

	Pos        model.Point // 光标顶部，文档根坐标
	LineHeight float64
	Visible    bool
}

// New 返回指向首个字段首个文本段开头的光标。
func New(doc *model.Document) *Caret {
	c := &Caret{Visible: true}
	c.Place(doc, 0, 0)
	return c
}

// Resolve 解析光标的字段下标与块下标。偏移越界同样视为失效。
func (c *Caret) Resolve(doc *model.Document) (field, block int, ok bool) {
	fi, bi, ok := doc.Resolve(c.Field, c.Block)
	if !ok || c.Offset < 0 || c.Offset > doc.Blocks(fi)[bi].Len() {
		return 0, 0, false
	}
	return fi, bi, true
}

// Flat 返回光标所在字段下标与字段内扁平偏移。
func (c *Caret) Flat(doc *model.Document) (field, flat int, ok bool) {
	fi, bi, ok := c.Resolve(doc)
	if !ok {
		return 0, 0, false
	}
	return fi, model.FlatOffset(doc.Blocks(fi), model.Pos{Block: bi, Offset: c.Offset}), true
}

// Place 把光标放到第 fi 个字段的扁平偏移 flat 处（夹取到字段范围），
// 边界处优先落在前一个文本段。
func (c *Caret) Place(doc *model.Document, fi, flat int) bool {
	if fi < 0 || fi >= doc.NumFields() {
		return false
	}
	f := doc.Field(fi)
	flat = max(0, min(flat, f.Len()))
	pos, ok := model.ResolveFlat(f.Blocks, flat)
	if !ok {
		return false
	}
	c.Field, c.Block, c.Offset = f.ID, f.Blocks[pos.Block].ID(), pos.Offset
	return true
}

// PlaceAt 把光标放到给定块的偏移处。
func (c *Caret) PlaceAt(doc *model.Document, fid model.FieldID, bid model.BlockID, offset int) bool {
	fi, bi, ok := doc.Resolve(fid, bid)
	if !ok || offset < 0 || offset > doc.Blocks(fi)[bi].Len() {
		return false
	}
	// 经由扁平偏移归一化落点
	return c.Place(doc, fi, model.FlatOffset(doc.Blocks(fi), model.Pos{Block: bi, Offset: offset}))
}

// lineEnd 返回字段内可停留的最大扁平偏移：结尾的换行符之后不是光标位置。
func lineEnd(f *model.Field) int {
	n := f.Len()
	if f.EndsWithNewLine() {
		n--
	}
	return n
}

// MoveRight 向后移动一个单位（字符、图片、制表符），在字段末尾进入下一字段开头。
func (c *Caret) MoveRight(doc *model.Document) bool {
	fi, flat, ok := c.Flat(doc)
	if !ok {
		return false
	}
	if flat < lineEnd(doc.Field(fi)) {
		return c.Place(doc, fi, flat+1)
	}
	if fi+1 < doc.NumFields() {
		return c.Place(doc, fi+1, 0)
	}
	return false
}

// MoveLeft 向前移动一个单位，在字段开头进入上一字段末尾。
func (c *Caret) MoveLeft(doc *model.Document) bool {
	fi, flat, ok := c.Flat(doc)
	if !ok {
		return false
	}
	if flat > 0 {
		return c.Place(doc, fi, flat-1)
	}
	if fi > 0 {
		return c.Place(doc, fi-1, lineEnd(doc.Field(fi-1)))
	}
	return false
}

// MoveHome 移到字段开头。
func (c *Caret) MoveHome(doc *model.Document) bool {
	fi, _, ok := c.Flat(doc)
	if !ok {
		return false
	}
	return c.Place(doc, fi, 0)
}

// MoveEnd 移到字段末尾（换行符之前）。
func (c *Caret) MoveEnd(doc *model.Document) bool {
	fi, _, ok := c.Flat(doc)
	if !ok {
		return false
	}
	return c.Place(doc, fi, lineEnd(doc.Field(fi)))
}

// MoveUp 移到上一字段中与当前像素横坐标最匹配的位置；没有上一字段时移到字段开头。
func (c *Caret) MoveUp(doc *model.Document, loc Locator) bool {
	return c.moveVertical(doc, loc, -1)
}

// MoveDown 移到下一字段中与当前像素横坐标最匹配的位置；没有下一字段时移到字段末尾。
func (c *Caret) MoveDown(doc *model.Document, loc Locator) bool {
	return c.moveVertical(doc, loc, 1)
}

func (c *Caret) moveVertical(doc *model.Document, loc Locator, dir int) bool {
	fi, flat, ok := c.Flat(doc)
	if !ok {
		return false
	}
	target := fi + dir
	if target < 0 {
		return c.Place(doc, fi, 0)
	}
	if target >= doc.NumFields() {
		return c.Place(doc, fi, lineEnd(doc.Field(fi)))
	}
	f := doc.Field(target)
	if loc == nil {
		return c.Place(doc, target, min(flat, lineEnd(f)))
	}

	// 左边缘不超过光标横坐标的文本段中取左边缘最大的一个
	best, bestLeft := -1, math.Inf(-1)
	first := -1
	var bestBox *layout.Box
	for bi, b := range f.Blocks {
		if !model.IsText(b) {
			continue
		}
		box, ok := loc.Box(f.ID, b.ID())
		if !ok {
			continue
		}
		if first < 0 {
			first = bi
		}
		left, ok := loc.ToRoot(f.ID, box.Origin)
		if !ok {
			continue
		}
		if left.X <= c.Pos.X && left.X >= bestLeft {
			best, bestLeft, bestBox = bi, left.X, box
		}
	}
	if best < 0 {
		if first < 0 {
			// 目标字段尚未排版
			return c.Place(doc, target, min(flat, lineEnd(f)))
		}
		return c.PlaceAt(doc, f.ID, f.Blocks[first].ID(), 0)
	}
	off := 0
	if bestBox.Layout != nil {
		off = bestBox.Layout.OffsetAt(c.Pos.X - bestLeft)
	}
	blockFlat := model.FlatOffset(f.Blocks, model.Pos{Block: best, Offset: off})
	return c.Place(doc, target, min(blockFlat, lineEnd(f)))
}

// Recompute 由排版结果重新计算像素位置。引用失效或缺少排版结果时放弃，
// 保留上一次的像素状态，返回 false。
func (c *Caret) Recompute(doc *model.Document, loc Locator) bool {
	if loc == nil {
		return false
	}
	if _, _, ok := c.Resolve(doc); !ok {
		return false
	}
	r, ok := RectAt(loc, c.Field, c.Block, c.Offset)
	if !ok {
		return false
	}
	c.Pos = model.Point{X: r.X, Y: r.Y}
	c.LineHeight = r.H
	return true
}

// Rect returns the cached caret rectangle (zero width).
func (c *Caret) Rect() model.Rect {
	return model.Rect{X: c.Pos.X, Y: c.Pos.Y, H: c.LineHeight}
}

// RectAt 返回任意位置的光标矩形（文档根坐标）。
func RectAt(loc Locator, fid model.FieldID, bid model.BlockID, offset int) (model.Rect, bool) {
	box, ok := loc.Box(fid, bid)
	if !ok {
		return model.Rect{}, false
	}
	r := box.CursorRect(offset)
	p, ok := loc.ToRoot(fid, model.Point{X: r.X, Y: r.Y})
	if !ok {
		return model.Rect{}, false
	}
	return model.Rect{X: p.X, Y: p.Y, H: r.H}, true
}
