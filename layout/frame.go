package layout

import (
	"fmt"
	"math"

	"github.com/ByLCY/folio/linewrap"
	"github.com/ByLCY/folio/model"
)

// Box 是一个块在字段内的排版结果，坐标相对字段左上角。
type Box struct {
	Block  model.BlockID `json:"block"`
	Index  int           `json:"index"`
	Kind   model.Kind    `json:"kind"`
	Len    int           `json:"len"`
	Origin model.Point   `json:"origin"`
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	// Layout 仅文本段有值
	Layout linewrap.TextLayout `json:"-"`
}

// Rect returns the box bounds in field-local coordinates.
func (b *Box) Rect() model.Rect {
	return model.Rect{X: b.Origin.X, Y: b.Origin.Y, W: b.Width, H: b.Height}
}

// CursorRect 返回块内偏移 offset 处的光标矩形（字段坐标）。
// 非文本块只有 0（之前）与 1（之后）两个位置。
func (b *Box) CursorRect(offset int) model.Rect {
	if b.Layout != nil {
		return b.Layout.CursorRect(offset).Translate(b.Origin)
	}
	x := b.Origin.X
	if offset > 0 {
		x += b.Width
	}
	return model.Rect{X: x, Y: b.Origin.Y, H: b.Height}
}

// FieldBox 是一个字段的排版结果，坐标相对文档根。
type FieldBox struct {
	ID     model.FieldID   `json:"id"`
	Index  int             `json:"index"`
	Origin model.Point     `json:"origin"`
	Width  float64         `json:"width"`
	Height float64         `json:"height"`
	Boxes  []Box           `json:"boxes"`
	Report linewrap.Report `json:"report"`

	blocks []model.Block
}

// Rect returns the field bounds in root coordinates.
func (f *FieldBox) Rect() model.Rect {
	return model.Rect{X: f.Origin.X, Y: f.Origin.Y, W: f.Width, H: f.Height}
}

// Frame 是一次排版的结果：字段自上而下堆叠，块在字段内从左到右排列。
// Frame 是只读快照，文档变化后需要重新 Compute。
type Frame struct {
	Origin model.Point `json:"origin"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Fields []FieldBox  `json:"fields"`

	fieldIdx map[model.FieldID]int
	boxIdx   map[model.BlockID]boxLoc
}

type boxLoc struct {
	field int
	box   int
}

// Compute 对整个文档做一次排版。
func Compute(doc *model.Document, opts BuildOptions) (*Frame, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if opts.Shaper == nil {
		return nil, fmt.Errorf("layout: 缺少测量后端 Shaper")
	}
	lineHeight := opts.Shaper.LineHeight(opts.Measure.Style)
	fr := &Frame{
		Origin:   opts.Origin,
		Width:    opts.Measure.MaxWidth,
		Fields:   make([]FieldBox, doc.NumFields()),
		fieldIdx: make(map[model.FieldID]int, doc.NumFields()),
		boxIdx:   make(map[model.BlockID]boxLoc),
	}
	y := 0.0
	for fi, f := range doc.Fields() {
		rep := linewrap.MeasureField(f.Blocks, opts.Measure, opts.Shaper)
		fb := FieldBox{
			ID:     f.ID,
			Index:  fi,
			Origin: model.Point{X: 0, Y: y},
			Width:  rep.TotalWidth,
			Height: lineHeight,
			Boxes:  make([]Box, len(f.Blocks)),
			Report: rep,
			blocks: f.Blocks,
		}
		for bi, b := range f.Blocks {
			box := Box{
				Block:  b.ID(),
				Index:  bi,
				Kind:   b.Kind(),
				Len:    b.Len(),
				Origin: model.Point{X: rep.BlockX[bi]},
				Width:  rep.BlockWidths[bi],
				Height: lineHeight,
			}
			switch blk := b.(type) {
			case *model.TextRun:
				box.Layout = opts.Shaper.Shape(blk.Text, opts.Measure.Style, 0)
				box.Height = math.Max(box.Layout.Height(), 1)
			case *model.Image:
				box.Height = blk.Height
			case *model.Delimiter:
			default:
				panic(fmt.Sprintf("layout: unknown block type %T", b))
			}
			fb.Height = math.Max(fb.Height, box.Height)
			fb.Boxes[bi] = box
			fr.boxIdx[b.ID()] = boxLoc{field: fi, box: bi}
		}
		// 各块底部对齐
		for bi := range fb.Boxes {
			fb.Boxes[bi].Origin.Y = fb.Height - fb.Boxes[bi].Height
		}
		fr.Fields[fi] = fb
		fr.fieldIdx[f.ID] = fi
		y += fb.Height
	}
	fr.Height = y
	return fr, nil
}

// Field 返回字段 id 对应的排版结果。
func (fr *Frame) Field(id model.FieldID) (*FieldBox, bool) {
	if fr == nil {
		return nil, false
	}
	i, ok := fr.fieldIdx[id]
	if !ok {
		return nil, false
	}
	return &fr.Fields[i], true
}

// Box 返回块的排版结果；块不在该字段中或没有排版结果时 ok 为 false。
func (fr *Frame) Box(fid model.FieldID, bid model.BlockID) (*Box, bool) {
	if fr == nil {
		return nil, false
	}
	loc, ok := fr.boxIdx[bid]
	if !ok || fr.Fields[loc.field].ID != fid {
		return nil, false
	}
	return &fr.Fields[loc.field].Boxes[loc.box], true
}

// ToRoot 把字段坐标变换为文档根坐标。
func (fr *Frame) ToRoot(fid model.FieldID, local model.Point) (model.Point, bool) {
	f, ok := fr.Field(fid)
	if !ok {
		return model.Point{}, false
	}
	return local.Add(f.Origin).Add(fr.Origin), true
}

// FieldRect 返回字段在文档根坐标中的边界。
func (fr *Frame) FieldRect(fid model.FieldID) (model.Rect, bool) {
	f, ok := fr.Field(fid)
	if !ok {
		return model.Rect{}, false
	}
	return f.Rect().Translate(fr.Origin), true
}

// HitTest 把文档根坐标映射到最接近的 (字段, 块, 偏移)。
// 纵向超出范围时取首个或最后一个字段；落点优先解析到文本段。
func (fr *Frame) HitTest(p model.Point) (model.FieldID, model.BlockID, int, bool) {
	if fr == nil || len(fr.Fields) == 0 {
		return 0, 0, 0, false
	}
	p = model.Point{X: p.X - fr.Origin.X, Y: p.Y - fr.Origin.Y}
	fi := len(fr.Fields) - 1
	for i := range fr.Fields {
		if p.Y < fr.Fields[i].Origin.Y+fr.Fields[i].Height {
			fi = i
			break
		}
	}
	f := &fr.Fields[fi]
	flat := 0
	for bi := range f.Boxes {
		b := &f.Boxes[bi]
		if model.IsNewLine(f.blocks[bi]) {
			break
		}
		if p.X >= b.Origin.X+b.Width && bi < len(f.Boxes)-1 {
			flat += b.Len
			continue
		}
		switch {
		case b.Layout != nil:
			flat += b.Layout.OffsetAt(p.X - b.Origin.X)
		case p.X >= b.Origin.X+b.Width/2:
			flat += b.Len
		}
		break
	}
	pos, ok := model.ResolveFlat(f.blocks, flat)
	if !ok {
		return 0, 0, 0, false
	}
	return f.ID, f.blocks[pos.Block].ID(), pos.Offset, true
}
