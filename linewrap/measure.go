package linewrap

import (
	"fmt"
	"math"
	"sort"

	"github.com/ByLCY/folio/model"
)

// DefaultTabWidth 是未配置时的制表位间距（像素）。
const DefaultTabWidth = 32

// Options 控制一次测量。
type Options struct {
	MaxWidth float64     // 行宽预算（像素），<= 0 表示不限宽
	Style    model.Style // 文档基础样式
	TabWidth float64     // 制表位间距（像素），<= 0 时取 DefaultTabWidth
}

func (o Options) tabWidth() float64 {
	if o.TabWidth <= 0 {
		return DefaultTabWidth
	}
	return o.TabWidth
}

// Report 是一个字段的测量结果。
type Report struct {
	TotalWidth   float64    `json:"totalWidth"`
	Overflowed   bool       `json:"overflowed"`
	OverflowPos  *model.Pos `json:"overflowPos,omitempty"`
	HardBreakPos *model.Pos `json:"hardBreakPos,omitempty"`
	BlockWidths  []float64  `json:"blockWidths"`
	BlockX       []float64  `json:"blockX"`
}

// Cut 返回应当切分的位置：发生溢出时为 OverflowPos。
func (r Report) Cut() (model.Pos, bool) {
	if !r.Overflowed || r.OverflowPos == nil {
		return model.Pos{}, false
	}
	return *r.OverflowPos, true
}

// TabAdvance 返回从横坐标 x 处的制表符到下一个制表位的距离。
func TabAdvance(x, tabWidth float64) float64 {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	return tabWidth - math.Mod(x, tabWidth)
}

// MeasureField 按单行、不自动换行的方式从左到右测量块列表。
//
// 累计宽度第一次达到或超过 MaxWidth 时判定溢出，切分点是该块内最后一个完整
// 放得下的字符之后。换行符之后还有内容时构成硬换行，硬换行与宽度溢出取更早的
// 一个。字段开头就放不下的单元仍留在本行，保证每次切分都有进展；其后只剩
// 换行符时整行不算溢出。
// 空输入返回零值报告。
func MeasureField(blocks []model.Block, opts Options, sh Shaper) Report {
	rep := Report{
		BlockWidths: make([]float64, len(blocks)),
		BlockX:      make([]float64, len(blocks)),
	}
	if len(blocks) == 0 {
		return rep
	}

	total := model.FlatLen(blocks)
	flat := 0
	x := 0.0
	var cut *model.Pos
	for i, b := range blocks {
		rep.BlockX[i] = x
		var w float64
		var layout TextLayout
		switch blk := b.(type) {
		case *model.TextRun:
			layout = sh.Shape(blk.Text, opts.Style, opts.MaxWidth)
			w = layout.Width()
		case *model.Image:
			w = blk.Width
		case *model.Delimiter:
			switch blk.Delim {
			case model.NewLine:
				w = 0
			case model.Tab:
				w = TabAdvance(x, opts.tabWidth())
			default:
				panic(fmt.Sprintf("linewrap: unknown delimiter %v", blk.Delim))
			}
		default:
			panic(fmt.Sprintf("linewrap: unknown block type %T", b))
		}
		rep.BlockWidths[i] = w

		if cut == nil && opts.MaxWidth > 0 && b.Len() > 0 && x+w >= opts.MaxWidth {
			pos := model.Pos{Block: i}
			if layout != nil {
				pos.Offset = fitCount(layout, b.Len(), opts.MaxWidth-x)
			}
			if flat+pos.Offset == 0 {
				// 字段开头的单元放不下也必须留下一个
				pos.Offset = 1
			}
			if pos.Offset == b.Len() {
				pos = model.Pos{Block: i + 1}
			}
			cut = &pos
		}
		if rep.HardBreakPos == nil && model.IsNewLine(b) && model.FlatLen(blocks[i+1:]) > 0 {
			rep.HardBreakPos = &model.Pos{Block: i + 1}
		}

		x += w
		flat += b.Len()
	}
	rep.TotalWidth = x

	switch {
	case rep.HardBreakPos != nil && (cut == nil || !posLess(*cut, *rep.HardBreakPos)):
		pos := *rep.HardBreakPos
		rep.OverflowPos = &pos
		rep.Overflowed = true
	case cut != nil && model.FlatOffset(blocks, *cut) < total && !onlyNewLinesAfter(blocks, *cut):
		rep.OverflowPos = cut
		rep.Overflowed = true
	}
	return rep
}

// onlyNewLinesAfter 报告切分点之后是否只剩零宽的换行符（以及空文本段）。
// 这时切分点已经是行尾，不算溢出。
func onlyNewLinesAfter(blocks []model.Block, cut model.Pos) bool {
	for i := cut.Block; i < len(blocks); i++ {
		switch b := blocks[i].(type) {
		case *model.TextRun:
			from := 0
			if i == cut.Block {
				from = cut.Offset
			}
			if b.Len() > from {
				return false
			}
		case *model.Image:
			return false
		case *model.Delimiter:
			if b.Delim != model.NewLine {
				return false
			}
		default:
			panic(fmt.Sprintf("linewrap: unknown block type %T", b))
		}
	}
	return true
}

// fitCount 二分查找满足 x(k) < remaining 的最大 k，即完整放得下的字符数。
func fitCount(layout TextLayout, n int, remaining float64) int {
	// sort.Search 找第一个放不下的边界 k（x(k) >= remaining），k >= 1 因为 x(0) = 0
	k := sort.Search(n+1, func(k int) bool {
		return layout.CursorRect(k).X >= remaining
	})
	if k == 0 {
		return 0
	}
	return k - 1
}

func posLess(a, b model.Pos) bool {
	if a.Block != b.Block {
		return a.Block < b.Block
	}
	return a.Offset < b.Offset
}
