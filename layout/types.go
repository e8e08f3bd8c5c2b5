package layout

import (
	"fmt"

	"github.com/ByLCY/folio/model"
)

// 该文件定义结构报告，供诊断输出与调试 JSON 共用。

// Report 是文档当前结构的诊断快照。
type Report struct {
	Width     float64         `json:"width"`
	Height    float64         `json:"height"`
	Fields    []FieldReport   `json:"fields"`
	Caret     *CaretReport    `json:"caret,omitempty"`
	Selection []SegmentReport `json:"selection,omitempty"`
	Version   uint64          `json:"version"`
}

// FieldReport 记录单个字段的块数、是否以换行结尾与溢出状态。
type FieldReport struct {
	ID              model.FieldID `json:"id"`
	Index           int           `json:"index"`
	BlockCount      int           `json:"blockCount"`
	Len             int           `json:"len"`
	TrailingNewLine bool          `json:"trailingNewLine"`
	Overflowed      bool          `json:"overflowed"`
	Width           float64       `json:"width"`
	Height          float64       `json:"height"`
	Y               float64       `json:"y"`
	Text            string        `json:"text"`
	Blocks          []BlockReport `json:"blocks,omitempty"`
}

// BlockReport 记录单个块的种类与位置。
type BlockReport struct {
	ID    model.BlockID `json:"id"`
	Kind  string        `json:"kind"`
	Len   int           `json:"len"`
	X     float64       `json:"x"`
	Width float64       `json:"width"`
	Text  string        `json:"text,omitempty"`
	Ref   string        `json:"ref,omitempty"`
	Delim string        `json:"delim,omitempty"`
}

// CaretReport 记录光标的逻辑位置与像素位置。
type CaretReport struct {
	Field      model.FieldID `json:"field"`
	Block      model.BlockID `json:"block"`
	Offset     int           `json:"offset"`
	X          float64       `json:"x"`
	Y          float64       `json:"y"`
	LineHeight float64       `json:"lineHeight"`
	Visible    bool          `json:"visible"`
}

// SegmentReport 是一个选区高亮矩形。
type SegmentReport struct {
	Field model.FieldID `json:"field"`
	Rect  model.Rect    `json:"rect"`
}

// BuildReport 由文档与排版结果生成结构报告。frame 为空时只包含逻辑信息。
func BuildReport(doc *model.Document, frame *Frame, debug DebugOptions) *Report {
	rep := &Report{Fields: make([]FieldReport, doc.NumFields())}
	if frame != nil {
		rep.Width, rep.Height = frame.Width, frame.Height
	}
	for i, f := range doc.Fields() {
		fr := FieldReport{
			ID:              f.ID,
			Index:           i,
			BlockCount:      len(f.Blocks),
			Len:             f.Len(),
			TrailingNewLine: f.EndsWithNewLine(),
			Text:            model.PlainText(f.Blocks),
		}
		fb, laidOut := frame.Field(f.ID)
		if laidOut {
			fr.Overflowed = fb.Report.Overflowed
			fr.Width, fr.Height, fr.Y = fb.Width, fb.Height, fb.Origin.Y
		}
		if debug.Blocks {
			fr.Blocks = make([]BlockReport, len(f.Blocks))
			for bi, b := range f.Blocks {
				br := BlockReport{ID: b.ID(), Kind: b.Kind().String(), Len: b.Len()}
				switch x := b.(type) {
				case *model.TextRun:
					br.Text = x.Text.String()
				case *model.Image:
					br.Ref = x.Ref
				case *model.Delimiter:
					br.Delim = x.Delim.String()
				default:
					panic(fmt.Sprintf("layout: unknown block type %T", b))
				}
				if laidOut && bi < len(fb.Boxes) {
					br.X, br.Width = fb.Boxes[bi].Origin.X, fb.Boxes[bi].Width
				}
				fr.Blocks[bi] = br
			}
		}
		rep.Fields[i] = fr
	}
	return rep
}
