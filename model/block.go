package model

import "fmt"

// Kind 标识块的种类。
type Kind int

const (
	KindText Kind = iota
	KindImage
	KindDelimiter
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindDelimiter:
		return "delimiter"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Block 是字段中的原子内容单元，只有 *TextRun、*Image、*Delimiter 三种实现。
//
// 块按值语义使用：变更操作构造新块（必要时沿用原 id），不原地修改
// 已经放进字段的块。
type Block interface {
	ID() BlockID
	// Len 返回逻辑长度：文本段为字符数，图片与分隔符为 1。
	Len() int
	Kind() Kind
	block()
}

// TextRange 是文本段内的光标或选区范围（字符偏移，Start <= End）。
type TextRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// TextRun 是一段带样式的连续文本。
//
// Cursor 是编辑器维护的本段内光标或选区范围，nil 表示光标与选区都不在本段。
// 它是唯一允许原地修改的字段，内容变化一律构造新块。
type TextRun struct {
	id     BlockID
	Text   StyledText
	Cursor *TextRange
}

// NewTextRun 构造文本段。
func NewTextRun(id BlockID, text StyledText) *TextRun {
	return &TextRun{id: id, Text: text}
}

func (r *TextRun) ID() BlockID { return r.id }
func (r *TextRun) Len() int    { return r.Text.Len() }
func (r *TextRun) Kind() Kind  { return KindText }
func (*TextRun) block()        {}

// WithText 返回沿用 r 的 id、内容替换为 text 的新文本段，光标范围被夹取到新长度内。
func (r *TextRun) WithText(text StyledText) *TextRun {
	out := &TextRun{id: r.id, Text: text}
	if r.Cursor != nil {
		n := text.Len()
		out.Cursor = &TextRange{Start: clamp(r.Cursor.Start, 0, n), End: clamp(r.Cursor.End, 0, n)}
	}
	return out
}

// Image 引用图片仓库中的一张图片，固有尺寸以像素计。
type Image struct {
	id     BlockID
	Ref    string
	Width  float64
	Height float64
}

// NewImage 构造图片块。
func NewImage(id BlockID, ref string, width, height float64) *Image {
	return &Image{id: id, Ref: ref, Width: width, Height: height}
}

func (m *Image) ID() BlockID { return m.id }
func (*Image) Len() int      { return 1 }
func (*Image) Kind() Kind    { return KindImage }
func (*Image) block()        {}

// Delim 是分隔符的种类。
type Delim int

const (
	NewLine Delim = iota
	Tab
)

func (d Delim) String() string {
	switch d {
	case NewLine:
		return "newline"
	case Tab:
		return "tab"
	default:
		return fmt.Sprintf("Delim(%d)", int(d))
	}
}

// Delimiter 是不携带文本的结构标记。
type Delimiter struct {
	id    BlockID
	Delim Delim
}

// NewDelimiter 构造分隔符块。
func NewDelimiter(id BlockID, d Delim) *Delimiter {
	return &Delimiter{id: id, Delim: d}
}

func (d *Delimiter) ID() BlockID { return d.id }
func (*Delimiter) Len() int      { return 1 }
func (*Delimiter) Kind() Kind    { return KindDelimiter }
func (*Delimiter) block()        {}

// IsNewLine reports whether b is a NewLine delimiter.
func IsNewLine(b Block) bool {
	d, ok := b.(*Delimiter)
	return ok && d.Delim == NewLine
}

// IsText reports whether b is a TextRun.
func IsText(b Block) bool {
	_, ok := b.(*TextRun)
	return ok
}

// EndsWithNewLine reports whether the last block is a NewLine delimiter.
func EndsWithNewLine(blocks []Block) bool {
	return len(blocks) > 0 && IsNewLine(blocks[len(blocks)-1])
}

// MergeText 拼接两个文本段，结果沿用 a 的 id 与光标范围。
func MergeText(a, b *TextRun) *TextRun {
	return a.WithText(a.Text.Concat(b.Text))
}

// EqualContent 比较两个块列表的内容与种类，忽略 id 与光标范围。
func EqualContent(a, b []Block) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalBlock(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalBlock(a, b Block) bool {
	switch x := a.(type) {
	case *TextRun:
		y, ok := b.(*TextRun)
		return ok && x.Text.Equal(y.Text)
	case *Image:
		y, ok := b.(*Image)
		return ok && x.Ref == y.Ref && x.Width == y.Width && x.Height == y.Height
	case *Delimiter:
		y, ok := b.(*Delimiter)
		return ok && x.Delim == y.Delim
	default:
		panic(fmt.Sprintf("model: unknown block type %T", a))
	}
}
