package model

import "fmt"

// Field 是一行候选内容：有序的块列表。
type Field struct {
	ID     FieldID
	Blocks []Block
}

// Len 返回字段的扁平长度。
func (f *Field) Len() int { return FlatLen(f.Blocks) }

// EndsWithNewLine reports whether the field is terminated by a NewLine.
func (f *Field) EndsWithNewLine() bool { return EndsWithNewLine(f.Blocks) }

type blockLoc struct {
	field int
	block int
}

// Document 独占其字段，字段独占其块。id 到下标的映射在结构变化后惰性重建，
// 查询是 O(1) 的；过期 id 查询返回 ok=false。
type Document struct {
	ids    IDs
	fields []*Field

	dirty    bool
	fieldIdx map[FieldID]int
	blockIdx map[BlockID]blockLoc
}

// NewDocument 返回只含一个规范空行的文档。
func NewDocument() *Document {
	d := &Document{}
	d.fields = []*Field{{ID: d.ids.NextField(), Blocks: Normalize(nil, &d.ids)}}
	d.dirty = true
	return d
}

// IDs 返回文档的 id 分配器。
func (d *Document) IDs() *IDs { return &d.ids }

// NumFields 返回字段数。
func (d *Document) NumFields() int { return len(d.fields) }

// Field 返回第 i 个字段。
func (d *Document) Field(i int) *Field { return d.fields[i] }

// Fields 返回字段列表。调用方不得修改返回的切片。
func (d *Document) Fields() []*Field { return d.fields }

// Blocks returns the blocks of field i.
func (d *Document) Blocks(i int) []Block { return d.fields[i].Blocks }

// SetBlocks 替换第 i 个字段的内容。
func (d *Document) SetBlocks(i int, blocks []Block) {
	d.fields[i].Blocks = blocks
	d.dirty = true
}

// InsertField 在下标 i 处插入新字段并返回它。
func (d *Document) InsertField(i int, blocks []Block) *Field {
	if i < 0 || i > len(d.fields) {
		panic(fmt.Sprintf("model: insert field at %d out of range [0,%d]", i, len(d.fields)))
	}
	f := &Field{ID: d.ids.NextField(), Blocks: blocks}
	d.fields = append(d.fields, nil)
	copy(d.fields[i+1:], d.fields[i:])
	d.fields[i] = f
	d.dirty = true
	return f
}

// RemoveField 删除第 i 个字段。文档至少保留一个字段。
func (d *Document) RemoveField(i int) {
	if len(d.fields) == 1 {
		panic("model: cannot remove the last field")
	}
	d.fields = append(d.fields[:i], d.fields[i+1:]...)
	d.dirty = true
}

// Reset 用给定内容替换全部字段，每个字段都会被规范化。没有内容时回到单个空行。
func (d *Document) Reset(fields ...[]Block) {
	if len(fields) == 0 {
		fields = [][]Block{nil}
	}
	d.fields = d.fields[:0]
	for _, blocks := range fields {
		d.fields = append(d.fields, &Field{ID: d.ids.NextField(), Blocks: Normalize(blocks, &d.ids)})
	}
	d.dirty = true
}

// FieldIndex 返回字段 id 对应的下标。
func (d *Document) FieldIndex(id FieldID) (int, bool) {
	d.reindex()
	i, ok := d.fieldIdx[id]
	return i, ok
}

// Locate 返回块 id 所在的字段下标与块下标。
func (d *Document) Locate(id BlockID) (field, block int, ok bool) {
	d.reindex()
	loc, ok := d.blockIdx[id]
	return loc.field, loc.block, ok
}

// Resolve 解析 (字段 id, 块 id)，块必须位于该字段内。
func (d *Document) Resolve(fid FieldID, bid BlockID) (field, block int, ok bool) {
	fi, ok := d.FieldIndex(fid)
	if !ok {
		return 0, 0, false
	}
	loc, ok := d.blockIdx[bid]
	if !ok || loc.field != fi {
		return 0, 0, false
	}
	return fi, loc.block, true
}

func (d *Document) reindex() {
	if !d.dirty && d.fieldIdx != nil {
		return
	}
	d.fieldIdx = make(map[FieldID]int, len(d.fields))
	d.blockIdx = make(map[BlockID]blockLoc, len(d.fields)*2)
	for i, f := range d.fields {
		d.fieldIdx[f.ID] = i
		for j, b := range f.Blocks {
			d.blockIdx[b.ID()] = blockLoc{field: i, block: j}
		}
	}
	d.dirty = false
}

// Text 分配新 id 构造无样式文本段。
func (d *Document) Text(s string) *TextRun { return NewTextRun(d.ids.NextBlock(), Plain(s)) }

// StyledRun 分配新 id 构造带样式文本段。
func (d *Document) StyledRun(t StyledText) *TextRun { return NewTextRun(d.ids.NextBlock(), t) }

// Image 分配新 id 构造图片块。
func (d *Document) Image(ref string, w, h float64) *Image {
	return NewImage(d.ids.NextBlock(), ref, w, h)
}

// NewLine 分配新 id 构造换行符。
func (d *Document) NewLine() *Delimiter { return NewDelimiter(d.ids.NextBlock(), NewLine) }

// Tab 分配新 id 构造制表符。
func (d *Document) Tab() *Delimiter { return NewDelimiter(d.ids.NextBlock(), Tab) }
