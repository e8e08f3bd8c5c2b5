package model

// Pos 是块列表中的切分点：块下标与块内字符偏移。
// Block == len(blocks) 且 Offset == 0 表示列表末尾。
type Pos struct {
	Block  int `json:"block"`
	Offset int `json:"offset"`
}

// SplitAt 在 pos 处把块列表切成两半，返回新切片。
//
// 落在块边界时直接划分；落在文本段内部时把文本段切成两个带样式的子段，
// 左半沿用原 id，右半分配新 id。pos 越界或落在非文本块内部时 ok 为 false，
// 调用方应放弃本次操作。
func SplitAt(blocks []Block, pos Pos, ids BlockAllocator) (left, right []Block, ok bool) {
	if pos.Block < 0 || pos.Block > len(blocks) || pos.Offset < 0 {
		return nil, nil, false
	}
	if pos.Block == len(blocks) {
		if pos.Offset != 0 {
			return nil, nil, false
		}
		return cloneBlocks(blocks), nil, true
	}
	b := blocks[pos.Block]
	switch {
	case pos.Offset == 0:
		return cloneBlocks(blocks[:pos.Block]), cloneBlocks(blocks[pos.Block:]), true
	case pos.Offset == b.Len():
		return cloneBlocks(blocks[:pos.Block+1]), cloneBlocks(blocks[pos.Block+1:]), true
	case pos.Offset > b.Len():
		return nil, nil, false
	}
	r, isText := b.(*TextRun)
	if !isText {
		return nil, nil, false
	}
	head := r.WithText(r.Text.Slice(0, pos.Offset))
	tail := NewTextRun(ids.NextBlock(), r.Text.Slice(pos.Offset, r.Len()))
	left = make([]Block, 0, pos.Block+1)
	left = append(append(left, blocks[:pos.Block]...), head)
	right = make([]Block, 0, len(blocks)-pos.Block)
	right = append(append(right, tail), blocks[pos.Block+1:]...)
	return left, right, true
}

// SplitField 切分后分别规范化两半。
func SplitField(blocks []Block, pos Pos, ids BlockAllocator) (left, right []Block, ok bool) {
	left, right, ok = SplitAt(blocks, pos, ids)
	if !ok {
		return nil, nil, false
	}
	return Normalize(left, ids), Normalize(right, ids), true
}

// Concat 返回 a 与 b 首尾相接的新列表（不规范化）。
func Concat(a, b []Block) []Block {
	out := make([]Block, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}

// FlatLen 返回块列表的逻辑长度之和。
func FlatLen(blocks []Block) int {
	n := 0
	for _, b := range blocks {
		n += b.Len()
	}
	return n
}

// FlatOffset 把切分点换算成字段内的扁平偏移。
func FlatOffset(blocks []Block, pos Pos) int {
	n := 0
	for i := 0; i < pos.Block && i < len(blocks); i++ {
		n += blocks[i].Len()
	}
	return n + pos.Offset
}

// CutAt 把扁平偏移换算成用于切分的位置：偏移所在的第一个块，
// 恰好落在块尾时归到下一块的开头，因此空文本段总是留在左侧。
func CutAt(blocks []Block, flat int) Pos {
	start := 0
	for i, b := range blocks {
		if flat < start+b.Len() {
			return Pos{Block: i, Offset: flat - start}
		}
		start += b.Len()
	}
	return Pos{Block: len(blocks)}
}

// ResolveFlat 把扁平偏移换算成光标位置。偏移落在块边界时优先落在文本段，
// 多个文本段都可以容纳时取前一个；没有文本段时取第一个包含该偏移的块。
func ResolveFlat(blocks []Block, flat int) (Pos, bool) {
	if flat < 0 {
		return Pos{}, false
	}
	first := -1
	start := 0
	for i, b := range blocks {
		end := start + b.Len()
		if flat >= start && flat <= end {
			if IsText(b) {
				return Pos{Block: i, Offset: flat - start}, true
			}
			if first < 0 {
				first = i
			}
		}
		if start > flat {
			break
		}
		start = end
	}
	if first < 0 {
		return Pos{}, false
	}
	return Pos{Block: first, Offset: flat - FlatOffset(blocks, Pos{Block: first})}, true
}

// IndexOf 返回 id 在块列表中的下标。
func IndexOf(blocks []Block, id BlockID) int {
	for i, b := range blocks {
		if b.ID() == id {
			return i
		}
	}
	return -1
}

func cloneBlocks(blocks []Block) []Block {
	if len(blocks) == 0 {
		return nil
	}
	return append([]Block(nil), blocks...)
}
