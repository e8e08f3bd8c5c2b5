package model

import (
	"errors"
	"fmt"
)

// Normalize 返回恢复结构约束后的新块列表，输入不被修改。操作是幂等的。
//
// 依次执行：合并相邻文本段（保留左侧 id）；丢弃不跟随图片的空文本段；在未被
// 文本段跟随的图片后补一个空文本段；列表中没有文本段时在开头放一个空文本段
// （空列表即规范空行）。
func Normalize(blocks []Block, ids BlockAllocator) []Block {
	merged := make([]Block, 0, len(blocks)+1)
	for _, b := range blocks {
		if r, ok := b.(*TextRun); ok {
			if n := len(merged); n > 0 {
				if prev, ok := merged[n-1].(*TextRun); ok {
					merged[n-1] = MergeText(prev, r)
					continue
				}
			}
		}
		merged = append(merged, b)
	}

	out := make([]Block, 0, len(merged)+2)
	var spare *TextRun
	hasText := false
	for i, b := range merged {
		switch x := b.(type) {
		case *TextRun:
			// 不跟随图片的空文本段先摘下，必要时作为规范空段放回开头
			if x.Len() == 0 && (i == 0 || merged[i-1].Kind() != KindImage) {
				if spare == nil {
					spare = x
				}
				continue
			}
			out = append(out, b)
			hasText = true
		case *Image:
			out = append(out, b)
			if i+1 >= len(merged) || !IsText(merged[i+1]) {
				out = append(out, NewTextRun(ids.NextBlock(), StyledText{}))
				hasText = true
			}
		case *Delimiter:
			out = append(out, b)
		default:
			panic(fmt.Sprintf("model: unknown block type %T", b))
		}
	}
	if !hasText {
		if spare == nil {
			spare = NewTextRun(ids.NextBlock(), StyledText{})
		}
		out = append([]Block{spare}, out...)
	}
	return out
}

var (
	ErrEmptyField    = errors.New("field has no blocks")
	ErrAdjacentText  = errors.New("adjacent text runs")
	ErrImageNoFollow = errors.New("image not followed by a text run")
	ErrNoTextRun     = errors.New("field has no text run")
)

// Validate 检查块列表是否满足结构约束。
func Validate(blocks []Block) error {
	if len(blocks) == 0 {
		return ErrEmptyField
	}
	hasText := false
	for i, b := range blocks {
		switch b.(type) {
		case *TextRun:
			hasText = true
			if i > 0 && IsText(blocks[i-1]) {
				return fmt.Errorf("block %d (id %d): %w", i, b.ID(), ErrAdjacentText)
			}
		case *Image:
			if i+1 >= len(blocks) || !IsText(blocks[i+1]) {
				return fmt.Errorf("block %d (id %d): %w", i, b.ID(), ErrImageNoFollow)
			}
		case *Delimiter:
		default:
			panic(fmt.Sprintf("model: unknown block type %T", b))
		}
	}
	if !hasText {
		return ErrNoTextRun
	}
	return nil
}

// MustValidate 检查整个文档，任何违反结构约束或 id 重复的情况都直接 panic：
// 这类问题只可能来自核心自身的缺陷。
func MustValidate(d *Document) {
	if len(d.fields) == 0 {
		panic("model: document has no fields")
	}
	seenField := make(map[FieldID]bool, len(d.fields))
	seenBlock := make(map[BlockID]bool)
	for i, f := range d.fields {
		if err := Validate(f.Blocks); err != nil {
			panic(fmt.Sprintf("model: field %d (id %d) %s: %v", i, f.ID, Describe(f.Blocks), err))
		}
		if seenField[f.ID] {
			panic(fmt.Sprintf("model: duplicate field id %d", f.ID))
		}
		seenField[f.ID] = true
		for _, b := range f.Blocks {
			if seenBlock[b.ID()] {
				panic(fmt.Sprintf("model: duplicate block id %d in field %d", b.ID(), i))
			}
			seenBlock[b.ID()] = true
		}
	}
}
