package linewrap

import (
	"fmt"

	"github.com/ByLCY/folio/model"
)

// Tracker 是重排过程中需要随内容迁移的位置（通常是光标），
// 用字段下标与字段内扁平偏移表示。
type Tracker struct {
	Field  int
	Flat   int
	Active bool
}

// Stats 汇总一次重排的结构变化。
type Stats struct {
	Splits  int
	Merges  int
	Created int
	Removed int
}

func (s Stats) String() string {
	return fmt.Sprintf("splits=%d merges=%d created=%d removed=%d", s.Splits, s.Merges, s.Created, s.Removed)
}

// Add returns the sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Splits:  s.Splits + o.Splits,
		Merges:  s.Merges + o.Merges,
		Created: s.Created + o.Created,
		Removed: s.Removed + o.Removed,
	}
}

// PullDown 从第 fi 个字段开始下推溢出内容。
//
// 溢出字段在测量得到的切分点处分成放得下的前缀与溢出后缀：前缀留在原字段，
// 后缀以换行符结尾或原字段是最后一个字段时成为新字段，否则前置到下一个字段；
// 接收方再被测量，溢出则继续下推，直到某个字段放得下为止。
// 位于切分点或其后的位置迁移到接收字段。
func PullDown(doc *model.Document, fi int, opts Options, sh Shaper, tr *Tracker) Stats {
	var st Stats
	ids := doc.IDs()
	for fi < doc.NumFields() {
		blocks := doc.Blocks(fi)
		pos, ok := MeasureField(blocks, opts, sh).Cut()
		if !ok {
			break
		}
		cutFlat := model.FlatOffset(blocks, pos)
		left, right, ok := model.SplitField(blocks, pos, ids)
		if !ok {
			panic(fmt.Sprintf("linewrap: measured cut %+v is not a legal split of %s", pos, model.Describe(blocks)))
		}
		if model.FlatLen(right) == 0 {
			break
		}
		doc.SetBlocks(fi, left)
		st.Splits++

		newField := model.EndsWithNewLine(right) || fi == doc.NumFields()-1
		if newField {
			doc.InsertField(fi+1, right)
			st.Created++
		} else {
			doc.SetBlocks(fi+1, model.Normalize(model.Concat(right, doc.Blocks(fi+1)), ids))
		}

		if tr != nil && tr.Active {
			switch {
			case tr.Field == fi && tr.Flat >= cutFlat:
				tr.Field, tr.Flat = fi+1, tr.Flat-cutFlat
			case tr.Field > fi && newField:
				tr.Field++
			case tr.Field == fi+1:
				tr.Flat += model.FlatLen(right)
			}
		}
		fi++
	}
	return st
}

// PullUp 从第 fi 个字段开始尝试把下方字段的内容上拉。
//
// 当前字段与下一字段拼接后放得下时直接合并并删除下一字段，然后继续拉取新的
// 下一字段；放不下时在切分点处重新分配两者的内容并前进一个字段。切分后的前缀
// 与原内容相同（没有进展）或到达最后一个字段时停止。
func PullUp(doc *model.Document, fi int, opts Options, sh Shaper, tr *Tracker) Stats {
	var st Stats
	ids := doc.IDs()
	for fi >= 0 && fi < doc.NumFields()-1 {
		cur := doc.Blocks(fi)
		if model.EndsWithNewLine(cur) {
			break
		}
		curLen := model.FlatLen(cur)
		merged := model.Normalize(model.Concat(cur, doc.Blocks(fi+1)), ids)
		pos, overflow := MeasureField(merged, opts, sh).Cut()
		if !overflow {
			doc.SetBlocks(fi, merged)
			doc.RemoveField(fi + 1)
			st.Merges++
			st.Removed++
			if tr != nil && tr.Active {
				switch {
				case tr.Field == fi+1:
					tr.Field, tr.Flat = fi, tr.Flat+curLen
				case tr.Field > fi+1:
					tr.Field--
				}
			}
			continue
		}

		cutFlat := model.FlatOffset(merged, pos)
		if cutFlat <= curLen {
			break
		}
		left, right, ok := model.SplitField(merged, pos, ids)
		if !ok {
			panic(fmt.Sprintf("linewrap: measured cut %+v is not a legal split of %s", pos, model.Describe(merged)))
		}
		doc.SetBlocks(fi, left)
		doc.SetBlocks(fi+1, right)
		st.Splits++
		if tr != nil && tr.Active && tr.Field == fi+1 {
			if flat := tr.Flat + curLen; flat < cutFlat {
				tr.Field, tr.Flat = fi, flat
			} else {
				tr.Flat = flat - cutFlat
			}
		}
		fi++
	}
	return st
}
