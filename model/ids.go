package model

// BlockID 是块的稳定标识，在块的生命周期内不变。0 不是合法 id。
type BlockID uint64

// FieldID 是字段的稳定标识。0 不是合法 id。
type FieldID uint64

// BlockAllocator 为新合成的块分配 id。
type BlockAllocator interface {
	NextBlock() BlockID
}

// IDs 是文档内的 id 分配器，块与字段共用同一个递增计数，保证全局唯一。
type IDs struct {
	next uint64
}

// NextBlock 分配一个新的块 id。
func (g *IDs) NextBlock() BlockID {
	g.next++
	return BlockID(g.next)
}

// NextField 分配一个新的字段 id。
func (g *IDs) NextField() FieldID {
	g.next++
	return FieldID(g.next)
}
