package model

import "testing"

func TestSplitAtInsideTextRun(t *testing.T) {
	d := NewDocument()
	r := d.Text("abcdef")
	left, right, ok := SplitAt([]Block{r}, Pos{Block: 0, Offset: 3}, d.IDs())
	if !ok {
		t.Fatalf("文本段内部切分应成功")
	}
	if Describe(left) != `[T"abc"]` || Describe(right) != `[T"def"]` {
		t.Fatalf("切分结果错误: %s | %s", Describe(left), Describe(right))
	}
	if left[0].ID() != r.ID() {
		t.Fatalf("左半应沿用原 id")
	}
	if right[0].ID() == r.ID() {
		t.Fatalf("右半应分配新 id")
	}
	if r.Text.String() != "abcdef" {
		t.Fatalf("切分不应修改原块")
	}
}

func TestSplitAtBoundariesAndRejects(t *testing.T) {
	d := NewDocument()
	blocks := []Block{d.Text("ab"), d.Image("x", 4, 4), d.Text("cd"), d.NewLine()}
	tests := []struct {
		name      string
		pos       Pos
		ok        bool
		wantLeft  string
		wantRight string
	}{
		{name: "start", pos: Pos{0, 0}, ok: true, wantLeft: `[]`, wantRight: `[T"ab" <img:x> T"cd" ⏎]`},
		{name: "before image", pos: Pos{1, 0}, ok: true, wantLeft: `[T"ab"]`, wantRight: `[<img:x> T"cd" ⏎]`},
		{name: "after image", pos: Pos{1, 1}, ok: true, wantLeft: `[T"ab" <img:x>]`, wantRight: `[T"cd" ⏎]`},
		{name: "end", pos: Pos{4, 0}, ok: true, wantLeft: `[T"ab" <img:x> T"cd" ⏎]`, wantRight: `[]`},
		{name: "image past end", pos: Pos{1, 2}, ok: false},
		{name: "beyond list", pos: Pos{5, 0}, ok: false},
		{name: "tail offset", pos: Pos{4, 1}, ok: false},
		{name: "negative", pos: Pos{0, -1}, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, r, ok := SplitAt(blocks, tt.pos, d.IDs())
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if Describe(l) != tt.wantLeft || Describe(r) != tt.wantRight {
				t.Fatalf("got %s | %s, want %s | %s", Describe(l), Describe(r), tt.wantLeft, tt.wantRight)
			}
		})
	}
}

// 任意合法切分点切开后再拼接规范化，内容应与原字段一致。
func TestSplitFieldRoundTrip(t *testing.T) {
	d := NewDocument()
	field := Normalize([]Block{
		d.StyledRun(NewStyledText("ab", Style{Bold: true}).Concat(Plain("c"))),
		d.Tab(),
		d.Image("x", 3, 3),
		d.Text("de"),
		d.NewLine(),
	}, d.IDs())
	for bi := 0; bi <= len(field); bi++ {
		maxOff := 0
		if bi < len(field) {
			maxOff = field[bi].Len()
		}
		for off := 0; off <= maxOff; off++ {
			pos := Pos{Block: bi, Offset: off}
			l, r, ok := SplitField(field, pos, d.IDs())
			if !ok {
				t.Fatalf("%+v: 合法切分点被拒绝", pos)
			}
			if err := Validate(l); err != nil {
				t.Fatalf("%+v: 左半不满足约束: %v", pos, err)
			}
			if err := Validate(r); err != nil {
				t.Fatalf("%+v: 右半不满足约束: %v", pos, err)
			}
			back := Normalize(Concat(l, r), d.IDs())
			if !EqualContent(back, field) {
				t.Fatalf("%+v: 往返不一致 %s vs %s", pos, Describe(back), Describe(field))
			}
		}
	}
}

func TestFlatOffsets(t *testing.T) {
	d := NewDocument()
	blocks := []Block{d.Text("abc"), d.Image("x", 1, 1), d.Text("def"), d.NewLine()}
	if n := FlatLen(blocks); n != 8 {
		t.Fatalf("FlatLen = %d, want 8", n)
	}
	if n := FlatOffset(blocks, Pos{Block: 2, Offset: 1}); n != 5 {
		t.Fatalf("FlatOffset = %d, want 5", n)
	}

	resolve := []struct {
		flat int
		want Pos
	}{
		{0, Pos{0, 0}},
		{3, Pos{0, 3}}, // 边界处取前一个文本段
		{4, Pos{2, 0}},
		{7, Pos{2, 3}},
		{8, Pos{3, 1}},
	}
	for _, tt := range resolve {
		got, ok := ResolveFlat(blocks, tt.flat)
		if !ok || got != tt.want {
			t.Fatalf("ResolveFlat(%d) = %+v,%v want %+v", tt.flat, got, ok, tt.want)
		}
	}
	if _, ok := ResolveFlat(blocks, 9); ok {
		t.Fatalf("越界偏移应返回 ok=false")
	}

	cut := []struct {
		flat int
		want Pos
	}{
		{0, Pos{0, 0}},
		{3, Pos{1, 0}},
		{5, Pos{2, 1}},
		{8, Pos{4, 0}},
	}
	for _, tt := range cut {
		if got := CutAt(blocks, tt.flat); got != tt.want {
			t.Fatalf("CutAt(%d) = %+v want %+v", tt.flat, got, tt.want)
		}
	}
}

func TestDocumentLookupAfterEdits(t *testing.T) {
	d := NewDocument()
	a, b := d.Text("a"), d.Text("b")
	d.Reset([]Block{a, d.NewLine()}, []Block{b})
	f1 := d.Field(1).ID

	if fi, bi, ok := d.Locate(b.ID()); !ok || fi != 1 || bi != 0 {
		t.Fatalf("Locate(b) = %d,%d,%v", fi, bi, ok)
	}
	d.InsertField(0, Normalize(nil, d.IDs()))
	if fi, ok := d.FieldIndex(f1); !ok || fi != 2 {
		t.Fatalf("插入字段后下标应更新, got %d,%v", fi, ok)
	}
	if _, _, ok := d.Resolve(f1, a.ID()); ok {
		t.Fatalf("块不在该字段内时 Resolve 应失败")
	}
	d.RemoveField(2)
	if _, ok := d.FieldIndex(f1); ok {
		t.Fatalf("删除后的字段 id 应失效")
	}
	if _, _, ok := d.Locate(b.ID()); ok {
		t.Fatalf("删除后的块 id 应失效")
	}
}

func TestPlainText(t *testing.T) {
	d := NewDocument()
	blocks := []Block{d.Text("a"), d.Tab(), d.Image("x", 1, 1), d.Text("b"), d.NewLine()}
	if got := PlainText(blocks); got != "a\t￼b\n" {
		t.Fatalf("PlainText = %q", got)
	}
}
