package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Describe 返回块列表的紧凑文本形式，例如 [T"abc" <img:logo> T"" ⏎]。
func Describe(blocks []Block) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, b := range blocks {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch x := b.(type) {
		case *TextRun:
			sb.WriteByte('T')
			sb.WriteString(strconv.Quote(x.Text.String()))
		case *Image:
			fmt.Fprintf(&sb, "<img:%s>", x.Ref)
		case *Delimiter:
			switch x.Delim {
			case NewLine:
				sb.WriteString("⏎")
			case Tab:
				sb.WriteString("⇥")
			default:
				panic(fmt.Sprintf("model: unknown delimiter %v", x.Delim))
			}
		default:
			panic(fmt.Sprintf("model: unknown block type %T", b))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// Describe 逐行描述文档的每个字段。
func (d *Document) Describe() string {
	lines := make([]string, len(d.fields))
	for i, f := range d.fields {
		lines[i] = Describe(f.Blocks)
	}
	return strings.Join(lines, "\n")
}

// PlainText 把块列表还原成纯文本：换行符为 '\n'，制表符为 '\t'，图片为 U+FFFC。
func PlainText(blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		switch x := b.(type) {
		case *TextRun:
			sb.WriteString(x.Text.String())
		case *Image:
			sb.WriteRune('\uFFFC')
		case *Delimiter:
			if x.Delim == NewLine {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte('\t')
			}
		default:
			panic(fmt.Sprintf("model: unknown block type %T", b))
		}
	}
	return sb.String()
}
