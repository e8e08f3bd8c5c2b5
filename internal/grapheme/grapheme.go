// Package grapheme 提供基于 uniseg 的字符（字素簇）切分工具。
// 文本块中的“字符偏移”一律以字素簇为单位，而不是字节或 rune。
package grapheme

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Split 将文本切分为字素簇。
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Join 拼接字素簇。
func Join(clusters []string) string {
	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return clusters[0]
	}
	var sb strings.Builder
	for _, c := range clusters {
		sb.WriteString(c)
	}
	return sb.String()
}
