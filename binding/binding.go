// Package binding 把 JSON 数据代入脚本文本中的 ${path} 占位符。
package binding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Step 是路径中的一级：对象键或数组下标。
type Step struct {
	Key   string
	Index int
	IsKey bool
}

// Path 是 "user.tags[0]" 这样的取值路径。
type Path []Step

// ParsePath 解析取值路径。
func ParsePath(expr string) (Path, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("binding: 空路径")
	}
	var p Path
	for _, segment := range strings.Split(expr, ".") {
		name, indexes, err := parseSegment(segment)
		if err != nil {
			return nil, fmt.Errorf("binding: 路径 %q: %w", expr, err)
		}
		if name != "" {
			p = append(p, Step{Key: name, IsKey: true})
		}
		for _, idx := range indexes {
			p = append(p, Step{Index: idx})
		}
	}
	return p, nil
}

func parseSegment(segment string) (string, []int, error) {
	name, rest, _ := strings.Cut(segment, "[")
	if name == "" && rest == "" {
		return "", nil, fmt.Errorf("空的路径段")
	}
	var indexes []int
	if rest == "" {
		return name, nil, nil
	}
	rest = "[" + rest
	for len(rest) > 0 {
		if rest[0] != '[' {
			return "", nil, fmt.Errorf("下标后有多余内容 %q", rest)
		}
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			return "", nil, fmt.Errorf("下标缺少 ]")
		}
		idx, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, fmt.Errorf("下标 %q 不是整数", rest[1:end])
		}
		indexes = append(indexes, idx)
		rest = rest[end+1:]
	}
	return name, indexes, nil
}

// Lookup 在 data 中按路径取值。
func (p Path) Lookup(data any) (any, bool) {
	current := data
	for _, s := range p {
		var ok bool
		if s.IsKey {
			current, ok = descendMap(current, s.Key)
		} else {
			current, ok = descendArray(current, s.Index)
		}
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Decode 解析 JSON 数据，数字保留原始写法。
func Decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("binding: 解析 JSON 失败: %w", err)
	}
	return out, nil
}

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 若 data 为空或路径不存在，则保留原占位符。
func Interpolate(text string, data any) string {
	out, _ := interpolate(text, data)
	return out
}

// InterpolateStrict 与 Interpolate 相同，但有无法解析的占位符时返回错误。
func InterpolateStrict(text string, data any) (string, error) {
	out, missing := interpolate(text, data)
	if len(missing) > 0 {
		return out, fmt.Errorf("binding: 无法解析占位符 %s", strings.Join(missing, ", "))
	}
	return out, nil
}

func interpolate(text string, data any) (string, []string) {
	var missing []string
	out := exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		p, err := ParsePath(groups[1])
		if err != nil {
			missing = append(missing, match)
			return match
		}
		val, ok := p.Lookup(data)
		if !ok {
			missing = append(missing, match)
			return match
		}
		return format(val)
	})
	return out, missing
}

func format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case map[string]any, []any:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	default:
		return fmt.Sprint(x)
	}
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}

func descendArray(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []any:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}
