package script

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ByLCY/folio/binding"
	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/editor"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/model"
)

type handler func(ed *editor.Editor, args []*dsl.Lexeme, data any) error

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"type":       handleType,
		"newline":    simple((*editor.Editor).InsertNewline),
		"tab":        simple((*editor.Editor).InsertTab),
		"backspace":  repeated((*editor.Editor).Backspace),
		"delete":     repeated((*editor.Editor).Delete),
		"left":       repeated((*editor.Editor).MoveLeft),
		"right":      repeated((*editor.Editor).MoveRight),
		"up":         repeated((*editor.Editor).MoveUp),
		"down":       repeated((*editor.Editor).MoveDown),
		"home":       simple((*editor.Editor).Home),
		"end":        simple((*editor.Editor).End),
		"select":     handleSelect,
		"select-all": simple((*editor.Editor).SelectAll),
		"collapse":   handleCollapse,
		"image":      handleImage,
		"click":      handleClick,
		"drag":       handleDrag,
		"style":      handleStyle,
		"resize":     handleResize,
	}
}

// Commands 返回脚本支持的命令名。
func Commands() []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func execute(ed *editor.Editor, cmd *dsl.Command, data any) error {
	h, ok := handlers[cmd.Name]
	if !ok {
		return fmt.Errorf("未知命令 %s", cmd.Name)
	}
	if err := h(ed, cmd.Args, data); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return nil
}

func simple(fn func(*editor.Editor)) handler {
	return func(ed *editor.Editor, args []*dsl.Lexeme, _ any) error {
		if len(args) > 0 {
			return fmt.Errorf("不接受参数")
		}
		fn(ed)
		return nil
	}
}

// repeated 接受可选的重复次数。
func repeated(fn func(*editor.Editor)) handler {
	return func(ed *editor.Editor, args []*dsl.Lexeme, _ any) error {
		n, err := count(args)
		if err != nil {
			return err
		}
		for range n {
			fn(ed)
		}
		return nil
	}
}

func count(args []*dsl.Lexeme) (int, error) {
	switch len(args) {
	case 0:
		return 1, nil
	case 1:
		n, err := strconv.Atoi(args[0].Value)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("次数 %q 无效", args[0].Raw)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("参数过多")
	}
}

func handleType(ed *editor.Editor, args []*dsl.Lexeme, data any) error {
	if len(args) == 0 {
		return fmt.Errorf("缺少文本")
	}
	var sb strings.Builder
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(a.Value)
	}
	text, err := binding.InterpolateStrict(sb.String(), data)
	if err != nil && data != nil {
		return err
	}
	ed.InsertText(text)
	return nil
}

func handleSelect(ed *editor.Editor, args []*dsl.Lexeme, _ any) error {
	if len(args) == 0 {
		return fmt.Errorf("缺少方向")
	}
	var step func()
	switch args[0].Value {
	case "left":
		step = ed.ExtendLeft
	case "right":
		step = ed.ExtendRight
	case "up":
		step = ed.ExtendUp
	case "down":
		step = ed.ExtendDown
	default:
		return fmt.Errorf("未知方向 %s", args[0].Value)
	}
	n, err := count(args[1:])
	if err != nil {
		return err
	}
	for range n {
		step()
	}
	return nil
}

func handleCollapse(ed *editor.Editor, args []*dsl.Lexeme, _ any) error {
	dir := editor.Backward
	if len(args) > 0 {
		switch args[0].Value {
		case "start":
		case "end":
			dir = editor.Forward
		default:
			return fmt.Errorf("未知方向 %s", args[0].Value)
		}
	}
	ed.CollapseSelection(dir)
	return nil
}

func handleImage(ed *editor.Editor, args []*dsl.Lexeme, _ any) error {
	if len(args) != 1 {
		return fmt.Errorf("需要一个资源名")
	}
	return ed.InsertImage(args[0].Value)
}

func handleClick(ed *editor.Editor, args []*dsl.Lexeme, _ any) error {
	pts, err := points(args, 1)
	if err != nil {
		return err
	}
	ed.Click(pts[0])
	return nil
}

// drag x1 y1 x2 y2 [x3 y3 ...]：按下、依次拖过各点、松开。
func handleDrag(ed *editor.Editor, args []*dsl.Lexeme, _ any) error {
	if len(args) < 4 {
		return fmt.Errorf("至少需要起点与终点")
	}
	pts, err := points(args, len(args)/2)
	if err != nil {
		return err
	}
	ed.StartDrag(pts[0])
	for _, p := range pts[1:] {
		ed.UpdateDrag(p)
	}
	ed.FinishDrag()
	return nil
}

func points(args []*dsl.Lexeme, n int) ([]model.Point, error) {
	if len(args) != 2*n {
		return nil, fmt.Errorf("需要 %d 个坐标值，得到 %d 个", 2*n, len(args))
	}
	out := make([]model.Point, n)
	for i := range out {
		x, err := parsePx(args[2*i].Value)
		if err != nil {
			return nil, err
		}
		y, err := parsePx(args[2*i+1].Value)
		if err != nil {
			return nil, err
		}
		out[i] = model.Point{X: x, Y: y}
	}
	return out, nil
}

// style bold italic underline code scale 1.5 color #f00，或 style plain 清空。
func handleStyle(ed *editor.Editor, args []*dsl.Lexeme, _ any) error {
	var st model.Style
	for i := 0; i < len(args); i++ {
		switch args[i].Value {
		case "plain":
			st = model.Style{}
		case "bold":
			st.Bold = true
		case "italic":
			st.Italic = true
		case "underline":
			st.Underline = true
		case "code":
			st.Code = true
		case "scale", "color":
			if i+1 >= len(args) {
				return fmt.Errorf("%s 缺少取值", args[i].Value)
			}
			i++
			if args[i-1].Value == "scale" {
				f, err := strconv.ParseFloat(strings.TrimSuffix(args[i].Value, "x"), 64)
				if err != nil || f <= 0 {
					return fmt.Errorf("缩放 %q 无效", args[i].Raw)
				}
				st.Scale = f
				continue
			}
			col, err := layout.ParseColor(args[i].Value)
			if err != nil {
				return err
			}
			st.Color = col
		default:
			return fmt.Errorf("未知样式 %s", args[i].Value)
		}
	}
	ed.SetTypingStyle(st)
	return nil
}

func handleResize(ed *editor.Editor, args []*dsl.Lexeme, _ any) error {
	if len(args) != 1 {
		return fmt.Errorf("需要一个宽度")
	}
	w, err := parsePx(args[0].Value)
	if err != nil {
		return err
	}
	ed.SetWidth(w)
	return nil
}
