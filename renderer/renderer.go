// Package renderer 管理测量后端。后端包在 init 中调用 Register 注册自己，
// 宿主通过名称创建：
//
//	import _ "github.com/ByLCY/folio/renderer/cell"
//
//	sh, err := renderer.New("cell", renderer.Options{})
package renderer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ByLCY/folio/linewrap"
)

// ErrUnknownBackend is returned by New for names nobody registered.
var ErrUnknownBackend = errors.New("renderer: unknown backend")

// Options 是所有后端共用的配置，后端忽略与自己无关的字段。
type Options struct {
	FontSize float64           // 基础字号（pt），<= 0 时取 DefaultFontSize
	BaseDir  string            // 相对字体路径的根目录
	Fonts    map[string]string // 字体变体名（regular、bold、italic、bolditalic、mono）到字体来源的映射

	CellWidth  float64 // 终端单元宽度（像素）
	CellHeight float64 // 终端单元高度（像素）
}

// DefaultFontSize 是未配置时的基础字号（pt）。
const DefaultFontSize = 12.0

// Size returns the configured font size or DefaultFontSize.
func (o Options) Size() float64 {
	if o.FontSize <= 0 {
		return DefaultFontSize
	}
	return o.FontSize
}

// Source 返回字体变体的来源，未配置时为内置字体 "embed:<variant>"。
func (o Options) Source(variant string) string {
	if src, ok := o.Fonts[variant]; ok && src != "" {
		return src
	}
	return "embed:" + variant
}

// Factory 按配置创建测量后端。
type Factory func(Options) (linewrap.Shaper, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register 注册后端。重复注册同一名称会 panic。
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if f == nil {
		panic("renderer: Register factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("renderer: Register called twice for backend " + name)
	}
	factories[name] = f
}

// New 创建名为 name 的后端。
func New(name string, opts Options) (linewrap.Shaper, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (registered: %s)", ErrUnknownBackend, name, strings.Join(Backends(), ", "))
	}
	sh, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("创建测量后端 %s 失败: %w", name, err)
	}
	return sh, nil
}

// Backends 返回已注册的后端名称。
func Backends() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
