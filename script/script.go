// Package script 把解析后的编辑脚本重放到一个新的编辑器上。
package script

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/editor"
	"github.com/ByLCY/folio/images"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/model"
	"github.com/ByLCY/folio/renderer"
)

// DefaultBackend 是脚本未设置 backend 时使用的测量后端。
const DefaultBackend = "cell"

// Options 控制脚本执行。
type Options struct {
	BaseDir string      // 资源与字体路径的根目录
	Backend string      // 覆盖脚本中的 backend 设置
	Logger  *log.Logger // 传给编辑器
	Debug   bool
}

// settings 是脚本顶层设置解析后的结果。
type settings struct {
	backend  string
	width    float64
	tabWidth float64
	style    model.Style
	renderer renderer.Options

	lineHeight *layout.LineHeightSpec
}

// Run 执行脚本并返回最终状态的编辑器。脚本中的 ${path} 占位符从 data 取值。
func Run(s *dsl.Script, data any, opts Options) (*editor.Editor, error) {
	if s == nil {
		return nil, fmt.Errorf("script: 脚本为空")
	}
	cfg, err := collectSettings(s, opts)
	if err != nil {
		return nil, err
	}
	store, err := collectAssets(s, opts.BaseDir)
	if err != nil {
		return nil, err
	}
	sh, err := renderer.New(cfg.backend, cfg.renderer)
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	ed, err := editor.New(editor.Options{
		Shaper:   sh,
		Width:    cfg.width,
		Style:    cfg.style,
		TabWidth: cfg.tabWidth,
		Images:   store,
		Logger:   opts.Logger,
		Debug:    opts.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}

	for _, st := range s.Statements {
		if st.Command == nil {
			continue
		}
		if err := execute(ed, st.Command, data); err != nil {
			return ed, fmt.Errorf("%s: %w", st.Command.Pos, err)
		}
	}
	return ed, nil
}

func collectSettings(s *dsl.Script, opts Options) (settings, error) {
	cfg := settings{backend: DefaultBackend}
	cfg.renderer.BaseDir = opts.BaseDir
	for _, st := range s.Statements {
		if st.Setting == nil {
			continue
		}
		if err := cfg.apply(st.Setting); err != nil {
			return cfg, fmt.Errorf("%s: 设置 %s: %w", st.Setting.Pos, st.Setting.Key, err)
		}
	}
	if opts.Backend != "" {
		cfg.backend = opts.Backend
	}
	// 行高作为单元高度，倍数按字号换算
	if cfg.lineHeight != nil {
		size := layout.Length{Value: cfg.renderer.Size(), Unit: layout.UnitPT}
		cfg.renderer.CellHeight = cfg.lineHeight.Resolve(size, layout.UnitPX)
	}
	return cfg, nil
}

func (c *settings) apply(st *dsl.Setting) error {
	raw := st.Value.Text()
	switch key := st.Key; {
	case key == "backend":
		c.backend = raw
	case key == "width":
		px, err := parsePx(raw)
		if err != nil {
			return err
		}
		c.width = px
	case key == "tab-width":
		px, err := parsePx(raw)
		if err != nil {
			return err
		}
		c.tabWidth = px
	case key == "font-size":
		l, err := layout.ParseLength(raw)
		if err != nil {
			return err
		}
		if l.Unit == layout.UnitNone {
			l.Unit = layout.UnitPT
		}
		c.renderer.FontSize = l.ToPT()
	case key == "line-height":
		lh, err := layout.ParseLineHeight(raw)
		if err != nil {
			return err
		}
		c.lineHeight = &lh
	case key == "cell-width":
		px, err := parsePx(raw)
		if err != nil {
			return err
		}
		c.renderer.CellWidth = px
	case key == "cell-height":
		px, err := parsePx(raw)
		if err != nil {
			return err
		}
		c.renderer.CellHeight = px
	case key == "color":
		col, err := layout.ParseColor(raw)
		if err != nil {
			return err
		}
		c.style.Color = col
	case strings.HasPrefix(key, "font-"):
		if c.renderer.Fonts == nil {
			c.renderer.Fonts = map[string]string{}
		}
		c.renderer.Fonts[strings.TrimPrefix(key, "font-")] = raw
	default:
		return fmt.Errorf("未知设置")
	}
	return nil
}

func collectAssets(s *dsl.Script, baseDir string) (*images.Store, error) {
	store := images.NewStore()
	for _, st := range s.Statements {
		a := st.Asset
		if a == nil {
			continue
		}
		if err := loadAsset(store, a, baseDir); err != nil {
			return nil, fmt.Errorf("%s: 资源 %s: %w", a.Pos, a.Name, err)
		}
	}
	return store, nil
}

func loadAsset(store *images.Store, a *dsl.Asset, baseDir string) error {
	if src, ok := a.Setting("src"); ok {
		path := src.Value.Text()
		if !filepath.IsAbs(path) {
			if baseDir == "" {
				return fmt.Errorf("未指定资源目录时不允许使用相对路径 %s", path)
			}
			path = filepath.Join(baseDir, path)
		}
		_, err := store.PutFile(a.Name, path)
		return err
	}
	w, okW := a.Setting("width")
	h, okH := a.Setting("height")
	if !okW || !okH {
		return fmt.Errorf("需要 src 或 width/height")
	}
	wpx, err := parsePx(w.Value.Text())
	if err != nil {
		return err
	}
	hpx, err := parsePx(h.Value.Text())
	if err != nil {
		return err
	}
	_, err = store.PutSized(a.Name, wpx, hpx)
	return err
}

// parsePx 解析长度并换算为像素，不带单位时视为像素。
func parsePx(raw string) (float64, error) {
	l, err := layout.ParseLength(raw)
	if err != nil {
		return 0, err
	}
	return l.ToPX(), nil
}
