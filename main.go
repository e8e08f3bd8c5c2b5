package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/folio/binding"
	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/editor"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
	_ "github.com/ByLCY/folio/renderer/canvas"
	_ "github.com/ByLCY/folio/renderer/cell"
	_ "github.com/ByLCY/folio/renderer/face"
	"github.com/ByLCY/folio/script"
)

func main() {
	input := flag.String("in", "examples/demo.folio", "编辑脚本路径")
	debug := flag.String("debug", "", "结构报告 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到脚本的 JSON 数据")
	backend := flag.String("backend", "", "测量后端（覆盖脚本设置）："+strings.Join(renderer.Backends(), ", "))
	verbose := flag.Bool("v", false, "输出每次重排的摘要")
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		var err error
		if inputData, err = binding.Decode([]byte(*dataJSON)); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	opts := script.Options{
		BaseDir: filepath.Dir(*input),
		Backend: *backend,
		Debug:   *verbose,
	}
	if *verbose {
		opts.Logger = log.New(os.Stderr, "folio: ", 0)
	}
	if err := run(*input, *debug, inputData, opts, os.Stdout); err != nil {
		log.Fatalf("执行脚本失败: %v", err)
	}
}

// run 串联解析、重放与报告输出。
func run(inputPath, debugPath string, data any, opts script.Options, out io.Writer) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开脚本 %s: %w", inputPath, err)
	}
	defer file.Close()

	s, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析脚本失败: %w", err)
	}

	ed, err := script.Run(s, data, opts)
	if err != nil {
		return err
	}

	printSummary(out, ed)

	if debugPath != "" {
		if err := writeDebug(ed.Report(), debugPath); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(out io.Writer, ed *editor.Editor) {
	rep := ed.Report()
	fmt.Fprintf(out, "%d 个字段，%.0fx%.0fpx，版本 %d\n", len(rep.Fields), rep.Width, rep.Height, rep.Version)
	for _, f := range rep.Fields {
		mark := ""
		if f.TrailingNewLine {
			mark = "⏎"
		}
		fmt.Fprintf(out, "%3d  y=%-6.1f w=%-6.1f %q%s\n", f.Index, f.Y, f.Width, strings.TrimSuffix(f.Text, "\n"), mark)
	}
	if c := rep.Caret; c != nil {
		fmt.Fprintf(out, "光标  (%.1f, %.1f) 行高 %.1f\n", c.X, c.Y, c.LineHeight)
	}
	if ed.HasSelection() {
		fmt.Fprintf(out, "选区  %q\n", ed.SelectedText())
	}
}

func writeDebug(rep *layout.Report, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(rep, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
