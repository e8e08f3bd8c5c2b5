package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/folio/binding"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/script"
)

func TestRunDemo(t *testing.T) {
	data, err := binding.Decode([]byte(`{"user":{"name":"Ada"}}`))
	if err != nil {
		t.Fatalf("Decode 失败: %v", err)
	}
	debugPath := filepath.Join(t.TempDir(), "out", "demo.json")
	var out bytes.Buffer
	in := filepath.Join("examples", "demo.folio")
	if err := run(in, debugPath, data, script.Options{BaseDir: "examples"}, &out); err != nil {
		t.Fatalf("run 失败: %v", err)
	}
	if !strings.Contains(out.String(), "Hello, Ada!") {
		t.Fatalf("summary should contain the interpolated text:\n%s", out.String())
	}

	raw, err := os.ReadFile(debugPath)
	if err != nil {
		t.Fatalf("debug JSON missing: %v", err)
	}
	var rep layout.Report
	if err := json.Unmarshal(raw, &rep); err != nil {
		t.Fatalf("debug JSON invalid: %v", err)
	}
	if len(rep.Fields) < 3 || rep.Caret == nil {
		t.Fatalf("unexpected report: %d fields, caret %v", len(rep.Fields), rep.Caret)
	}
	for _, f := range rep.Fields {
		if !f.TrailingNewLine && f.Width >= 240 {
			t.Fatalf("field %d overflows: %g", f.Index, f.Width)
		}
	}
}

func TestRunMissingFile(t *testing.T) {
	if err := run("nope.folio", "", nil, script.Options{}, &bytes.Buffer{}); err == nil {
		t.Fatalf("missing script should fail")
	}
}
