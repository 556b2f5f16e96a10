package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dshills/reviewtour/internal/report"
)

func TestTextWriter_Empty(t *testing.T) {
	r := &report.Report{
		Tool:    "reviewtour",
		Version: "1.0",
		Inputs:  report.InputInfo{Mode: "file", File: "tours.yaml"},
	}

	var buf bytes.Buffer
	w := &TextWriter{}
	if err := w.Write(&buf, r); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "file mode") {
		t.Error("Output should mention mode")
	}
	if !strings.Contains(out, "File: tours.yaml") {
		t.Error("Output should name the input file")
	}
	if !strings.Contains(out, "Nothing to review") {
		t.Error("Output should say there is nothing to review")
	}
}

func TestTextWriter_WithTours(t *testing.T) {
	var buf bytes.Buffer
	w := &TextWriter{}
	if err := w.Write(&buf, sampleReport()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Range: main..feature",
		"Tours: 2 (1 hidden) | Stops: 3 | Files: 2",
		"3 input tours merged into 2",
		"Tour 1: use ctx + add setup",
		"main.go:12-15",
		"[aaaa1111]",
		"from: abc1234, def5678",
		"related: bbbb2222",
		"(hidden)",
		"logo.png (binary)",
		"Completed in 7ms",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestTextWriter_PlainForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	w := &TextWriter{}
	if err := w.Write(&buf, sampleReport()); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Error("Output to a buffer should carry no ANSI escapes")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, bytes.ErrTooLarge }

func TestTextWriter_WriteError(t *testing.T) {
	w := &TextWriter{}
	if err := w.Write(failingWriter{}, sampleReport()); err == nil {
		t.Error("expected the first write error to be returned")
	}
}
