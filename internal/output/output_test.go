package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/reviewtour/internal/report"
	"github.com/dshills/reviewtour/internal/tour"
)

func sampleReport() *report.Report {
	return &report.Report{
		Tool:         "reviewtour",
		Version:      "1.0",
		RunID:        "test-run",
		Repo:         report.RepoInfo{Root: "/tmp/repo", Head: "abc123", Branch: "main"},
		Inputs:       report.InputInfo{Mode: "range", Range: "main..feature"},
		Restructured: true,
		Summary:      report.Summary{Tours: 2, HiddenTours: 1, Stops: 3, InputTours: 3, MergedTours: 1, FilesTouched: 2},
		Tours: []report.Tour{
			{
				Description: "use ctx + add setup",
				Visible:     true,
				Stops: []report.Stop{
					{ID: "aaaa1111", File: "main.go", After: tour.LineRange{Start: 12, End: 15}, Origins: []string{"abc1234", "def5678"}, Related: []string{"bbbb2222"}},
					{ID: "bbbb2222", File: "main.go", After: tour.LineRange{Start: 44, End: 44}},
				},
			},
			{
				Description: "fixup! typo <x>",
				Visible:     false,
				Stops: []report.Stop{
					{ID: "cccc3333", File: "logo.png", Binary: true},
				},
			},
		},
		Timing: report.Timing{GitMs: 5, RestructureMs: 1, TotalMs: 7},
	}
}

func TestGetWriter(t *testing.T) {
	for _, f := range append(Formats, "md") {
		if _, err := GetWriter(f); err != nil {
			t.Errorf("GetWriter(%q) error: %v", f, err)
		}
	}
	if _, err := GetWriter("sarif"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestWriteReport_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tour.json")
	if err := WriteReport(sampleReport(), "json", path); err != nil {
		t.Fatalf("WriteReport error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), `"runId": "test-run"`) {
		t.Errorf("output file missing report:\n%s", data)
	}
}

func TestWriteReport_BadFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tour.out")
	if err := WriteReport(sampleReport(), "xml", path); err == nil {
		t.Error("expected error for unsupported format")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be created for an unsupported format")
	}
}
