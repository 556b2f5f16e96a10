package output

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/dshills/reviewtour/internal/report"
)

func TestYAMLWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &YAMLWriter{}
	if err := w.Write(&buf, sampleReport()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	var parsed report.Report
	if err := yaml.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid YAML: %v", err)
	}
	if parsed.RunID != "test-run" {
		t.Errorf("RunID = %q, want %q", parsed.RunID, "test-run")
	}
	if len(parsed.Tours) != 2 || parsed.Tours[0].Stops[1].ID != "bbbb2222" {
		t.Errorf("Tours = %+v", parsed.Tours)
	}
	if !strings.Contains(buf.String(), "runId: test-run") {
		t.Errorf("keys should use the camelCase names:\n%s", buf.String())
	}
}
