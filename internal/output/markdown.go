package output

import (
	"io"
	"strings"

	"github.com/dshills/reviewtour/internal/report"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report. Hidden tours
// are folded into collapsible sections.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, r *report.Report) error {
	ew := &errWriter{w: w}

	ew.printf("## Review Tour\n\n")

	ew.printf("| Tours | Hidden | Stops | Files |\n")
	ew.printf("|-------|--------|-------|-------|\n")
	ew.printf("| %d | %d | %d | %d |\n\n",
		r.Summary.Tours, r.Summary.HiddenTours, r.Summary.Stops, r.Summary.FilesTouched)

	if len(r.Tours) == 0 {
		ew.println("Nothing to review. :white_check_mark:")
		return ew.err
	}

	for i, tr := range r.Tours {
		if !tr.Visible {
			ew.printf("<details>\n<summary>Tour %d: %s (hidden)</summary>\n\n", i+1, mdEscape(tr.Description))
		} else {
			ew.printf("### Tour %d: %s\n\n", i+1, mdEscape(tr.Description))
		}
		for _, s := range tr.Stops {
			ew.printf("- **`%s`** `%s`", s.Location(), s.ID)
			if len(s.Origins) > 0 {
				ew.printf(" from %s", strings.Join(s.Origins, ", "))
			}
			ew.printf("\n")
			if len(s.Related) > 0 {
				ew.printf("  - related: %s\n", mdCodeList(s.Related))
			}
		}
		ew.printf("\n")
		if !tr.Visible {
			ew.printf("</details>\n\n")
		}
	}

	ew.printf("*Built in %dms (git: %dms, restructure: %dms)*\n",
		r.Timing.TotalMs, r.Timing.GitMs, r.Timing.RestructureMs)

	return ew.err
}

func mdCodeList(ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = "`" + id + "`"
	}
	return strings.Join(quoted, ", ")
}

var mdReplacer = strings.NewReplacer("|", `\|`, "<", "&lt;", ">", "&gt;")

func mdEscape(s string) string {
	return mdReplacer.Replace(s)
}
