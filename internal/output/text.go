package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/reviewtour/internal/report"
)

// TextWriter outputs a human-readable text report. Styling follows the
// destination: plain text unless w is a color-capable terminal.
type TextWriter struct{}

type textStyles struct {
	title  lipgloss.Style
	tour   lipgloss.Style
	hidden lipgloss.Style
	loc    lipgloss.Style
	dim    lipgloss.Style
}

func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")),
		tour:   r.NewStyle().Bold(true),
		hidden: r.NewStyle().Foreground(lipgloss.Color("#888888")),
		loc:    r.NewStyle().Foreground(lipgloss.Color("#FFB86C")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
	}
}

func (t *TextWriter) Write(w io.Writer, r *report.Report) error {
	ew := &errWriter{w: w}
	st := newTextStyles(w)

	ew.printf("%s\n", st.title.Render(fmt.Sprintf("Review Tour: %s mode", r.Inputs.Mode)))
	if r.Inputs.Range != "" {
		ew.printf("Range: %s\n", r.Inputs.Range)
	}
	if r.Inputs.File != "" {
		ew.printf("File: %s\n", r.Inputs.File)
	}
	if r.Repo.Root != "" {
		ew.printf("Repository: %s (branch: %s)\n", r.Repo.Root, r.Repo.Branch)
	}
	ew.println(strings.Repeat("─", 60))
	ew.printf("Tours: %d (%d hidden) | Stops: %d | Files: %d\n",
		r.Summary.Tours, r.Summary.HiddenTours, r.Summary.Stops, r.Summary.FilesTouched)
	if r.Restructured {
		ew.printf("Restructured: %d input tours merged into %d\n", r.Summary.InputTours, r.Summary.Tours)
	}
	ew.println(strings.Repeat("─", 60))

	if len(r.Tours) == 0 {
		ew.println("\nNothing to review.")
		return ew.err
	}

	for i, tr := range r.Tours {
		heading := fmt.Sprintf("Tour %d: %s", i+1, tr.Description)
		if tr.Visible {
			ew.printf("\n%s\n", st.tour.Render(heading))
		} else {
			ew.printf("\n%s\n", st.hidden.Render(heading+" (hidden)"))
		}
		for j, s := range tr.Stops {
			ew.printf("  %2d. %s  %s\n", j+1, st.loc.Render(s.Location()), st.dim.Render("["+s.ID+"]"))
			if len(s.Origins) > 0 {
				ew.printf("      from: %s\n", strings.Join(s.Origins, ", "))
			}
			if len(s.Related) > 0 {
				ew.printf("      related: %s\n", strings.Join(s.Related, ", "))
			}
		}
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Completed in %dms (git: %dms, restructure: %dms)\n",
		r.Timing.TotalMs, r.Timing.GitMs, r.Timing.RestructureMs)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
