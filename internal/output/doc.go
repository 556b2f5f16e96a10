// Package output formats tour reports for display or machine consumption.
//
// Four formats are supported:
//   - text     human-readable terminal output (default), styled with lipgloss
//   - json     full structured JSON report
//   - yaml     full structured YAML report
//   - markdown PR-comment-friendly, hidden tours folded away
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and a [*report.Report]. [WriteReport]
// handles destination selection.
package output
