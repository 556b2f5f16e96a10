package slicing

import (
	"strconv"
	"strings"

	"github.com/dshills/reviewtour/internal/tour"
)

// Hunk is one changed region of a file.
type Hunk struct {
	Old     tour.LineRange `json:"old"`
	New     tour.LineRange `json:"new"`
	Changes []string       `json:"changes,omitempty"`
}

// FileDiff holds the hunks of one file in one commit.
type FileDiff struct {
	OldPath string `json:"oldPath,omitempty"`
	NewPath string `json:"newPath,omitempty"`
	Binary  bool   `json:"binary,omitempty"`
	Hunks   []Hunk `json:"hunks,omitempty"`
}

// Path returns the path the change should be reviewed under: the new path,
// or the old one for deleted files.
func (f FileDiff) Path() string {
	if f.NewPath != "" {
		return f.NewPath
	}
	return f.OldPath
}

// ParseDiff parses git's unified diff output.
func ParseDiff(diff string) []FileDiff {
	var files []FileDiff
	var cur *FileDiff
	var hunk *Hunk

	flushHunk := func() {
		if cur != nil && hunk != nil {
			cur.Hunks = append(cur.Hunks, *hunk)
		}
		hunk = nil
	}
	flushFile := func() {
		flushHunk()
		if cur != nil {
			files = append(files, *cur)
		}
		cur = nil
	}

	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			flushFile()
			oldPath, newPath := parseGitHeader(line)
			cur = &FileDiff{OldPath: oldPath, NewPath: newPath}
		case cur == nil:
			continue
		case hunk == nil && strings.HasPrefix(line, "--- "):
			cur.OldPath = parsePathLine(strings.TrimPrefix(line, "--- "), "a/")
		case hunk == nil && strings.HasPrefix(line, "+++ "):
			cur.NewPath = parsePathLine(strings.TrimPrefix(line, "+++ "), "b/")
		case strings.HasPrefix(line, "rename from "):
			cur.OldPath = strings.TrimPrefix(line, "rename from ")
		case strings.HasPrefix(line, "rename to "):
			cur.NewPath = strings.TrimPrefix(line, "rename to ")
		case strings.HasPrefix(line, "Binary files ") || strings.HasPrefix(line, "GIT binary patch"):
			cur.Binary = true
		case strings.HasPrefix(line, "@@ "):
			flushHunk()
			if h, ok := parseHunkHeader(line); ok {
				hunk = &h
			}
		case hunk != nil && (strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-")):
			hunk.Changes = append(hunk.Changes, line)
		}
	}
	flushFile()
	return files
}

// parseGitHeader extracts both paths from "diff --git a/x b/y".
func parseGitHeader(line string) (string, string) {
	rest := strings.TrimPrefix(line, "diff --git ")
	i := strings.Index(rest, " b/")
	if i < 0 || !strings.HasPrefix(rest, "a/") {
		return "", ""
	}
	return rest[2:i], rest[i+3:]
}

func parsePathLine(p, prefix string) string {
	p = strings.TrimSpace(p)
	if p == "/dev/null" {
		return ""
	}
	if i := strings.IndexByte(p, '\t'); i >= 0 {
		p = p[:i]
	}
	return strings.TrimPrefix(p, prefix)
}

// parseHunkHeader parses "@@ -a,b +c,d @@". Counts default to 1 when
// omitted; a zero count yields an empty range positioned after the start
// line.
func parseHunkHeader(line string) (Hunk, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 || !strings.HasPrefix(fields[1], "-") || !strings.HasPrefix(fields[2], "+") {
		return Hunk{}, false
	}
	oldStart, oldCount, ok1 := parseSpan(fields[1][1:])
	newStart, newCount, ok2 := parseSpan(fields[2][1:])
	if !ok1 || !ok2 {
		return Hunk{}, false
	}
	return Hunk{
		Old: spanRange(oldStart, oldCount),
		New: spanRange(newStart, newCount),
	}, true
}

func parseSpan(s string) (int, int, bool) {
	start, count := s, "1"
	if i := strings.IndexByte(s, ','); i >= 0 {
		start, count = s[:i], s[i+1:]
	}
	a, err := strconv.Atoi(start)
	if err != nil {
		return 0, 0, false
	}
	n, err := strconv.Atoi(count)
	if err != nil {
		return 0, 0, false
	}
	return a, n, true
}

// spanRange converts a hunk start and count into a LineRange. git reports a
// zero-length span as the line before the gap, so the empty range is placed
// right after it.
func spanRange(start, count int) tour.LineRange {
	if count == 0 {
		return tour.LineRange{Start: start + 1, End: start}
	}
	return tour.LineRange{Start: start, End: start + count - 1}
}
