package slicing

import (
	"sort"

	"github.com/dshills/reviewtour/internal/tour"
)

// TraceFile follows path through the renames of one later commit. ok is
// false when that commit deleted the file.
func TraceFile(path string, later []FileDiff) (string, bool) {
	for _, f := range later {
		if f.OldPath != path {
			continue
		}
		if f.NewPath == "" {
			return path, false
		}
		return f.NewPath, true
	}
	return path, true
}

// TraceRange projects r, given in the numbering before a later commit, onto
// the numbering after it, using that commit's hunks for the file. Lines
// before a hunk shift by the hunk's size delta; lines inside a hunk map onto
// the hunk's new range.
func TraceRange(r tour.LineRange, hunks []Hunk) tour.LineRange {
	if len(hunks) == 0 {
		return r
	}
	sorted := append([]Hunk(nil), hunks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Old.Start < sorted[j].Old.Start })

	if r.Empty() {
		p := traceLine(r.Start, sorted, true)
		return tour.LineRange{Start: p, End: p - 1}
	}
	start := traceLine(r.Start, sorted, true)
	end := traceLine(r.End, sorted, false)
	if end < start-1 {
		end = start - 1
	}
	return tour.LineRange{Start: start, End: end}
}

func traceLine(line int, hunks []Hunk, isStart bool) int {
	delta := 0
	for _, h := range hunks {
		if h.Old.Empty() {
			// pure insertion in the gap before Old.Start
			if h.Old.Start <= line {
				delta += rangeLen(h.New)
				continue
			}
			break
		}
		if h.Old.End < line {
			delta += rangeLen(h.New) - rangeLen(h.Old)
			continue
		}
		if h.Old.Start <= line {
			if isStart {
				return h.New.Start
			}
			return h.New.End
		}
		break
	}
	return line + delta
}

func rangeLen(r tour.LineRange) int {
	if r.Empty() {
		return 0
	}
	return r.End - r.Start + 1
}

// TraceStop projects a textual stop through every later commit, in order.
// Binary stops only follow renames.
func TraceStop(s tour.Stop, later [][]FileDiff) tour.Stop {
	for _, commit := range later {
		oldPath := s.File
		path, alive := TraceFile(oldPath, commit)
		if !alive {
			return s
		}
		if !s.Binary {
			s.After = TraceRange(s.After, hunksFor(commit, oldPath))
		}
		s.File = path
	}
	return s
}

func hunksFor(commit []FileDiff, oldPath string) []Hunk {
	for _, f := range commit {
		if f.OldPath == oldPath && !f.Binary {
			return f.Hunks
		}
	}
	return nil
}
