package slicing

import (
	"log/slog"
	"strings"

	"github.com/dshills/reviewtour/internal/tour"
)

// Commit is the raw input for one tour. Files, when non-nil, is the
// already parsed Diff.
type Commit struct {
	SHA     string
	Subject string
	Diff    string
	Files   []FileDiff
}

// Slicer builds one tour per commit.
type Slicer struct {
	// HiddenPrefixes mark tours invisible when the commit subject starts
	// with one of them.
	HiddenPrefixes []string
	// NoTrace keeps every stop in its own commit's numbering.
	NoTrace bool
	Logger  *slog.Logger
}

// Slice returns one tour per commit, oldest first. Commits without any
// reviewable change yield empty tours, which restructuring drops.
func (s *Slicer) Slice(commits []Commit) []tour.Tour {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	parsed := make([][]FileDiff, len(commits))
	for i, c := range commits {
		if c.Files != nil {
			parsed[i] = c.Files
			continue
		}
		parsed[i] = ParseDiff(c.Diff)
	}

	tours := make([]tour.Tour, 0, len(commits))
	for i, c := range commits {
		var stops []tour.Stop
		for _, f := range parsed[i] {
			for _, st := range stopsFor(c.SHA, f) {
				if !s.NoTrace {
					st = TraceStop(st, parsed[i+1:])
				}
				stops = append(stops, st)
			}
		}
		logger.Debug("sliced commit", "sha", shortSHA(c.SHA), "files", len(parsed[i]), "stops", len(stops))
		tours = append(tours, tour.New(c.Subject, s.visible(c.Subject), stops...))
	}
	return tours
}

func (s *Slicer) visible(subject string) bool {
	for _, p := range s.HiddenPrefixes {
		if p != "" && strings.HasPrefix(subject, p) {
			return false
		}
	}
	return true
}

func stopsFor(sha string, f FileDiff) []tour.Stop {
	path := f.Path()
	if path == "" {
		return nil
	}
	if f.Binary {
		return []tour.Stop{{File: path, Revision: sha, Binary: true, Origins: []string{sha}}}
	}
	stops := make([]tour.Stop, 0, len(f.Hunks))
	for _, h := range f.Hunks {
		stops = append(stops, tour.Stop{
			File:     path,
			Revision: sha,
			Before:   h.Old,
			After:    h.New,
			Origins:  []string{sha},
			Changes:  append([]string(nil), h.Changes...),
		})
	}
	return stops
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
