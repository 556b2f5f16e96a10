package tour

import (
	"crypto/sha256"
	"fmt"
)

// LineRange is an inclusive, 1-based range of lines. End < Start marks an
// empty range positioned at Start, as produced by pure insertions and
// deletions.
type LineRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Empty reports whether the range covers no lines.
func (r LineRange) Empty() bool {
	return r.End < r.Start
}

// span returns the range with an empty range widened to the line at Start.
func (r LineRange) span() LineRange {
	if r.Empty() {
		return LineRange{Start: r.Start, End: r.Start}
	}
	return r
}

// Overlaps reports whether the two ranges share a line. Empty ranges count
// as the single line they are positioned at.
func (r LineRange) Overlaps(o LineRange) bool {
	a, b := r.span(), o.span()
	return a.Start <= b.End && b.Start <= a.End
}

// Union returns the smallest range covering both. Two empty ranges stay
// empty only when they sit at the same position.
func (r LineRange) Union(o LineRange) LineRange {
	if r.Empty() && o.Empty() && r.Start == o.Start {
		return r
	}
	a, b := r, o
	if a.Empty() {
		a = a.span()
	}
	if b.Empty() {
		b = b.span()
	}
	return LineRange{Start: min(a.Start, b.Start), End: max(a.End, b.End)}
}

func (r LineRange) String() string {
	if r.Empty() {
		return fmt.Sprintf("%d+0", r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Stop is one reviewable unit of change. Revision names the commit whose
// change the fragments describe; Before is the fragment in that commit's
// parent, After the fragment traced to the revision under review. Binary
// stops cover the whole file and carry zero ranges.
type Stop struct {
	File     string    `json:"file"`
	Revision string    `json:"revision,omitempty"`
	Binary   bool      `json:"binary,omitempty"`
	Before   LineRange `json:"before"`
	After    LineRange `json:"after"`
	Origins  []string  `json:"origins,omitempty"`
	Changes  []string  `json:"changes,omitempty"`
}

// Key identifies the stop by its file and fragments.
type Key struct {
	File     string
	Revision string
	Binary   bool
	Before   LineRange
	After    LineRange
}

// Key returns the identity of s. Origins and changes are history, not
// identity.
func (s Stop) Key() Key {
	return Key{File: s.File, Revision: s.Revision, Binary: s.Binary, Before: s.Before, After: s.After}
}

// Equal reports whether s and o are the same stop.
func (s Stop) Equal(o Stop) bool {
	return s.Key() == o.Key()
}

// ID returns a short stable identifier derived from the stop's identity.
func (s Stop) ID() string {
	data := fmt.Sprintf("%s@%s:%t:%d:%d:%d:%d", s.File, s.Revision, s.Binary,
		s.Before.Start, s.Before.End, s.After.Start, s.After.End)
	h := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", h[:8])
}

func (s Stop) String() string {
	if s.Binary {
		return s.File + " (binary)"
	}
	return fmt.Sprintf("%s:%s", s.File, s.After)
}

// CanMergeWith reports whether s and o are different stops covering the same
// part of the same file.
func (s Stop) CanMergeWith(o Stop) bool {
	if s.Equal(o) || s.File != o.File {
		return false
	}
	if s.Binary || o.Binary {
		return s.Binary && o.Binary
	}
	return s.After.Overlaps(o.After)
}

// Merge combines s with a mergeable stop o. The merged fragments span both
// inputs and keep the revision of s; the history of both is kept, s first. Merging a stop with
// itself or with a stop it cannot merge with panics.
func (s Stop) Merge(o Stop) Stop {
	if s.Equal(o) {
		panic(fmt.Sprintf("tour: merging stop %s with itself", s))
	}
	if !s.CanMergeWith(o) {
		panic(fmt.Sprintf("tour: stops %s and %s are not mergeable", s, o))
	}
	merged := Stop{
		File:     s.File,
		Revision: s.Revision,
		Binary:   s.Binary,
		Origins:  unionStrings(s.Origins, o.Origins),
		Changes:  unionStrings(s.Changes, o.Changes),
	}
	if !s.Binary {
		merged.Before = s.Before.Union(o.Before)
		merged.After = s.After.Union(o.After)
	}
	return merged
}

// Absorb returns s with the history of the equal stop o appended. Absorbing
// a different stop panics.
func (s Stop) Absorb(o Stop) Stop {
	if !s.Equal(o) {
		panic(fmt.Sprintf("tour: absorbing different stop %s into %s", o, s))
	}
	s.Origins = unionStrings(s.Origins, o.Origins)
	s.Changes = unionStrings(s.Changes, o.Changes)
	return s
}

func unionStrings(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// Tour is an ordered walk through a set of stops.
type Tour struct {
	Description string `json:"description"`
	Stops       []Stop `json:"stops"`
	Visible     bool   `json:"visible"`
}

// New returns a tour owning a copy of stops.
func New(description string, visible bool, stops ...Stop) Tour {
	return Tour{
		Description: description,
		Stops:       append([]Stop(nil), stops...),
		Visible:     visible,
	}
}

// Empty reports whether the tour has no stops.
func (t Tour) Empty() bool {
	return len(t.Stops) == 0
}

// DropEmpty returns the tours that have at least one stop.
func DropEmpty(tours []Tour) []Tour {
	out := make([]Tour, 0, len(tours))
	for _, t := range tours {
		if !t.Empty() {
			out = append(out, t)
		}
	}
	return out
}

// StopCount returns the total number of stops over all tours.
func StopCount(tours []Tour) int {
	n := 0
	for _, t := range tours {
		n += len(t.Stops)
	}
	return n
}
