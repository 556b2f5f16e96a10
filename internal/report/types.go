package report

import "github.com/dshills/reviewtour/internal/tour"

// RepoInfo contains repository metadata.
type RepoInfo struct {
	Root   string `json:"root" yaml:"root"`
	Head   string `json:"head" yaml:"head"`
	Branch string `json:"branch" yaml:"branch"`
}

// InputInfo describes what the tours were built from.
type InputInfo struct {
	Mode          string   `json:"mode" yaml:"mode"`
	Range         string   `json:"range,omitempty" yaml:"range,omitempty"`
	Commits       []string `json:"commits,omitempty" yaml:"commits,omitempty"`
	File          string   `json:"file,omitempty" yaml:"file,omitempty"`
	PathsIncluded []string `json:"pathsIncluded,omitempty" yaml:"pathsIncluded,omitempty"`
	PathsExcluded []string `json:"pathsExcluded,omitempty" yaml:"pathsExcluded,omitempty"`
}

// Stop is a stop as presented to the reviewer.
type Stop struct {
	ID       string         `json:"id" yaml:"id"`
	File     string         `json:"file" yaml:"file"`
	Revision string         `json:"revision,omitempty" yaml:"revision,omitempty"`
	Binary   bool           `json:"binary,omitempty" yaml:"binary,omitempty"`
	Before   tour.LineRange `json:"before" yaml:"before"`
	After    tour.LineRange `json:"after" yaml:"after"`
	Origins  []string       `json:"origins,omitempty" yaml:"origins,omitempty"`
	Related  []string       `json:"related,omitempty" yaml:"related,omitempty"`
}

// Location renders the stop as path:range.
func (s Stop) Location() string {
	if s.Binary {
		return s.File + " (binary)"
	}
	return s.File + ":" + s.After.String()
}

// Tour is a tour as presented to the reviewer.
type Tour struct {
	Description string `json:"description" yaml:"description"`
	Visible     bool   `json:"visible" yaml:"visible"`
	Stops       []Stop `json:"stops" yaml:"stops"`
}

// Summary counts what the report contains.
type Summary struct {
	Tours        int `json:"tours" yaml:"tours"`
	HiddenTours  int `json:"hiddenTours" yaml:"hiddenTours"`
	Stops        int `json:"stops" yaml:"stops"`
	InputTours   int `json:"inputTours" yaml:"inputTours"`
	MergedTours  int `json:"mergedTours" yaml:"mergedTours"`
	BinaryStops  int `json:"binaryStops" yaml:"binaryStops"`
	FilesTouched int `json:"filesTouched" yaml:"filesTouched"`
}

// Timing contains performance metrics.
type Timing struct {
	GitMs         int64 `json:"gitMs" yaml:"gitMs"`
	RestructureMs int64 `json:"restructureMs" yaml:"restructureMs"`
	TotalMs       int64 `json:"totalMs" yaml:"totalMs"`
}

// Report is the top-level output structure.
type Report struct {
	Tool         string    `json:"tool" yaml:"tool"`
	Version      string    `json:"version" yaml:"version"`
	RunID        string    `json:"runId" yaml:"runId"`
	Repo         RepoInfo  `json:"repo" yaml:"repo"`
	Inputs       InputInfo `json:"inputs" yaml:"inputs"`
	Relations    []string  `json:"relations,omitempty" yaml:"relations,omitempty"`
	Restructured bool      `json:"restructured" yaml:"restructured"`
	Summary      Summary   `json:"summary" yaml:"summary"`
	Tours        []Tour    `json:"tours" yaml:"tours"`
	Timing       Timing    `json:"timing" yaml:"timing"`
}
