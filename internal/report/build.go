package report

import (
	"github.com/google/uuid"

	"github.com/dshills/reviewtour/internal/relatedness"
	"github.com/dshills/reviewtour/internal/tour"
)

// Tool is the name reported in every Report.
const Tool = "reviewtour"

// DefaultMaxRelated caps the related IDs listed per stop.
const DefaultMaxRelated = 3

// Options controls how a report is assembled.
type Options struct {
	Version    string
	Repo       RepoInfo
	Inputs     InputInfo
	Relations  []relatedness.RelationType
	InputTours int
	// MaxRelated caps Related per stop; zero means DefaultMaxRelated and a
	// negative value disables the annotation.
	MaxRelated int
}

// Build assembles a report for tours. restructured records whether the
// tours are the result of a restructuring pass.
func Build(opts Options, tours []tour.Tour, restructured bool) (*Report, error) {
	r := &Report{
		Tool:         Tool,
		Version:      opts.Version,
		RunID:        uuid.NewString(),
		Repo:         opts.Repo,
		Inputs:       opts.Inputs,
		Restructured: restructured,
		Tours:        make([]Tour, 0, len(tours)),
	}
	for _, k := range opts.Relations {
		r.Relations = append(r.Relations, k.String())
	}

	related, err := relatedIDs(tours, opts)
	if err != nil {
		return nil, err
	}

	files := make(map[string]bool)
	for ti, t := range tours {
		rt := Tour{Description: t.Description, Visible: t.Visible, Stops: make([]Stop, 0, len(t.Stops))}
		for si, s := range t.Stops {
			rt.Stops = append(rt.Stops, Stop{
				ID:       s.ID(),
				File:     s.File,
				Revision: s.Revision,
				Binary:   s.Binary,
				Before:   s.Before,
				After:    s.After,
				Origins:  s.Origins,
				Related:  related[ti][si],
			})
			files[s.File] = true
			if s.Binary {
				r.Summary.BinaryStops++
			}
		}
		if !t.Visible {
			r.Summary.HiddenTours++
		}
		r.Summary.Stops += len(t.Stops)
		r.Tours = append(r.Tours, rt)
	}
	r.Summary.Tours = len(tours)
	r.Summary.FilesTouched = len(files)
	r.Summary.InputTours = opts.InputTours
	if opts.InputTours > len(tours) {
		r.Summary.MergedTours = opts.InputTours - len(tours)
	}
	return r, nil
}

// relatedIDs returns, per tour and stop, the IDs of the Pareto-closest other
// stops across all tours. Each ordered pair of stops is scored once.
func relatedIDs(tours []tour.Tour, opts Options) ([][][]string, error) {
	out := make([][][]string, len(tours))
	for i, t := range tours {
		out[i] = make([][]string, len(t.Stops))
	}
	limit := opts.MaxRelated
	if limit == 0 {
		limit = DefaultMaxRelated
	}
	if limit < 0 || len(opts.Relations) == 0 {
		return out, nil
	}

	var flat []tour.Stop
	position := make(map[tour.Key]int)
	for _, t := range tours {
		for _, s := range t.Stops {
			if _, ok := position[s.Key()]; !ok {
				position[s.Key()] = len(flat)
			}
			flat = append(flat, s)
		}
	}
	scorer, err := relatedness.NewStopScorer(opts.Relations, func(s tour.Stop) int {
		return position[s.Key()]
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(flat))
	for i, s := range flat {
		ids[i] = s.ID()
	}
	others := make([]tour.Stop, 0, len(flat))
	n := 0
	for ti, t := range tours {
		for si, s := range t.Stops {
			others = append(append(others[:0], flat[:n]...), flat[n+1:]...)
			for _, idx := range relatedness.ClosestN(s, others, scorer, limit) {
				if idx >= n {
					idx++
				}
				out[ti][si] = append(out[ti][si], ids[idx])
			}
			n++
		}
	}
	return out, nil
}
