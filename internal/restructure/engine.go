package restructure

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dshills/reviewtour/internal/tour"
)

// DefaultSeparator joins the descriptions of merged tours.
const DefaultSeparator = " + "

// Engine restructures tour lists.
type Engine struct {
	separator string
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeparator sets the string used to join merged descriptions.
func WithSeparator(sep string) Option {
	return func(e *Engine) {
		e.separator = sep
	}
}

// WithLogger sets the logger receiving debug-level merge traces.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		separator: DefaultSeparator,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Restructure merges mergeable stops across tours and drops tours left
// empty. It returns false when there was nothing to do: at most one
// non-empty tour, or no merge in either phase. Callers then keep the input.
func (e *Engine) Restructure(tours []tour.Tour) ([]tour.Tour, bool) {
	r := newRun(tours, e.logger)
	if len(r.tours) <= 1 {
		return nil, false
	}

	merged := r.resolveFully()
	if r.mergeRemaining() {
		merged = true
	}
	e.logger.Debug("restructured tours",
		"input", len(tours), "output", len(r.tours), "merged", merged)
	if !merged {
		return nil, false
	}
	return r.build(e.separator), true
}

// Restructure runs a default Engine.
func Restructure(tours []tour.Tour) ([]tour.Tour, bool) {
	return New().Restructure(tours)
}

// builder is the mutable working copy of one tour.
type builder struct {
	descriptions []string
	stops        []tour.Stop
	visible      bool
}

func (b *builder) addDescriptions(ds []string) {
	for _, d := range ds {
		if !containsString(b.descriptions, d) {
			b.descriptions = append(b.descriptions, d)
		}
	}
}

func (b *builder) removeStop(j int) {
	b.stops = append(b.stops[:j], b.stops[j+1:]...)
}

// location addresses a stop in the working list.
type location struct {
	tour, stop int
}

type run struct {
	tours  []*builder
	logger *slog.Logger
}

func newRun(tours []tour.Tour, logger *slog.Logger) *run {
	r := &run{logger: logger}
	for _, t := range tours {
		if t.Empty() {
			continue
		}
		r.tours = append(r.tours, &builder{
			descriptions: []string{t.Description},
			stops:        append([]tour.Stop(nil), t.Stops...),
			visible:      t.Visible,
		})
	}
	return r
}

// resolveFully is the full-resolution phase.
func (r *run) resolveFully() bool {
	merged := false
	for i := 0; i < len(r.tours); {
		if !r.canResolveFully(i) {
			i++
			continue
		}
		src := r.tours[i]
		for _, s := range src.stops {
			loc, ok := r.findMatch(s, i, location{tour: i, stop: -1}, false)
			if !ok {
				panic(fmt.Sprintf("restructure: match for %s vanished during full resolution", s))
			}
			r.mergeInto(loc, s, src)
		}
		r.logger.Debug("dissolved tour", "index", i, "description", strings.Join(src.descriptions, " | "))
		r.removeTour(i)
		merged = true
	}
	return merged
}

func (r *run) canResolveFully(i int) bool {
	for _, s := range r.tours[i].stops {
		if _, ok := r.findMatch(s, i, location{tour: i, stop: -1}, false); !ok {
			return false
		}
	}
	return true
}

// mergeRemaining is the best-effort phase.
func (r *run) mergeRemaining() bool {
	merged := false
	for i := 0; i < len(r.tours); {
		src := r.tours[i]
		for j := 0; j < len(src.stops); {
			s := src.stops[j]
			loc, ok := r.findMatch(s, i, location{tour: i, stop: j}, true)
			if !ok {
				j++
				continue
			}
			src.removeStop(j)
			if loc.tour == i && loc.stop > j {
				loc.stop--
			}
			r.mergeInto(loc, s, src)
			merged = true
		}
		if len(src.stops) == 0 {
			r.logger.Debug("dropped emptied tour", "index", i)
			r.removeTour(i)
			continue
		}
		i++
	}
	return merged
}

// findMatch returns the first stop equal to or mergeable with s, searching tours after
// i in ascending order, then tour i itself when sameTour is set (skipping the
// stop at self), then tours before i nearest first.
func (r *run) findMatch(s tour.Stop, i int, self location, sameTour bool) (location, bool) {
	for k := i + 1; k < len(r.tours); k++ {
		if j, ok := matchIn(r.tours[k], s, -1); ok {
			return location{tour: k, stop: j}, true
		}
	}
	if sameTour {
		if j, ok := matchIn(r.tours[i], s, self.stop); ok {
			return location{tour: i, stop: j}, true
		}
	}
	for k := i - 1; k >= 0; k-- {
		if j, ok := matchIn(r.tours[k], s, -1); ok {
			return location{tour: k, stop: j}, true
		}
	}
	return location{}, false
}

func matchIn(b *builder, s tour.Stop, skip int) (int, bool) {
	for j, other := range b.stops {
		if j == skip {
			continue
		}
		if other.Equal(s) || other.CanMergeWith(s) {
			return j, true
		}
	}
	return 0, false
}

// mergeInto merges s into the stop at loc. A target equal to s only takes
// over its history. A target in another tour absorbs the description
// fragments of src.
func (r *run) mergeInto(loc location, s tour.Stop, src *builder) {
	dst := r.tours[loc.tour]
	target := dst.stops[loc.stop]
	if target.Equal(s) {
		dst.stops[loc.stop] = target.Absorb(s)
	} else {
		dst.stops[loc.stop] = target.Merge(s)
	}
	if dst != src {
		dst.addDescriptions(src.descriptions)
	}
	r.logger.Debug("merged stop", "stop", s.String(), "into", target.String(), "tour", loc.tour)
}

func (r *run) removeTour(i int) {
	if i < 0 || i >= len(r.tours) {
		panic(fmt.Sprintf("restructure: removing tour %d of %d", i, len(r.tours)))
	}
	r.tours = append(r.tours[:i], r.tours[i+1:]...)
}

func (r *run) build(sep string) []tour.Tour {
	out := make([]tour.Tour, 0, len(r.tours))
	for _, b := range r.tours {
		if len(b.stops) == 0 {
			continue
		}
		out = append(out, tour.New(strings.Join(b.descriptions, sep), b.visible, b.stops...))
	}
	return out
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
