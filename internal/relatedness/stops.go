package relatedness

import (
	"fmt"
	"math"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/dshills/reviewtour/internal/tour"
)

// SameFileScore is 0 for stops in the same file and 1 otherwise.
func SameFileScore(a, b tour.Stop) float64 {
	if a.File == b.File {
		return 0
	}
	return 1
}

// TextualSimilarityScore is 1 minus the fraction of a's changed lines that
// fuzzy-match some changed line of b. Stops without changed lines score 1.
func TextualSimilarityScore(a, b tour.Stop) float64 {
	pattern := significantLines(a.Changes)
	data := significantLines(b.Changes)
	if len(pattern) == 0 || len(data) == 0 {
		return 1
	}
	matched := 0
	for _, line := range pattern {
		if len(fuzzy.Find(line, data)) > 0 {
			matched++
		}
	}
	return 1 - float64(matched)/float64(len(pattern))
}

// significantLines strips diff markers and surrounding space and drops lines
// too short to carry meaning.
func significantLines(changes []string) []string {
	out := make([]string, 0, len(changes))
	for _, c := range changes {
		c = strings.TrimSpace(strings.TrimLeft(c, "+- "))
		if len(c) < 3 {
			continue
		}
		out = append(out, c)
	}
	return out
}

// PositionFunc reports where a stop sits in the global review order.
type PositionFunc func(tour.Stop) int

// GlobalOrderScore scores the distance of two stops in the global order.
func GlobalOrderScore(position PositionFunc) ScoreFunc[tour.Stop] {
	return func(a, b tour.Stop) float64 {
		return math.Abs(float64(position(a) - position(b)))
	}
}

// StopRelations builds relations for the kinds that have a built-in stop
// scorer, in the order given. Kinds that need code analysis (call flow, data
// flow and the like) must be supplied by the caller as custom relations.
func StopRelations(kinds []RelationType, position PositionFunc) ([]Relation[tour.Stop], error) {
	rels := make([]Relation[tour.Stop], 0, len(kinds))
	for _, k := range kinds {
		switch k {
		case SameFile:
			rels = append(rels, Relation[tour.Stop]{Kind: k, Score: SameFileScore})
		case TextualSimilarity:
			rels = append(rels, Relation[tour.Stop]{Kind: k, Score: TextualSimilarityScore})
		case GlobalOrder:
			if position == nil {
				return nil, fmt.Errorf("relatedness: %s needs a position function", k)
			}
			rels = append(rels, Relation[tour.Stop]{Kind: k, Score: GlobalOrderScore(position)})
		default:
			return nil, fmt.Errorf("%w: no built-in stop scorer for %s", ErrUnknownRelation, k)
		}
	}
	return rels, nil
}

// NewStopScorer is NewScorer over StopRelations.
func NewStopScorer(kinds []RelationType, position PositionFunc) (*Scorer[tour.Stop], error) {
	rels, err := StopRelations(kinds, position)
	if err != nil {
		return nil, err
	}
	return NewScorer(rels...)
}
