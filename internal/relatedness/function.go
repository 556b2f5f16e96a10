package relatedness

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dshills/reviewtour/internal/order"
)

// Function determines how related two items are.
type Function[T, V any] interface {
	DetermineRelatedness(a, b T) V
}

// ScoreFunc scores one relation kind for a pair of items. Smaller is more
// related.
type ScoreFunc[T any] func(a, b T) float64

// Relation binds a relation kind to the hook that scores it.
type Relation[T any] struct {
	Kind  RelationType
	Score ScoreFunc[T]
}

// Scorer assembles per-relation scores into a Vector in the order its
// relations were given.
type Scorer[T any] struct {
	relations []Relation[T]
}

// NewScorer returns a Scorer over the given relations. The first relation is
// the primary key of the resulting vectors, the second the secondary, and so
// on.
func NewScorer[T any](relations ...Relation[T]) (*Scorer[T], error) {
	if len(relations) == 0 {
		return nil, errors.New("relatedness: scorer needs at least one relation")
	}
	seen := make(map[RelationType]bool, len(relations))
	for _, r := range relations {
		if r.Score == nil {
			return nil, fmt.Errorf("relatedness: relation %s has no score function", r.Kind)
		}
		if seen[r.Kind] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRelation, r.Kind)
		}
		seen[r.Kind] = true
	}
	return &Scorer[T]{relations: append([]Relation[T](nil), relations...)}, nil
}

// Kinds returns the relation kinds in slot order.
func (s *Scorer[T]) Kinds() []RelationType {
	kinds := make([]RelationType, len(s.relations))
	for i, r := range s.relations {
		kinds[i] = r.Kind
	}
	return kinds
}

// DetermineRelatedness scores a against b along every relation. A score
// function returning NaN panics.
func (s *Scorer[T]) DetermineRelatedness(a, b T) Vector {
	values := make([]float64, len(s.relations))
	for i, r := range s.relations {
		values[i] = r.Score(a, b)
	}
	mustNotNaN(values)
	return Vector{values: values}
}

// ParetoOrder is the component-wise order: v <= o when no slot of v is
// larger than the same slot of o. It panics on dimension mismatch.
var ParetoOrder order.PartialOrder[Vector] = order.Func[Vector](func(v, o Vector) bool {
	mustSameLen(v, o)
	for i, a := range v.values {
		if a > o.values[i] {
			return false
		}
	}
	return true
})

type scored struct {
	index int
	vec   Vector
}

// Closest returns the indexes of the candidates whose relatedness to from is
// Pareto-minimal, most related first by Vector.Compare. Ties keep candidate
// order.
func Closest[T any](from T, candidates []T, fn Function[T, Vector]) []int {
	return ClosestN(from, candidates, fn, -1)
}

// ClosestN is Closest stopping after the n most related results; a negative
// n returns them all. Every candidate is scored once.
//
// The total order of Vector.Compare is a linear extension of ParetoOrder,
// so after sorting by it a candidate can only be dominated by one before it.
func ClosestN[T any](from T, candidates []T, fn Function[T, Vector], n int) []int {
	all := make([]scored, len(candidates))
	for i, c := range candidates {
		all[i] = scored{index: i, vec: fn.DetermineRelatedness(from, c)}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].vec.Compare(all[j].vec) > 0
	})
	byVec := order.Func[scored](func(a, b scored) bool {
		return ParetoOrder.LessOrEqual(a.vec, b.vec)
	})
	minimal := order.MinElementsSorted(all, byVec, n)
	idx := make([]int, len(minimal))
	for i, s := range minimal {
		idx[i] = s.index
	}
	return idx
}

// Ranked returns all candidate indexes sorted from most to least related.
func Ranked[T any](from T, candidates []T, fn Function[T, Vector]) []int {
	all := make([]scored, len(candidates))
	for i, c := range candidates {
		all[i] = scored{index: i, vec: fn.DetermineRelatedness(from, c)}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].vec.Compare(all[j].vec) > 0
	})
	idx := make([]int, len(all))
	for i, s := range all {
		idx[i] = s.index
	}
	return idx
}
