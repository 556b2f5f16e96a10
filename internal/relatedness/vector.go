package relatedness

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
)

// Vector is a fixed-length tuple of relatedness scores, one per relation
// kind, in the priority order chosen by the caller. It is immutable.
type Vector struct {
	values []float64
}

// NewVector returns a Vector holding a copy of values. NaN has no place in
// the order, so a NaN score panics.
func NewVector(values ...float64) Vector {
	mustNotNaN(values)
	return Vector{values: append([]float64(nil), values...)}
}

func mustNotNaN(values []float64) {
	for i, x := range values {
		if math.IsNaN(x) {
			panic(fmt.Sprintf("relatedness: NaN score in slot %d", i))
		}
	}
}

// Len returns the number of dimensions.
func (v Vector) Len() int {
	return len(v.values)
}

// At returns the score in slot i.
func (v Vector) At(i int) float64 {
	return v.values[i]
}

// Values returns a copy of the scores.
func (v Vector) Values() []float64 {
	return append([]float64(nil), v.values...)
}

// Compare orders vectors by their first differing slot. A smaller raw score
// means more related, so v compares greater (+1) when its score is smaller
// and less (-1) when it is larger. Equal vectors compare 0.
//
// Compare panics if the dimensions differ.
func (v Vector) Compare(o Vector) int {
	mustSameLen(v, o)
	for i, a := range v.values {
		b := o.values[i]
		if a < b {
			return 1
		}
		if a > b {
			return -1
		}
	}
	return 0
}

// Equal reports whether every slot is numerically equal.
func (v Vector) Equal(o Vector) bool {
	if len(v.values) != len(o.values) {
		return false
	}
	for i, a := range v.values {
		if a != o.values[i] {
			return false
		}
	}
	return true
}

// Hash derives a hash from the full tuple, consistent with Equal.
func (v Vector) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, x := range v.values {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(normalizeZero(x)))
		h.Write(buf[:])
	}
	return h.Sum64()
}

// Key returns a string usable as a map key; equal vectors share a key.
func (v Vector) Key() string {
	parts := make([]string, len(v.values))
	for i, x := range v.values {
		parts[i] = strconv.FormatFloat(normalizeZero(x), 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (v Vector) String() string {
	return "(" + v.Key() + ")"
}

// normalizeZero maps -0 to +0 so both hash alike.
func normalizeZero(x float64) float64 {
	if x == 0 {
		return 0
	}
	return x
}

func mustSameLen(a, b Vector) {
	if len(a.values) != len(b.values) {
		panic(fmt.Sprintf("relatedness: vector dimension mismatch: %d vs %d", len(a.values), len(b.values)))
	}
}
