package order

// PartialOrder is a partial order over T.
type PartialOrder[T any] interface {
	LessOrEqual(a, b T) bool
}

// Func adapts an ordinary function to a PartialOrder.
type Func[T any] func(a, b T) bool

// LessOrEqual calls f(a, b).
func (f Func[T]) LessOrEqual(a, b T) bool {
	return f(a, b)
}

// Equivalent reports whether a and b are mutually less-or-equal.
func Equivalent[T any](ord PartialOrder[T], a, b T) bool {
	return ord.LessOrEqual(a, b) && ord.LessOrEqual(b, a)
}

// StrictlyLess reports whether a <= b but not b <= a.
func StrictlyLess[T any](ord PartialOrder[T], a, b T) bool {
	return ord.LessOrEqual(a, b) && !ord.LessOrEqual(b, a)
}

type lexicographic[T any] struct {
	base PartialOrder[T]
}

// Lexicographic composes base into an order over sequences.
//
// The empty sequence is below every sequence. Otherwise elements are compared
// pairwise and the first index where they are not equivalent under base
// decides the result. When one sequence is a prefix of the other the shorter
// one is below.
func Lexicographic[T any](base PartialOrder[T]) PartialOrder[[]T] {
	return lexicographic[T]{base: base}
}

func (l lexicographic[T]) LessOrEqual(a, b []T) bool {
	for {
		if len(a) == 0 {
			return true
		}
		if len(b) == 0 {
			return false
		}
		if !Equivalent(l.base, a[0], b[0]) {
			return l.base.LessOrEqual(a[0], b[0])
		}
		a, b = a[1:], b[1:]
	}
}
