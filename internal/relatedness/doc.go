// Package relatedness quantifies how related two review items are along
// several kinds of relation.
//
// A [Scorer] is built from a caller-ordered list of [Relation] values; each
// contributes one slot to the resulting [Vector]. Smaller slot values mean
// stronger relatedness. [Vector.Compare] is a total order meant for sorting
// and keying, and is deliberately inverted (the more related vector compares
// greater). [ParetoOrder] is the separate component-wise partial order used
// with order.MinElementsSorted to pick the closest candidates.
package relatedness
