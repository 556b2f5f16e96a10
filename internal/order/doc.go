// Package order provides partial-order primitives that are independent of the
// element type.
//
// A [PartialOrder] has a single primitive, LessOrEqual. Callers supply lawful
// orders (reflexive, antisymmetric, transitive); nothing here verifies that.
//
// [Lexicographic] lifts an order on T to an order on []T, and [MinElements]
// extracts the Pareto-minimal items of a collection under any partial order.
package order
