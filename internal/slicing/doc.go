// Package slicing turns per-commit unified diffs into tours.
//
// Each commit becomes one tour whose stops are the commit's hunks; binary
// files become whole-file stops. Before restructuring, every stop's fragment
// is traced through the commits that follow it so that stops produced by
// different commits describe the same revision and can be compared.
package slicing
