// Package restructure merges stops that cover the same region of a file
// across the per-commit tours produced by slicing, so a reviewer does not look
// at the same code twice.
//
// Restructuring runs in two phases. The full-resolution phase dissolves a
// tour only when every one of its stops can move into another tour, which
// keeps small self-contained commits intact unless they fold away cleanly.
// The best-effort phase then merges whatever individual stops still have a
// match. Matches are searched in later tours first, then the same tour, then
// earlier tours nearest first.
//
// An [Engine] is not safe for concurrent use on the same tour list; each call
// to [Engine.Restructure] owns its working copies exclusively.
package restructure
