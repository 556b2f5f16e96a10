// Package tour defines the stops and tours a reviewer walks through.
//
// A [Stop] is one reviewable unit of change in a single file. Its identity is
// the file, the revision that produced it and its before and after fragments.
// Two different stops are mergeable when their after fragments overlap in
// the same file. A [Tour] is an ordered list of stops with a
// description and a visibility flag.
package tour
