// Package gitctx extracts commits and their diffs from a git repository.
//
// [ListCommits] returns the ordered list of commits in a revision range,
// oldest first, and [ResolveCommits] does the same for explicit revisions.
// [CommitDiff] shells out to git for the diff of one commit against its first
// parent. Results are filtered by include/exclude glob patterns and truncated
// to a configurable maximum byte size.
package gitctx
