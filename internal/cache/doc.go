// Package cache stores parsed commit diffs on disk.
//
// An entry holds the []slicing.FileDiff of one commit as produced by the
// tour pipeline, after path filtering and redaction. It is addressed by a
// Key of commit SHA, diff option fingerprint and redaction mode, and lives
// under a two-character shard directory taken from the SHA:
//
//	$XDG_CACHE_HOME/reviewtour/3f/<digest>.json
//
// Every entry records SchemaVersion; entries of another version, expired
// entries and undecodable files are misses, counted by GetStats and removed
// by Prune.
package cache
