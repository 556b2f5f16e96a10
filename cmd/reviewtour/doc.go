// Reviewtour turns a stretch of git history into review tours.
//
// Every commit becomes a tour with one stop per changed hunk. Stops are
// traced onto the newest revision, and tours whose stops cover the same code
// are merged so each region is reviewed once, with the merged descriptions
// kept side by side.
//
// Usage:
//
//	reviewtour tour range origin/main..HEAD   # tours for a revision range
//	reviewtour tour commits <sha>...          # tours for explicit commits
//	reviewtour tour file tours.yaml           # restructure a tour document
//	reviewtour config show                    # print effective configuration
package main
