package gitctx

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// DiffOptions controls how diffs are gathered.
type DiffOptions struct {
	ContextLines int
	MaxDiffBytes int
	Include      []string
	Exclude      []string
}

// CacheKey returns the part of the options that changes a diff's content.
func (o DiffOptions) CacheKey() string {
	return fmt.Sprintf("U%d:max%d:inc=%s:exc=%s", o.ContextLines, o.MaxDiffBytes,
		strings.Join(o.Include, ","), strings.Join(o.Exclude, ","))
}

// RepoMeta contains git repository metadata.
type RepoMeta struct {
	Root   string
	Head   string
	Branch string
}

// GetRepoMeta collects repository metadata from git.
func GetRepoMeta() (RepoMeta, error) {
	root, err := gitOutput("rev-parse", "--show-toplevel")
	if err != nil {
		return RepoMeta{}, fmt.Errorf("not a git repository: %w", err)
	}
	head, err := gitOutput("rev-parse", "HEAD")
	if err != nil {
		head = "" // new repo with no commits
	}
	branch, err := gitOutput("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		branch = ""
	}
	return RepoMeta{
		Root:   strings.TrimSpace(root),
		Head:   strings.TrimSpace(head),
		Branch: strings.TrimSpace(branch),
	}, nil
}

// CommitInfo holds a commit SHA and its subject line.
type CommitInfo struct {
	SHA     string
	Subject string
}

// ListCommits returns commits in a revision range, oldest first.
// If mergeBase is true, ".." is converted to "..." for merge-base comparison.
func ListCommits(revRange string, mergeBase bool) ([]CommitInfo, error) {
	listRange := revRange
	if mergeBase && strings.Contains(revRange, "..") && !strings.Contains(revRange, "...") {
		listRange = strings.Replace(revRange, "..", "...", 1)
	}

	// Output format: "commit <sha>\n<subject>\n" per commit.
	out, err := gitOutput("rev-list", "--reverse", "--no-merges", "--format=%s", listRange)
	if err != nil {
		return nil, fmt.Errorf("git rev-list %s: %w", revRange, err)
	}
	return parseRevList(out), nil
}

func parseRevList(out string) []CommitInfo {
	out = strings.TrimSpace(out)
	if out == "" {
		return nil
	}

	lines := strings.Split(out, "\n")
	var commits []CommitInfo
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "commit ") {
			continue
		}
		sha := strings.TrimPrefix(line, "commit ")
		var subject string
		if i+1 < len(lines) && !strings.HasPrefix(lines[i+1], "commit ") {
			subject = strings.TrimSpace(lines[i+1])
			i++ // skip the subject line
		}
		commits = append(commits, CommitInfo{
			SHA:     sha,
			Subject: subject,
		})
	}
	return commits
}

// ResolveCommits resolves explicit revisions to commits, keeping the given
// order.
func ResolveCommits(revs []string) ([]CommitInfo, error) {
	commits := make([]CommitInfo, 0, len(revs))
	for _, rev := range revs {
		out, err := gitOutput("log", "-1", "--format=%H%n%s", rev, "--")
		if err != nil {
			return nil, fmt.Errorf("git log %s: %w", rev, err)
		}
		parts := strings.SplitN(strings.TrimSpace(out), "\n", 2)
		info := CommitInfo{SHA: parts[0]}
		if len(parts) == 2 {
			info.Subject = parts[1]
		}
		commits = append(commits, info)
	}
	return commits, nil
}

// CommitDiff returns the diff of a commit against its first parent. Root
// commits are diffed against the empty tree.
func CommitDiff(sha string, opts DiffOptions) (string, error) {
	args := buildDiffArgs(opts)
	diff, err := gitOutput(append([]string{"diff", "--find-renames", sha + "^", sha}, args...)...)
	if err != nil {
		// Might be the initial commit
		showArgs := append([]string{"show", "--format=", "--find-renames", sha}, args...)
		diff, err = gitOutput(showArgs...)
		if err != nil {
			return "", fmt.Errorf("git show %s: %w", sha, err)
		}
	}
	return filterDiff(diff, opts), nil
}

func buildDiffArgs(opts DiffOptions) []string {
	var args []string
	if opts.ContextLines > 0 {
		args = append(args, fmt.Sprintf("-U%d", opts.ContextLines))
	}
	args = append(args, "--")
	if len(opts.Include) > 0 {
		for _, p := range opts.Include {
			if p != "**/*" {
				args = append(args, p)
			}
		}
	}
	return args
}

func filterDiff(diff string, opts DiffOptions) string {
	// Filter excludes before truncating so excluded files don't consume the byte budget
	if len(opts.Exclude) > 0 {
		diff = filterExcluded(diff, opts.Exclude)
	}
	if opts.MaxDiffBytes > 0 && len(diff) > opts.MaxDiffBytes {
		diff = truncateSections(diff, opts.MaxDiffBytes)
	}
	return diff
}

// truncateSections keeps whole file sections up to max bytes so the slicer
// never sees a half-written hunk.
func truncateSections(diff string, max int) string {
	var b strings.Builder
	for _, section := range splitDiffSections(diff) {
		if b.Len()+len(section) > max {
			break
		}
		b.WriteString(section)
	}
	return b.String()
}

// ExtractFiles returns the paths touched by a diff, in order.
func ExtractFiles(diff string) []string {
	var files []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "+++ b/") {
			f := strings.TrimPrefix(line, "+++ b/")
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files
}

func filterExcluded(diff string, excludes []string) string {
	sections := splitDiffSections(diff)
	var kept []string
	for _, section := range sections {
		path := extractPathFromSection(section)
		if path == "" || !MatchesAny(path, excludes) {
			kept = append(kept, section)
		}
	}
	return strings.Join(kept, "")
}

func splitDiffSections(diff string) []string {
	var sections []string
	lines := strings.Split(diff, "\n")
	var current strings.Builder
	for _, line := range lines {
		if strings.HasPrefix(line, "diff --git") && current.Len() > 0 {
			sections = append(sections, current.String())
			current.Reset()
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	if current.Len() > 0 {
		sections = append(sections, current.String())
	}
	return sections
}

// extractPathFromSection prefers the new path and falls back to the git
// header, which also covers deleted and binary files.
func extractPathFromSection(section string) string {
	for _, line := range strings.Split(section, "\n") {
		if strings.HasPrefix(line, "+++ b/") {
			return strings.TrimPrefix(line, "+++ b/")
		}
	}
	first, _, _ := strings.Cut(section, "\n")
	if rest, ok := strings.CutPrefix(first, "diff --git a/"); ok {
		if i := strings.Index(rest, " b/"); i >= 0 {
			return rest[i+3:]
		}
	}
	return ""
}

// MatchesAny returns true if the path matches any of the given glob patterns.
func MatchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, path)
		if err == nil && matched {
			return true
		}
		clean := strings.TrimPrefix(pattern, "**/")
		if clean != pattern {
			matched, err = filepath.Match(clean, filepath.Base(path))
			if err == nil && matched {
				return true
			}
			matched, err = filepath.Match(clean, path)
			if err == nil && matched {
				return true
			}
		}
		if dir, ok := strings.CutSuffix(pattern, "/**"); ok {
			prefix := strings.TrimPrefix(dir, "**/")
			if strings.HasPrefix(path, prefix+"/") || strings.Contains(path, "/"+prefix+"/") {
				return true
			}
		}
	}
	return false
}

func gitOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("%s: %s", err, string(exitErr.Stderr))
		}
		return "", err
	}
	return string(out), nil
}
