package redact

import (
	"path/filepath"
	"regexp"
	"strings"
)

const placeholder = "[REDACTED]"

// secretPatterns are regex heuristics for common secret types.
var secretPatterns = []*regexp.Regexp{
	// Generic API keys (long hex/base64 strings after common key patterns)
	regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`),
	// AWS access key IDs
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	// AWS secret access keys
	regexp.MustCompile(`(?i)(aws[_-]?secret[_-]?access[_-]?key)\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})["']?`),
	// Generic secrets/tokens/passwords in assignments
	regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`),
	// Bearer tokens
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
	// JWTs (three base64 segments separated by dots)
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	// Private key blocks
	regexp.MustCompile(`-----BEGIN\s+(RSA\s+)?PRIVATE KEY-----`),
	// GitHub tokens
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	// Slack tokens
	regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`),
	// Anthropic API keys
	regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`),
	// OpenAI API keys
	regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`),
	// Generic long hex strings that look like secrets (32+ chars in an assignment)
	regexp.MustCompile(`(?i)(key|secret|token)\s*[:=]\s*["']?[0-9a-f]{32,}["']?`),
}

// Secrets replaces detected secrets in text with [REDACTED]. Matching is
// done line by line, so the line count of text never changes.
func Secrets(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = secretsInLine(line)
	}
	return strings.Join(lines, "\n")
}

func secretsInLine(line string) string {
	for _, pat := range secretPatterns {
		line = pat.ReplaceAllLiteralString(line, placeholder)
	}
	return line
}

// ShouldRedactPath checks if a file path matches any of the redaction path patterns.
func ShouldRedactPath(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, path)
		if err == nil && matched {
			return true
		}
		// Also try matching just the filename for patterns like "**/.env"
		cleanPattern := strings.TrimPrefix(pattern, "**/")
		if cleanPattern != pattern {
			base := filepath.Base(path)
			matched, err = filepath.Match(cleanPattern, base)
			if err == nil && matched {
				return true
			}
		}
	}
	return false
}

// Diff redacts a unified diff without disturbing its structure. Hunk bodies
// of files matching redactPaths are blanked to their +/-/space marker
// followed by [REDACTED]; every other line has its secrets replaced. Headers
// and line counts are left intact so the diff still parses.
func Diff(diff string, redactPaths []string) string {
	lines := strings.Split(diff, "\n")
	var path string
	inHunk := false
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			inHunk = false
			path = headerPath(line)
			continue
		case !inHunk && strings.HasPrefix(line, "+++ b/"):
			path = strings.TrimPrefix(line, "+++ b/")
			continue
		case strings.HasPrefix(line, "@@ "):
			inHunk = true
			continue
		}
		if inHunk && line != "" && ShouldRedactPath(path, redactPaths) {
			lines[i] = line[:1] + placeholder
			continue
		}
		lines[i] = secretsInLine(line)
	}
	return strings.Join(lines, "\n")
}

func headerPath(line string) string {
	rest := strings.TrimPrefix(line, "diff --git a/")
	if i := strings.Index(rest, " b/"); i >= 0 {
		return rest[i+3:]
	}
	return ""
}
