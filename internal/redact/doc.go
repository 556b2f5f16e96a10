// Package redact removes secrets from commit diffs before they are cached on
// disk or written out as tour documents.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private keys, AWS access key IDs and secret access keys, bearer
// tokens, and provider-specific tokens (Anthropic, OpenAI, GitHub, Slack).
//
// Path-based redaction is also supported: hunks of files whose paths match
// configured glob patterns have every body line replaced with [REDACTED].
// Redaction never adds or removes lines, so redacted diffs slice into the
// same stops as the originals.
package redact
