// Package config loads and merges reviewtour configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (REVIEWTOUR_FORMAT, REVIEWTOUR_SEPARATOR,
//     REVIEWTOUR_RELATIONS, REVIEWTOUR_CONTEXT_LINES, REVIEWTOUR_MAX_DIFF_BYTES)
//  3. Config file ($XDG_CONFIG_HOME/reviewtour/config.json)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to write it back, and
// [SetField] to update a single key by name.
package config
