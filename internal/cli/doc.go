// Package cli wires together the Cobra command tree for the reviewtour binary.
//
// It defines the root command and all subcommands (tour, config, cache,
// version), binds flags, reads configuration, drives the slicing and
// restructuring pipeline, and returns deterministic exit codes.
package cli
