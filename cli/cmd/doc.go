// Package cmd implements the xparse subcommands: expand, list, spec, init and
// repl.
//
// Global settings and the input documents reach each command through its
// context (see [WithSettings] and [WithSourceFiles]).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)
