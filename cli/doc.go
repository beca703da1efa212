// Package cli contains the command line interface for xparse.
//
// # Usage
//
// The default command expands the document commands in its input:
//
//	xparse -i macros.tex chapter.tex > chapter.out.tex
//	echo '\greet{World}' | xparse -i greet.yaml
//
// Preamble files named by --preamble are resolved against the directories of
// --path followed by those of $XPARSE_PATH, and may be written in TeX, YAML,
// TOML or JSON (see [xparse.SyntaxOf]).
//
// # Configuration
//
// Flags may be set in config.yaml (or config.json) within the user
// configuration directory. The init command writes the current flag values to
// that file:
//
//	xparse --max-macros=500 --log-level=debug init
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o xparse .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/xparse/pprof)
package cli
