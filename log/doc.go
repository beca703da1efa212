// Package log provides a concurrency-safe structured logger built on
// [log/slog].
//
// Loggers are configured once at creation time with functional options and
// are cheap to derive from one another:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
//	logger.Debug("command defined", slog.String("name", "foo"))
//
// # Levels
//
// In addition to the four [log/slog] levels the package defines
// [LevelTrace], used by the expander for per-splice diagnostics.
//
// # Formats
//
// [FormatJSON] (default) and [FormatText] map onto the standard slog
// handlers. When pretty printing is enabled ([WithPretty]) both formats are
// rendered by colorized handlers that drop quoting; colors are chosen by
// lipgloss and degrade to plain text when the output is not a terminal.
//
// # Default logger
//
// Package-level functions ([Debug], [Info], [Warn], [Error] and their
// Context variants) write through a default logger that is reconfigured with
// [Config]. Context-unaware variants use [DefaultContextProvider].
package log
