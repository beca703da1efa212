package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/xparse/log"
)

// logFormat configures the logger format as a side effect of parsing via
// encoding.TextUnmarshaler, early enough to affect errors reported by kong.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the logger level as a side effect of parsing via
// encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"text"    enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                         help:"Set timestamp format."`
	Caller     bool      `default:"false"                           help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                            help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

// start applies the complete logger configuration, including the flags that
// scan does not handle.
func (f *logConfig) start(ctx context.Context) (stop func()) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)

	return func() { log.TraceContext(ctx, "logger stopped") }
}

// scan performs an early pass over command-line arguments to apply logger
// flags before kong begins parsing, so that the logger is configured
// regardless of flag position. Boolean flags such as --log-pretty never pass
// through encoding.TextUnmarshaler and are only applied here and in start.
func (f *logConfig) scan(args []string) {
	// value returns the flag's assigned value or consumes the next argument.
	value := func(i *int, v string, assigned bool) string {
		if !assigned && *i+1 < len(args) && !strings.HasPrefix(args[*i+1], "-") {
			*i++

			return args[*i]
		}

		return v
	}

	// flag returns the boolean value of a negatable flag.
	flag := func(v string, assigned, negated bool) (bool, bool) {
		b := true
		if assigned {
			var err error
			if b, err = strconv.ParseBool(v); err != nil {
				return false, false
			}
		}

		return b != negated, true
	}

	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			return
		}

		name, v, assigned := strings.Cut(args[i], "=")
		name, negated := strings.CutPrefix(name, "--no-")

		if !negated {
			var ok bool
			if name, ok = strings.CutPrefix(name, "--"); !ok {
				continue
			}
		}

		switch name {
		case "log-level":
			_ = f.Level.UnmarshalText([]byte(value(&i, v, assigned)))

		case "log-format":
			_ = f.Format.UnmarshalText([]byte(value(&i, v, assigned)))

		case "log-pretty":
			if b, ok := flag(v, assigned, negated); ok {
				f.Pretty = b
				log.Config(log.WithPretty(b))
			}

		case "log-caller":
			if b, ok := flag(v, assigned, negated); ok {
				f.Caller = b
				log.Config(log.WithCaller(b))
			}
		}
	}
}
