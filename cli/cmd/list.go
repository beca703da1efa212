package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/xparse/log"
	"github.com/ardnew/xparse/xparse"
)

// List prints the document commands defined by the preambles and, when
// source files are given, by the input documents.
type List struct {
	Format string `default:"native" enum:"native,json,yaml" help:"Output format (${enum})"                 short:"f"`
	Indent int    `default:"2"                              help:"Indent width for json and yaml output"`
	Where  string `                                         help:"Select definitions by expr predicate" short:"w"`

	stdout io.Writer
}

// Run executes the list command.
func (l *List) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	filter, err := xparse.CompileFilter(l.Where)
	if err != nil {
		return err
	}

	r, err := definitions(ctx)
	if err != nil {
		return err
	}

	defs, err := xparse.Select(r.All(), filter)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "list definitions",
		slog.String("format", l.Format),
		slog.String("where", l.Where),
		slog.Int("selected", len(defs)),
		slog.Int("defined", r.Len()),
	)

	w := l.stdout
	if w == nil {
		w = os.Stdout
	}

	switch l.Format {
	case "json":
		return xparse.FormatJSON(ctx, w, defs, l.Indent)
	case "yaml":
		return xparse.FormatYAML(ctx, w, defs, l.Indent)
	default:
		return xparse.Format(ctx, w, defs)
	}
}
