package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/xparse/log"
)

// Expand expands the document commands of the input documents.
type Expand struct {
	Output string `default:"-" help:"Output file or '-' for stdout" short:"o" type:"path"`

	stdout io.Writer
}

// Run executes the expand command.
func (e *Expand) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	settings := settingsFrom(ctx)

	r, err := settings.Registry(ctx)
	if err != nil {
		return err
	}

	doc, err := readDocument(ctx)
	if err != nil {
		return err
	}

	out, err := r.Process(ctx, doc, settings.Options()...)
	if err != nil {
		return err
	}

	w, closer, err := e.writer()
	if err != nil {
		return err
	}
	defer closer()

	if _, err := io.WriteString(w, out); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("output", e.Output))
	}

	log.DebugContext(ctx, "expanded document",
		slog.Int("input_bytes", len(doc)),
		slog.Int("output_bytes", len(out)),
		slog.Int("definitions", r.Len()),
	)

	return nil
}

// writer returns the destination selected by e.Output.
func (e *Expand) writer() (io.Writer, func(), error) {
	if e.Output == "" || e.Output == stdinSource {
		if e.stdout != nil {
			return e.stdout, func() {}, nil
		}

		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(e.Output)
	if err != nil {
		return nil, nil, ErrWriteOutput.Wrap(err).With(slog.String("output", e.Output))
	}

	return f, func() { _ = f.Close() }, nil
}
