package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/xparse/log"
	"github.com/ardnew/xparse/pkg"
	"github.com/ardnew/xparse/tex"
	"github.com/ardnew/xparse/xparse"
)

// Settings are the expansion settings shared by all commands.
type Settings struct {
	// Preambles are loaded, in order, into every new registry.
	Preambles []string
	// Path is the search path used to resolve Preambles.
	Path []string
	// MaxMacros limits the command expansions of one document.
	MaxMacros int
	// MaxBuffer limits the expansion buffer in bytes; zero is unlimited.
	MaxBuffer int
	// Strict disables recognition of literal sentinel text.
	Strict bool
}

type settingsKey struct{}

// WithSettings returns a new context.Context containing s.
func WithSettings(ctx context.Context, s Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

// settingsFrom retrieves the Settings stored in ctx by WithSettings, or the
// zero Settings.
func settingsFrom(ctx context.Context) Settings {
	s, _ := ctx.Value(settingsKey{}).(Settings)

	return s
}

// Options returns the scanner options selected by s.
func (s Settings) Options() []tex.Option {
	return []tex.Option{
		tex.WithMaxMacros(s.MaxMacros),
		tex.WithMaxBuffer(s.MaxBuffer),
	}
}

// Registry returns a new registry holding the builtin commands and the
// definitions of every preamble in s.
func (s Settings) Registry(ctx context.Context) (*xparse.Registry, error) {
	r := xparse.NewRegistry(
		xparse.WithLogger(log.Default()),
		xparse.WithStrictSentinels(s.Strict),
	)

	for _, name := range s.Preambles {
		path, ok := pkg.FindFile(name, s.Path)
		if !ok {
			return nil, ErrPreambleNotFound.With(
				slog.String("name", name),
				slog.Any("path", s.Path),
			)
		}

		if err := r.LoadFile(ctx, path, s.Options()...); err != nil {
			return nil, err
		}
	}

	log.DebugContext(ctx, "registry ready",
		slog.Int("preambles", len(s.Preambles)),
		slog.Int("definitions", r.Len()),
		slog.Bool("strict", s.Strict),
	)

	return r, nil
}

// definitions returns the registry of the settings in ctx after expanding the
// source files in ctx, if any, with the expansion output discarded.
func definitions(ctx context.Context) (*xparse.Registry, error) {
	settings := settingsFrom(ctx)

	r, err := settings.Registry(ctx)
	if err != nil {
		return nil, err
	}

	if sourceFilesFrom(ctx) == nil {
		return r, nil
	}

	doc, err := readDocument(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := r.Process(ctx, doc, settings.Options()...); err != nil {
		return nil, err
	}

	return r, nil
}
