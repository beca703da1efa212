package cmd

import (
	"context"

	"github.com/ardnew/xparse/cli/cmd/repl"
	"github.com/ardnew/xparse/log"
	"github.com/ardnew/xparse/pkg"
)

// Repl expands lines of TeX interactively. Definitions from the preambles and
// source files are available from the first line, and definitions made in
// the session persist until it ends.
type Repl struct{}

// Run executes the repl command.
func (*Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	r, err := definitions(ctx)
	if err != nil {
		return err
	}

	cacheDir := pkg.CacheDir()
	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok {
			cacheDir = dir
		}
	}

	return repl.Run(ctx, r, cacheDir, log.Default(), settingsFrom(ctx).Options()...)
}
