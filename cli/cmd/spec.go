package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ardnew/xparse/log"
	"github.com/ardnew/xparse/xparse"
)

// Spec parses an argument specification and describes each argument.
type Spec struct {
	Spec string `arg:"" help:"Argument specification, e.g. 's m O{default}'" name:"spec"`

	stdout io.Writer
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Run executes the spec command.
func (s *Spec) Run(ctx context.Context) error {
	spec, err := xparse.ParseSpecString(s.Spec)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "parsed spec",
		slog.String("input", s.Spec),
		slog.String("canonical", spec.String()),
	)

	w := s.stdout
	if w == nil {
		w = os.Stdout
	}

	_, err = fmt.Fprintf(w, "{%s}\n%s\n", spec, describe(spec))

	return err
}

// describe renders one table row per argument of spec.
func describe(spec xparse.Spec) string {
	rows := make([][]string, len(spec))

	for i, arg := range spec {
		var detail string

		switch arg.Type {
		case xparse.OptionalWithDefault:
			detail = "default " + strconv.Quote(arg.Default)
		case xparse.TokenFlag:
			detail = "token " + strconv.Quote(arg.Token)
		case xparse.OptionalNoDefault:
			detail = "absent: " + xparse.NoValue.String()
		case xparse.BooleanFlag:
			detail = xparse.BooleanTrue.String() + " | " + xparse.BooleanFalse.String()
		}

		rows[i] = []string{
			"#" + strconv.Itoa(i+1),
			string(arg.Type.Letter()),
			arg.Type.String(),
			detail,
		}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		}).
		Headers("PARAM", "LETTER", "TYPE", "DETAIL").
		Rows(rows...).
		String()
}
