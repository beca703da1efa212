package xparse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes defs as definition commands that can be loaded back as a
// TeX preamble. Descriptions are written as comments.
func Format(_ context.Context, w io.Writer, defs []Definition) error {
	for _, def := range defs {
		if def.Description != "" {
			for line := range strings.Lines(def.Description) {
				if _, err := fmt.Fprintf(w, "%% %s\n", strings.TrimRight(line, "\n")); err != nil {
					return err
				}
			}
		}

		_, err := fmt.Fprintf(w, "\\%s{\\%s}{%s}{%s}\n",
			ModeNew.Command(), def.Name, def.Spec, def.Body)
		if err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes defs as a JSON preamble document.
func FormatJSON(_ context.Context, w io.Writer, defs []Definition, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(makeDocument(defs), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(makeDocument(defs))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes defs as a YAML preamble document.
func FormatYAML(ctx context.Context, w io.Writer, defs []Definition, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, makeDocument(defs), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// document is the structured preamble format shared by YAML, TOML and JSON.
type document struct {
	Commands []entry `json:"commands" toml:"commands" yaml:"commands"`
}

type entry struct {
	Name        string `json:"name"                  toml:"name"                  yaml:"name"`
	Spec        string `json:"spec"                  toml:"spec"                  yaml:"spec"`
	Body        string `json:"body"                  toml:"body"                  yaml:"body"`
	Description string `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`
}

func makeDocument(defs []Definition) document {
	doc := document{Commands: make([]entry, len(defs))}

	for i, def := range defs {
		doc.Commands[i] = entry{
			Name:        def.Name,
			Spec:        def.Spec.String(),
			Body:        def.Body,
			Description: def.Description,
		}
	}

	return doc
}
