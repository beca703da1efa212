package xparse_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ardnew/xparse/tex"
	"github.com/ardnew/xparse/xparse"
)

const yamlPreamble = `commands:
  - name: greet
    spec: "s O{world}"
    body: '\IfBooleanTF{#1}{HELLO}{hello}, #2'
    description: Greets someone.
  - name: '\twice'
    spec: m
    body: "#1#1"
`

const tomlPreamble = `[[commands]]
name = "greet"
spec = "s O{world}"
body = '\IfBooleanTF{#1}{HELLO}{hello}, #2'
description = "Greets someone."

[[commands]]
name = '\twice'
spec = "m"
body = "#1#1"
`

const jsonPreamble = `{"commands": [
  {"name": "greet", "spec": "s O{world}",
   "body": "\\IfBooleanTF{#1}{HELLO}{hello}, #2", "description": "Greets someone."},
  {"name": "\\twice", "spec": "m", "body": "#1#1"}
]}`

const texPreamble = `% Greets someone.
\NewDocumentCommand{\greet}{s O{world}}{\IfBooleanTF{#1}{HELLO}{hello}, #2}
\NewDocumentCommand\twice{m}{#1#1}
`

func TestRegistry_Load(t *testing.T) {
	tests := []struct {
		syntax xparse.Syntax
		source string
	}{
		{xparse.SyntaxYAML, yamlPreamble},
		{xparse.SyntaxTOML, tomlPreamble},
		{xparse.SyntaxJSON, jsonPreamble},
		{xparse.SyntaxTeX, texPreamble},
	}

	for _, tt := range tests {
		t.Run(tt.syntax.String(), func(t *testing.T) {
			r := xparse.NewRegistry()

			err := r.Load(context.Background(), strings.NewReader(tt.source), tt.syntax)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}

			if r.Len() != 2 {
				t.Fatalf("Len() = %d, want 2", r.Len())
			}

			got, err := r.Process(context.Background(), `\greet*[you] \twice{ab}`)
			if err != nil {
				t.Fatal(err)
			}

			if want := "HELLO, you abab"; got != want {
				t.Errorf("Process() = %q, want %q", got, want)
			}
		})
	}
}

func TestRegistry_Load_Cached(t *testing.T) {
	xparse.ClearCache()

	ctx := context.Background()

	a := xparse.NewRegistry()
	if err := a.Load(ctx, strings.NewReader(yamlPreamble), xparse.SyntaxYAML); err != nil {
		t.Fatal(err)
	}

	b := xparse.NewRegistry()
	if err := b.Load(ctx, strings.NewReader(yamlPreamble), xparse.SyntaxYAML); err != nil {
		t.Fatal(err)
	}

	if _, ok := b.Lookup("greet"); !ok {
		t.Error("cached preamble did not define greet")
	}

	// Definitions made after loading stay local to their registry.
	if err := a.Add(xparse.Definition{Name: "only", Body: "a"}); err != nil {
		t.Fatal(err)
	}

	if _, ok := b.Lookup("only"); ok {
		t.Error("definition leaked between registries")
	}
}

func TestClearCache_Concurrent(t *testing.T) {
	ctx := context.Background()

	var wg sync.WaitGroup

	for i := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if i%2 == 0 {
				xparse.ClearCache()

				return
			}

			r := xparse.NewRegistry()
			if err := r.Load(ctx, strings.NewReader(yamlPreamble), xparse.SyntaxYAML); err != nil {
				t.Error(err)

				return
			}

			if r.Len() != 2 {
				t.Errorf("Len() = %d, want 2", r.Len())
			}
		}()
	}

	wg.Wait()
}

func TestRegistry_Load_Errors(t *testing.T) {
	tests := []struct {
		name   string
		syntax xparse.Syntax
		source string
		err    error
	}{
		{"bad yaml", xparse.SyntaxYAML, "commands: [", xparse.ErrDecodePreamble},
		{"bad toml", xparse.SyntaxTOML, "[[commands]\n", xparse.ErrDecodePreamble},
		{"bad json", xparse.SyntaxJSON, "{", xparse.ErrDecodePreamble},
		{"bad spec", xparse.SyntaxJSON, `{"commands":[{"name":"a","spec":"v"}]}`, xparse.ErrNotImplemented},
		{"bad name", xparse.SyntaxJSON, `{"commands":[{"name":"a b"}]}`, xparse.ErrIllegalControlSequenceName},
		{"bad tex", xparse.SyntaxTeX, `\NewDocumentCommand{\a}{q}{}`, xparse.ErrInvalidArgumentLetter},
		{"runaway tex", xparse.SyntaxTeX, `\NewDocumentCommand{\a}{}{\a}\a`, xparse.ErrMacroRecursionLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := xparse.NewRegistry()

			err := r.Load(context.Background(), strings.NewReader(tt.source), tt.syntax,
				tex.WithMaxMacros(10))
			if !errors.Is(err, tt.err) {
				t.Errorf("Load() error = %v, want %v", err, tt.err)
			}

			if r.Len() != 0 {
				t.Errorf("failed load registered %d definitions", r.Len())
			}
		})
	}
}

func TestRegistry_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "macros.yml")

	if err := os.WriteFile(path, []byte(yamlPreamble), 0o600); err != nil {
		t.Fatal(err)
	}

	r := xparse.NewRegistry()
	if err := r.LoadFile(context.Background(), path); err != nil {
		t.Fatal(err)
	}

	def, ok := r.Lookup("greet")
	if !ok || def.Description != "Greets someone." {
		t.Errorf("Lookup(greet) = %+v, %v", def, ok)
	}

	err := r.LoadFile(context.Background(), filepath.Join(dir, "missing.tex"))
	if !errors.Is(err, xparse.ErrReadInput) {
		t.Errorf("LoadFile(missing) error = %v, want ErrReadInput", err)
	}
}

func TestSyntaxOf(t *testing.T) {
	tests := map[string]xparse.Syntax{
		"a.tex":      xparse.SyntaxTeX,
		"a.sty":      xparse.SyntaxTeX,
		"a":          xparse.SyntaxTeX,
		"a.YAML":     xparse.SyntaxYAML,
		"dir/a.yml":  xparse.SyntaxYAML,
		"a.toml":     xparse.SyntaxTOML,
		"a.json":     xparse.SyntaxJSON,
		"a.json.tex": xparse.SyntaxTeX,
	}

	for path, want := range tests {
		if got := xparse.SyntaxOf(path); got != want {
			t.Errorf("SyntaxOf(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestFormat_RoundTrips(t *testing.T) {
	ctx := context.Background()

	src := xparse.NewRegistry()
	if err := src.Load(ctx, strings.NewReader(yamlPreamble), xparse.SyntaxYAML); err != nil {
		t.Fatal(err)
	}

	formats := []struct {
		name   string
		syntax xparse.Syntax
		write  func(*bytes.Buffer) error
	}{
		{"native", xparse.SyntaxTeX, func(b *bytes.Buffer) error {
			return xparse.Format(ctx, b, src.All())
		}},
		{"json", xparse.SyntaxJSON, func(b *bytes.Buffer) error {
			return xparse.FormatJSON(ctx, b, src.All(), 2)
		}},
		{"yaml", xparse.SyntaxYAML, func(b *bytes.Buffer) error {
			return xparse.FormatYAML(ctx, b, src.All(), 2)
		}},
	}

	for _, tt := range formats {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.write(&buf); err != nil {
				t.Fatal(err)
			}

			dst := xparse.NewRegistry()
			if err := dst.Load(ctx, &buf, tt.syntax); err != nil {
				t.Fatalf("reload %s: %v", tt.name, err)
			}

			want, got := src.All(), dst.All()
			if len(got) != len(want) {
				t.Fatalf("reloaded %d definitions, want %d", len(got), len(want))
			}

			for i := range want {
				if got[i].Name != want[i].Name ||
					got[i].Body != want[i].Body ||
					got[i].Spec.String() != want[i].Spec.String() {
					t.Errorf("definition %d = %+v, want %+v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestFormat_Native(t *testing.T) {
	defs := []xparse.Definition{{
		Name:        "x",
		Spec:        xparse.Spec{{Type: xparse.Mandatory}, {Type: xparse.OptionalWithDefault, Default: "d"}},
		Body:        "#1#2",
		Description: "two\nlines",
	}}

	var buf bytes.Buffer
	if err := xparse.Format(context.Background(), &buf, defs); err != nil {
		t.Fatal(err)
	}

	want := "% two\n% lines\n\\NewDocumentCommand{\\x}{m O{d}}{#1#2}\n"
	if buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}
}
