package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/xparse/tex"
	"github.com/ardnew/xparse/xparse"
)

const greetPreamble = `commands:
  - name: greet
    spec: "s O{Hello} m"
    body: '\IfBooleanTF{#1}{#2, #3!}{#2, #3.}'
    description: Greets someone.
`

// commandContext writes the given files to a temp dir and returns a context
// holding settings that preload preamble from that dir and the given
// documents as source files.
func commandContext(t *testing.T, files map[string]string, preamble []string, docs ...string) context.Context {
	t.Helper()

	dir := t.TempDir()

	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	paths := make([]string, len(docs))
	for i, doc := range docs {
		paths[i] = filepath.Join(dir, doc)
	}

	ctx := WithSourceFiles(context.Background(), paths)

	return WithSettings(ctx, Settings{
		Preambles: preamble,
		Path:      []string{dir},
	})
}

func TestExpand_Run(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    string
		wantErr error
	}{
		{
			name: "preamble_command",
			doc:  `\greet{World} \greet*[Hi]{you}`,
			want: `Hello, World. Hi, you!`,
		},
		{
			name: "document_definition",
			doc:  `\NewDocumentCommand{\wave}{m}{(#1)}\wave{x}`,
			want: `(x)`,
		},
		{
			name:    "expansion_error",
			doc:     `\greet`,
			wantErr: tex.ErrMissingArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := commandContext(t, map[string]string{
				"greet.yaml": greetPreamble,
				"doc.tex":    tt.doc,
			}, []string{"greet.yaml"}, "doc.tex")

			var out bytes.Buffer

			err := (&Expand{stdout: &out}).Run(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expand.Run() error = %v, want %v", err, tt.wantErr)
			}

			if tt.wantErr == nil && out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestExpand_Run_OutputFile(t *testing.T) {
	ctx := commandContext(t, map[string]string{"doc.tex": `plain`}, nil, "doc.tex")
	path := filepath.Join(t.TempDir(), "out.tex")

	if err := (&Expand{Output: path}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if data, err := os.ReadFile(path); err != nil || string(data) != "plain" {
		t.Errorf("output file = %q, %v", data, err)
	}
}

func TestExpand_Run_MaxMacros(t *testing.T) {
	ctx := commandContext(t, map[string]string{
		"doc.tex": `\NewDocumentCommand{\loop}{}{\loop}\loop`,
	}, nil, "doc.tex")
	ctx = WithSettings(ctx, Settings{MaxMacros: 50})

	err := (&Expand{stdout: new(bytes.Buffer)}).Run(ctx)
	if !errors.Is(err, tex.ErrMacroRecursionLimit) {
		t.Errorf("Expand.Run() error = %v, want %v", err, tex.ErrMacroRecursionLimit)
	}
}

func TestSettings_Registry_PreambleLimits(t *testing.T) {
	preamble := `\NewDocumentCommand{\x}{}{}` + strings.Repeat(`\x`, 60)

	tests := []struct {
		name     string
		settings Settings
		wantErr  error
	}{
		{name: "default", settings: Settings{}},
		{name: "max_macros", settings: Settings{MaxMacros: 50}, wantErr: tex.ErrMacroRecursionLimit},
		{name: "max_buffer", settings: Settings{MaxBuffer: 8}, wantErr: tex.ErrMaxBufferSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := commandContext(t, map[string]string{"defs.tex": preamble}, nil)

			s := settingsFrom(ctx)
			s.Preambles = []string{"defs.tex"}
			s.MaxMacros, s.MaxBuffer = tt.settings.MaxMacros, tt.settings.MaxBuffer

			r, err := s.Registry(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Registry() error = %v, want %v", err, tt.wantErr)
			}

			if err == nil {
				if _, ok := r.Lookup("x"); !ok {
					t.Error(`Registry() is missing \x`)
				}
			}
		})
	}
}

func TestSettings_Registry_PreambleNotFound(t *testing.T) {
	ctx := commandContext(t, nil, []string{"missing.yaml"})

	if _, err := settingsFrom(ctx).Registry(ctx); !errors.Is(err, ErrPreambleNotFound) {
		t.Errorf("Registry() error = %v, want %v", err, ErrPreambleNotFound)
	}
}

func TestList_Run(t *testing.T) {
	files := map[string]string{
		"greet.yaml": greetPreamble,
		"doc.tex":    `\NewDocumentCommand{\wave}{m}{(#1)}`,
	}

	tests := []struct {
		name   string
		list   List
		want   []string
		absent []string
	}{
		{
			name: "native",
			list: List{Format: "native"},
			want: []string{
				`\NewDocumentCommand{\greet}{s O{Hello} m}`,
				`\NewDocumentCommand{\wave}{m}{(#1)}`,
				`% Greets someone.`,
			},
		},
		{
			name:   "where",
			list:   List{Format: "native", Where: `Flags > 0`},
			want:   []string{`\greet`},
			absent: []string{`\wave`},
		},
		{
			name: "yaml",
			list: List{Format: "yaml", Indent: 2},
			want: []string{"name: greet", "name: wave", "description: Greets someone."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := commandContext(t, files, []string{"greet.yaml"}, "doc.tex")

			var out bytes.Buffer

			tt.list.stdout = &out
			if err := tt.list.Run(ctx); err != nil {
				t.Fatal(err)
			}

			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output does not contain %q:\n%s", want, out.String())
				}
			}

			for _, absent := range tt.absent {
				if strings.Contains(out.String(), absent) {
					t.Errorf("output contains %q:\n%s", absent, out.String())
				}
			}
		})
	}
}

func TestList_Run_JSON(t *testing.T) {
	ctx := commandContext(t, map[string]string{"greet.yaml": greetPreamble}, []string{"greet.yaml"})

	var out bytes.Buffer
	if err := (&List{Format: "json", Indent: 2, stdout: &out}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Commands []struct {
			Name string `json:"name"`
			Spec string `json:"spec"`
		} `json:"commands"`
	}

	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}

	if len(doc.Commands) != 1 || doc.Commands[0].Name != "greet" || doc.Commands[0].Spec != "s O{Hello} m" {
		t.Errorf("commands = %+v", doc.Commands)
	}
}

func TestList_Run_InvalidWhere(t *testing.T) {
	err := (&List{Where: `Args +`, stdout: new(bytes.Buffer)}).Run(context.Background())
	if !errors.Is(err, xparse.ErrExprCompile) {
		t.Errorf("List.Run() error = %v, want %v", err, xparse.ErrExprCompile)
	}
}

func TestSpec_Run(t *testing.T) {
	var out bytes.Buffer

	if err := (&Spec{Spec: `s  m O{x y} t+`, stdout: &out}).Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"{s m O{x y} t{+}}",
		"#4",
		"optional with default",
		`default "x y"`,
		`token "+"`,
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output does not contain %q:\n%s", want, out.String())
		}
	}

	err := (&Spec{Spec: `m q`, stdout: &out}).Run(context.Background())
	if !errors.Is(err, xparse.ErrInvalidArgumentLetter) {
		t.Errorf("Spec.Run(m q) error = %v, want %v", err, xparse.ErrInvalidArgumentLetter)
	}
}
