package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// initContext parses args with a kong parser whose config path is confPath.
func initContext(t *testing.T, confPath string, args ...string) context.Context {
	t.Helper()

	var cli struct {
		Level     string   `default:"info"`
		Preamble  []string `short:"i"`
		Source    []string
		MaxMacros int  `default:"10000"`
		Strict    bool `negatable:""`
		Empty     string
		Hidden    string `default:"secret" hidden:""`
	}

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(context.Background(), ktx)
}

func TestInit_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, exists: true},
		{name: "fail_without_force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			err := (&Init{Force: tt.force}).Run(initContext(t, confPath))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
			}

			if tt.wantErr != nil {
				return
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var doc map[string]any
			if err := yaml.Unmarshal(data, &doc); err != nil {
				t.Fatalf("generated config is not valid YAML: %v\n%s", err, data)
			}

			if _, ok := doc["existing"]; ok {
				t.Error("existing content was not replaced")
			}
		})
	}
}

func TestInit_Config(t *testing.T) {
	t.Parallel()

	confPath := filepath.Join(t.TempDir(), "config.yaml")
	ctx := initContext(t, confPath,
		"--level=debug", "-i", "a.tex", "-i", "b.yaml", "--source=doc.tex", "--strict",
	)

	if err := (&Init{}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(confPath)
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}

	for key, want := range map[string]string{
		"level":      "debug",
		"max-macros": "10000",
		"strict":     "true",
	} {
		if got := fmt.Sprint(doc[key]); got != want {
			t.Errorf("%s = %s, want %s", key, got, want)
		}
	}

	if list, ok := doc["preamble"].([]any); !ok || len(list) != 2 || list[0] != "a.tex" {
		t.Errorf("preamble = %#v, want [a.tex b.yaml]", doc["preamble"])
	}

	for _, key := range []string{"help", "source", "empty", "hidden"} {
		if _, ok := doc[key]; ok {
			t.Errorf("config contains %q", key)
		}
	}
}
