package repl

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/xparse/log"
	"github.com/ardnew/xparse/xparse"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		mode      inputMode
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"control_word", `\gre`, 4, modeEval, `\gre`, 0, 4},
		{"lone_backslash", `x \`, 3, modeEval, `\`, 2, 3},
		{"mid_word", `\greet`, 3, modeEval, `\greet`, 0, 6},
		{"after_text", `Hello \wo`, 9, modeEval, `\wo`, 6, 9},
		{"inside_group", `\greet{\na`, 10, modeEval, `\na`, 7, 10},
		{"plain_letters", `hello`, 5, modeEval, "", 5, 5},
		{"escaped_backslash", `\\gr`, 4, modeEval, "", 4, 4},
		{"odd_backslash_run", `\\\gr`, 5, modeEval, `\gr`, 2, 5},
		{"empty", ``, 0, modeEval, "", 0, 0},
		{"cursor_past_end", `\ab`, 10, modeEval, `\ab`, 0, 3},
		{"ctrl_word", `show gr`, 7, modeCtrl, "gr", 5, 7},
		{"ctrl_empty", `show `, 5, modeCtrl, "", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor, tt.mode)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func testModel(t *testing.T, preamble string) model {
	t.Helper()

	r := xparse.NewRegistry()
	if _, err := r.Process(context.Background(), preamble); err != nil {
		t.Fatalf("preamble: %v", err)
	}

	history := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	return newModel(context.Background(), r, history, log.Default())
}

func TestComputeMatches(t *testing.T) {
	m := testModel(t, `\NewDocumentCommand{\greet}{m}{Hello #1}`)

	tests := []struct {
		name  string
		input string
		want  string // prefix of the best match, "" for none
	}{
		{"user_command", `\gre`, `\greet`},
		{"builtin_command", `\IfNoV`, `\IfNoValue`},
		{"no_backslash", `gre`, ""},
		{"no_match", `\zzz`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, _, _, _ := m.computeMatches()

			if tt.want == "" {
				if len(matches) != 0 {
					t.Errorf("computeMatches(%q) = %d matches, want none", tt.input, len(matches))
				}

				return
			}

			if len(matches) == 0 || !strings.HasPrefix(matches[0].Str, tt.want) {
				t.Errorf("computeMatches(%q) best = %v, want %q", tt.input, matches, tt.want)
			}
		})
	}
}

func TestComputeMatches_LoneBackslashListsAll(t *testing.T) {
	m := testModel(t, `\NewDocumentCommand{\greet}{m}{Hello #1}`)
	m.input.SetValue(`\`)
	m.input.SetCursor(1)

	matches, candidates, _, _ := m.computeMatches()
	if len(matches) != len(candidates) {
		t.Fatalf("got %d matches for %d candidates", len(matches), len(candidates))
	}

	if !slices.Contains(candidates, `\greet`) || !slices.Contains(candidates, `\NewDocumentCommand`) {
		t.Errorf("candidates = %v, want user and builtin commands", candidates)
	}
}

func TestComputeMatches_CtrlMode(t *testing.T) {
	m := testModel(t, ``)
	m = m.switchToMode(modeCtrl)
	m.input.SetValue("lis")
	m.input.SetCursor(3)

	matches, _, _, _ := m.computeMatches()
	if len(matches) == 0 || matches[0].Str != "list" {
		t.Errorf("computeMatches(lis) = %v, want list first", matches)
	}
}
