package tex

import (
	"errors"
	"testing"
)

func TestParser_Argument(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		rest  string
		err   error
	}{
		{"braced", "{abc}def", "abc", "def", nil},
		{"nested braces", " {a{b}c}x", "a{b}c", "x", nil},
		{"escaped brace", `{a\}b}c`, `a\}b`, "c", nil},
		{"control word", `\alpha beta`, `\alpha`, "beta", nil},
		{"control symbol", `\&x`, `\&`, "x", nil},
		{"single char", "xyz", "x", "yz", nil},
		{"multibyte char", "éa", "é", "a", nil},
		{"empty group", "{}", "", "", nil},
		{"end of input", "   ", "", "", ErrMissingArgument},
		{"close brace", "}", "", "}", ErrExtraCloseBrace},
		{"unbalanced", "{ab{c}", "", "{ab{c}", ErrMissingCloseBrace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(tt.input)

			got, err := p.Argument("test")
			if !errors.Is(err, tt.err) || (tt.err == nil && err != nil) {
				t.Fatalf("Argument() error = %v, want %v", err, tt.err)
			}

			if got.Text != tt.want {
				t.Errorf("Argument() = %q, want %q", got.Text, tt.want)
			}

			if p.Rest() != tt.rest {
				t.Errorf("Rest() = %q, want %q", p.Rest(), tt.rest)
			}
		})
	}
}

func TestParser_Brackets(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		found bool
		rest  string
		err   error
	}{
		{"present", "[abc]d", "abc", true, "d", nil},
		{"empty", "[]d", "", true, "d", nil},
		{"leading space", "  [x]", "x", true, "", nil},
		{"absent", "{x}", "", false, "{x}", nil},
		{"end of input", "", "", false, "", nil},
		{"bracket in group", "[a{]}b]c", "a{]}b", true, "c", nil},
		{"escaped bracket", `[a\]b]c`, `a\]b`, true, "c", nil},
		{"unterminated", "[abc", "", false, "[abc", ErrMissingCloseBracket},
		{"stray close brace", "[a}b]", "", false, "[a}b]", ErrExtraCloseBrace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(tt.input)

			got, found, err := p.Brackets("test")
			if !errors.Is(err, tt.err) || (tt.err == nil && err != nil) {
				t.Fatalf("Brackets() error = %v, want %v", err, tt.err)
			}

			if got.Text != tt.want || found != tt.found {
				t.Errorf("Brackets() = %q, %v, want %q, %v",
					got.Text, found, tt.want, tt.found)
			}

			if p.Rest() != tt.rest {
				t.Errorf("Rest() = %q, want %q", p.Rest(), tt.rest)
			}
		})
	}
}

func TestParser_StarAndToken(t *testing.T) {
	p := NewParser(` * +\foo x`)

	if !p.Star() {
		t.Fatal("Star() = false, want true")
	}

	if p.Star() {
		t.Fatal("second Star() = true, want false")
	}

	if tok := p.Token(); tok != "+" {
		t.Fatalf("Token() = %q, want +", tok)
	}

	p.Advance(1)

	if tok := p.Token(); tok != `\foo` {
		t.Fatalf("Token() = %q, want \\foo", tok)
	}

	p.Advance(len(`\foo`))

	if r, ok := p.Next(); !ok || r != 'x' {
		t.Fatalf("Next() = %q, %v, want x", r, ok)
	}

	p.Consume()

	if tok := p.Token(); tok != "" {
		t.Errorf("Token() at end = %q, want empty", tok)
	}
}

func TestParser_Splice(t *testing.T) {
	p := NewParser("abc def")
	p.Advance(4)

	if err := p.Splice(`\foo`); err != nil {
		t.Fatal(err)
	}

	if got, want := p.Rest(), `\foo def`; got != want {
		t.Errorf("Rest() = %q, want %q", got, want)
	}

	if err := p.Splice("x", Mark{Offset: 0, Len: 1, Tag: "x"}); err != nil {
		t.Fatal(err)
	}

	seg, err := p.Argument("test")
	if err != nil {
		t.Fatal(err)
	}

	if m, ok := seg.Covering(); !ok || m.Tag != "x" {
		t.Errorf("Covering() = %v, %v, want tagged mark", m, ok)
	}
}

func TestParser_Splice_KeepsMarksAligned(t *testing.T) {
	p := NewParser("")

	if err := p.Splice(`ab{\BooleanTrue}`, Mark{Offset: 3, Len: 12, Tag: 1}); err != nil {
		t.Fatal(err)
	}

	p.Advance(1)

	// The trailing control word forces a separator before "b".
	if err := p.Splice(`\x`); err != nil {
		t.Fatal(err)
	}

	if got, want := p.Rest(), `\x b{\BooleanTrue}`; got != want {
		t.Fatalf("Rest() = %q, want %q", got, want)
	}

	p.Advance(4)

	seg, err := p.Argument("test")
	if err != nil {
		t.Fatal(err)
	}

	if m, ok := seg.Covering(); !ok || m.Tag != 1 {
		t.Errorf("Covering() = %v, %v, want mark 1 on %q", m, ok, seg.Text)
	}
}

func TestParser_Splice_MaxBuffer(t *testing.T) {
	p := NewParser("abc", WithMaxBuffer(5))

	if err := p.Splice("de"); err != nil {
		t.Fatalf("Splice() within limit: %v", err)
	}

	if err := p.Splice("f"); !errors.Is(err, ErrMaxBufferSize) {
		t.Errorf("Splice() error = %v, want ErrMaxBufferSize", err)
	}
}

func TestParser_CheckMacros(t *testing.T) {
	p := NewParser("", WithMaxMacros(3))

	for i := range 3 {
		if err := p.CheckMacros(); err != nil {
			t.Fatalf("CheckMacros() #%d: %v", i+1, err)
		}
	}

	if err := p.CheckMacros(); !errors.Is(err, ErrMacroRecursionLimit) {
		t.Errorf("CheckMacros() error = %v, want ErrMacroRecursionLimit", err)
	}

	if p.Macros() != 4 {
		t.Errorf("Macros() = %d, want 4", p.Macros())
	}
}

func TestParser_Budget_IsPerParser(t *testing.T) {
	a := NewParser("", WithMaxMacros(1))
	b := NewParser("", WithMaxMacros(1))

	if err := a.CheckMacros(); err != nil {
		t.Fatal(err)
	}

	if err := b.CheckMacros(); err != nil {
		t.Errorf("second parser shares budget: %v", err)
	}
}
