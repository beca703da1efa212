package tex

import (
	"log/slog"
	"unicode/utf8"

	"github.com/ardnew/xparse/log"
)

// DefaultMaxMacros is the substitution budget of a [Parser] created without
// [WithMaxMacros].
const DefaultMaxMacros = 10000

// Parser scans a single document. It holds the unconsumed input, the marks
// attached to it, the substitution counter and the handler tables used to
// dispatch control sequences. A Parser is not safe for concurrent use.
type Parser struct {
	buf       string
	pos       int
	marks     []Mark // offsets into buf
	macros    int
	maxMacros int
	maxBuffer int
	current   string
	tables    []*Table
	logger    log.Logger
}

// Option configures a [Parser].
type Option func(*Parser)

// WithTables appends handler tables, searched in order during dispatch.
func WithTables(tables ...*Table) Option {
	return func(p *Parser) {
		for _, t := range tables {
			if t != nil {
				p.tables = append(p.tables, t)
			}
		}
	}
}

// WithMaxMacros sets the number of substitutions allowed before
// [ErrMacroRecursionLimit]. Non-positive values select [DefaultMaxMacros].
func WithMaxMacros(n int) Option {
	return func(p *Parser) {
		if n <= 0 {
			n = DefaultMaxMacros
		}

		p.maxMacros = n
	}
}

// WithMaxBuffer limits the size in bytes of the input buffer after a splice.
// Zero disables the limit.
func WithMaxBuffer(n int) Option {
	return func(p *Parser) { p.maxBuffer = max(n, 0) }
}

// WithLogger sets the logger used for trace output.
func WithLogger(logger log.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// NewParser returns a scanner positioned at the start of input.
func NewParser(input string, opts ...Option) *Parser {
	p := &Parser{buf: input, maxMacros: DefaultMaxMacros}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

// Logger returns the logger configured with [WithLogger].
func (p *Parser) Logger() log.Logger { return p.logger }

// Command returns the name of the control sequence being dispatched.
func (p *Parser) Command() string { return p.current }

// Macros returns the number of substitutions performed so far.
func (p *Parser) Macros() int { return p.macros }

// Rest returns the unconsumed input.
func (p *Parser) Rest() string { return p.buf[p.pos:] }

func (p *Parser) eof() bool { return p.pos >= len(p.buf) }

func (p *Parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(p.buf[p.pos:])

	return r
}

func (p *Parser) advance() {
	if p.eof() {
		return
	}

	_, size := utf8.DecodeRuneInString(p.buf[p.pos:])
	p.pos += size
}

func (p *Parser) skipSpaces() {
	for !p.eof() && isSpace(p.buf[p.pos]) {
		p.pos++
	}
}

// Next skips white space and returns the next character without consuming
// it. It reports false at end of input.
func (p *Parser) Next() (rune, bool) {
	p.skipSpaces()

	if p.eof() {
		return 0, false
	}

	return p.peek(), true
}

// Consume advances past the next character.
func (p *Parser) Consume() { p.advance() }

// Advance moves the cursor n bytes forward, stopping at end of input.
func (p *Parser) Advance(n int) { p.pos = min(p.pos+max(n, 0), len(p.buf)) }

// Star consumes a "*" if it is the next non-space character.
func (p *Parser) Star() bool {
	if r, ok := p.Next(); ok && r == '*' {
		p.pos++

		return true
	}

	return false
}

// Token returns the next token without consuming it: a control sequence
// including its backslash, or a single character. It returns "" at end of
// input.
func (p *Parser) Token() string {
	if _, ok := p.Next(); !ok {
		return ""
	}

	if p.buf[p.pos] == '\\' {
		name, _ := p.csName(p.pos + 1)

		return "\\" + name
	}

	_, size := utf8.DecodeRuneInString(p.buf[p.pos:])

	return p.buf[p.pos : p.pos+size]
}

// csName returns the control sequence name starting at i: a run of ASCII
// letters or a single character. The returned end skips one space following
// a control word.
func (p *Parser) csName(i int) (string, int) {
	if i >= len(p.buf) {
		return "", i
	}

	j := i
	for j < len(p.buf) && isLetter(p.buf[j]) {
		j++
	}

	if j == i {
		_, size := utf8.DecodeRuneInString(p.buf[i:])

		return p.buf[i : i+size], i + size
	}

	name := p.buf[i:j]
	if j < len(p.buf) && p.buf[j] == ' ' {
		j++
	}

	return name, j
}

// segment returns the text in [lo, hi) with the marks it contains.
func (p *Parser) segment(lo, hi int) Segment {
	return Segment{Text: p.buf[lo:hi], Marks: clip(p.marks, lo, hi)}
}

// Argument reads one argument for the command name: the contents of a
// balanced brace group, a control sequence, or a single character.
func (p *Parser) Argument(name string) (Segment, error) {
	r, ok := p.Next()
	if !ok {
		return Segment{}, ErrMissingArgument.With(slog.String("command", name))
	}

	switch r {
	case '}':
		return Segment{}, ErrExtraCloseBrace.With(slog.String("command", name))

	case '\\':
		start := p.pos
		cs, end := p.csName(p.pos + 1)
		p.pos = end

		return p.segment(start, start+1+len(cs)), nil

	case '{':
		start := p.pos + 1
		depth := 0

		for i := start; i < len(p.buf); i++ {
			switch p.buf[i] {
			case '\\':
				i++
			case '{':
				depth++
			case '}':
				if depth == 0 {
					p.pos = i + 1

					return p.segment(start, i), nil
				}

				depth--
			}
		}

		return Segment{}, ErrMissingCloseBrace.With(slog.String("command", name))

	default:
		start := p.pos
		p.advance()

		return p.segment(start, p.pos), nil
	}
}

// Brackets reads an optional bracketed argument for the command name. It
// reports false without consuming anything but white space if the next
// character is not "[". Braces nest inside the brackets, so "]" within a
// group does not close the argument.
func (p *Parser) Brackets(name string) (Segment, bool, error) {
	if r, ok := p.Next(); !ok || r != '[' {
		return Segment{}, false, nil
	}

	start := p.pos + 1
	depth := 0

	for i := start; i < len(p.buf); i++ {
		switch p.buf[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return Segment{}, false, ErrExtraCloseBrace.With(
					slog.String("command", name),
					slog.String("expected", "]"),
				)
			}

			depth--
		case ']':
			if depth == 0 {
				p.pos = i + 1

				return p.segment(start, i), true, nil
			}
		}
	}

	return Segment{}, false, ErrMissingCloseBracket.With(slog.String("command", name))
}

// Splice replaces the consumed input with text followed by the unconsumed
// input, joined by [Join], and rewinds the cursor to the start of text.
// Marks are given relative to text; marks on the unconsumed input are kept
// aligned.
func (p *Parser) Splice(text string, marks ...Mark) error {
	rest := Segment{Text: p.buf[p.pos:], Marks: clip(p.marks, p.pos, len(p.buf))}
	next := Segment{Text: text, Marks: marks}.Join(rest)

	if p.maxBuffer > 0 && len(next.Text) > p.maxBuffer {
		return ErrMaxBufferSize.With(
			slog.Int("size", len(next.Text)),
			slog.Int("limit", p.maxBuffer),
		)
	}

	p.buf, p.marks, p.pos = next.Text, next.Marks, 0

	return nil
}

// CheckMacros counts one substitution and fails once the budget configured
// by [WithMaxMacros] is exceeded.
func (p *Parser) CheckMacros() error {
	p.macros++
	if p.macros > p.maxMacros {
		return ErrMacroRecursionLimit.With(
			slog.Int("limit", p.maxMacros),
			slog.String("command", p.current),
		)
	}

	return nil
}
