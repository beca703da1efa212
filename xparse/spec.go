package xparse

import (
	"log/slog"
	"strings"

	"github.com/ardnew/xparse/tex"
)

// ArgType identifies how an argument is read from the input.
type ArgType int

const (
	// Mandatory reads one argument group.
	Mandatory ArgType = iota
	// OptionalNoDefault reads an optional bracket group, or captures
	// [NoValue] when it is absent.
	OptionalNoDefault
	// OptionalWithDefault reads an optional bracket group, or captures the
	// argument default when it is absent.
	OptionalWithDefault
	// BooleanFlag captures whether the next character is a star.
	BooleanFlag
	// TokenFlag captures whether the next token equals the argument token.
	TokenFlag
)

var argLetters = [...]byte{
	Mandatory:           'm',
	OptionalNoDefault:   'o',
	OptionalWithDefault: 'O',
	BooleanFlag:         's',
	TokenFlag:           't',
}

var argNames = [...]string{
	Mandatory:           "mandatory",
	OptionalNoDefault:   "optional",
	OptionalWithDefault: "optional with default",
	BooleanFlag:         "star",
	TokenFlag:           "token",
}

// Letter returns the spec letter of t.
func (t ArgType) Letter() byte {
	if t < 0 || int(t) >= len(argLetters) {
		return '?'
	}

	return argLetters[t]
}

func (t ArgType) String() string {
	if t < 0 || int(t) >= len(argNames) {
		return "unknown"
	}

	return argNames[t]
}

// Arg describes one argument of a document command.
type Arg struct {
	Type ArgType
	// Default is the text captured by an absent [OptionalWithDefault].
	Default string
	// Token is the literal tested by a [TokenFlag].
	Token string
}

// String returns the spec notation of a, e.g. "m" or "O{default}".
func (a Arg) String() string {
	switch a.Type {
	case OptionalWithDefault:
		return "O{" + a.Default + "}"
	case TokenFlag:
		return "t{" + a.Token + "}"
	default:
		return string(a.Type.Letter())
	}
}

// IsOptional reports whether a may be absent from an invocation.
func (a Arg) IsOptional() bool {
	return a.Type == OptionalNoDefault || a.Type == OptionalWithDefault
}

// IsFlag reports whether a captures a boolean.
func (a Arg) IsFlag() bool {
	return a.Type == BooleanFlag || a.Type == TokenFlag
}

// Spec is the ordered argument list of a document command. Arguments are
// read strictly in order.
type Spec []Arg

// String returns the canonical spec notation without the enclosing braces,
// e.g. "s m O{x}".
func (s Spec) String() string {
	parts := make([]string, len(s))
	for i, a := range s {
		parts[i] = a.String()
	}

	return strings.Join(parts, " ")
}

// Letters returns the spec letters of s, e.g. "smO".
func (s Spec) Letters() string {
	b := make([]byte, len(s))
	for i, a := range s {
		b[i] = a.Type.Letter()
	}

	return string(b)
}

// Count returns the number of arguments in s satisfying f.
func (s Spec) Count(f func(Arg) bool) int {
	n := 0

	for _, a := range s {
		if f(a) {
			n++
		}
	}

	return n
}

// ParseSpec reads a braced argument spec from c, leaving the cursor after
// its closing brace.
func ParseSpec(c Cursor) (Spec, error) {
	r, ok := c.Next()

	switch {
	case ok && r == '}':
		return nil, ErrExtraCloseBrace.With(slog.String("command", c.Command()))
	case !ok || r != '{':
		return nil, ErrMissingArgument.With(slog.String("command", c.Command()))
	}

	c.Consume()

	spec := Spec{}

	for {
		r, ok := c.Next()
		if !ok {
			return nil, ErrUnterminatedSpec.With(slog.String("spec", spec.String()))
		}

		c.Consume()

		switch r {
		case 'm':
			spec = append(spec, Arg{Type: Mandatory})

		case 'o':
			spec = append(spec, Arg{Type: OptionalNoDefault})

		case 'O':
			def, err := c.Argument("O")
			if err != nil {
				return nil, err
			}

			spec = append(spec, Arg{Type: OptionalWithDefault, Default: def.Text})

		case 's':
			spec = append(spec, Arg{Type: BooleanFlag})

		case 't':
			tok, err := c.Argument("t")
			if err != nil {
				return nil, err
			}

			spec = append(spec, Arg{Type: TokenFlag, Token: tok.Text})

		case '}':
			return spec, nil

		case 'r', 'R', 'v', 'd', 'D', 'e', 'E':
			return nil, ErrNotImplemented.With(slog.String("letter", string(r)))

		default:
			return nil, ErrInvalidArgumentLetter.With(slog.String("letter", string(r)))
		}
	}
}

// ParseSpecString parses a complete argument spec held in s. The enclosing
// braces may be omitted. Anything but white space after the closing brace
// is an error.
func ParseSpecString(s string) (Spec, error) {
	if t := strings.TrimSpace(s); !strings.HasPrefix(t, "{") {
		s = "{" + t + "}"
	}

	p := tex.NewParser(s)

	spec, err := ParseSpec(p)
	if err != nil {
		return nil, err
	}

	if _, ok := p.Next(); ok {
		return nil, ErrTrailingSpecInput.With(slog.String("input", p.Rest()))
	}

	return spec, nil
}
