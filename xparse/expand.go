package xparse

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/xparse/tex"
)

// Capture reads the arguments described by spec from c on behalf of the
// command name and returns one value per argument. An empty bracket group
// counts as an absent optional argument.
func Capture(c Cursor, name string, spec Spec) ([]Value, error) {
	args := make([]Value, 0, len(spec))

	for _, a := range spec {
		switch a.Type {
		case Mandatory:
			seg, err := c.Argument(name)
			if err != nil {
				return nil, err
			}

			args = append(args, segmentValue(seg, false))

		case OptionalNoDefault:
			seg, ok, err := c.Brackets(name)
			if err != nil {
				return nil, err
			}

			if !ok || seg.Text == "" {
				args = append(args, SentinelValue(NoValue))

				continue
			}

			args = append(args, segmentValue(seg, false))

		case OptionalWithDefault:
			seg, ok, err := c.Brackets(name)
			if err != nil {
				return nil, err
			}

			if !ok || seg.Text == "" {
				args = append(args, TextValue(a.Default))

				continue
			}

			args = append(args, segmentValue(seg, false))

		case BooleanFlag:
			args = append(args, boolValue(c.Star()))

		case TokenFlag:
			tok := c.Token()

			hit := tok != "" && tok == a.Token
			if hit {
				c.Advance(len(tok))
			}

			args = append(args, boolValue(hit))
		}
	}

	return args, nil
}

// Substitute replaces the parameters #1 through #9 in body with the
// corresponding values in args and "##" with "#". A backslash protects the
// character after it. Values are joined to the surrounding text so that a
// control word never fuses with following letters, and sentinel values are
// marked in the result.
func Substitute(body string, args []Value) (tex.Segment, error) {
	var (
		out  tex.Segment
		text strings.Builder
	)

	for i := 0; i < len(body); i++ {
		switch c := body[i]; c {
		case '\\':
			text.WriteByte(c)

			if i+1 < len(body) {
				i++
				text.WriteByte(body[i])
			}

		case '#':
			i++
			if i >= len(body) {
				return tex.Segment{}, tex.ErrIllegalMacroParam.With(
					slog.String("param", "#"),
				)
			}

			if body[i] == '#' {
				text.WriteByte('#')

				continue
			}

			n := int(body[i]) - '0'
			if n < 1 || n > 9 || n > len(args) {
				r, _ := utf8.DecodeRuneInString(body[i:])

				return tex.Segment{}, tex.ErrIllegalMacroParam.With(
					slog.String("param", "#"+string(r)),
					slog.Int("args", len(args)),
				)
			}

			out = out.Join(tex.Segment{Text: text.String()}).Join(args[n-1].segment())
			text.Reset()

		default:
			text.WriteByte(c)
		}
	}

	return out.Join(tex.Segment{Text: text.String()}), nil
}

// Expand captures the arguments of def from c, substitutes them into its
// body and splices the result ahead of the unconsumed input. A definition
// without arguments splices its body verbatim. The substitution is counted
// against the recursion budget before scanning resumes.
func Expand(c Cursor, def *Definition) error {
	args, err := Capture(c, def.Name, def.Spec)
	if err != nil {
		return err
	}

	out := tex.Segment{Text: def.Body}

	if len(def.Spec) > 0 {
		out, err = Substitute(def.Body, args)
		if err != nil {
			return err
		}
	}

	return splice(c, out)
}

func splice(c Cursor, s tex.Segment) error {
	if err := c.Splice(s.Text, s.Marks...); err != nil {
		return err
	}

	return c.CheckMacros()
}
