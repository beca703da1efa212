package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/xparse/xparse"
)

// signatureHintStyle styles for argument hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// invocation is a document command whose arguments are being typed.
type invocation struct {
	name   string      // command name without the backslash
	spec   xparse.Spec // argument spec of name
	arg    int         // index into spec of the argument at the cursor
	inCall bool        // true if the cursor is within the argument list
}

// detectInvocation finds the innermost defined command whose argument list
// is still open at cursor. Arguments are matched against the command's spec
// the way the expander reads them, so skipped optional arguments and absent
// flags advance the argument index.
func detectInvocation(
	input string,
	cursor int,
	lookup func(name string) (xparse.Spec, bool),
) invocation {
	cursor = min(max(cursor, 0), len(input))
	text := input[:cursor]

	for end := len(text); end > 0; {
		start := strings.LastIndexByte(text[:end], '\\')
		if start < 0 {
			break
		}

		end = start

		name, rest, ok := controlWord(text, start)
		if !ok {
			continue
		}

		spec, ok := lookup(name)
		if !ok || len(spec) == 0 {
			continue
		}

		if arg, open := openArgument(spec, text[rest:]); open {
			return invocation{name: name, spec: spec, arg: arg, inCall: true}
		}
	}

	return invocation{}
}

// controlWord returns the control word beginning with the backslash at
// text[i] and the offset just past it. Backslashes that are themselves
// escaped do not begin a control word.
func controlWord(text string, i int) (name string, rest int, ok bool) {
	run := 0
	for j := i; j >= 0 && text[j] == '\\'; j-- {
		run++
	}

	if run%2 == 0 {
		return "", 0, false
	}

	j := i + 1
	for j < len(text) && isLetter(text[j]) {
		j++
	}

	if j == i+1 {
		return "", 0, false
	}

	return text[i+1 : j], j, true
}

// openArgument matches the text following a command name against spec. It
// returns the index of the argument being typed, or false if every argument
// was read completely.
func openArgument(spec xparse.Spec, text string) (int, bool) {
	pos := 0

	for i, arg := range spec {
		pos = skipSpace(text, pos)
		if pos >= len(text) {
			return i, true
		}

		switch arg.Type {
		case xparse.BooleanFlag:
			if text[pos] == '*' {
				pos++
			}

		case xparse.TokenFlag:
			if strings.HasPrefix(text[pos:], arg.Token) {
				pos += len(arg.Token)
			}

		case xparse.OptionalNoDefault, xparse.OptionalWithDefault:
			if text[pos] != '[' {
				continue
			}

			end := strings.IndexByte(text[pos:], ']')
			if end < 0 {
				return i, true
			}

			pos += end + 1

		default:
			if text[pos] == '\\' {
				if _, rest, ok := controlWord(text, pos); ok {
					pos = rest
				} else {
					pos = min(pos+2, len(text))
				}

				continue
			}

			if text[pos] != '{' {
				pos++

				continue
			}

			end, ok := closeBrace(text, pos)
			if !ok {
				return i, true
			}

			pos = end
		}
	}

	return 0, false
}

// closeBrace returns the offset just past the brace matching text[open].
func closeBrace(text string, open int) (int, bool) {
	depth := 0

	for i := open; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			if depth--; depth == 0 {
				return i + 1, true
			}
		}
	}

	return 0, false
}

func skipSpace(text string, pos int) int {
	for pos < len(text) && strings.IndexByte(" \t\r\n", text[pos]) >= 0 {
		pos++
	}

	return pos
}

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

// renderSignatureHint renders the spec of inv with the current argument
// highlighted, followed by the command description if there is one.
func renderSignatureHint(inv invocation, description string) string {
	if !inv.inCall {
		return ""
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(`\` + inv.name))
	b.WriteString(signatureStyle.Render("{"))

	for i, arg := range inv.spec {
		if i > 0 {
			b.WriteString(signatureStyle.Render(" "))
		}

		if i == inv.arg {
			b.WriteString(currentParamStyle.Render(arg.String()))
		} else {
			b.WriteString(signatureStyle.Render(arg.String()))
		}
	}

	b.WriteString(signatureStyle.Render("}"))

	if inv.arg < len(inv.spec) {
		b.WriteString(hintStyle.Render("  " + inv.spec[inv.arg].Type.String()))
	}

	if description != "" {
		b.WriteString(hintStyle.Render("  % " + description))
	}

	return b.String()
}
