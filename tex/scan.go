package tex

import (
	"context"
	"log/slog"
	"strings"
)

// Parse scans the input to completion and returns the resulting text.
// Control sequences known to one of the parser's tables are dispatched to
// their handlers; all other input, including "%" comments, is copied
// through unchanged.
//
// The context is consulted once before scanning begins. An expansion in
// progress is bounded only by the substitution budget.
func (p *Parser) Parse(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var out strings.Builder

	for !p.eof() {
		switch p.buf[p.pos] {
		case '%':
			end := strings.IndexByte(p.buf[p.pos:], '\n')
			if end < 0 {
				end = len(p.buf) - p.pos
			} else {
				end++
			}

			out.WriteString(p.buf[p.pos : p.pos+end])
			p.pos += end

		case '\\':
			start := p.pos
			name, end := p.csName(p.pos + 1)
			p.pos = end

			h, table, ok := p.lookup(name)
			if !ok {
				out.WriteString(p.buf[start:end])

				continue
			}

			p.logger.TraceContext(ctx, "dispatch",
				slog.String("command", name),
				slog.String("table", table),
			)

			prev := p.current
			p.current = name
			err := h(p, name)
			p.current = prev

			if err != nil {
				return "", err
			}

		default:
			end := strings.IndexAny(p.buf[p.pos:], `\%`)
			if end < 0 {
				end = len(p.buf) - p.pos
			}

			out.WriteString(p.buf[p.pos : p.pos+end])
			p.pos += end
		}
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("output_bytes", out.Len()),
		slog.Int("substitutions", p.macros),
	)

	return out.String(), nil
}

func (p *Parser) lookup(name string) (Handler, string, bool) {
	for _, t := range p.tables {
		if h, ok := t.Lookup(name); ok {
			return h, t.name, true
		}
	}

	return nil, "", false
}
