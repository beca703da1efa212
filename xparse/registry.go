package xparse

import (
	"cmp"
	"context"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/ardnew/xparse/log"
	"github.com/ardnew/xparse/tex"
)

// Mode is the flavor of definition command. All modes define or replace the
// command unconditionally; the mode is recorded in log output only.
type Mode int

const (
	ModeNew Mode = iota
	ModeRenew
	ModeProvide
	ModeDeclare
)

var modeNames = [...]string{
	ModeNew:     "new",
	ModeRenew:   "renew",
	ModeProvide: "provide",
	ModeDeclare: "declare",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}

	return modeNames[m]
}

// Command returns the name of the control sequence implementing m, e.g.
// "NewDocumentCommand".
func (m Mode) Command() string {
	s := m.String()

	return strings.ToUpper(s[:1]) + s[1:] + "DocumentCommand"
}

// Modes lists every definition mode.
func Modes() []Mode { return []Mode{ModeNew, ModeRenew, ModeProvide, ModeDeclare} }

// Definition is a registered document command.
type Definition struct {
	Name        string
	Body        string
	Spec        Spec
	Description string
}

// Registry holds the document commands of one document (or session) and
// the dispatch table through which a [tex.Parser] invokes them along with
// the definition and conditional commands.
type Registry struct {
	defs     map[string]*Definition
	table    *tex.Table
	logger   log.Logger
	literals bool
}

// Option configures a [Registry].
type Option func(*Registry)

// WithLogger sets the logger for definition and expansion events.
func WithLogger(logger log.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithStrictSentinels controls whether conditionals accept sentinel text
// that was not produced by an argument capture. When strict, a subject
// typed literally as `\BooleanTrue` or `-NoValue-` is ordinary text.
func WithStrictSentinels(strict bool) Option {
	return func(r *Registry) { r.literals = !strict }
}

// NewRegistry returns a registry with the definition and conditional
// commands installed in its table.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		defs:     make(map[string]*Definition),
		table:    tex.NewTable("xparse"),
		literals: true,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	r.install()

	return r
}

// Fresh returns an empty registry configured with the options of r.
func (r *Registry) Fresh() *Registry {
	return NewRegistry(WithLogger(r.logger), WithStrictSentinels(!r.literals))
}

// Table returns the dispatch table of r.
func (r *Registry) Table() *tex.Table { return r.table }

// Logger returns the logger configured with [WithLogger].
func (r *Registry) Logger() log.Logger { return r.logger }

// Parser returns a scanner over input that dispatches through r. Options
// are applied after the registry table and logger.
func (r *Registry) Parser(input string, opts ...tex.Option) *tex.Parser {
	return tex.NewParser(input, append([]tex.Option{
		tex.WithTables(r.table),
		tex.WithLogger(r.logger),
	}, opts...)...)
}

// Process expands every document command in input and returns the result.
// Definitions made by input remain in r.
func (r *Registry) Process(
	ctx context.Context,
	input string,
	opts ...tex.Option,
) (string, error) {
	return r.Parser(input, opts...).Parse(ctx)
}

var csNamePattern = regexp.MustCompile(`^(.|[A-Za-z]+)$`)

// ValidName reports whether name, with an optional leading backslash, is a
// legal command name: a single character or a run of letters.
func ValidName(name string) bool {
	return csNamePattern.MatchString(strings.TrimPrefix(name, `\`))
}

// Define reads a command name, an argument spec and a body from c and
// registers the command. Nothing is registered if any part fails to parse.
func (r *Registry) Define(c Cursor, mode Mode) error {
	arg, err := c.Argument(c.Command())
	if err != nil {
		return err
	}

	name := strings.TrimPrefix(strings.TrimSpace(arg.Text), `\`)
	if !csNamePattern.MatchString(name) {
		return ErrIllegalControlSequenceName.With(
			slog.String("command", c.Command()),
			slog.String("name", arg.Text),
		)
	}

	spec, err := ParseSpec(c)
	if err != nil {
		return err
	}

	body, err := c.Argument(c.Command())
	if err != nil {
		return err
	}

	r.logger.Debug("define",
		slog.String("name", name),
		slog.String("mode", mode.String()),
		slog.String("spec", spec.String()),
	)

	r.add(&Definition{Name: name, Body: body.Text, Spec: spec})

	return nil
}

// Add registers def, replacing any command of the same name. The name may
// carry a leading backslash.
func (r *Registry) Add(def Definition) error {
	def.Name = strings.TrimPrefix(strings.TrimSpace(def.Name), `\`)
	if !csNamePattern.MatchString(def.Name) {
		return ErrIllegalControlSequenceName.With(slog.String("name", def.Name))
	}

	r.add(&def)

	return nil
}

func (r *Registry) add(def *Definition) {
	r.defs[def.Name] = def
	r.table.Define(def.Name, func(p *tex.Parser, _ string) error {
		r.logger.Trace("expand",
			slog.String("name", def.Name),
			slog.Int("depth", p.Macros()),
		)

		return Expand(p, def)
	})
}

// Lookup returns the command registered under name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	def, ok := r.defs[strings.TrimPrefix(name, `\`)]
	if !ok {
		return Definition{}, false
	}

	return *def, true
}

// Len returns the number of registered commands.
func (r *Registry) Len() int { return len(r.defs) }

// All returns the registered commands sorted by name.
func (r *Registry) All() []Definition {
	defs := make([]Definition, 0, len(r.defs))
	for _, def := range r.defs {
		defs = append(defs, *def)
	}

	slices.SortFunc(defs, func(a, b Definition) int {
		return cmp.Compare(a.Name, b.Name)
	})

	return defs
}
