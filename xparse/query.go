package xparse

import (
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/xparse/tex"
)

// Query errors.
var (
	ErrExprCompile  = tex.NewError("expression compilation failed")
	ErrExprEvaluate = tex.NewError("expression evaluation failed")
)

// Env is the environment a filter expression is evaluated in.
type Env struct {
	Name        string
	Body        string
	Spec        string
	Letters     string
	Description string
	Args        int
	Optional    int
	Flags       int
}

// EnvOf returns the filter environment describing def.
func EnvOf(def Definition) Env {
	return Env{
		Name:        def.Name,
		Body:        def.Body,
		Spec:        def.Spec.String(),
		Letters:     def.Spec.Letters(),
		Description: def.Description,
		Args:        len(def.Spec),
		Optional:    def.Spec.Count(Arg.IsOptional),
		Flags:       def.Spec.Count(Arg.IsFlag),
	}
}

// Filter reports whether a definition is selected.
type Filter func(Definition) (bool, error)

// CompileFilter compiles a boolean expr-lang expression over [Env], e.g.
// `Args > 1 && Letters contains "s"`. An empty source selects everything.
func CompileFilter(source string) (Filter, error) {
	if source == "" {
		return func(Definition) (bool, error) { return true, nil }, nil
	}

	program, err := expr.Compile(source, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, ErrExprCompile.Wrap(err).With(slog.String("source", source))
	}

	return func(def Definition) (bool, error) {
		out, err := vm.Run(program, EnvOf(def))
		if err != nil {
			return false, ErrExprEvaluate.Wrap(err).
				With(slog.String("source", source), slog.String("name", def.Name))
		}

		ok, _ := out.(bool)

		return ok, nil
	}, nil
}

// Select returns the definitions in defs accepted by f, in order.
func Select(defs []Definition, f Filter) ([]Definition, error) {
	var out []Definition

	for _, def := range defs {
		ok, err := f(def)
		if err != nil {
			return nil, err
		}

		if ok {
			out = append(out, def)
		}
	}

	return out, nil
}
