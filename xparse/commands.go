package xparse

import "github.com/ardnew/xparse/tex"

// Builtins returns the names of the commands every registry provides.
func Builtins() []string {
	names := make([]string, 0, len(Modes())+2*len(Branches()))

	for _, m := range Modes() {
		names = append(names, m.Command())
	}

	for _, b := range Branches() {
		names = append(names, "IfBoolean"+b.String(), "IfNoValue"+b.String())
	}

	return names
}

func (r *Registry) install() {
	for _, m := range Modes() {
		r.table.Define(m.Command(), func(p *tex.Parser, _ string) error {
			return r.Define(p, m)
		})
	}

	for _, b := range Branches() {
		r.table.Define("IfBoolean"+b.String(), func(p *tex.Parser, _ string) error {
			return r.IfBoolean(p, b)
		})
		r.table.Define("IfNoValue"+b.String(), func(p *tex.Parser, _ string) error {
			return r.IfNoValue(p, b)
		})
	}
}
