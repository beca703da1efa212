package tex

import (
	"maps"
	"slices"
)

// Handler implements a control sequence. It is invoked with the scanner
// positioned just past the control sequence name and may read arguments or
// splice replacement text.
type Handler func(p *Parser, name string) error

// Table maps control sequence names (without the leading backslash) to
// their handlers.
type Table struct {
	name     string
	handlers map[string]Handler
}

// NewTable returns an empty table identified by name in log output.
func NewTable(name string) *Table {
	return &Table{name: name, handlers: make(map[string]Handler)}
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Define installs h under name, replacing any existing handler.
func (t *Table) Define(name string, h Handler) { t.handlers[name] = h }

// Lookup returns the handler for name.
func (t *Table) Lookup(name string) (Handler, bool) {
	h, ok := t.handlers[name]

	return h, ok
}

// Len returns the number of defined names.
func (t *Table) Len() int { return len(t.handlers) }

// Names returns the defined names in sorted order.
func (t *Table) Names() []string {
	return slices.Sorted(maps.Keys(t.handlers))
}
