package xparse

import "github.com/ardnew/xparse/tex"

// Cursor is the scanner interface consumed by the spec parser, the expander
// and the conditionals. [*tex.Parser] implements it.
type Cursor interface {
	// Next skips white space and peeks at the next character.
	Next() (rune, bool)
	// Consume advances past the next character.
	Consume()
	// Argument reads one argument group for the named command.
	Argument(name string) (tex.Segment, error)
	// Brackets reads an optional bracket group for the named command.
	Brackets(name string) (tex.Segment, bool, error)
	// Star consumes a leading "*" if present.
	Star() bool
	// Token peeks at the next token.
	Token() string
	// Advance moves forward n bytes.
	Advance(n int)
	// Splice inserts text ahead of the unconsumed input and rewinds to it.
	Splice(text string, marks ...tex.Mark) error
	// CheckMacros counts one substitution against the recursion budget.
	CheckMacros() error
	// Command returns the control sequence being dispatched.
	Command() string
}

var _ Cursor = (*tex.Parser)(nil)
