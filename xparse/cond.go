package xparse

import (
	"log/slog"

	"github.com/ardnew/xparse/tex"
)

// Branch selects which bodies a conditional reads.
type Branch int

const (
	// BranchTF reads a true body and a false body.
	BranchTF Branch = iota
	// BranchT reads a true body only.
	BranchT
	// BranchF reads a false body only.
	BranchF
)

func (b Branch) String() string {
	switch b {
	case BranchTF:
		return "TF"
	case BranchT:
		return "T"
	case BranchF:
		return "F"
	default:
		return "?"
	}
}

// Branches lists every branch selector.
func Branches() []Branch { return []Branch{BranchTF, BranchT, BranchF} }

// conditional reads the subject and bodies of a conditional and splices the
// body selected by test.
func conditional(
	c Cursor,
	b Branch,
	literals bool,
	test func(Value) (bool, error),
) error {
	name := c.Command()

	seg, err := c.Argument(name)
	if err != nil {
		return err
	}

	first, err := c.Argument(name)
	if err != nil {
		return err
	}

	var second tex.Segment

	if b == BranchTF {
		if second, err = c.Argument(name); err != nil {
			return err
		}
	}

	holds, err := test(segmentValue(seg.TrimSpace(), literals))
	if err != nil {
		return err
	}

	// BranchF reads its only body into first and takes it when the test
	// fails.
	if holds != (b == BranchF) {
		return splice(c, first)
	}

	return splice(c, second)
}

// IfBoolean implements the IfBoolean conditionals. The subject must be
// [BooleanTrue] or [BooleanFalse].
func (r *Registry) IfBoolean(c Cursor, b Branch) error {
	return conditional(c, b, r.literals, func(v Value) (bool, error) {
		if !v.Kind.IsBoolean() {
			return false, ErrInvalidBooleanSubject.With(
				slog.String("command", c.Command()),
				slog.String("value", v.Text),
			)
		}

		return v.Kind == BooleanTrue, nil
	})
}

// IfNoValue implements the IfNoValue conditionals. Any subject other than
// [NoValue] has a value.
func (r *Registry) IfNoValue(c Cursor, b Branch) error {
	return conditional(c, b, r.literals, func(v Value) (bool, error) {
		return v.Kind == NoValue, nil
	})
}
