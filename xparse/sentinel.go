package xparse

import (
	"log/slog"

	"github.com/ardnew/xparse/tex"
)

// Sentinel classifies a captured argument value.
type Sentinel int

const (
	// Plain is an ordinary captured value.
	Plain Sentinel = iota
	// BooleanTrue is a star or token flag that was present.
	BooleanTrue
	// BooleanFalse is a star or token flag that was absent.
	BooleanFalse
	// NoValue is an optional argument without a default that was absent.
	NoValue
)

var sentinelText = [...]string{
	Plain:        "",
	BooleanTrue:  `\BooleanTrue`,
	BooleanFalse: `\BooleanFalse`,
	NoValue:      "-NoValue-",
}

// String returns the reserved text that stands for s in a macro body, or ""
// for [Plain].
func (s Sentinel) String() string {
	if s < 0 || int(s) >= len(sentinelText) {
		return ""
	}

	return sentinelText[s]
}

// IsBoolean reports whether s is [BooleanTrue] or [BooleanFalse].
func (s Sentinel) IsBoolean() bool { return s == BooleanTrue || s == BooleanFalse }

// literal returns the sentinel whose reserved text equals text.
func literal(text string) Sentinel {
	for s := BooleanTrue; s <= NoValue; s++ {
		if sentinelText[s] == text {
			return s
		}
	}

	return Plain
}

// Value is one captured argument. Sentinel values carry their reserved text
// so that substitution renders them verbatim, and are tagged out of band when
// spliced back into the input.
type Value struct {
	Kind  Sentinel
	Text  string
	marks []tex.Mark
}

// TextValue returns an ordinary value with the given text.
func TextValue(text string) Value { return Value{Kind: Plain, Text: text} }

// SentinelValue returns the value standing for s.
func SentinelValue(s Sentinel) Value { return Value{Kind: s, Text: s.String()} }

// boolValue returns the boolean sentinel value for b.
func boolValue(b bool) Value {
	if b {
		return SentinelValue(BooleanTrue)
	}

	return SentinelValue(BooleanFalse)
}

// segmentValue converts text read from the input into a value. A segment
// entirely covered by a sentinel mark becomes that sentinel. Unmarked text
// equal to a sentinel's reserved text becomes the sentinel only when
// literals are honored.
func segmentValue(seg tex.Segment, literals bool) Value {
	if m, ok := seg.Covering(); ok {
		if s, ok := m.Tag.(Sentinel); ok {
			return Value{Kind: s, Text: seg.Text}
		}
	}

	v := Value{Kind: Plain, Text: seg.Text, marks: seg.Marks}
	if literals {
		v.Kind = literal(seg.Text)
	}

	return v
}

// segment renders v as spliceable text. Sentinels are covered by a mark
// tagged with their kind; ordinary text keeps the marks it was read with.
func (v Value) segment() tex.Segment {
	if v.Kind != Plain {
		return tex.Segment{
			Text:  v.Text,
			Marks: []tex.Mark{{Offset: 0, Len: len(v.Text), Tag: v.Kind}},
		}
	}

	return tex.Segment{Text: v.Text, Marks: v.marks}
}

// String returns the value text.
func (v Value) String() string { return v.Text }

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value {
	if v.Kind == Plain {
		return slog.StringValue(v.Text)
	}

	return slog.GroupValue(
		slog.String("sentinel", v.Kind.String()),
	)
}
