package tex

import "strings"

// Mark annotates a byte range of scanned text with an out-of-band tag. Marks
// travel with the text they cover through every read and splice, so a tag
// can never be forged by typing the covered characters.
type Mark struct {
	Offset int
	Len    int
	Tag    any
}

func (m Mark) end() int { return m.Offset + m.Len }

// shift returns m moved by n bytes.
func (m Mark) shift(n int) Mark {
	m.Offset += n

	return m
}

// Segment is a run of text read from a [Parser] together with the marks
// lying entirely within it. Mark offsets are relative to Text.
type Segment struct {
	Text  string
	Marks []Mark
}

// String returns the segment text.
func (s Segment) String() string { return s.Text }

// TrimSpace returns s without leading and trailing white space. Marks that
// do not lie entirely within the trimmed text are dropped.
func (s Segment) TrimSpace() Segment {
	lead := len(s.Text) - len(strings.TrimLeft(s.Text, spaceChars))
	text := strings.TrimRight(s.Text[lead:], spaceChars)

	return Segment{Text: text, Marks: clip(s.Marks, lead, lead+len(text))}
}

// Covering returns the mark spanning the whole segment, if any. Empty
// segments are never covered.
func (s Segment) Covering() (Mark, bool) {
	if s.Text == "" {
		return Mark{}, false
	}

	for _, m := range s.Marks {
		if m.Offset == 0 && m.Len == len(s.Text) {
			return m, true
		}
	}

	return Mark{}, false
}

// Join appends next to s using the [Join] rule, shifting the marks of next
// past any separator that was inserted.
func (s Segment) Join(next Segment) Segment {
	text := Join(s.Text, next.Text)
	shift := len(text) - len(next.Text)

	marks := make([]Mark, 0, len(s.Marks)+len(next.Marks))
	marks = append(marks, s.Marks...)

	for _, m := range next.Marks {
		marks = append(marks, m.shift(shift))
	}

	return Segment{Text: text, Marks: marks}
}

// clip returns the marks within [lo, hi) rebased to lo.
func clip(marks []Mark, lo, hi int) []Mark {
	var out []Mark

	for _, m := range marks {
		if m.Offset >= lo && m.end() <= hi {
			out = append(out, m.shift(-lo))
		}
	}

	return out
}

const spaceChars = " \t\n\r\f\v"

func isSpace(c byte) bool { return strings.IndexByte(spaceChars, c) >= 0 }

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

// Join concatenates a and b the way macro text is spliced into the input: if
// a ends in a control word and b begins with a letter, a single space is
// inserted so the two do not fuse into one longer control word.
func Join(a, b string) string {
	if NeedsSpace(a, b) {
		return a + " " + b
	}

	return a + b
}

// NeedsSpace reports whether [Join] inserts a separator between a and b.
func NeedsSpace(a, b string) bool {
	if b == "" || !isLetter(b[0]) {
		return false
	}

	i := len(a)
	for i > 0 && isLetter(a[i-1]) {
		i--
	}

	if i == len(a) {
		return false
	}

	// The letters form a control word only if preceded by an odd run of
	// backslashes; "\\" is an escaped backslash.
	n := 0
	for i > 0 && a[i-1] == '\\' {
		n++
		i--
	}

	return n%2 == 1
}
