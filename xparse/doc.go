// Package xparse implements typed document commands for the [tex] scanner.
//
// A document command is declared with an argument spec, a string of letters
// describing the arguments it takes:
//
//	m      a mandatory argument group
//	o      an optional [bracket] argument, -NoValue- when absent
//	O{d}   an optional [bracket] argument, d when absent
//	s      a star flag, \BooleanTrue or \BooleanFalse
//	t{x}   a token flag, true when the next token is x (consumed)
//
// For example
//
//	\NewDocumentCommand{\greet}{s O{world}}{\IfBooleanTF{#1}{HELLO}{hello}, #2}
//
// makes "\greet*[you]" expand to "HELLO, you". The letters r, R, v, d, D, e
// and E are reserved and rejected.
//
// Captured sentinel values are tagged with a [tex.Mark] when spliced back
// into the input, and the IfBoolean and IfNoValue conditionals recognize
// their subject by that mark. Unless [WithStrictSentinels] is set, sentinel
// text typed by hand is recognized as well.
package xparse
