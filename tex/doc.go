// Package tex provides a small TeX-style input scanner that hosts document
// command extensions.
//
// A [Parser] owns one input buffer and a cursor into it. Handlers registered
// in a [Table] are invoked for matching control sequences and use the
// scanner primitives ([Parser.Argument], [Parser.Brackets], [Parser.Star],
// [Parser.Token]) to read their arguments. Replacement text is inserted with
// [Parser.Splice], which places it ahead of the unconsumed input so that it
// is scanned again. [Parser.CheckMacros] bounds the number of such
// substitutions per parser.
//
// Text read from the buffer is returned as a [Segment], carrying any [Mark]
// values attached to it by earlier splices.
package tex
