package xparse

import "github.com/ardnew/xparse/tex"

// Errors raised while defining and expanding document commands. Errors from
// the scanner primitives ([tex.ErrMissingCloseBrace],
// [tex.ErrMissingCloseBracket], [tex.ErrIllegalMacroParam],
// [tex.ErrMaxBufferSize]) are returned unchanged.
var (
	ErrMissingArgument            = tex.ErrMissingArgument
	ErrExtraCloseBrace            = tex.ErrExtraCloseBrace
	ErrMacroRecursionLimit        = tex.ErrMacroRecursionLimit
	ErrIllegalControlSequenceName = tex.NewError(
		"first argument must be a command",
	)
	ErrNotImplemented        = tex.NewError("argument type not yet supported")
	ErrInvalidArgumentLetter = tex.NewError("invalid argument spec letter")
	ErrUnterminatedSpec      = tex.NewError("missing close brace in argument spec")
	ErrInvalidBooleanSubject = tex.NewError("invalid boolean argument")
	ErrTrailingSpecInput     = tex.NewError("unexpected input after argument spec")
)
