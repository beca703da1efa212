package cmd

import "github.com/ardnew/xparse/tex"

// Command errors. They are [tex.Error] values, so callers decorate them with
// With and Wrap and log them through their LogValue.
var (
	ErrReadDocument     = tex.NewError("read document")
	ErrPreambleNotFound = tex.NewError("preamble not found")
	ErrWriteOutput      = tex.NewError("write output")
	ErrYAMLMarshal      = tex.NewError("marshal YAML")
	ErrWriteConfig      = tex.NewError("write configuration file")
	ErrFileExists       = tex.NewError("file exists (use --force to overwrite)")
)
