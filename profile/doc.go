// Package profile provides optional runtime profiling for the xparse
// command.
//
// Profiling is backed by [github.com/pkg/profile] and is compiled in only
// with the "pprof" build tag:
//
//	go build -tags pprof -o xparse .
//
// Without the tag every operation is a no-op and [Modes] is empty.
//
// A session is described by a [Profiler] and started with [Profiler.Start]:
//
//	ctrl := profile.Profiler{Mode: "cpu", Path: "/tmp/profiles"}.Start()
//	defer ctrl.Stop()
//
// Profile files are written to Path with names matching the mode (e.g.
// cpu.pprof, mem.pprof) and can be inspected with "go tool pprof". When
// enabled, the package also registers the [net/http/pprof] handlers.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
