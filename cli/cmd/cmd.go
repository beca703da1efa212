package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"

	"github.com/ardnew/xparse/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	sourceFilesKey struct{}
	sourceFiles    struct {
		names    []string
		read     []io.Reader
		hasStdin bool
	}

	// SourceFiles reads the input documents named on the command line, in
	// order, with stdin last.
	SourceFiles interface {
		Names() []string
		io.Reader
	}
)

// Names returns the resolved paths of the source files. Stdin is reported as
// "-".
func (s *sourceFiles) Names() []string {
	if s.hasStdin {
		return append(s.names[:len(s.names):len(s.names)], stdinSource)
	}

	return s.names
}

// Read implements io.Reader by reading from all source files in order,
// including stdin if present.
func (s *sourceFiles) Read(p []byte) (n int, err error) {
	readers := s.read
	if s.hasStdin {
		readers = append(readers[:len(readers):len(readers)], os.Stdin)
	}

	return io.MultiReader(readers...).Read(p)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context containing an [io.Reader] that
// reads from the given source files.
//
// Files are deduplicated by device/inode after resolving symlinks, and every
// "-" collapses to a single stdin reader placed after all regular files.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.read = make([]io.Reader, 0, len(sources))
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		name, reader, ok := openUniqueFile(src, seen)
		if !ok {
			continue
		}

		srcs.names = append(srcs.names, name)
		srcs.read = append(srcs.read, reader)
	}

	// Stdin may have been included via "-" or as a named file.
	_, srcs.hasStdin = seen[stdinKey]

	if len(srcs.read) == 0 && !srcs.hasStdin {
		return nil
	}

	return &srcs
}

// openUniqueFile opens the file at path unless a file with the same device and
// inode was already seen. It returns the resolved path of the opened file.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (string, io.Reader, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", nil, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", nil, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", nil, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return "", nil, false
	}

	if _, exists := seen[key]; exists {
		return "", nil, false
	}

	seen[key] = struct{}{}

	file, err := os.Open(resolved)
	if err != nil {
		return "", nil, false
	}

	return resolved, file, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// sourceFilesFrom retrieves the io.Reader stored in ctx by WithSourceFiles.
// Returns nil if no reader was stored.
func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}

// readDocument returns the concatenated source files stored in ctx, or all of
// stdin when there are none.
func readDocument(ctx context.Context) (string, error) {
	var (
		src   io.Reader = os.Stdin
		names           = []string{stdinSource}
	)

	if files := sourceFilesFrom(ctx); files != nil {
		src, names = files, files.Names()
	}

	ra := readahead.NewReader(src)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadDocument.Wrap(err).With(slog.Any("source", names))
	}

	log.TraceContext(ctx, "read document",
		slog.Any("source", names),
		slog.Int("bytes", len(data)),
	)

	return string(data), nil
}
