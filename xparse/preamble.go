package xparse

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"
	"github.com/pelletier/go-toml/v2"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/xparse/tex"
)

// Preamble errors.
var (
	ErrReadInput      = tex.NewError("failed to read input")
	ErrDecodePreamble = tex.NewError("failed to decode preamble")
)

// Syntax identifies the encoding of a preamble.
type Syntax int

const (
	// SyntaxTeX is a document whose definition commands are executed.
	SyntaxTeX Syntax = iota
	SyntaxYAML
	SyntaxTOML
	SyntaxJSON
)

func (s Syntax) String() string {
	switch s {
	case SyntaxTeX:
		return "tex"
	case SyntaxYAML:
		return "yaml"
	case SyntaxTOML:
		return "toml"
	case SyntaxJSON:
		return "json"
	default:
		return "unknown"
	}
}

// SyntaxOf returns the syntax implied by the extension of path. Unknown
// extensions are TeX.
func SyntaxOf(path string) Syntax {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return SyntaxYAML
	case ".toml":
		return SyntaxTOML
	case ".json":
		return SyntaxJSON
	default:
		return SyntaxTeX
	}
}

// preambleCache stores decoded preambles keyed by content and syntax hash.
var preambleCache sync.Map

// preamble is the cached result of decoding one preamble.
type preamble struct {
	once sync.Once
	defs []Definition
	err  error
}

// ClearCache discards every cached preamble.
func ClearCache() {
	preambleCache.Clear()
}

// Load reads a preamble from src and adds its definitions to r. A TeX
// preamble is expanded in an empty registry of its own, with its output
// discarded, so it must not depend on commands defined elsewhere. Decoded
// preambles are cached by content; passing scanner options bypasses the
// cache.
func (r *Registry) Load(
	ctx context.Context,
	src io.Reader,
	syntax Syntax,
	opts ...tex.Option,
) error {
	ra := readahead.NewReader(src)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return ErrReadInput.Wrap(err).With(slog.String("syntax", syntax.String()))
	}

	r.logger.TraceContext(ctx, "read preamble",
		slog.Int("source_bytes", len(data)),
		slog.String("syntax", syntax.String()),
	)

	var defs []Definition

	if len(opts) > 0 {
		defs, err = r.decode(ctx, data, syntax, opts...)
	} else {
		defs, err = r.decodeCached(ctx, data, syntax)
	}

	if err != nil {
		return err
	}

	for _, def := range defs {
		r.add(&def)
	}

	r.logger.DebugContext(ctx, "loaded preamble",
		slog.String("syntax", syntax.String()),
		slog.Int("definitions", len(defs)),
	)

	return nil
}

// LoadFile loads the preamble at path, choosing the syntax by extension.
func (r *Registry) LoadFile(ctx context.Context, path string, opts ...tex.Option) error {
	f, err := os.Open(path)
	if err != nil {
		return ErrReadInput.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	if err := r.Load(ctx, f, SyntaxOf(path), opts...); err != nil {
		return tex.WrapError(err).With(slog.String("path", path))
	}

	return nil
}

func (r *Registry) decodeCached(
	ctx context.Context,
	data []byte,
	syntax Syntax,
) ([]Definition, error) {
	salt := uint64(syntax)
	if r.literals {
		salt |= 1 << 8
	}

	key := strconv.FormatUint(xxh3.Hash(data)^salt, 36)

	value, hit := preambleCache.LoadOrStore(key, new(preamble))
	entry := value.(*preamble)

	entry.once.Do(func() {
		entry.defs, entry.err = r.decode(ctx, data, syntax)
	})

	r.logger.TraceContext(ctx, "preamble cache",
		slog.String("key", key),
		slog.Bool("hit", hit),
	)

	return entry.defs, entry.err
}

func (r *Registry) decode(
	ctx context.Context,
	data []byte,
	syntax Syntax,
	opts ...tex.Option,
) ([]Definition, error) {
	if syntax == SyntaxTeX {
		scratch := r.Fresh()
		if _, err := scratch.Process(ctx, string(data), opts...); err != nil {
			return nil, err
		}

		return scratch.All(), nil
	}

	var (
		doc document
		err error
	)

	switch syntax {
	case SyntaxYAML:
		err = yaml.UnmarshalContext(ctx, data, &doc)
	case SyntaxTOML:
		err = toml.Unmarshal(data, &doc)
	case SyntaxJSON:
		err = json.Unmarshal(data, &doc)
	}

	if err != nil {
		return nil, ErrDecodePreamble.Wrap(err).With(slog.String("syntax", syntax.String()))
	}

	defs := make([]Definition, 0, len(doc.Commands))

	for i, e := range doc.Commands {
		spec, err := ParseSpecString(e.Spec)
		if err != nil {
			return nil, tex.WrapError(err).With(
				slog.Int("command", i),
				slog.String("name", e.Name),
			)
		}

		name := strings.TrimPrefix(strings.TrimSpace(e.Name), `\`)
		if !ValidName(name) {
			return nil, ErrIllegalControlSequenceName.With(
				slog.Int("command", i),
				slog.String("name", e.Name),
			)
		}

		defs = append(defs, Definition{
			Name:        name,
			Body:        e.Body,
			Spec:        spec,
			Description: e.Description,
		})
	}

	return defs, nil
}
