package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// Keys are flag names. Nested mappings are joined with hyphens, and
// underscores may stand in for hyphens:
//
//	log:
//	  level: debug
//	  pretty: false
//	max_macros: 500
//	preamble: [common.tex, math.yaml]
//
// This configuration will be applied to Kong flags:
//
//	--log-level=debug
//	--no-log-pretty
//	--max-macros=500
//	--preamble=common.tex,math.yaml
//
// Command-line flags override config file values. A config file that cannot
// be decoded is ignored.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if err := yaml.NewDecoder(r).DecodeContext(ctx, &doc); err != nil {
			return config{}, nil //nolint:nilerr
		}

		cfg := make(config)
		cfg.flatten("", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] over a flattened YAML document.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	// Not found; let kong use defaults.
	return nil, nil
}

// flatten copies doc into c, joining nested keys with hyphens. Numbers are
// stored as strings for kong's scalar decoders.
func (c config) flatten(prefix string, doc map[string]any) {
	for key, value := range doc {
		key = strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := value.(type) {
		case map[string]any:
			c.flatten(key, v)

		case uint64:
			c[key] = strconv.FormatUint(v, 10)

		case int64:
			c[key] = strconv.FormatInt(v, 10)

		case float64:
			c[key] = strconv.FormatFloat(v, 'f', -1, 64)

		case []any:
			list := make([]any, len(v))
			for i, e := range v {
				list[i] = fmt.Sprint(e)
			}

			c[key] = list

		default:
			c[key] = v
		}
	}
}
