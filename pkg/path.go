package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

// Prefix returns the base name used to construct the configuration and cache
// directory paths and the environment variable prefix.
//
// By default, Prefix is the base name of the executable file unless it matches
// one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with [Name]
//   - "^\.+" (dot-prefixed names): remove the dot prefix
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = strings.TrimSuffix(filepath.Base(id), filepath.Ext(id))

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): Name,
			regexp.MustCompile(`^\.+`):             "",
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		if id == "" {
			id = Name
		}

		return id
	},
)

// userDir resolves a per-user base directory, falling back to a dot
// directory in $HOME and finally the working directory.
func userDir(primary func() (string, error), dot string) string {
	dir, err := primary()
	if err == nil {
		return filepath.Join(dir, Prefix())
	}

	if dir, err = os.UserHomeDir(); err == nil {
		return filepath.Join(dir, dot, Prefix())
	}

	if dir, err = os.Getwd(); err == nil {
		return filepath.Join(dir, Prefix())
	}

	return Prefix()
}

// ConfigDir returns the configuration directory path.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string { return userDir(os.UserConfigDir, ".config") },
)

// CacheDir returns the cache directory path used for transient files such as
// REPL history and profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string { return userDir(os.UserCacheDir, ".cache") },
)

// PathEnv returns the name of the environment variable holding the preamble
// search path, e.g. "XPARSE_PATH".
func PathEnv() string { return EnvPrefix() + "PATH" }

// SearchPath returns the ordered list of directories searched for preamble
// files. The given dirs are placed ahead of the entries of [PathEnv], and
// duplicates are removed.
func SearchPath(dirs ...string) []string {
	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(PathEnv())),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
	).String()

	var path []string

	seen := make(map[string]struct{})

	for dir := range strings.SplitSeq(list, string(os.PathListSeparator)) {
		if dir = strings.TrimSpace(dir); dir == "" {
			continue
		}

		if _, ok := seen[dir]; ok {
			continue
		}

		seen[dir] = struct{}{}
		path = append(path, dir)
	}

	return path
}

// FindFile resolves name against the search path. Names that exist as given,
// or that are absolute, are returned unchanged. The boolean result reports
// whether an existing file was found.
func FindFile(name string, path []string) (string, bool) {
	if _, err := os.Stat(name); err == nil || filepath.IsAbs(name) {
		return name, err == nil
	}

	for _, dir := range path {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}

	return name, false
}
