// Package sourceresolver resolves a path as it appears inside a profile
// against the caller-supplied set of available source files (spec §4.2).
// It is pure and cheap; the Query API caches results per FileRecord.
package sourceresolver

import (
	"path"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	cgerrors "github.com/standardbeagle/cachelens/internal/errors"
)

// Files maps a relative path to its UTF-8 source content.
type Files map[string]string

// Options configures the resolver's probing strategy.
type Options struct {
	// Subdir is an optional subdirectory prefix probed before the generic
	// basename/suffix fallback (spec §4.2 step 2).
	Subdir string
}

// Resolve returns the content of the file referenced by profilePath,
// trying each strategy in spec §4.2 order and stopping at the first hit.
// A candidate whose stored content isn't valid UTF-8 (an object file or
// other binary sitting alongside sources under the project root) is
// skipped rather than returned, per spec §4.2: binary content yields
// absent, not a garbled "source" text.
func Resolve(profilePath string, files Files, opts Options) (string, error) {
	if content, ok := files[profilePath]; ok && utf8.ValidString(content) {
		return content, nil
	}

	if opts.Subdir != "" {
		if content, ok := probeSubdir(profilePath, files, opts.Subdir); ok {
			return content, nil
		}
	}

	if content, ok := probeBasenameOrSuffix(profilePath, files); ok {
		return content, nil
	}

	return "", cgerrors.NewResolveError(profilePath)
}

// probeSubdir tries D/suffix(P,k) for k from the full path down to 2
// components, then D/basename(P), then the same two probes again under a
// further "src/" prefix.
func probeSubdir(profilePath string, files Files, subdir string) (string, bool) {
	for _, prefix := range []string{subdir, path.Join(subdir, "src")} {
		components := splitComponents(profilePath)
		for k := len(components); k >= 2; k-- {
			candidate := path.Join(prefix, strings.Join(components[len(components)-k:], "/"))
			if content, ok := files[candidate]; ok && utf8.ValidString(content) {
				return content, true
			}
		}
		candidate := path.Join(prefix, path.Base(profilePath))
		if content, ok := files[candidate]; ok && utf8.ValidString(content) {
			return content, true
		}
	}
	return "", false
}

// probeBasenameOrSuffix matches any file whose basename equals
// basename(P), else any file whose last-k path components equal P's
// last-k, trying the longest k >= 2 first. When several keys qualify, the
// first one the map iteration reaches is returned.
func probeBasenameOrSuffix(profilePath string, files Files) (string, bool) {
	base := path.Base(profilePath)
	for key, content := range files {
		if path.Base(key) == base && utf8.ValidString(content) {
			return content, true
		}
	}

	components := splitComponents(profilePath)
	for k := len(components); k >= 2; k-- {
		suffix := strings.Join(components[len(components)-k:], "/")
		pattern := "**/" + suffix
		for key, content := range files {
			matched, err := doublestar.Match(pattern, key)
			if err == nil && matched && utf8.ValidString(content) {
				return content, true
			}
		}
	}
	return "", false
}

func splitComponents(p string) []string {
	p = strings.Trim(path.Clean(p), "/")
	if p == "" || p == "." {
		return nil
	}
	return strings.Split(p, "/")
}
