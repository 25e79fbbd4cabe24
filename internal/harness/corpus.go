package harness

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Corpus is a root directory of conformance fixtures plus the include/
// exclude glob patterns (`**/*.ts`-style) selecting which files under it are
// checked (spec §6 "a collection of source files to check").
type Corpus struct {
	Root    string
	Include []string
	Exclude []string
}

// Files walks c.Root and returns every path matching at least one Include
// pattern and no Exclude pattern, sorted for a deterministic run order. An
// empty Include list means "everything".
func (c Corpus) Files() ([]string, error) {
	var out []string
	err := filepath.WalkDir(c.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(c.Root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !matchesAny(rel, c.Include) {
			return nil
		}
		if matchesAny(rel, c.Exclude) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("harness: walking corpus %s: %w", c.Root, err)
	}
	sort.Strings(out)
	return out, nil
}

// matchesAny reports whether rel matches one of patterns, trying a full-path
// match first and falling back to a basename match for patterns with no
// path separator (so `*.ts` means "any .ts file at any depth", matching the
// reference corpus layout's own shorthand).
func matchesAny(rel string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	base := filepath.Base(rel)
	for _, p := range patterns {
		if matched, err := doublestar.PathMatch(p, rel); err == nil && matched {
			return true
		}
		if !strings.Contains(p, "/") {
			if matched, err := doublestar.PathMatch(p, base); err == nil && matched {
				return true
			}
		}
	}
	return false
}
