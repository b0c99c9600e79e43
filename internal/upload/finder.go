package upload

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Finder discovers candidate documents for batch upload under a root
// directory, honoring include and exclude glob patterns.
type Finder struct {
	include []string
	exclude []string
}

// NewFinder creates a Finder with the given glob patterns. Empty
// include means everything; empty exclude means nothing is skipped.
func NewFinder(include, exclude []string) *Finder {
	return &Finder{include: include, exclude: exclude}
}

// Find walks root and returns matching document paths, sorted.
func (f *Finder) Find(root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			return nil
		}
		if matchesAny(rel, f.exclude) {
			return nil
		}
		if f.matchesInclude(rel) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(found)
	return found, nil
}

func (f *Finder) matchesInclude(rel string) bool {
	if len(f.include) == 0 {
		return true
	}
	return matchesAny(rel, f.include)
}

// matchesAny checks rel against glob patterns. Patterns use doublestar
// for ** support, and also match against the bare filename.
func matchesAny(rel string, patterns []string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}
		base := filepath.Base(normalized)
		if matched, err := doublestar.PathMatch(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
