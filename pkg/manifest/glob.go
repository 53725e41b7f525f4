package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Resolve expands include patterns, unions the regular files they match,
// then removes files matched by exclude patterns. Patterns beginning with
// "/" are absolute; all others are resolved relative to cwd. Directories
// are silently dropped. Result order is unspecified; determinism comes from
// manifest key ordering later.
func Resolve(cwd string, include, exclude []string) ([]SourceFile, error) {
	matched := map[string]struct{}{}

	for _, pattern := range include {
		paths, err := expand(cwd, pattern)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			matched[p] = struct{}{}
		}
	}

	for _, pattern := range exclude {
		paths, err := expand(cwd, pattern)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			delete(matched, p)
		}
	}

	files := make([]SourceFile, 0, len(matched))
	for p := range matched {
		files = append(files, SourceFile{Path: p})
	}
	return files, nil
}

func expand(cwd, pattern string) ([]string, error) {
	search := pattern
	if !filepath.IsAbs(search) {
		search = filepath.Join(cwd, search)
	}

	paths, err := doublestar.FilepathGlob(search)
	if err != nil {
		return nil, fmt.Errorf("glob pattern %q: %w", pattern, err)
	}

	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("glob pattern %q: %w", pattern, err)
		}
		if info.Mode().IsRegular() {
			files = append(files, p)
		}
	}
	return files, nil
}
