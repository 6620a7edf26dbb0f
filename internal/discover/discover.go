// Package discover enumerates C++ translation units under a source
// root, the same recursive-walk idiom the teacher uses in
// internal/build/glob.go for locating packages on disk.
package discover

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/cppbuild/cppbuild/internal/cperr"
)

var sourceExts = map[string]bool{
	".cpp": true,
	".cc":  true,
	".cxx": true,
}

// FindSources recursively walks dir and returns every regular file whose
// extension is .cpp, .cc or .cxx, in a deterministic (lexical) order.
// Dotfiles and dot-directories are descended into; this mirrors current
// behavior and is preserved deliberately. A missing dir is a
// *cperr.Source error.
func FindSources(dir string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, &cperr.Source{Path: dir, Err: err}
	}
	var sources []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if sourceExts[filepath.Ext(path)] {
			sources = append(sources, path)
		}
		return nil
	})
	if err != nil {
		return nil, &cperr.Source{Path: dir, Err: err}
	}
	sort.Strings(sources)
	return sources, nil
}
