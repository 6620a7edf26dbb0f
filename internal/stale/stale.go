// Package stale decides whether an object file must be rebuilt, by
// comparing modification times of the source file and everything it
// (shallowly) includes against the object file's mtime.
package stale

import (
	"os"

	"github.com/cppbuild/cppbuild/internal/scan"
)

// NeedsRecompile reports whether object must be rebuilt from source.
func NeedsRecompile(source, object string) bool {
	srcInfo, err := os.Stat(source)
	if err != nil {
		return true // let the compiler surface a meaningful error
	}
	objInfo, err := os.Stat(object)
	if err != nil {
		return true
	}
	if srcInfo.ModTime().After(objInfo.ModTime()) {
		return true
	}
	for _, inc := range scan.ExtractIncludes(source) {
		incInfo, err := os.Stat(inc)
		if err != nil {
			// A bare name with no directory component that isn't found
			// on disk is plausibly a system header; skip it.
			continue
		}
		if incInfo.ModTime().After(objInfo.ModTime()) {
			return true
		}
	}
	return false
}
