package executor

import (
	"strings"

	"github.com/cppbuild/cppbuild/internal/cperr"
	"github.com/cppbuild/cppbuild/internal/scan"
	"github.com/google/renameio"
)

// writeDepRecord writes the sibling .d file (object with its extension
// replaced by .d) recording object's direct includes, atomically: a
// crash or a concurrent reader never observes a partial file.
func writeDepRecord(object, source string) error {
	depPath := strings.TrimSuffix(object, ".o") + ".d"
	includes := scan.ExtractIncludes(source)

	var b strings.Builder
	b.WriteString(object)
	b.WriteString(": ")
	b.WriteString(source)
	for _, inc := range includes {
		b.WriteString("\n\t")
		b.WriteString(inc)
	}
	b.WriteString("\n")

	t, err := renameio.TempFile("", depPath)
	if err != nil {
		return &cperr.Source{Path: depPath, Err: err}
	}
	defer t.Cleanup()

	if _, err := t.Write([]byte(b.String())); err != nil {
		return &cperr.Source{Path: depPath, Err: err}
	}
	if err := t.CloseAtomicallyReplace(); err != nil {
		return &cperr.Source{Path: depPath, Err: err}
	}
	return nil
}
