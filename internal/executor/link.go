package executor

import (
	"context"

	"github.com/cppbuild/cppbuild/internal/cperr"
	"github.com/cppbuild/cppbuild/internal/graph"
	"github.com/cppbuild/cppbuild/internal/toolchain"
)

// link runs the single link step for n (and, for shared libraries,
// the static-archive companion step when archiveEnabled is set).
func (c *Ctx) link(ctx context.Context, n *graph.Node, w *nodeWork, objects []string, archiveEnabled bool) error {
	cfg := c.Config
	spec := toolchain.LinkSpec{
		Compiler:        cfg.Compiler,
		BinaryRoot:      cfg.BinaryRoot,
		LibSearchPaths:  cfg.LibSearchPaths,
		Debug:           w.debug,
		Objects:         objects,
		GlobalLibraries: cfg.Libraries,
		UnitLibraries:   w.libraries,
		GlobalLDFlags:   cfg.LDFlags,
		UnitLDFlags:     w.ldflags,
		OutputDir:       w.outDir,
		BaseName:        w.baseName,
		StaticLink:      w.static,
	}

	var cmd []string
	if n.Kind == graph.SharedLibrary {
		cmd = c.Toolchain.SharedLinkCommand(spec)
	} else {
		cmd = c.Toolchain.ToolLinkCommand(spec)
	}

	if w.verbose && c.Log != nil {
		c.Log.Printf("link: %s", joinCmd(cmd))
	}
	stdout, stderr, exitCode, runErr := runCommand(ctx, cmd)
	if exitCode != 0 || runErr != nil {
		return cperr.Link(cmd, stdout, stderr, exitCode, runErr)
	}

	if n.Kind == graph.SharedLibrary && archiveEnabled {
		archiveCmd := toolchain.ArchiveCommand(objects, w.outDir, w.baseName)
		if w.verbose && c.Log != nil {
			c.Log.Printf("archive: %s", joinCmd(archiveCmd))
		}
		stdout, stderr, exitCode, runErr := runCommand(ctx, archiveCmd)
		if exitCode != 0 || runErr != nil {
			return cperr.Archive(archiveCmd, stdout, stderr, exitCode, runErr)
		}
	}
	return nil
}
