package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/cppbuild/cppbuild/internal/clicolor"
	"github.com/cppbuild/cppbuild/internal/executor"
	"github.com/cppbuild/cppbuild/internal/graph"
	"github.com/cppbuild/cppbuild/internal/toolchain"
)

const buildHelp = `cppbuild build [flags] [project-name] [extra-tool-sources...]

Compile and link every configured shared library, configured tool and
build-directive-declared unit, skipping anything whose object files
are already newer than their sources.

Flags:
  --config PATH          project file to read (default cppbuild.ini)
  -d, --debug             debug build (-g -O0)
  -O, --optimize          optimized build (-O3)
  -v, --verbose           print every command run
  -p, --parallel          compile with a bounded worker pool
  -c, --compiler NAME     override the compiler binary
  --toolchain NAME        gcc or clang
  -I, -L, -l DIR/LIB      append a global include dir, lib search path or library
  --shared-lib NAME SRC   declare an ad hoc shared library unit
  --tool NAME SRC         declare an ad hoc tool unit
`

func cmdbuild(ctx context.Context, args []string) error {
	logger := log.New(os.Stderr, "", 0)
	cfg, err := loadConfig(args, logger, true)
	if err != nil {
		return err
	}

	g, err := graph.Plan(&cfg)
	if err != nil {
		return err
	}
	for id, toks := range g.Unresolved {
		if cfg.Verbose {
			logger.Printf("[warn] %s: unresolved dependencies %v", id, toks)
		}
	}

	tc := toolchain.For(cfg.Toolchain, cfg.Compiler)
	exec := &executor.Ctx{Config: &cfg, Graph: g, Toolchain: tc, Log: logger}
	if err := exec.Execute(ctx); err != nil {
		return err
	}

	fmt.Println(clicolor.Green("Build completed successfully!"))
	return nil
}
