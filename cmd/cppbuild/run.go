package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/cppbuild/cppbuild/internal/config"
	"github.com/cppbuild/cppbuild/internal/cperr"
)

const runHelp = `cppbuild run <tool-name> [flags] [-- extra-args...]

Build the project (same as cppbuild build), then exec the named tool's
binary, inheriting stdio and forwarding its exit code.
`

func cmdrun(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return &cperr.Config{Msg: "run: missing tool name"}
	}
	target := args[0]
	rest := args[1:]

	var forward []string
	buildArgs := rest
	for i, a := range rest {
		if a == "--" {
			buildArgs = rest[:i]
			forward = rest[i+1:]
			break
		}
	}

	if err := cmdbuild(ctx, buildArgs); err != nil {
		return err
	}

	logger := log.New(os.Stderr, "", 0)
	cfg, err := loadConfig(buildArgs, logger, true)
	if err != nil {
		return err
	}

	path, ok := resolveToolBinary(&cfg, target)
	if !ok {
		return &cperr.Config{Msg: fmt.Sprintf("run: no tool or executable unit named %q", target)}
	}

	c := exec.CommandContext(ctx, path, forward...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Exit(exitErr.ExitCode())
		}
		return err
	}
	return nil
}

func resolveToolBinary(cfg *config.BuildConfig, target string) (string, bool) {
	for _, t := range cfg.Tools {
		if t.Name == target {
			outDir := t.OutputDir
			if outDir == "" {
				outDir = filepath.Join(cfg.BinaryRoot, "tools")
			}
			return filepath.Join(outDir, t.Name), true
		}
	}
	for i := range cfg.Directives {
		d := &cfg.Directives[i]
		if d.IsShared || d.UnitName != target {
			continue
		}
		out := d.OutputPath
		if out == "" {
			out = d.UnitName
		}
		return filepath.Join(cfg.BinaryRoot, out), true
	}
	return "", false
}
