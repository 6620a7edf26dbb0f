package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/cppbuild/cppbuild/internal/clicolor"
	"github.com/cppbuild/cppbuild/internal/executor"
)

const cleanHelp = `cppbuild clean [flags]

Remove build/, bin/lib, bin/tools and the legacy bin/<project-name>
artifact. Missing directories are not an error.
`

func cmdclean(ctx context.Context, args []string) error {
	_ = ctx
	logger := log.New(os.Stderr, "", 0)
	cfg, err := loadConfig(args, logger, false)
	if err != nil {
		return err
	}
	exec := &executor.Ctx{Config: &cfg, Log: logger}
	if err := exec.Clean(); err != nil {
		return err
	}
	fmt.Println(clicolor.Green("clean"))
	return nil
}
