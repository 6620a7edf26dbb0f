package main

import (
	"context"
	"fmt"
	"os"
)

func cmdhelp(ctx context.Context, args []string) error {
	_ = ctx
	if len(args) == 1 {
		if text, ok := helpText[args[0]]; ok {
			fmt.Fprint(os.Stderr, text)
			return nil
		}
	}
	fmt.Fprintf(os.Stderr, "cppbuild [-debug] <command> [flags] [args]\n\n")
	fmt.Fprintf(os.Stderr, "To get help on any command, use cppbuild help <command>.\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "\tbuild  - compile and link everything that is stale\n")
	fmt.Fprintf(os.Stderr, "\tclean  - remove build outputs\n")
	fmt.Fprintf(os.Stderr, "\tplan   - print the resolved dependency graph and build order\n")
	fmt.Fprintf(os.Stderr, "\trun    - build, then exec a tool's binary\n")
	fmt.Fprintf(os.Stderr, "\tinit   - scaffold a starter project file and source tree\n")
	return nil
}

var helpText = map[string]string{
	"build": buildHelp,
	"clean": cleanHelp,
	"plan":  planHelp,
	"run":   runHelp,
	"init":  initHelp,
}
