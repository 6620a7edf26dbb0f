package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/cppbuild/cppbuild"
	"github.com/cppbuild/cppbuild/internal/clicolor"
)

var debug = flag.Bool("debug", false, "format error messages with additional detail")

func funcmain() error {
	flag.Parse()

	type cmd struct {
		fn func(ctx context.Context, args []string) error
	}
	verbs := map[string]cmd{
		"build": {cmdbuild},
		"clean": {cmdclean},
		"plan":  {cmdplan},
		"run":   {cmdrun},
		"init":  {cmdinit},
		"help":  {cmdhelp},
	}

	args := flag.Args()
	verb := "build"
	if len(args) > 0 {
		verb, args = args[0], args[1:]
	}

	ctx, canc := cppbuild.InterruptibleContext()
	defer canc()

	v, ok := verbs[verb]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", verb)
		cmdhelp(ctx, nil)
		os.Exit(2)
	}

	if err := v.fn(ctx, args); err != nil {
		if *debug {
			return fmt.Errorf("%s: %+v", verb, err)
		}
		return fmt.Errorf("%s: %v", verb, err)
	}
	return cppbuild.RunAtExit()
}

func main() {
	if err := funcmain(); err != nil {
		fmt.Fprintln(os.Stderr, clicolor.Errorf("%v", err))
		os.Exit(1)
	}
}
