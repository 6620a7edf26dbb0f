package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/cppbuild/cppbuild/internal/graph"
)

const planHelp = `cppbuild plan [flags]

Resolve the dependency graph and print the nodes in build order,
without compiling or linking anything.
`

func cmdplan(ctx context.Context, args []string) error {
	_ = ctx
	logger := log.New(os.Stderr, "", 0)
	cfg, err := loadConfig(args, logger, true)
	if err != nil {
		return err
	}

	summary, err := graph.Preview(&cfg)
	if err != nil {
		return err
	}

	byID := make(map[string]graph.NodeSummary, len(summary.Nodes))
	for _, n := range summary.Nodes {
		byID[n.ID] = n
	}

	for i, id := range summary.Order {
		n := byID[id]
		fmt.Printf("%2d. %-12s %s\n", i+1, n.Kind, n.ID)
		if len(n.Dependencies) > 0 {
			fmt.Printf("      deps: %v\n", n.Dependencies)
		}
	}
	for id, toks := range summary.Unresolved {
		fmt.Printf("warning: %s: unresolved dependencies %v\n", id, toks)
	}
	return nil
}
