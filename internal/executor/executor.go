// Package executor creates output directories, schedules compilation on
// a bounded worker pool, links in topological order, and emits
// companion dependency records. It is the only component that mutates
// the filesystem or spawns child processes.
package executor

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/cppbuild/cppbuild/internal/config"
	"github.com/cppbuild/cppbuild/internal/cperr"
	"github.com/cppbuild/cppbuild/internal/graph"
	"github.com/cppbuild/cppbuild/internal/toolchain"
)

// Ctx is the build executor's configuration and state for one
// invocation.
type Ctx struct {
	Config    *config.BuildConfig
	Graph     *graph.Graph
	Toolchain toolchain.Toolchain
	Log       *log.Logger
}

// compileTask is one (node, source) pair that may need recompiling.
type compileTask struct {
	node   *graph.Node
	index  int // position within the node's source list
	source string
	object string
}

// nodeWork is the per-node plan the executor derives from each node's
// Origin before compiling or linking it.
type nodeWork struct {
	node      *graph.Node
	sources   []string
	objDir    string
	outDir    string
	baseName  string // without extension
	cflags    []string
	ldflags   []string
	includes  []string
	libraries []string
	verbose   bool
	debug     bool
	optimize  bool
	static    bool
	skip      bool // directive source not found
}

// Execute runs the full build: directory setup, the parallel compile
// phase, and the serial link phase in graph order.
func (c *Ctx) Execute(ctx context.Context) error {
	if err := c.ensureDirs(); err != nil {
		return err
	}

	works := make(map[string]*nodeWork, len(c.Graph.Nodes))
	for _, n := range c.Graph.Nodes {
		w, err := c.planNode(n)
		if err != nil {
			return err
		}
		works[n.ID] = w
	}

	var tasks []compileTask
	for _, n := range c.Graph.Order {
		w := works[n.ID]
		if w.skip {
			continue
		}
		for i, src := range w.sources {
			tasks = append(tasks, compileTask{node: n, index: i, source: src, object: objectPath(w.objDir, src)})
		}
	}

	objects, err := c.compile(ctx, tasks, works)
	if err != nil {
		return err
	}

	staticLinkEnabled := c.Config.StaticLink
	for _, t := range c.Config.Tools {
		if config.EffectiveBool(t.StaticLink, c.Config.StaticLink) {
			staticLinkEnabled = true
		}
	}

	for _, n := range c.Graph.Order {
		w := works[n.ID]
		if w.skip {
			continue
		}
		objs := objects[n.ID]
		if err := c.link(ctx, n, w, objs, staticLinkEnabled); err != nil {
			return err
		}
	}
	return nil
}

// objectPath implements the Object-file path rule: strip a leading
// src/ (or ./src/) component from source, take its basename without
// extension, append .o, join under the node's object directory.
func objectPath(objDir, source string) string {
	s := strings.TrimPrefix(source, "./src/")
	s = strings.TrimPrefix(s, "src/")
	base := filepath.Base(s)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(objDir, base+".o")
}

func (c *Ctx) planNode(n *graph.Node) (*nodeWork, error) {
	cfg := c.Config
	w := &nodeWork{node: n}

	switch n.Origin.Kind {
	case graph.ConfiguredShared:
		sl := cfg.SharedLibs[n.Origin.Index]
		w.sources = sl.Sources
		w.objDir = filepath.Join(cfg.BuildRoot, sl.Name)
		w.outDir = sl.OutputDir
		if w.outDir == "" {
			w.outDir = filepath.Join(cfg.BinaryRoot, "lib")
		}
		w.baseName = sl.Name
		w.cflags = sl.CFlags
		w.ldflags = sl.LDFlags
		w.includes = sl.IncludeDirs
		w.libraries = sl.Libraries
		w.verbose = config.EffectiveBool(sl.Verbose, cfg.Verbose)
		w.debug = config.EffectiveBool(sl.Debug, cfg.Debug)
		w.optimize = config.EffectiveBool(sl.Optimize, cfg.Optimize)

	case graph.ConfiguredTool:
		t := cfg.Tools[n.Origin.Index]
		w.sources = t.Sources
		w.objDir = filepath.Join(cfg.BuildRoot, t.Name)
		w.outDir = t.OutputDir
		if w.outDir == "" {
			w.outDir = filepath.Join(cfg.BinaryRoot, "tools")
		}
		w.baseName = t.Name
		w.cflags = t.CFlags
		w.ldflags = t.LDFlags
		w.includes = t.IncludeDirs
		w.libraries = t.Libraries
		w.verbose = config.EffectiveBool(t.Verbose, cfg.Verbose)
		w.debug = config.EffectiveBool(t.Debug, cfg.Debug)
		w.optimize = config.EffectiveBool(t.Optimize, cfg.Optimize)
		w.static = config.EffectiveBool(t.StaticLink, cfg.StaticLink)

	case graph.FromDirective:
		d := n.Origin.Directive
		src, ok := locateDirectiveSource(cfg.SourceRoot, d.UnitName)
		if !ok {
			if cfg.Verbose && c.Log != nil {
				c.Log.Printf("[warn] no source found for directive unit %q, skipping", d.UnitName)
			}
			w.skip = true
			return w, nil
		}
		w.sources = []string{src}
		w.objDir = filepath.Join(cfg.BuildRoot, d.UnitName)
		w.cflags = d.CFlags
		w.ldflags = d.LDFlags
		w.libraries = d.LinkLibs
		w.debug = cfg.Debug
		w.optimize = cfg.Optimize
		w.verbose = cfg.Verbose
		if d.IsShared {
			w.outDir = filepath.Join(cfg.BinaryRoot, "lib")
			w.baseName = lastSegment(d.UnitName)
		} else {
			w.outDir = cfg.BinaryRoot
			w.baseName = d.OutputPath
			if w.baseName == "" {
				w.baseName = d.UnitName
			}
		}
		if d.StaticLink != nil {
			w.static = *d.StaticLink
		} else {
			w.static = cfg.StaticLink
		}
	}
	return w, nil
}

func lastSegment(s string) string {
	if idx := strings.LastIndexByte(s, '/'); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

// locateDirectiveSource tries <root>/<unit>.{cpp,cc,cxx} then
// <root>/<basename(unit)>.{cpp,cc,cxx}, in that order.
func locateDirectiveSource(root, unit string) (string, bool) {
	exts := []string{".cpp", ".cc", ".cxx"}
	candidates := []string{unit, lastSegment(unit)}
	for _, c := range candidates {
		for _, ext := range exts {
			p := filepath.Join(root, c+ext)
			if _, err := os.Stat(p); err == nil {
				return p, true
			}
		}
	}
	return "", false
}

func (c *Ctx) ensureDirs() error {
	cfg := c.Config
	dirs := []string{
		cfg.BuildRoot,
		cfg.BinaryRoot,
		filepath.Join(cfg.BinaryRoot, "lib"),
		filepath.Join(cfg.BinaryRoot, "tools"),
	}
	for _, n := range c.Graph.Nodes {
		var sub string
		switch n.Origin.Kind {
		case graph.ConfiguredShared:
			sub = c.Config.SharedLibs[n.Origin.Index].Name
		case graph.ConfiguredTool:
			sub = c.Config.Tools[n.Origin.Index].Name
		case graph.FromDirective:
			sub = n.Origin.Directive.UnitName
		}
		dirs = append(dirs, filepath.Join(cfg.BuildRoot, sub))
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return &cperr.Source{Path: d, Err: err}
		}
	}
	return nil
}

// Clean removes build/, bin/lib, bin/tools and the legacy
// bin/<project_name> artifact. Missing directories are not errors.
func (c *Ctx) Clean() error {
	cfg := c.Config
	targets := []string{
		cfg.BuildRoot,
		filepath.Join(cfg.BinaryRoot, "lib"),
		filepath.Join(cfg.BinaryRoot, "tools"),
	}
	if cfg.ProjectName != "" {
		targets = append(targets, filepath.Join(cfg.BinaryRoot, cfg.ProjectName))
	}
	for _, t := range targets {
		if err := os.RemoveAll(t); err != nil && !os.IsNotExist(err) {
			return &cperr.Source{Path: t, Err: err}
		}
	}
	return nil
}
