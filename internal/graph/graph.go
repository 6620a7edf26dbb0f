// Package graph builds the typed dependency graph of build units from a
// BuildConfig (configured shared libraries, configured tools, and
// directive-declared units), resolves library aliases, and produces a
// deterministic topological build order.
package graph

import (
	"fmt"
	"path"
	"strings"

	"github.com/cppbuild/cppbuild/internal/config"
	"github.com/cppbuild/cppbuild/internal/cperr"
	"github.com/cppbuild/cppbuild/internal/directive"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Kind distinguishes the two buildable unit shapes.
type Kind int

const (
	SharedLibrary Kind = iota
	Executable
)

func (k Kind) String() string {
	if k == SharedLibrary {
		return "shared_library"
	}
	return "executable"
}

// OriginKind identifies which input produced a Node.
type OriginKind int

const (
	ConfiguredShared OriginKind = iota
	FromDirective
	ConfiguredTool
)

// Origin records where a Node came from, for the Build Executor to
// dispatch on.
type Origin struct {
	Kind      OriginKind
	Index     int // valid for ConfiguredShared / ConfiguredTool
	Directive *directive.Directive
}

// Node is one planner-internal build unit.
type Node struct {
	ID              string
	Kind            Kind
	RawDependencies []string
	Dependencies    []string // resolved node ids, deduped, insertion order preserved
	Unresolved      []string // raw tokens that resolved to nothing
	Origin          Origin
	OutputPath      string

	gonumID int64
}

// Graph is the result of planning.
type Graph struct {
	Nodes      []*Node
	Index      map[string]*Node
	Order      []*Node
	Unresolved map[string][]string
}

// gnode adapts *Node to gonum's graph.Node interface.
type gnode struct {
	id int64
	n  *Node
}

func (g gnode) ID() int64 { return g.id }

// Plan builds the graph from cfg: node construction (§4.6 step 1–3),
// alias registration, dependency resolution, and topological ordering.
// Plan performs no filesystem I/O; cfg.Directives must already be
// populated by the caller.
func Plan(cfg *config.BuildConfig) (*Graph, error) {
	g := &Graph{Index: make(map[string]*Node), Unresolved: make(map[string][]string)}
	aliases := make(map[string]string)

	registerAlias := func(alias, id string) {
		if alias == "" {
			return
		}
		if _, exists := aliases[alias]; exists {
			return // first registration wins
		}
		aliases[alias] = id
	}

	addNode := func(n *Node) error {
		if _, dup := g.Index[n.ID]; dup {
			return &cperr.Graph{Msg: fmt.Sprintf("duplicate node id %q", n.ID)}
		}
		g.Index[n.ID] = n
		g.Nodes = append(g.Nodes, n)
		return nil
	}

	// Step 1: configured shared libraries.
	for i, sl := range cfg.SharedLibs {
		if len(sl.Sources) == 0 {
			continue // elided at planning time
		}
		outDir := sl.OutputDir
		if outDir == "" {
			outDir = cfg.BinaryRoot + "/lib"
		}
		n := &Node{
			ID:              "shared:" + sl.Name,
			Kind:            SharedLibrary,
			RawDependencies: append([]string{}, sl.Libraries...),
			Origin:          Origin{Kind: ConfiguredShared, Index: i},
			OutputPath:      path.Join(outDir, sl.Name+".so"),
		}
		if err := addNode(n); err != nil {
			return nil, err
		}
		registerAlias(sl.Name, n.ID)
		registerAlias("lib/"+sl.Name, n.ID)
		registerAlias(sl.Name+".so", n.ID)
		registerAlias("lib/"+sl.Name+".so", n.ID)
	}

	// Step 2: directive-declared units.
	for i := range cfg.Directives {
		d := &cfg.Directives[i]
		kind := Executable
		if d.IsShared {
			kind = SharedLibrary
		}
		n := &Node{
			ID:              "directive:" + d.UnitName,
			Kind:            kind,
			RawDependencies: mergeRaw(d.DependsUnits, d.LinkLibs),
			Origin:          Origin{Kind: FromDirective, Directive: d},
			OutputPath:      d.OutputPath,
		}
		if n.OutputPath == "" {
			n.OutputPath = d.UnitName
		}
		if err := addNode(n); err != nil {
			return nil, err
		}
		segment := d.UnitName
		if idx := strings.LastIndexByte(d.UnitName, '/'); idx >= 0 {
			segment = d.UnitName[idx+1:]
		}
		registerAlias(d.UnitName, n.ID)
		registerAlias(segment, n.ID)
		if d.IsShared {
			registerAlias(segment+".so", n.ID)
		}
		if d.OutputPath != "" {
			registerAlias(d.OutputPath, n.ID)
		}
	}

	// Step 3: configured tools.
	for i, t := range cfg.Tools {
		if len(t.Sources) == 0 {
			continue // elided at planning time
		}
		outDir := t.OutputDir
		if outDir == "" {
			outDir = cfg.BinaryRoot + "/tools"
		}
		n := &Node{
			ID:              "tool:" + t.Name,
			Kind:            Executable,
			RawDependencies: append([]string{}, t.Libraries...),
			Origin:          Origin{Kind: ConfiguredTool, Index: i},
			OutputPath:      path.Join(outDir, t.Name),
		}
		if err := addNode(n); err != nil {
			return nil, err
		}
		registerAlias(t.Name, n.ID)
		registerAlias("tools/"+t.Name, n.ID)
	}

	// Dependency resolution.
	for _, n := range g.Nodes {
		seen := make(map[string]bool)
		for _, tok := range n.RawDependencies {
			id, ok := resolveAlias(aliases, tok)
			if !ok {
				g.Unresolved[n.ID] = append(g.Unresolved[n.ID], tok)
				continue
			}
			if id == n.ID {
				continue // no self-edges
			}
			if !seen[id] {
				seen[id] = true
				n.Dependencies = append(n.Dependencies, id)
			}
		}
		n.Unresolved = g.Unresolved[n.ID]
	}

	order, err := topologicalOrder(g.Nodes)
	if err != nil {
		return nil, err
	}
	g.Order = order
	return g, nil
}

func mergeRaw(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

// resolveAlias tries the candidate spellings from spec.md §4.6 in
// order and returns the first one present in the alias table.
func resolveAlias(aliases map[string]string, tok string) (string, bool) {
	candidates := []string{tok}
	base := strings.TrimSuffix(tok, ".so")
	candidates = append(candidates, base)
	if strings.HasPrefix(base, "lib/") {
		candidates = append(candidates, base[4:])
	}
	if strings.HasPrefix(tok, "lib/") {
		candidates = append(candidates, tok[4:])
	}
	if strings.Contains(tok, "/") {
		candidates = append(candidates, tok[strings.LastIndexByte(tok, '/')+1:])
	}
	seen := make(map[string]bool)
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		seen[c] = true
		if id, ok := aliases[c]; ok {
			return id, true
		}
	}
	return "", false
}

// topologicalOrder first runs gonum's topo.Sort over a dependent→
// dependency graph purely to detect cycles (the same
// build-then-topo.Sort-to-catch-topo.Unorderable pattern the teacher
// uses in internal/batch/batch.go), then computes the actual,
// deterministic FIFO Kahn order spec.md §4.6 mandates.
func topologicalOrder(nodes []*Node) ([]*Node, error) {
	g := simple.NewDirectedGraph()
	byID := make(map[string]*gnode, len(nodes))
	for i, n := range nodes {
		n.gonumID = int64(i)
		gn := &gnode{id: n.gonumID, n: n}
		byID[n.ID] = gn
		g.AddNode(gn)
	}
	for _, n := range nodes {
		from := byID[n.ID]
		for _, dep := range n.Dependencies {
			to := byID[dep]
			if to == nil || to.id == from.id {
				continue
			}
			g.SetEdge(g.NewEdge(from, to))
		}
	}
	if _, err := topo.Sort(g); err != nil {
		if _, ok := err.(topo.Unorderable); ok {
			return nil, &cperr.Graph{Msg: "Build graph contains a cycle or unresolved dependency"}
		}
		return nil, &cperr.Graph{Msg: "topological sort failed", Err: err}
	}

	// Deterministic Kahn's algorithm: dependencies must appear before
	// dependents, ties broken by node-construction order.
	inDegree := make(map[string]int, len(nodes))
	dependents := make(map[string][]*Node, len(nodes))
	for _, n := range nodes {
		inDegree[n.ID] = len(n.Dependencies)
		for _, dep := range n.Dependencies {
			dependents[dep] = append(dependents[dep], n)
		}
	}

	var queue []*Node
	for _, n := range nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n)
		}
	}

	var order []*Node
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, dependent := range dependents[n.ID] {
			inDegree[dependent.ID]--
			if inDegree[dependent.ID] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(order) != len(nodes) {
		return nil, &cperr.Graph{Msg: "Build graph contains a cycle or unresolved dependency"}
	}
	return order, nil
}
