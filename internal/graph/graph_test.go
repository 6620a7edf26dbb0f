package graph

import (
	"testing"

	"github.com/cppbuild/cppbuild/internal/config"
	"github.com/cppbuild/cppbuild/internal/cperr"
	"github.com/cppbuild/cppbuild/internal/directive"
	"github.com/google/go-cmp/cmp"
)

func baseConfig() *config.BuildConfig {
	return &config.BuildConfig{
		BinaryRoot: "bin",
	}
}

func TestPlanOrdersDependenciesBeforeDependents(t *testing.T) {
	cfg := baseConfig()
	cfg.SharedLibs = []config.SharedLibConfig{
		{Name: "math", Sources: []string{"src/math.cpp"}},
	}
	cfg.Tools = []config.ToolConfig{
		{Name: "cli", Sources: []string{"src/cli.cpp"}, Libraries: []string{"math"}},
	}

	g, err := Plan(cfg)
	if err != nil {
		t.Fatal(err)
	}

	pos := make(map[string]int, len(g.Order))
	for i, n := range g.Order {
		pos[n.ID] = i
	}
	if pos["shared:math"] >= pos["tool:cli"] {
		t.Errorf("dependency shared:math must come before dependent tool:cli, order: %v", idsOf(g.Order))
	}
}

func TestPlanDeterministicFIFOAmongIndependentNodes(t *testing.T) {
	cfg := baseConfig()
	cfg.SharedLibs = []config.SharedLibConfig{
		{Name: "a", Sources: []string{"a.cpp"}},
		{Name: "b", Sources: []string{"b.cpp"}},
		{Name: "c", Sources: []string{"c.cpp"}},
	}
	g, err := Plan(cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"shared:a", "shared:b", "shared:c"}
	if diff := cmp.Diff(want, idsOf(g.Order)); diff != "" {
		t.Errorf("independent nodes should keep construction order, diff (-want +got):\n%s", diff)
	}
}

func TestPlanAliasResolutionVariants(t *testing.T) {
	cfg := baseConfig()
	cfg.SharedLibs = []config.SharedLibConfig{
		{Name: "math", Sources: []string{"math.cpp"}},
	}
	cfg.Tools = []config.ToolConfig{
		{Name: "viaPlain", Sources: []string{"a.cpp"}, Libraries: []string{"math"}},
		{Name: "viaLibPrefix", Sources: []string{"b.cpp"}, Libraries: []string{"lib/math"}},
		{Name: "viaSoSuffix", Sources: []string{"c.cpp"}, Libraries: []string{"math.so"}},
		{Name: "viaFull", Sources: []string{"d.cpp"}, Libraries: []string{"lib/math.so"}},
	}
	g, err := Plan(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, toolID := range []string{"tool:viaPlain", "tool:viaLibPrefix", "tool:viaSoSuffix", "tool:viaFull"} {
		n := g.Index[toolID]
		if len(n.Dependencies) != 1 || n.Dependencies[0] != "shared:math" {
			t.Errorf("%s dependencies = %v, want [shared:math]", toolID, n.Dependencies)
		}
	}
}

func TestPlanUnresolvedDependencyRecorded(t *testing.T) {
	cfg := baseConfig()
	cfg.Tools = []config.ToolConfig{
		{Name: "cli", Sources: []string{"a.cpp"}, Libraries: []string{"nonexistent"}},
	}
	g, err := Plan(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"nonexistent"}, g.Unresolved["tool:cli"]); diff != "" {
		t.Errorf("Unresolved diff (-want +got):\n%s", diff)
	}
	if len(g.Index["tool:cli"].Dependencies) != 0 {
		t.Errorf("unresolved token must not become a dependency edge")
	}
}

func TestPlanCycleIsAnError(t *testing.T) {
	cfg := baseConfig()
	cfg.Directives = []directive.Directive{
		{Source: "x.cpp", UnitName: "x", DependsUnits: []string{"y"}},
		{Source: "y.cpp", UnitName: "y", DependsUnits: []string{"x"}},
	}
	_, err := Plan(cfg)
	if err == nil {
		t.Fatal("expected a cycle error")
	}
	var gerr *cperr.Graph
	if !asGraphErr(err, &gerr) {
		t.Errorf("error %v is not *cperr.Graph", err)
	}
}

func TestPlanFirstAliasRegistrationWins(t *testing.T) {
	cfg := baseConfig()
	cfg.SharedLibs = []config.SharedLibConfig{
		{Name: "shared", Sources: []string{"first.cpp"}},
	}
	cfg.Directives = []directive.Directive{
		{Source: "second.cpp", UnitName: "shared", DependsUnits: nil},
	}
	cfg.Tools = []config.ToolConfig{
		{Name: "consumer", Sources: []string{"c.cpp"}, Libraries: []string{"shared"}},
	}
	g, err := Plan(cfg)
	if err != nil {
		t.Fatal(err)
	}
	deps := g.Index["tool:consumer"].Dependencies
	if len(deps) != 1 || deps[0] != "shared:shared" {
		t.Errorf("alias %q should resolve to the first-registered node shared:shared, got %v", "shared", deps)
	}
}

func TestPreviewIsIdempotent(t *testing.T) {
	cfg := baseConfig()
	cfg.SharedLibs = []config.SharedLibConfig{{Name: "math", Sources: []string{"m.cpp"}}}
	cfg.Tools = []config.ToolConfig{{Name: "cli", Sources: []string{"c.cpp"}, Libraries: []string{"math"}}}

	first, err := Preview(cfg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Preview(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Preview is not idempotent, diff (-first +second):\n%s", diff)
	}
}

func idsOf(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

func asGraphErr(err error, target **cperr.Graph) bool {
	ge, ok := err.(*cperr.Graph)
	if !ok {
		return false
	}
	*target = ge
	return true
}
