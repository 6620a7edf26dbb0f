package graph

import "github.com/cppbuild/cppbuild/internal/config"

// NodeSummary is the serializable projection of one Node.
type NodeSummary struct {
	ID              string
	Kind            string
	Dependencies    []string
	RawDependencies []string
}

// GraphSummary is the serializable projection returned by Preview; it
// is produced identically to Plan but never performs filesystem
// writes (Plan never does either — Preview exists so callers have a
// stable, print/diff-friendly shape rather than the internal Graph).
type GraphSummary struct {
	Nodes      []NodeSummary
	Order      []string
	Unresolved map[string][]string
}

// Preview runs Plan and projects the result. Calling Preview twice on
// the same cfg yields an identical GraphSummary (round-trip
// idempotence, spec.md §8).
func Preview(cfg *config.BuildConfig) (*GraphSummary, error) {
	g, err := Plan(cfg)
	if err != nil {
		return nil, err
	}
	s := &GraphSummary{Unresolved: g.Unresolved}
	for _, n := range g.Nodes {
		s.Nodes = append(s.Nodes, NodeSummary{
			ID:              n.ID,
			Kind:            n.Kind.String(),
			Dependencies:    n.Dependencies,
			RawDependencies: n.RawDependencies,
		})
	}
	for _, n := range g.Order {
		s.Order = append(s.Order, n.ID)
	}
	return s, nil
}
