package graph

import (
	"github.com/splitlens/splitlens/internal/store"
)

// structuralTypes are the dependency types that form call-graph edges.
var structuralTypes = map[store.DependencyType]bool{
	store.DepMethodCall:  true,
	store.DepImport:      true,
	store.DepInheritance: true,
	store.DepInjection:   true,
}

// IsStructural reports whether a dependency type contributes to the call graph.
func IsStructural(t store.DependencyType) bool {
	return structuralTypes[t]
}

// Build assembles the call graph from a snapshot.
//
// Only edges of a structural type with a resolved, known target are
// retained. The node set is exactly the components touched by at least
// one retained edge; isolated components never become nodes.
func Build(snap *store.Snapshot) *CallGraph {
	g := NewCallGraph()
	if snap == nil {
		return g
	}

	byID := make(map[store.ComponentID]*store.Component, len(snap.Components))
	for i := range snap.Components {
		byID[snap.Components[i].ID] = &snap.Components[i]
	}

	for _, e := range snap.Edges {
		if !structuralTypes[e.Type] || e.TargetID == 0 {
			continue
		}
		src, ok := byID[e.SourceID]
		if !ok {
			continue
		}
		dst, ok := byID[e.TargetID]
		if !ok {
			continue
		}

		g.addNode(nodeFor(src))
		g.addNode(nodeFor(dst))

		weight := e.Weight
		if weight == 0 {
			weight = 1.0
		}
		g.addEdge(Edge{
			SourceID: e.SourceID,
			TargetID: e.TargetID,
			Type:     e.Type,
			Weight:   weight,
		})
	}
	return g
}

func nodeFor(c *store.Component) Node {
	return Node{
		ID:            c.ID,
		Name:          c.Name,
		Type:          c.Type,
		QualifiedName: c.QualifiedName,
		LOC:           c.LOC,
		Complexity:    c.Complexity,
	}
}
