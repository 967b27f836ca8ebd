// Package graph builds the component call graph from a dependency snapshot.
package graph

import (
	"sort"

	"github.com/splitlens/splitlens/internal/store"
)

// Node is a call-graph node hydrated with stored component fields.
type Node struct {
	ID            store.ComponentID   `json:"id"`
	Name          string              `json:"name"`
	Type          store.ComponentType `json:"type"`
	QualifiedName string              `json:"qualified_name"`
	LOC           int                 `json:"loc"`
	Complexity    int                 `json:"cyclomatic_complexity"`
}

// Edge is a retained structural dependency between two call-graph nodes.
type Edge struct {
	SourceID store.ComponentID    `json:"source_id"`
	TargetID store.ComponentID    `json:"target_id"`
	Type     store.DependencyType `json:"type"`
	Weight   float64              `json:"weight"`
}

type edgeEntry struct {
	target int
	weight float64
}

// CallGraph is a sparse directed multigraph over components.
// Nodes are stored in an arena with a dense index so traversals never
// chase pointers through what is inherently a cyclic structure.
type CallGraph struct {
	nodes []Node
	index map[store.ComponentID]int
	edges []Edge

	outEdges [][]edgeEntry
}

// NewCallGraph creates an empty call graph.
func NewCallGraph() *CallGraph {
	return &CallGraph{
		index: make(map[store.ComponentID]int),
	}
}

// addNode adds a node if it doesn't exist, returns its dense index.
func (g *CallGraph) addNode(n Node) int {
	if idx, ok := g.index[n.ID]; ok {
		return idx
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, n)
	g.index[n.ID] = idx
	g.outEdges = append(g.outEdges, nil)
	return idx
}

// addEdge adds a directed edge between two already-added nodes.
func (g *CallGraph) addEdge(e Edge) {
	src := g.index[e.SourceID]
	dst := g.index[e.TargetID]
	g.edges = append(g.edges, e)
	g.outEdges[src] = append(g.outEdges[src], edgeEntry{target: dst, weight: e.Weight})
}

// Nodes returns all nodes in insertion order.
func (g *CallGraph) Nodes() []Node {
	return g.nodes
}

// Edges returns all retained edges in snapshot order.
func (g *CallGraph) Edges() []Edge {
	return g.edges
}

// NumNodes returns the number of nodes in the graph.
func (g *CallGraph) NumNodes() int {
	return len(g.nodes)
}

// NumEdges returns the number of retained edges.
func (g *CallGraph) NumEdges() int {
	return len(g.edges)
}

// HasNode reports whether a component participates in the call graph.
func (g *CallGraph) HasNode(id store.ComponentID) bool {
	_, ok := g.index[id]
	return ok
}

// NodeByID returns the node for a component id, or nil.
func (g *CallGraph) NodeByID(id store.ComponentID) *Node {
	idx, ok := g.index[id]
	if !ok {
		return nil
	}
	return &g.nodes[idx]
}

// Successors returns the out-neighbors of a node in edge insertion order.
// Parallel edges to the same target yield one entry.
func (g *CallGraph) Successors(id store.ComponentID) []store.ComponentID {
	idx, ok := g.index[id]
	if !ok {
		return nil
	}
	seen := make(map[int]bool, len(g.outEdges[idx]))
	out := make([]store.ComponentID, 0, len(g.outEdges[idx]))
	for _, e := range g.outEdges[idx] {
		if seen[e.target] {
			continue
		}
		seen[e.target] = true
		out = append(out, g.nodes[e.target].ID)
	}
	return out
}

// SortedIDs returns all node ids in ascending order. This is the fixed
// enumeration order shared by every consumer that must be reproducible.
func (g *CallGraph) SortedIDs() []store.ComponentID {
	ids := make([]store.ComponentID, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = n.ID
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Undirected is the weighted undirected projection of a call graph.
// Self-loops are dropped; parallel and reciprocal edges accumulate into
// one weight per unordered pair.
type Undirected struct {
	IDs     []store.ComponentID        // ascending component id
	Index   map[store.ComponentID]int  // component id -> position in IDs
	Weights []map[int]float64          // adjacency: Weights[i][j] = w(i,j) = w(j,i)
	Degrees []float64                  // weighted degree per node
	M       float64                    // sum of edge weights, once per pair
}

// Undirected builds the undirected weighted projection of the graph.
func (g *CallGraph) Undirected() *Undirected {
	ids := g.SortedIDs()
	u := &Undirected{
		IDs:     ids,
		Index:   make(map[store.ComponentID]int, len(ids)),
		Weights: make([]map[int]float64, len(ids)),
		Degrees: make([]float64, len(ids)),
	}
	for i, id := range ids {
		u.Index[id] = i
		u.Weights[i] = make(map[int]float64)
	}

	for _, e := range g.edges {
		if e.SourceID == e.TargetID {
			continue
		}
		i := u.Index[e.SourceID]
		j := u.Index[e.TargetID]
		u.Weights[i][j] += e.Weight
		u.Weights[j][i] += e.Weight
		u.Degrees[i] += e.Weight
		u.Degrees[j] += e.Weight
		u.M += e.Weight
	}
	return u
}
