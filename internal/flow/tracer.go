// Package flow traces request-to-storage data flows from API endpoints.
package flow

import (
	"sort"

	"github.com/splitlens/splitlens/internal/graph"
	"github.com/splitlens/splitlens/internal/store"
)

// layerOrder is the fixed presentation order of architectural tiers.
// Components of unlisted types sort after every listed tier.
var layerOrder = []store.ComponentType{
	store.TypeAPIEndpoint,
	store.TypeController,
	store.TypeServlet,
	store.TypeService,
	store.TypeEJB,
	store.TypeRepository,
	store.TypeModel,
	store.TypeEntity,
	store.TypeStoredProcedure,
	store.TypeTrigger,
	store.TypeFunction,
	store.TypeUtil,
	store.TypeConfig,
	store.TypeMigration,
}

var layerRank = func() map[store.ComponentType]int {
	m := make(map[store.ComponentType]int, len(layerOrder))
	for i, t := range layerOrder {
		m[t] = i
	}
	return m
}()

// persistenceTypes mark a flow as reaching the database layer.
var persistenceTypes = map[store.ComponentType]bool{
	store.TypeRepository:      true,
	store.TypeModel:           true,
	store.TypeEntity:          true,
	store.TypeStoredProcedure: true,
	store.TypeTrigger:         true,
	store.TypeMigration:       true,
}

// ChainLink is one component visited by a flow.
type ChainLink struct {
	ComponentID store.ComponentID   `json:"component_id"`
	Name        string              `json:"name"`
	Type        store.ComponentType `json:"type"`
}

// Flow is the traced path of one API endpoint through the call graph.
// Chain is a visited set presented in layer order, not a call path.
type Flow struct {
	EndpointID      store.EndpointID `json:"api_endpoint"`
	Method          string           `json:"method"`
	Path            string           `json:"path"`
	Chain           []ChainLink      `json:"chain"`
	ReachesDatabase bool             `json:"reaches_database"`
}

// Trace produces one flow per API endpoint in snapshot order.
func Trace(snap *store.Snapshot, g *graph.CallGraph) []Flow {
	flows := make([]Flow, 0, len(snap.Endpoints))
	for _, ep := range snap.Endpoints {
		flows = append(flows, traceEndpoint(snap, g, ep))
	}
	return flows
}

func traceEndpoint(snap *store.Snapshot, g *graph.CallGraph, ep store.APIEndpoint) Flow {
	f := Flow{
		EndpointID: ep.ID,
		Method:     ep.Method,
		Path:       ep.Path,
		Chain:      []ChainLink{},
	}

	owner := snap.ComponentByID(ep.ComponentID)
	if ep.ComponentID == 0 || owner == nil {
		return f
	}

	// BFS over the directed call graph, each component visited once.
	// An owner with no structural edges still yields itself as the chain.
	visited := map[store.ComponentID]bool{owner.ID: true}
	order := []store.ComponentID{owner.ID}
	queue := []store.ComponentID{owner.ID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range g.Successors(current) {
			if visited[next] {
				continue
			}
			visited[next] = true
			order = append(order, next)
			queue = append(queue, next)
		}
	}

	for _, id := range order {
		link := chainLink(snap, g, id)
		f.Chain = append(f.Chain, link)
		if persistenceTypes[link.Type] {
			f.ReachesDatabase = true
		}
	}

	// Present in pipeline order; ties keep BFS discovery order.
	sort.SliceStable(f.Chain, func(i, j int) bool {
		return rankOf(f.Chain[i].Type) < rankOf(f.Chain[j].Type)
	})
	return f
}

func rankOf(t store.ComponentType) int {
	if r, ok := layerRank[t]; ok {
		return r
	}
	return len(layerOrder)
}

func chainLink(snap *store.Snapshot, g *graph.CallGraph, id store.ComponentID) ChainLink {
	if n := g.NodeByID(id); n != nil {
		return ChainLink{ComponentID: n.ID, Name: n.Name, Type: n.Type}
	}
	c := snap.ComponentByID(id)
	return ChainLink{ComponentID: c.ID, Name: c.Name, Type: c.Type}
}
