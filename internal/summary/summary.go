// Package summary consolidates the per-view analysis outputs into one
// architecture summary record.
package summary

import (
	"sort"

	"github.com/splitlens/splitlens/internal/community"
	"github.com/splitlens/splitlens/internal/graph"
	"github.com/splitlens/splitlens/internal/packages"
	"github.com/splitlens/splitlens/internal/store"
)

// topCoupledCount is how many highest-coupling components the summary lists.
const topCoupledCount = 5

// ComplexityHistogram buckets components by cyclomatic complexity.
type ComplexityHistogram struct {
	Low      int `json:"low"`       // <= 10
	Medium   int `json:"medium"`    // <= 20
	High     int `json:"high"`      // <= 50
	VeryHigh int `json:"very_high"` // > 50
}

// CoupledComponent is one entry of the top-coupling list.
type CoupledComponent struct {
	ID            store.ComponentID `json:"id"`
	Name          string            `json:"name"`
	CouplingScore float64           `json:"coupling_score"`
}

// Coupling summarizes the stored per-component coupling scores.
type Coupling struct {
	Average       float64            `json:"average"`
	Maximum       float64            `json:"maximum"`
	TopComponents []CoupledComponent `json:"top_components"`
}

// Summary is the consolidated architecture record for one application.
type Summary struct {
	TotalComponents   int                 `json:"total_components"`
	TotalEdges        int                 `json:"total_edges"`
	TotalEndpoints    int                 `json:"total_api_endpoints"`
	TotalTables       int                 `json:"total_data_tables"`
	TotalPackages     int                 `json:"total_packages"`
	TotalCommunities  int                 `json:"total_communities"`
	Modularity        float64             `json:"modularity_score"`
	Complexity        ComplexityHistogram `json:"complexity_histogram"`
	Coupling          Coupling            `json:"coupling"`
	ArchitectureStyle string              `json:"architecture_style"`
}

// Aggregate merges the snapshot metrics with the graph, package, and
// community views. Edge and community totals reflect the retained call
// graph, not the raw dependency table.
func Aggregate(snap *store.Snapshot, g *graph.CallGraph, diagram *packages.Diagram, communities *community.Result) *Summary {
	s := &Summary{
		TotalComponents:   len(snap.Components),
		TotalEdges:        g.NumEdges(),
		TotalEndpoints:    len(snap.Endpoints),
		TotalPackages:     len(diagram.Packages),
		TotalCommunities:  len(communities.Communities),
		Modularity:        communities.Modularity,
		ArchitectureStyle: classifyStyle(snap),
	}

	var couplingSum float64
	for i := range snap.Components {
		c := &snap.Components[i]
		if c.Type == store.TypeEntity {
			s.TotalTables++
		}

		switch {
		case c.Complexity <= 10:
			s.Complexity.Low++
		case c.Complexity <= 20:
			s.Complexity.Medium++
		case c.Complexity <= 50:
			s.Complexity.High++
		default:
			s.Complexity.VeryHigh++
		}

		couplingSum += c.CouplingScore
		if c.CouplingScore > s.Coupling.Maximum {
			s.Coupling.Maximum = c.CouplingScore
		}
	}
	if len(snap.Components) > 0 {
		s.Coupling.Average = couplingSum / float64(len(snap.Components))
	}
	s.Coupling.TopComponents = topCoupled(snap.Components)

	return s
}

// topCoupled returns the highest-coupling components, descending by
// score with ties broken by ascending component id.
func topCoupled(components []store.Component) []CoupledComponent {
	sorted := make([]*store.Component, len(components))
	for i := range components {
		sorted[i] = &components[i]
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].CouplingScore != sorted[j].CouplingScore {
			return sorted[i].CouplingScore > sorted[j].CouplingScore
		}
		return sorted[i].ID < sorted[j].ID
	})

	n := topCoupledCount
	if len(sorted) < n {
		n = len(sorted)
	}
	top := make([]CoupledComponent, 0, n)
	for _, c := range sorted[:n] {
		top = append(top, CoupledComponent{ID: c.ID, Name: c.Name, CouplingScore: c.CouplingScore})
	}
	return top
}

// classifyStyle resolves the architecture style by first matching rule.
func classifyStyle(snap *store.Snapshot) string {
	present := make(map[store.ComponentType]bool)
	serviceCount := 0
	serviceLOC := 0
	for i := range snap.Components {
		c := &snap.Components[i]
		present[c.Type] = true
		if c.Type == store.TypeService {
			serviceCount++
			serviceLOC += c.LOC
		}
	}

	switch {
	case present[store.TypeEJB] && present[store.TypeServlet]:
		return "j2ee"
	case present[store.TypeController] && present[store.TypeService] && present[store.TypeRepository]:
		return "mvc_layered"
	case present[store.TypeController] && present[store.TypeModel]:
		return "mvc"
	case present[store.TypeService] && present[store.TypeRepository]:
		return "layered"
	case serviceCount >= 3 && len(snap.Endpoints) >= 1 &&
		float64(serviceLOC)/float64(serviceCount) < 500:
		return "microservice_candidate"
	default:
		return "monolith"
	}
}
