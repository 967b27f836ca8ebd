// Package packages groups components into namespace packages and tallies
// the dependency traffic within and between them.
package packages

import (
	"sort"
	"strings"

	"github.com/splitlens/splitlens/internal/graph"
	"github.com/splitlens/splitlens/internal/store"
)

// DefaultPackage is the bucket for components without a namespace separator.
const DefaultPackage = "(default)"

// Package is one namespace group of components.
type Package struct {
	Name         string              `json:"name"`
	Components   []store.ComponentID `json:"components"`
	InternalDeps int                 `json:"internal_deps"`
	ExternalDeps int                 `json:"external_deps"`
}

// InterPackageEdge is the aggregated dependency count between two packages.
type InterPackageEdge struct {
	Source string `json:"source_package"`
	Target string `json:"target_package"`
	Count  int    `json:"count"`
}

// Diagram is the package-level view of an application.
type Diagram struct {
	Packages          []Package          `json:"packages"`
	InterPackageEdges []InterPackageEdge `json:"inter_package_edges"`
}

// Name derives the package of a component: the prefix of its qualified
// name (falling back to its plain name) before the final namespace
// separator. Components without a separator land in "(default)".
func Name(c *store.Component) string {
	qualified := c.QualifiedName
	if qualified == "" {
		qualified = c.Name
	}

	cut := -1
	if i := strings.LastIndex(qualified, "::"); i > cut {
		cut = i
	}
	if i := strings.LastIndex(qualified, "/"); i > cut {
		cut = i
	}
	if i := strings.LastIndex(qualified, "."); i > cut {
		cut = i
	}
	if cut <= 0 {
		return DefaultPackage
	}
	return qualified[:cut]
}

// Aggregate groups every component of the snapshot into packages and
// counts intra- and inter-package traffic over the call graph's retained
// edges. Edges whose endpoints are not known components were already
// dropped during graph construction and are counted nowhere.
func Aggregate(snap *store.Snapshot, g *graph.CallGraph) *Diagram {
	pkgByComponent := make(map[store.ComponentID]string, len(snap.Components))
	grouped := make(map[string]*Package)

	for i := range snap.Components {
		c := &snap.Components[i]
		name := Name(c)
		pkgByComponent[c.ID] = name
		p, ok := grouped[name]
		if !ok {
			p = &Package{Name: name}
			grouped[name] = p
		}
		p.Components = append(p.Components, c.ID)
	}

	interCounts := make(map[[2]string]int)
	for _, e := range g.Edges() {
		src, ok := pkgByComponent[e.SourceID]
		if !ok {
			continue
		}
		dst, ok := pkgByComponent[e.TargetID]
		if !ok {
			continue
		}
		if src == dst {
			grouped[src].InternalDeps++
			continue
		}
		grouped[src].ExternalDeps++
		interCounts[[2]string{src, dst}]++
	}

	d := &Diagram{}
	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := grouped[name]
		sort.Slice(p.Components, func(i, j int) bool { return p.Components[i] < p.Components[j] })
		d.Packages = append(d.Packages, *p)
	}

	for pair, count := range interCounts {
		d.InterPackageEdges = append(d.InterPackageEdges, InterPackageEdge{
			Source: pair[0],
			Target: pair[1],
			Count:  count,
		})
	}
	sort.Slice(d.InterPackageEdges, func(i, j int) bool {
		a, b := d.InterPackageEdges[i], d.InterPackageEdges[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.Target < b.Target
	})

	return d
}
