// Package community partitions the call graph into candidate service
// boundaries via single-level greedy modularity optimization.
package community

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/splitlens/splitlens/internal/graph"
	"github.com/splitlens/splitlens/internal/store"
)

// DefaultMaxPasses caps the optimization loop. The partition almost
// always stabilizes long before this.
const DefaultMaxPasses = 50

// Options configures the detector.
type Options struct {
	// MaxPasses limits full sweeps over the node set. Default: 50.
	MaxPasses int
}

// Validate applies defaults for invalid values.
func (o *Options) Validate() {
	if o.MaxPasses <= 0 {
		o.MaxPasses = DefaultMaxPasses
	}
}

// DefaultOptions returns the standard detector configuration.
func DefaultOptions() *Options {
	return &Options{MaxPasses: DefaultMaxPasses}
}

// Community is one proposed service boundary.
type Community struct {
	ID                   int                 `json:"id"`
	Name                 string              `json:"name"`
	Components           []store.ComponentID `json:"components"`
	Cohesion             float64             `json:"cohesion"`
	Coupling             float64             `json:"coupling"`
	SuggestedServiceName string              `json:"suggested_service_name"`
}

// Result is the full partition of the call-graph node set.
type Result struct {
	Communities []Community `json:"communities"`
	Modularity  float64     `json:"modularity_score"`
	Passes      int         `json:"passes"`
	Converged   bool        `json:"converged"`
}

// Detector runs greedy modularity optimization over a call graph.
type Detector struct {
	logger *slog.Logger
	opts   *Options
}

// NewDetector creates a detector. A nil opts uses defaults.
func NewDetector(logger *slog.Logger, opts *Options) *Detector {
	if opts == nil {
		opts = DefaultOptions()
	} else {
		opts.Validate()
	}
	return &Detector{logger: logger, opts: opts}
}

// Detect partitions every edge-touched component into exactly one
// community.
//
// The graph is first projected to an undirected weighted graph. Nodes are
// then swept in ascending component-id order, up to MaxPasses times: a
// node moves to the adjacent community with the strictly greatest
// positive modularity gain over its current assignment. Candidate communities
// are scanned in ascending label order and only a strictly greater gain
// displaces the best so far, so identical input always yields an
// identical partition. This is the reproducibility contract; it is not
// textbook Louvain and stops after the single level.
func (d *Detector) Detect(ctx context.Context, snap *store.Snapshot, g *graph.CallGraph) (*Result, error) {
	u := g.Undirected()
	n := len(u.IDs)

	if n == 0 {
		return &Result{Communities: []Community{}, Converged: true}, nil
	}

	// Each node starts in its own community.
	comm := make([]int, n)
	commDegree := make([]float64, n)
	for i := 0; i < n; i++ {
		comm[i] = i
		commDegree[i] = u.Degrees[i]
	}

	passes := 0
	converged := false
	m := u.M

	if m == 0 {
		// Projection of self-loops only: every touched node stays a singleton.
		converged = true
	}

	for m > 0 && passes < d.opts.MaxPasses {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		passes++
		moved := false

		for i := 0; i < n; i++ {
			cur := comm[i]
			deg := u.Degrees[i]

			// Edge weight from i into each adjacent community.
			links := make(map[int]float64, len(u.Weights[i]))
			for j, w := range u.Weights[i] {
				links[comm[j]] += w
			}

			// The current community's degree sum excludes the node itself,
			// as if the node were re-joining it from outside.
			base := links[cur]/m - (commDegree[cur]-deg)*deg/(2*m*m)

			candidates := make([]int, 0, len(links))
			for c := range links {
				if c != cur {
					candidates = append(candidates, c)
				}
			}
			sort.Ints(candidates)

			best := cur
			bestGain := 0.0
			for _, c := range candidates {
				gain := links[c]/m - commDegree[c]*deg/(2*m*m) - base
				if gain > bestGain {
					bestGain = gain
					best = c
				}
			}

			if best != cur {
				commDegree[cur] -= deg
				commDegree[best] += deg
				comm[i] = best
				moved = true
			}
		}

		if !moved {
			converged = true
			break
		}
	}

	result := d.buildResult(snap, u, comm)
	result.Passes = passes
	result.Converged = converged

	if d.logger != nil {
		d.logger.Debug("community detection completed",
			slog.Int("passes", passes),
			slog.Int("communities", len(result.Communities)),
			slog.Float64("modularity", result.Modularity),
			slog.Bool("converged", converged),
			slog.Int("node_count", n),
		)
	}
	return result, nil
}

// modularity computes the global partition score:
// Q = (1/2m) Σ over same-community ordered pairs of [w_ij − deg_i·deg_j/(2m)].
func modularity(u *graph.Undirected, comm []int) float64 {
	if u.M == 0 {
		return 0.0
	}
	m2 := 2 * u.M

	internal := make(map[int]float64) // ordered-pair weight inside each community
	degSum := make(map[int]float64)
	for i := range u.IDs {
		degSum[comm[i]] += u.Degrees[i]
		for j, w := range u.Weights[i] {
			if comm[j] == comm[i] {
				internal[comm[i]] += w
			}
		}
	}

	q := 0.0
	for c, deg := range degSum {
		q += internal[c]/m2 - (deg/m2)*(deg/m2)
	}
	return q
}

func (d *Detector) buildResult(snap *store.Snapshot, u *graph.Undirected, comm []int) *Result {
	// Renumber labels densely in order of first member; members come out
	// ascending because nodes are scanned in ascending id order.
	relabel := make(map[int]int)
	members := make(map[int][]store.ComponentID)
	for i, id := range u.IDs {
		label, ok := relabel[comm[i]]
		if !ok {
			label = len(relabel)
			relabel[comm[i]] = label
		}
		members[label] = append(members[label], id)
	}

	result := &Result{
		Communities: make([]Community, 0, len(members)),
		Modularity:  modularity(u, comm),
	}

	for label := 0; label < len(members); label++ {
		ids := members[label]
		comps := make([]*store.Component, 0, len(ids))
		var cohesion, coupling float64
		for _, id := range ids {
			c := snap.ComponentByID(id)
			if c == nil {
				continue
			}
			comps = append(comps, c)
			cohesion += c.CohesionScore
			coupling += c.CouplingScore
		}
		if len(comps) > 0 {
			cohesion /= float64(len(comps))
			coupling /= float64(len(comps))
		}

		result.Communities = append(result.Communities, Community{
			ID:                   label,
			Name:                 fmt.Sprintf("community_%d", label),
			Components:           ids,
			Cohesion:             cohesion,
			Coupling:             coupling,
			SuggestedServiceName: suggestServiceName(comps),
		})
	}
	return result
}
