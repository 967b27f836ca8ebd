package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/splitlens/splitlens/internal/store"
)

type fakeSource struct {
	snap *store.Snapshot
	err  error
}

func (f *fakeSource) Snapshot(_ context.Context, appID int64) (*store.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.snap != nil && f.snap.AppID == appID {
		return f.snap, nil
	}
	return &store.Snapshot{AppID: appID}, nil
}

func layeredSnapshot() *store.Snapshot {
	return &store.Snapshot{
		AppID: 1,
		Components: []store.Component{
			{ID: 1, Name: "UserController", Type: store.TypeController, QualifiedName: "com.acme.web.UserController", Complexity: 5},
			{ID: 2, Name: "UserService", Type: store.TypeService, QualifiedName: "com.acme.core.UserService", Complexity: 12},
			{ID: 3, Name: "UserRepository", Type: store.TypeRepository, QualifiedName: "com.acme.data.UserRepository", Complexity: 7},
		},
		Edges: []store.DependencyEdge{
			{SourceID: 1, TargetID: 2, Type: store.DepMethodCall, Weight: 1.0},
			{SourceID: 2, TargetID: 3, Type: store.DepMethodCall, Weight: 1.0},
		},
		Endpoints: []store.APIEndpoint{
			{ID: 1, ComponentID: 1, Method: "GET", Path: "/users"},
		},
	}
}

func TestAnalyze(t *testing.T) {
	e := New(&fakeSource{snap: layeredSnapshot()}, nil, nil)

	res, err := e.Analyze(context.Background(), 1)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.RunID == "" {
		t.Error("expected a run id")
	}
	if res.AppID != 1 {
		t.Errorf("AppID = %d, want 1", res.AppID)
	}
	if len(res.CallGraph.Nodes) != 3 || len(res.CallGraph.Edges) != 2 {
		t.Errorf("call graph = %d nodes / %d edges, want 3/2",
			len(res.CallGraph.Nodes), len(res.CallGraph.Edges))
	}
	if len(res.Packages.Packages) != 3 {
		t.Errorf("packages = %d, want 3", len(res.Packages.Packages))
	}

	if len(res.Flows) != 1 {
		t.Fatalf("flows = %d, want 1", len(res.Flows))
	}
	f := res.Flows[0]
	if len(f.Chain) != 3 || !f.ReachesDatabase {
		t.Errorf("flow = %+v, want 3-link chain reaching the database", f)
	}
	wantTypes := []store.ComponentType{store.TypeController, store.TypeService, store.TypeRepository}
	for i, link := range f.Chain {
		if link.Type != wantTypes[i] {
			t.Errorf("chain[%d].Type = %q, want %q", i, link.Type, wantTypes[i])
		}
	}

	if len(res.Boundaries.Communities) == 0 {
		t.Error("expected service boundaries")
	}
	if res.Summary.ArchitectureStyle != "mvc_layered" {
		t.Errorf("ArchitectureStyle = %q, want mvc_layered", res.Summary.ArchitectureStyle)
	}
	if res.Summary.TotalEdges != 2 {
		t.Errorf("TotalEdges = %d, want 2", res.Summary.TotalEdges)
	}
}

func TestAnalyzeUnknownApplication(t *testing.T) {
	e := New(&fakeSource{snap: layeredSnapshot()}, nil, nil)

	res, err := e.Analyze(context.Background(), 99)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.CallGraph.Nodes) != 0 || len(res.Flows) != 0 || len(res.Boundaries.Communities) != 0 {
		t.Errorf("expected empty views for unknown application, got %+v", res)
	}
	if res.Summary.Modularity != 0.0 {
		t.Errorf("Modularity = %v, want 0.0", res.Summary.Modularity)
	}
}

func TestAnalyzeSourceFailure(t *testing.T) {
	wantErr := errors.New("store unavailable")
	e := New(&fakeSource{err: wantErr}, nil, nil)

	_, err := e.Analyze(context.Background(), 1)
	if !errors.Is(err, wantErr) {
		t.Fatalf("Analyze error = %v, want wrapped %v", err, wantErr)
	}
}

func TestAnalyzeRunIDsAreUnique(t *testing.T) {
	e := New(&fakeSource{snap: layeredSnapshot()}, nil, nil)

	a, err := e.Analyze(context.Background(), 1)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	b, err := e.Analyze(context.Background(), 1)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if a.RunID == b.RunID {
		t.Errorf("run ids must differ, both %q", a.RunID)
	}
}
