package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/splitlens/splitlens/internal/community"
	"github.com/splitlens/splitlens/internal/engine"
	"github.com/splitlens/splitlens/internal/flow"
	"github.com/splitlens/splitlens/internal/store"
	"github.com/splitlens/splitlens/internal/summary"
)

func setupTestServer(t *testing.T) (*Server, int64) {
	t.Helper()

	s, err := New(Config{Port: 8080, ProjectDir: t.TempDir()}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	t.Cleanup(func() { s.store.Close() })

	appID, err := s.store.InsertApplication("legacy-erp")
	if err != nil {
		t.Fatal(err)
	}

	components := []store.Component{
		{AppID: appID, Name: "UserController", Type: store.TypeController, QualifiedName: "com.acme.web.UserController", Complexity: 5},
		{AppID: appID, Name: "UserService", Type: store.TypeService, QualifiedName: "com.acme.core.UserService", Complexity: 12},
		{AppID: appID, Name: "UserRepository", Type: store.TypeRepository, QualifiedName: "com.acme.data.UserRepository", Complexity: 7},
	}
	ids := make([]store.ComponentID, len(components))
	for i := range components {
		id, err := s.store.InsertComponent(&components[i])
		if err != nil {
			t.Fatal(err)
		}
		ids[i] = id
	}

	edges := []store.DependencyEdge{
		{SourceID: ids[0], TargetID: ids[1], Type: store.DepMethodCall, Weight: 1.0},
		{SourceID: ids[1], TargetID: ids[2], Type: store.DepMethodCall, Weight: 1.0},
	}
	for i := range edges {
		if err := s.store.InsertEdge(appID, &edges[i]); err != nil {
			t.Fatal(err)
		}
	}

	ep := &store.APIEndpoint{AppID: appID, ComponentID: ids[0], Method: "GET", Path: "/users"}
	if _, err := s.store.InsertEndpoint(ep); err != nil {
		t.Fatal(err)
	}

	return s, appID
}

func get(t *testing.T, s *Server, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	s, _ := setupTestServer(t)

	w := get(t, s, "/api/health")
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got '%s'", resp["status"])
	}
}

func TestHandleApplications(t *testing.T) {
	s, appID := setupTestServer(t)

	w := get(t, s, "/api/applications")
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var apps []Application
	if err := json.NewDecoder(w.Body).Decode(&apps); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("expected 1 application, got %d", len(apps))
	}
	if apps[0].ID != appID || apps[0].Name != "legacy-erp" {
		t.Errorf("unexpected application: %+v", apps[0])
	}
}

func TestHandleFullAnalysis(t *testing.T) {
	s, appID := setupTestServer(t)

	w := get(t, s, fmt.Sprintf("/api/applications/%d", appID))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var res engine.Result
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if res.RunID == "" {
		t.Error("expected a run id")
	}
	if len(res.CallGraph.Nodes) != 3 || len(res.CallGraph.Edges) != 2 {
		t.Errorf("call graph = %d nodes / %d edges, want 3/2",
			len(res.CallGraph.Nodes), len(res.CallGraph.Edges))
	}
}

func TestHandleCallGraphView(t *testing.T) {
	s, appID := setupTestServer(t)

	w := get(t, s, fmt.Sprintf("/api/applications/%d/callgraph", appID))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var view engine.CallGraphView
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(view.Nodes) != 3 {
		t.Errorf("expected 3 nodes, got %d", len(view.Nodes))
	}
}

func TestHandleFlowsView(t *testing.T) {
	s, appID := setupTestServer(t)

	w := get(t, s, fmt.Sprintf("/api/applications/%d/flows", appID))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var flows []flow.Flow
	if err := json.NewDecoder(w.Body).Decode(&flows); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(flows) != 1 {
		t.Fatalf("expected 1 flow, got %d", len(flows))
	}
	if !flows[0].ReachesDatabase {
		t.Error("expected flow to reach the database")
	}
	if len(flows[0].Chain) != 3 {
		t.Errorf("expected 3-link chain, got %d", len(flows[0].Chain))
	}
}

func TestHandleCommunitiesView(t *testing.T) {
	s, appID := setupTestServer(t)

	w := get(t, s, fmt.Sprintf("/api/applications/%d/communities", appID))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var res community.Result
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(res.Communities) == 0 {
		t.Error("expected communities")
	}
}

func TestHandleSummaryView(t *testing.T) {
	s, appID := setupTestServer(t)

	w := get(t, s, fmt.Sprintf("/api/applications/%d/summary", appID))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var sum summary.Summary
	if err := json.NewDecoder(w.Body).Decode(&sum); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if sum.ArchitectureStyle != "mvc_layered" {
		t.Errorf("expected style mvc_layered, got %q", sum.ArchitectureStyle)
	}
	if sum.TotalComponents != 3 {
		t.Errorf("expected 3 components, got %d", sum.TotalComponents)
	}
}

func TestHandleUnknownApplication(t *testing.T) {
	s, _ := setupTestServer(t)

	w := get(t, s, "/api/applications/999/summary")
	if w.Code != http.StatusOK {
		t.Fatalf("expected graceful 200 for unknown application, got %d", w.Code)
	}

	var sum summary.Summary
	if err := json.NewDecoder(w.Body).Decode(&sum); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if sum.TotalComponents != 0 {
		t.Errorf("expected empty summary, got %+v", sum)
	}
}

func TestHandleInvalidApplicationID(t *testing.T) {
	s, _ := setupTestServer(t)

	w := get(t, s, "/api/applications/abc/summary")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestHandleUnknownView(t *testing.T) {
	s, appID := setupTestServer(t)

	w := get(t, s, fmt.Sprintf("/api/applications/%d/bogus", appID))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestCorsMiddleware(t *testing.T) {
	s, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 for OPTIONS, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}
