package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store reads and writes the analysis inventory in SQLite.
// The upstream scanner populates it; the analysis engine only reads.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open creates or opens an analysis database.
// By default, stores at .splitlens/analysis.db relative to the given directory.
func Open(projectDir string) (*Store, error) {
	dir := filepath.Join(projectDir, ".splitlens")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating .splitlens directory: %w", err)
	}

	dbPath := filepath.Join(dir, "analysis.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys and WAL mode for better performance
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -64000", // 64MB cache
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DBPath returns the path to the database file.
func (s *Store) DBPath() string {
	return s.dbPath
}

// InsertApplication inserts an application and returns its id.
func (s *Store) InsertApplication(name string) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO applications (name) VALUES (?)
		ON CONFLICT(name) DO UPDATE SET name = excluded.name
	`, name)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		var existing int64
		if qerr := s.db.QueryRow("SELECT id FROM applications WHERE name = ?", name).Scan(&existing); qerr == nil {
			return existing, nil
		}
		return 0, err
	}
	return id, nil
}

// InsertComponent inserts a component and returns its id.
func (s *Store) InsertComponent(c *Component) (ComponentID, error) {
	result, err := s.db.Exec(`
		INSERT INTO components (app_id, name, type, qualified_name, loc,
			cyclomatic_complexity, coupling_score, cohesion_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.AppID, c.Name, c.Type, c.QualifiedName, c.LOC, c.Complexity, c.CouplingScore, c.CohesionScore)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	return ComponentID(id), err
}

// InsertEdge inserts a dependency edge. A zero TargetID is stored as NULL.
func (s *Store) InsertEdge(appID int64, e *DependencyEdge) error {
	var target any
	if e.TargetID != 0 {
		target = int64(e.TargetID)
	}
	weight := e.Weight
	if weight == 0 {
		weight = 1.0
	}
	_, err := s.db.Exec(`
		INSERT INTO dependency_edges (app_id, source_component_id, target_component_id, dependency_type, weight)
		VALUES (?, ?, ?, ?, ?)
	`, appID, e.SourceID, target, e.Type, weight)
	return err
}

// InsertEndpoint inserts an API endpoint and returns its id.
// A zero ComponentID is stored as NULL.
func (s *Store) InsertEndpoint(ep *APIEndpoint) (EndpointID, error) {
	var owner any
	if ep.ComponentID != 0 {
		owner = int64(ep.ComponentID)
	}
	result, err := s.db.Exec(`
		INSERT INTO api_endpoints (app_id, component_id, method, path)
		VALUES (?, ?, ?, ?)
	`, ep.AppID, owner, ep.Method, ep.Path)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	return EndpointID(id), err
}

// Snapshot loads the full graph view for one application.
// An unknown application id yields an empty snapshot, not an error.
func (s *Store) Snapshot(ctx context.Context, appID int64) (*Snapshot, error) {
	snap := &Snapshot{AppID: appID}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, COALESCE(qualified_name, ''), loc,
			cyclomatic_complexity, coupling_score, cohesion_score
		FROM components WHERE app_id = ? ORDER BY id
	`, appID)
	if err != nil {
		return nil, fmt.Errorf("querying components: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		c := Component{AppID: appID}
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.QualifiedName, &c.LOC,
			&c.Complexity, &c.CouplingScore, &c.CohesionScore); err != nil {
			return nil, fmt.Errorf("scanning component: %w", err)
		}
		snap.Components = append(snap.Components, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading components: %w", err)
	}

	edgeRows, err := s.db.QueryContext(ctx, `
		SELECT source_component_id, target_component_id, dependency_type, weight
		FROM dependency_edges WHERE app_id = ? ORDER BY id
	`, appID)
	if err != nil {
		return nil, fmt.Errorf("querying edges: %w", err)
	}
	defer edgeRows.Close()
	for edgeRows.Next() {
		var e DependencyEdge
		var target sql.NullInt64
		if err := edgeRows.Scan(&e.SourceID, &target, &e.Type, &e.Weight); err != nil {
			return nil, fmt.Errorf("scanning edge: %w", err)
		}
		if target.Valid {
			e.TargetID = ComponentID(target.Int64)
		}
		snap.Edges = append(snap.Edges, e)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("reading edges: %w", err)
	}

	epRows, err := s.db.QueryContext(ctx, `
		SELECT id, component_id, method, path
		FROM api_endpoints WHERE app_id = ? ORDER BY id
	`, appID)
	if err != nil {
		return nil, fmt.Errorf("querying endpoints: %w", err)
	}
	defer epRows.Close()
	for epRows.Next() {
		ep := APIEndpoint{AppID: appID}
		var owner sql.NullInt64
		if err := epRows.Scan(&ep.ID, &owner, &ep.Method, &ep.Path); err != nil {
			return nil, fmt.Errorf("scanning endpoint: %w", err)
		}
		if owner.Valid {
			ep.ComponentID = ComponentID(owner.Int64)
		}
		snap.Endpoints = append(snap.Endpoints, ep)
	}
	if err := epRows.Err(); err != nil {
		return nil, fmt.Errorf("reading endpoints: %w", err)
	}

	return snap, nil
}

// ListApplications returns all application ids and names, ordered by id.
func (s *Store) ListApplications(ctx context.Context) (map[int64]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM applications ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying applications: %w", err)
	}
	defer rows.Close()

	apps := make(map[int64]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scanning application: %w", err)
		}
		apps[id] = name
	}
	return apps, rows.Err()
}
