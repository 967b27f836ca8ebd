package store

// schema contains the SQL statements to create the analysis database schema.
const schema = `
-- Applications table
CREATE TABLE IF NOT EXISTS applications (
    id   INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

-- Components table
CREATE TABLE IF NOT EXISTS components (
    id                    INTEGER PRIMARY KEY AUTOINCREMENT,
    app_id                INTEGER NOT NULL,
    name                  TEXT NOT NULL,
    type                  TEXT NOT NULL,
    qualified_name        TEXT,
    loc                   INTEGER DEFAULT 0,
    cyclomatic_complexity INTEGER DEFAULT 0,
    coupling_score        REAL DEFAULT 0,
    cohesion_score        REAL DEFAULT 0,
    FOREIGN KEY (app_id) REFERENCES applications(id)
);

CREATE INDEX IF NOT EXISTS idx_components_app ON components(app_id);
CREATE INDEX IF NOT EXISTS idx_components_type ON components(type);

-- Dependency edges table. target_component_id is NULL when the scanner
-- could not resolve the target.
CREATE TABLE IF NOT EXISTS dependency_edges (
    id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    app_id              INTEGER NOT NULL,
    source_component_id INTEGER NOT NULL,
    target_component_id INTEGER,
    dependency_type     TEXT NOT NULL,
    weight              REAL DEFAULT 1.0,
    FOREIGN KEY (app_id) REFERENCES applications(id),
    FOREIGN KEY (source_component_id) REFERENCES components(id)
);

CREATE INDEX IF NOT EXISTS idx_edges_app ON dependency_edges(app_id);
CREATE INDEX IF NOT EXISTS idx_edges_source ON dependency_edges(source_component_id);
CREATE INDEX IF NOT EXISTS idx_edges_target ON dependency_edges(target_component_id);

-- API endpoints table. component_id is NULL when ownership is unresolved.
CREATE TABLE IF NOT EXISTS api_endpoints (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    app_id       INTEGER NOT NULL,
    component_id INTEGER,
    method       TEXT NOT NULL,
    path         TEXT NOT NULL,
    FOREIGN KEY (app_id) REFERENCES applications(id),
    FOREIGN KEY (component_id) REFERENCES components(id)
);

CREATE INDEX IF NOT EXISTS idx_endpoints_app ON api_endpoints(app_id);
`
