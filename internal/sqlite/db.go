package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations runs the migrations directly (for testing)
// In production, migrations should be run via the embed package
func (db *DB) RunMigrations() error {
	migration := `
-- Drawings table
CREATE TABLE drawings (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    number TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    spec TEXT NOT NULL DEFAULT '',
    area_id TEXT,
    area_name TEXT,
    system_id TEXT,
    system_name TEXT,
    test_package_id TEXT,
    test_package_name TEXT,
    completed_components INTEGER NOT NULL DEFAULT 0,
    total_components INTEGER NOT NULL DEFAULT 0,
    avg_percent_complete REAL NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX idx_tenant_drawings ON drawings(tenant_id);
CREATE UNIQUE INDEX idx_tenant_drawing_number ON drawings(tenant_id, number);

-- Components table
CREATE TABLE components (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    drawing_id TEXT NOT NULL,
    type TEXT NOT NULL,
    identity_key TEXT NOT NULL DEFAULT '{}',
    display TEXT NOT NULL,
    area_id TEXT,
    area_name TEXT,
    system_id TEXT,
    system_name TEXT,
    test_package_id TEXT,
    test_package_name TEXT,
    template TEXT NOT NULL,
    milestones TEXT NOT NULL DEFAULT '{}',
    percent_complete INTEGER NOT NULL DEFAULT 0,
    can_update INTEGER NOT NULL DEFAULT 1,
    attributes TEXT NOT NULL DEFAULT '{}',
    line_numbers TEXT NOT NULL DEFAULT '',
    revision INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (drawing_id) REFERENCES drawings(id)
);
CREATE INDEX idx_tenant_components ON components(tenant_id);
CREATE INDEX idx_drawing_components ON components(drawing_id);
CREATE INDEX idx_component_type ON components(type);

-- Activity log
CREATE TABLE activity_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    tenant_id TEXT NOT NULL,
    drawing_id TEXT NOT NULL DEFAULT '',
    component_id TEXT,
    milestone TEXT NOT NULL DEFAULT '',
    activity_type TEXT NOT NULL,
    summary TEXT NOT NULL,
    details TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX idx_tenant_activity ON activity_log(tenant_id);
CREATE INDEX idx_drawing_activity ON activity_log(drawing_id);
CREATE INDEX idx_component_activity ON activity_log(component_id);
CREATE INDEX idx_activity_created_at ON activity_log(created_at);

-- Offline update queue
CREATE TABLE offline_queue (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    component_id TEXT NOT NULL,
    milestone TEXT NOT NULL,
    percent INTEGER NOT NULL,
    confirmation TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    flushed_at TIMESTAMP
);
CREATE INDEX idx_tenant_queue ON offline_queue(tenant_id, flushed_at);

-- Full-text search over component identity (SQLite FTS5)
CREATE VIRTUAL TABLE components_fts USING fts5(
    display,
    line_numbers,
    content='components',
    content_rowid='rowid'
);

-- Triggers to keep FTS index synchronized
CREATE TRIGGER components_ai AFTER INSERT ON components BEGIN
    INSERT INTO components_fts(rowid, display, line_numbers)
    VALUES (new.rowid, new.display, new.line_numbers);
END;

CREATE TRIGGER components_ad AFTER DELETE ON components BEGIN
    DELETE FROM components_fts WHERE rowid = old.rowid;
END;

CREATE TRIGGER components_au AFTER UPDATE ON components BEGIN
    INSERT INTO components_fts(components_fts, rowid, display, line_numbers)
    VALUES('delete', old.rowid, old.display, old.line_numbers);
    INSERT INTO components_fts(rowid, display, line_numbers)
    VALUES (new.rowid, new.display, new.line_numbers);
END;

-- API keys for authentication
CREATE TABLE api_keys (
    key_hash TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    last_used TIMESTAMP,
    description TEXT
);
CREATE INDEX idx_tenant_keys ON api_keys(tenant_id);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
