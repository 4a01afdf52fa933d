package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// SchemaVersion is the current snapshot database schema version.
// Bump when the table layout changes; old snapshots are rebuilt, not migrated.
const SchemaVersion = "1"

const snapshotMetaDDL = `
CREATE TABLE IF NOT EXISTS snapshot_meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

const entitiesDDL = `
CREATE TABLE IF NOT EXISTS entities (
	entity_id INTEGER PRIMARY KEY,
	entity_type TEXT NOT NULL,
	global_id TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	object_type TEXT NOT NULL DEFAULT '',
	has_geometry INTEGER NOT NULL DEFAULT 0,
	is_type INTEGER NOT NULL DEFAULT 0,
	storey_id INTEGER
)`

const relationshipsDDL = `
CREATE TABLE IF NOT EXISTS relationships (
	rel_id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	source_id INTEGER NOT NULL,
	target_id INTEGER NOT NULL,
	owner_id INTEGER NOT NULL
)`

const spatialNodesDDL = `
CREATE TABLE IF NOT EXISTS spatial_nodes (
	node_id INTEGER PRIMARY KEY,
	parent_id INTEGER,
	node_type TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	path TEXT NOT NULL,
	level INTEGER NOT NULL,
	elevation REAL
)`

const propertyRowsDDL = `
CREATE TABLE IF NOT EXISTS property_rows (
	row_id TEXT PRIMARY KEY,
	entity_id INTEGER NOT NULL,
	set_id INTEGER NOT NULL,
	set_name TEXT NOT NULL,
	set_kind TEXT NOT NULL,
	name TEXT NOT NULL,
	value_type TEXT NOT NULL,
	value TEXT NOT NULL
)`

// CreateSchema creates all snapshot tables and indexes in a single
// transaction, then records the schema version.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	tables := []struct {
		name string
		ddl  string
	}{
		{"snapshot_meta", snapshotMetaDDL},
		{"entities", entitiesDDL},
		{"relationships", relationshipsDDL},
		{"spatial_nodes", spatialNodesDDL},
		{"property_rows", propertyRowsDDL},
	}

	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	for _, index := range getAllIndexes() {
		if _, err := tx.Exec(index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}

	if err := UpdateSchemaVersion(db, SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return nil
}

func getAllIndexes() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_entities_type ON entities(entity_type)",
		"CREATE INDEX IF NOT EXISTS idx_entities_global_id ON entities(global_id)",
		"CREATE INDEX IF NOT EXISTS idx_entities_storey ON entities(storey_id)",
		"CREATE INDEX IF NOT EXISTS idx_relationships_kind ON relationships(kind)",
		"CREATE INDEX IF NOT EXISTS idx_relationships_source ON relationships(source_id)",
		"CREATE INDEX IF NOT EXISTS idx_relationships_target ON relationships(target_id)",
		"CREATE INDEX IF NOT EXISTS idx_spatial_parent ON spatial_nodes(parent_id)",
		"CREATE INDEX IF NOT EXISTS idx_property_rows_entity ON property_rows(entity_id)",
		"CREATE INDEX IF NOT EXISTS idx_property_rows_set ON property_rows(entity_id, set_name)",
	}
}

// GetSchemaVersion returns the schema version stored in the snapshot, or
// "0" when the database has no snapshot_meta table yet.
func GetSchemaVersion(db *sql.DB) (string, error) {
	var exists int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'snapshot_meta'",
	).Scan(&exists)
	if err != nil {
		return "", fmt.Errorf("failed to check snapshot_meta table: %w", err)
	}
	if exists == 0 {
		return "0", nil
	}

	var version string
	err = db.QueryRow(
		"SELECT value FROM snapshot_meta WHERE key = 'schema_version'",
	).Scan(&version)
	if err == sql.ErrNoRows {
		return "0", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// UpdateSchemaVersion writes the schema version to snapshot_meta.
func UpdateSchemaVersion(db *sql.DB, version string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := db.Exec(
		`INSERT INTO snapshot_meta (key, value, updated_at) VALUES ('schema_version', ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		version, now,
	)
	if err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}
	return nil
}
