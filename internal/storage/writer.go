// Package storage persists ingested models as SQLite snapshot databases.
// A snapshot holds the entity table, relationship graph, spatial tree and
// flattened property rows of one model, queryable without re-parsing the
// source file.
package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/strata-bim/strata/internal/model"
)

// Writer writes model snapshots.
type Writer struct {
	db     *sql.DB
	ownsDB bool
}

// NewWriter opens or creates a snapshot database at dbPath.
func NewWriter(dbPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	version, err := GetSchemaVersion(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if version == "0" {
		if err := CreateSchema(db); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &Writer{db: db, ownsDB: true}, nil
}

// NewWriterWithDB creates a writer on an existing handle. The caller keeps
// ownership of the connection and Close becomes a no-op.
func NewWriterWithDB(db *sql.DB) *Writer {
	return &Writer{db: db, ownsDB: false}
}

// Close closes the database if the writer owns it.
func (w *Writer) Close() error {
	if !w.ownsDB {
		return nil
	}
	return w.db.Close()
}

// WriteSnapshot replaces the snapshot contents with the given model and
// returns the new snapshot id. Everything is written in one transaction so
// a failed write leaves the previous snapshot intact.
func (w *Writer) WriteSnapshot(st *model.Store, sourcePath string) (string, error) {
	snapshotID := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := w.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Clear in reverse dependency order.
	for _, table := range []string{"property_rows", "spatial_nodes", "relationships", "entities"} {
		if _, err := sq.Delete(table).RunWith(tx).Exec(); err != nil {
			return "", fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if _, err := tx.Exec("DELETE FROM snapshot_meta WHERE key != 'schema_version'"); err != nil {
		return "", fmt.Errorf("failed to clear snapshot_meta: %w", err)
	}

	if err := writeMeta(tx, st, snapshotID, sourcePath, now); err != nil {
		return "", err
	}
	if err := writeEntities(tx, st); err != nil {
		return "", err
	}
	if err := writeRelationships(tx, st); err != nil {
		return "", err
	}
	if err := writeSpatialNodes(tx, st); err != nil {
		return "", err
	}
	if err := writePropertyRows(tx, st); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return snapshotID, nil
}

func writeMeta(tx *sql.Tx, st *model.Store, snapshotID, sourcePath, now string) error {
	entries := []struct {
		key   string
		value string
	}{
		{"snapshot_id", snapshotID},
		{"source_path", sourcePath},
		{"source_schema", string(st.SchemaVersion())},
		{"length_scale", strconv.FormatFloat(st.LengthScale(), 'g', -1, 64)},
		{"created_at", now},
	}
	for _, e := range entries {
		_, err := sq.Insert("snapshot_meta").
			Columns("key", "value", "updated_at").
			Values(e.key, e.value, now).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to write meta %s: %w", e.key, err)
		}
	}
	return nil
}

func writeEntities(tx *sql.Tx, st *model.Store) error {
	table := st.Table()
	hier := st.Hierarchy()
	for i := 0; i < table.Len(); i++ {
		row := table.At(i)
		var storey any
		if id, ok := hier.StoreyOf(row.ID); ok {
			storey = id
		}
		_, err := sq.Insert("entities").
			Columns("entity_id", "entity_type", "global_id", "name", "description",
				"object_type", "has_geometry", "is_type", "storey_id").
			Values(row.ID, row.Type, row.GlobalID, row.Name, row.Description,
				row.ObjectType, row.HasGeometry, row.IsType, storey).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to write entity #%d: %w", row.ID, err)
		}
	}
	return nil
}

func writeRelationships(tx *sql.Tx, st *model.Store) error {
	for _, edge := range st.Graph().Edges() {
		_, err := sq.Insert("relationships").
			Columns("rel_id", "kind", "source_id", "target_id", "owner_id").
			Values(uuid.New().String(), edge.Kind.String(), edge.Source, edge.Target, edge.Owner).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to write relationship #%d->#%d: %w", edge.Source, edge.Target, err)
		}
	}
	return nil
}

func writeSpatialNodes(tx *sql.Tx, st *model.Store) error {
	root := st.Hierarchy().Root
	if root == nil {
		return nil
	}
	var visit func(n *model.SpatialNode, parent any) error
	visit = func(n *model.SpatialNode, parent any) error {
		var elevation any
		if n.Elevation != nil {
			elevation = *n.Elevation
		}
		_, err := sq.Insert("spatial_nodes").
			Columns("node_id", "parent_id", "node_type", "name", "path", "level", "elevation").
			Values(n.ID, parent, n.Type, n.Name, n.Path, n.Level, elevation).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to write spatial node #%d: %w", n.ID, err)
		}
		for _, child := range n.Children {
			if err := visit(child, n.ID); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(root, nil)
}

func writePropertyRows(tx *sql.Tx, st *model.Store) error {
	table := st.Table()
	index := st.Index()
	for i := 0; i < table.Len(); i++ {
		id := table.At(i).ID
		if index.IsRelationship(id) {
			continue
		}
		for _, set := range st.Properties(id) {
			for _, p := range set.Properties {
				if err := insertPropertyRow(tx, id, set.ID, set.Name, "property",
					p.Name, p.Type, renderValue(p.Value)); err != nil {
					return err
				}
			}
		}
		for _, set := range st.Quantities(id) {
			for _, q := range set.Quantities {
				if err := insertPropertyRow(tx, id, set.ID, set.Name, "quantity",
					q.Name, q.Kind, strconv.FormatFloat(q.Value, 'g', -1, 64)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func insertPropertyRow(tx *sql.Tx, entityID, setID uint32, setName, setKind, name, valueType, value string) error {
	_, err := sq.Insert("property_rows").
		Columns("row_id", "entity_id", "set_id", "set_name", "set_kind", "name", "value_type", "value").
		Values(uuid.New().String(), entityID, setID, setName, setKind, name, valueType, value).
		RunWith(tx).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to write property row %s.%s for #%d: %w", setName, name, entityID, err)
	}
	return nil
}

// renderValue flattens a property value to its display string.
func renderValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
