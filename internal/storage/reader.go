package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

// ErrEntityNotFound is returned when a snapshot has no row for the
// requested entity id.
var ErrEntityNotFound = errors.New("entity not found in snapshot")

// Reader reads model snapshots.
type Reader struct {
	db     *sql.DB
	ownsDB bool
}

// NewReader opens a snapshot database read-only.
func NewReader(dbPath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}

	version, err := GetSchemaVersion(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if version == "0" {
		db.Close()
		return nil, fmt.Errorf("%s is not a snapshot database", dbPath)
	}
	if version != SchemaVersion {
		db.Close()
		return nil, fmt.Errorf("snapshot schema version %s is not supported, re-ingest the model", version)
	}

	return &Reader{db: db, ownsDB: true}, nil
}

// NewReaderWithDB creates a reader on an existing handle. The caller keeps
// ownership of the connection and Close becomes a no-op.
func NewReaderWithDB(db *sql.DB) *Reader {
	return &Reader{db: db, ownsDB: false}
}

// Close closes the database if the reader owns it.
func (r *Reader) Close() error {
	if !r.ownsDB {
		return nil
	}
	return r.db.Close()
}

// Meta returns all snapshot_meta entries.
func (r *Reader) Meta() (map[string]string, error) {
	rows, err := sq.Select("key", "value").
		From("snapshot_meta").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot_meta: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan meta row: %w", err)
		}
		meta[key] = value
	}
	return meta, rows.Err()
}

// Summary returns snapshot metadata together with table counts and the
// per-type entity breakdown, most frequent types first.
func (r *Reader) Summary() (*Summary, error) {
	meta, err := r.Meta()
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		SnapshotID: meta["snapshot_id"],
		SourcePath: meta["source_path"],
		Schema:     meta["source_schema"],
		CreatedAt:  meta["created_at"],
	}
	if scale := meta["length_scale"]; scale != "" {
		if v, err := strconv.ParseFloat(scale, 64); err == nil {
			summary.LengthScale = v
		}
	}

	counts := []struct {
		table string
		dst   *int
	}{
		{"entities", &summary.Entities},
		{"relationships", &summary.Relationships},
		{"spatial_nodes", &summary.SpatialNodes},
		{"property_rows", &summary.PropertyRows},
	}
	for _, c := range counts {
		if err := r.db.QueryRow("SELECT COUNT(*) FROM " + c.table).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}

	rows, err := sq.Select("entity_type", "COUNT(*) AS n").
		From("entities").
		GroupBy("entity_type").
		OrderBy("n DESC", "entity_type ASC").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query type counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		summary.TypeCounts = append(summary.TypeCounts, tc)
	}
	return summary, rows.Err()
}

// Entity returns a single entity row by id.
func (r *Reader) Entity(id uint32) (*EntityRow, error) {
	row := sq.Select(entityColumns()...).
		From("entities").
		Where(sq.Eq{"entity_id": id}).
		RunWith(r.db).
		QueryRow()

	e, err := scanEntity(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("#%d: %w", id, ErrEntityNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read entity #%d: %w", id, err)
	}
	return e, nil
}

// EntitiesByType returns all entities of the given uppercase type name in
// id order.
func (r *Reader) EntitiesByType(typeName string) ([]*EntityRow, error) {
	rows, err := sq.Select(entityColumns()...).
		From("entities").
		Where(sq.Eq{"entity_type": typeName}).
		OrderBy("entity_id ASC").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer rows.Close()

	var out []*EntityRow
	for rows.Next() {
		e, err := scanEntity(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entity row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SpatialNodes returns the spatial tree rows, parents before children.
func (r *Reader) SpatialNodes() ([]*SpatialRow, error) {
	rows, err := sq.Select("node_id", "parent_id", "node_type", "name", "path", "level", "elevation").
		From("spatial_nodes").
		OrderBy("level ASC", "path ASC").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query spatial nodes: %w", err)
	}
	defer rows.Close()

	var out []*SpatialRow
	for rows.Next() {
		var (
			n         SpatialRow
			parent    sql.NullInt64
			elevation sql.NullFloat64
		)
		if err := rows.Scan(&n.ID, &parent, &n.Type, &n.Name, &n.Path, &n.Level, &elevation); err != nil {
			return nil, fmt.Errorf("failed to scan spatial row: %w", err)
		}
		if parent.Valid {
			n.ParentID = uint32(parent.Int64)
		}
		if elevation.Valid {
			v := elevation.Float64
			n.Elevation = &v
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

// PropertyRowsFor returns the flattened property and quantity rows of an
// entity, grouped by set.
func (r *Reader) PropertyRowsFor(entityID uint32) ([]*PropertyRow, error) {
	rows, err := sq.Select("row_id", "entity_id", "set_id", "set_name", "set_kind", "name", "value_type", "value").
		From("property_rows").
		Where(sq.Eq{"entity_id": entityID}).
		OrderBy("set_kind ASC", "set_name ASC", "name ASC").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query property rows: %w", err)
	}
	defer rows.Close()

	var out []*PropertyRow
	for rows.Next() {
		var p PropertyRow
		if err := rows.Scan(&p.RowID, &p.EntityID, &p.SetID, &p.SetName, &p.SetKind,
			&p.Name, &p.ValueType, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// RelationshipsOf returns all relationship rows touching an entity on
// either side.
func (r *Reader) RelationshipsOf(entityID uint32) ([]*RelationshipRow, error) {
	rows, err := sq.Select("rel_id", "kind", "source_id", "target_id", "owner_id").
		From("relationships").
		Where(sq.Or{sq.Eq{"source_id": entityID}, sq.Eq{"target_id": entityID}}).
		OrderBy("kind ASC", "source_id ASC", "target_id ASC").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query relationships: %w", err)
	}
	defer rows.Close()

	var out []*RelationshipRow
	for rows.Next() {
		var rel RelationshipRow
		if err := rows.Scan(&rel.ID, &rel.Kind, &rel.Source, &rel.Target, &rel.Owner); err != nil {
			return nil, fmt.Errorf("failed to scan relationship row: %w", err)
		}
		out = append(out, &rel)
	}
	return out, rows.Err()
}

func entityColumns() []string {
	return []string{
		"entity_id", "entity_type", "global_id", "name", "description",
		"object_type", "has_geometry", "is_type", "storey_id",
	}
}

func scanEntity(scan func(...any) error) (*EntityRow, error) {
	var (
		e      EntityRow
		storey sql.NullInt64
	)
	err := scan(&e.ID, &e.Type, &e.GlobalID, &e.Name, &e.Description,
		&e.ObjectType, &e.HasGeometry, &e.IsType, &storey)
	if err != nil {
		return nil, err
	}
	if storey.Valid {
		e.StoreyID = uint32(storey.Int64)
	}
	return &e, nil
}
