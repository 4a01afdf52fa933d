package storage

// EntityRow is one row of the entities table.
type EntityRow struct {
	ID          uint32 // entity_id: numeric STEP instance id
	Type        string // entity_type: uppercase IFC type name
	GlobalID    string // global_id: 22-character GlobalId, empty when absent
	Name        string // name: entity Name attribute
	Description string // description: entity Description attribute
	ObjectType  string // object_type: ObjectType attribute for occurrences
	HasGeometry bool   // has_geometry: entity carries a shape representation
	IsType      bool   // is_type: entity is a type definition
	StoreyID    uint32 // storey_id: containing storey, 0 when unplaced
}

// RelationshipRow is one row of the relationships table.
type RelationshipRow struct {
	ID     string // rel_id: row identifier
	Kind   string // kind: relationship kind name
	Source uint32 // source_id: relating entity
	Target uint32 // target_id: related entity
	Owner  uint32 // owner_id: objectified relationship record
}

// SpatialRow is one row of the spatial_nodes table.
type SpatialRow struct {
	ID        uint32   // node_id: spatial entity id
	ParentID  uint32   // parent_id: containing node, 0 for the project root
	Type      string   // node_type: uppercase IFC type name
	Name      string   // name: node Name attribute
	Path      string   // path: slash-joined labels from the root
	Level     int      // level: depth in the tree, root is 0
	Elevation *float64 // elevation: storey elevation, nil when absent
}

// PropertyRow is one row of the property_rows table. Both property and
// quantity values are flattened to display strings.
type PropertyRow struct {
	RowID     string // row_id: row identifier
	EntityID  uint32 // entity_id: entity the set applies to
	SetID     uint32 // set_id: defining set record
	SetName   string // set_name: property or quantity set name
	SetKind   string // set_kind: "property" or "quantity"
	Name      string // name: member name within the set
	ValueType string // value_type: property value type or quantity kind
	Value     string // value: rendered value
}

// TypeCount pairs an entity type with its row count.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Summary describes a snapshot at a glance.
type Summary struct {
	SnapshotID    string      `json:"snapshot_id"`
	SourcePath    string      `json:"source_path"`
	Schema        string      `json:"schema"`
	LengthScale   float64     `json:"length_scale"`
	CreatedAt     string      `json:"created_at"`
	Entities      int         `json:"entities"`
	Relationships int         `json:"relationships"`
	SpatialNodes  int         `json:"spatial_nodes"`
	PropertyRows  int         `json:"property_rows"`
	TypeCounts    []TypeCount `json:"type_counts"`
}
