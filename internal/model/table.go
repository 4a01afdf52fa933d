package model

// EntityTable holds the identity of every kept entity in parallel columns,
// appended in file order. Column storage keeps per-row overhead flat across
// the many rows whose optional fields are empty, and lets bulk consumers
// (search indexing, snapshot writes) walk one column without touching the
// rest.
type EntityTable struct {
	rowOf map[uint32]int

	ids          []uint32
	types        []string
	globalIDs    []string
	names        []string
	descriptions []string
	objectTypes  []string
	geometric    []bool
	typeDefs     []bool
}

// Info is one table row in struct form.
type Info struct {
	ID          uint32 `json:"id"`
	Type        string `json:"type"`
	GlobalID    string `json:"global_id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	ObjectType  string `json:"object_type,omitempty"`
	HasGeometry bool   `json:"has_geometry,omitempty"`
	IsType      bool   `json:"is_type,omitempty"`
}

func newEntityTable(capacity int) *EntityTable {
	return &EntityTable{rowOf: make(map[uint32]int, capacity)}
}

func (t *EntityTable) append(row Info) {
	if _, dup := t.rowOf[row.ID]; dup {
		return
	}
	t.rowOf[row.ID] = len(t.ids)
	t.ids = append(t.ids, row.ID)
	t.types = append(t.types, row.Type)
	t.globalIDs = append(t.globalIDs, row.GlobalID)
	t.names = append(t.names, row.Name)
	t.descriptions = append(t.descriptions, row.Description)
	t.objectTypes = append(t.objectTypes, row.ObjectType)
	t.geometric = append(t.geometric, row.HasGeometry)
	t.typeDefs = append(t.typeDefs, row.IsType)
}

// Len returns the number of kept entities.
func (t *EntityTable) Len() int {
	return len(t.ids)
}

// Contains reports whether id survived the keep filter.
func (t *EntityTable) Contains(id uint32) bool {
	_, ok := t.rowOf[id]
	return ok
}

// Get returns the row for id.
func (t *EntityTable) Get(id uint32) (Info, bool) {
	row, ok := t.rowOf[id]
	if !ok {
		return Info{}, false
	}
	return t.At(row), true
}

// At returns the i-th row in file order.
func (t *EntityTable) At(i int) Info {
	return Info{
		ID:          t.ids[i],
		Type:        t.types[i],
		GlobalID:    t.globalIDs[i],
		Name:        t.names[i],
		Description: t.descriptions[i],
		ObjectType:  t.objectTypes[i],
		HasGeometry: t.geometric[i],
		IsType:      t.typeDefs[i],
	}
}

// IDs returns the kept ids in file order. The slice is shared; callers must
// not mutate it.
func (t *EntityTable) IDs() []uint32 {
	return t.ids
}

// Name returns the display name of id, empty when absent or not kept.
func (t *EntityTable) Name(id uint32) string {
	row, ok := t.rowOf[id]
	if !ok {
		return ""
	}
	return t.names[row]
}
