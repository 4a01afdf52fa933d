package model

import (
	"sort"

	"github.com/RoaringBitmap/roaring"

	"github.com/strata-bim/strata/internal/step"
)

// EntityIndex is the random-access side of a scanned file: byte ranges by
// id, ids by type in file order, and category membership bitmaps filled
// while the ingestion pass buckets records. Bitmaps answer the hot
// "is this a relationship / spatial node / type object" checks without a
// second map lookup per record.
type EntityIndex struct {
	byID   map[uint32]step.EntityRef
	byType map[string][]uint32

	spatial   *roaring.Bitmap
	geometry  *roaring.Bitmap
	typeDefs  *roaring.Bitmap
	rels      *roaring.Bitmap
	valueSets *roaring.Bitmap
}

func newEntityIndex(capacity int) *EntityIndex {
	return &EntityIndex{
		byID:      make(map[uint32]step.EntityRef, capacity),
		byType:    make(map[string][]uint32),
		spatial:   roaring.New(),
		geometry:  roaring.New(),
		typeDefs:  roaring.New(),
		rels:      roaring.New(),
		valueSets: roaring.New(),
	}
}

// add registers a ref, rejecting duplicate ids so the first record with an
// id stays authoritative.
func (ix *EntityIndex) add(ref step.EntityRef) bool {
	if _, dup := ix.byID[ref.ID]; dup {
		return false
	}
	ix.byID[ref.ID] = ref
	ix.byType[ref.Type] = append(ix.byType[ref.Type], ref.ID)
	return true
}

// Ref returns the byte range of id's record.
func (ix *EntityIndex) Ref(id uint32) (step.EntityRef, bool) {
	ref, ok := ix.byID[id]
	return ref, ok
}

// TypeOf returns the record type of id.
func (ix *EntityIndex) TypeOf(id uint32) (string, bool) {
	ref, ok := ix.byID[id]
	return ref.Type, ok
}

// IDsOfType returns every id of one record type in file order. The slice is
// shared; callers must not mutate it.
func (ix *EntityIndex) IDsOfType(typeName string) []uint32 {
	return ix.byType[typeName]
}

// Types returns the distinct record types, sorted.
func (ix *EntityIndex) Types() []string {
	out := make([]string, 0, len(ix.byType))
	for t := range ix.byType {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of indexed records.
func (ix *EntityIndex) Len() int {
	return len(ix.byID)
}

// IsSpatial reports whether id is a containment-tree node.
func (ix *EntityIndex) IsSpatial(id uint32) bool {
	return ix.spatial.Contains(id)
}

// HasGeometry reports whether id's record can carry a displayable shape.
func (ix *EntityIndex) HasGeometry(id uint32) bool {
	return ix.geometry.Contains(id)
}

// IsTypeDefinition reports whether id declares a type object.
func (ix *EntityIndex) IsTypeDefinition(id uint32) bool {
	return ix.typeDefs.Contains(id)
}

// IsRelationship reports whether id is a captured relationship record.
func (ix *EntityIndex) IsRelationship(id uint32) bool {
	return ix.rels.Contains(id)
}

// IsValueSet reports whether id is a property or quantity container.
func (ix *EntityIndex) IsValueSet(id uint32) bool {
	return ix.valueSets.Contains(id)
}

// IndexCounts reports per-category cardinalities for diagnostics.
type IndexCounts struct {
	Entities      int `json:"entities"`
	Spatial       int `json:"spatial"`
	Geometry      int `json:"geometry"`
	TypeDefs      int `json:"type_defs"`
	Relationships int `json:"relationships"`
	ValueSets     int `json:"value_sets"`
}

// Counts tallies the index by category.
func (ix *EntityIndex) Counts() IndexCounts {
	return IndexCounts{
		Entities:      len(ix.byID),
		Spatial:       int(ix.spatial.GetCardinality()),
		Geometry:      int(ix.geometry.GetCardinality()),
		TypeDefs:      int(ix.typeDefs.GetCardinality()),
		Relationships: int(ix.rels.GetCardinality()),
		ValueSets:     int(ix.valueSets.GetCardinality()),
	}
}
