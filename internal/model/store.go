// Package model turns one scanned exchange file into an immutable queryable
// store: a columnar identity table over the kept entities, a typed
// relationship graph, the spatial containment tree, and on-demand extractors
// for properties, quantities, materials, classifications and documents.
//
// A Store never changes after Ingest returns, so any number of goroutines
// may read it without locking. Extractors decode records straight from the
// raw buffer on every call and return fresh values; the resident cost of a
// store is the buffer plus index, table and graph, independent of how much
// is ever extracted.
package model

import (
	"time"

	"github.com/strata-bim/strata/internal/ifc"
	"github.com/strata-bim/strata/internal/logger"
	"github.com/strata-bim/strata/internal/step"
)

// Store is the queryable form of one exchange file.
type Store struct {
	buf   []byte
	dec   *step.Decoder
	index *EntityIndex
	table *EntityTable
	graph *Graph
	hier  *Hierarchy

	schema ifc.Version
	scale  float64

	// Lookasides from object id to the definition records associated with
	// it. propSets and quantSets stay nil in eager-table mode, where the
	// extractors resolve sets through the graph instead.
	propSets  map[uint32][]uint32
	quantSets map[uint32][]uint32
	classRefs map[uint32][]uint32
	docRefs   map[uint32][]uint32
	material  map[uint32]uint32

	eagerProps  map[uint32]PropertySet
	eagerQuants map[uint32]QuantitySet

	warnings []string
	elapsed  time.Duration
}

// SchemaVersion returns the schema detected in the file header.
func (s *Store) SchemaVersion() ifc.Version {
	return s.schema
}

// LengthScale returns the factor converting the file's length values to
// metres. Files with no resolvable length unit report 1.0.
func (s *Store) LengthScale() float64 {
	return s.scale
}

// Index returns the record index.
func (s *Store) Index() *EntityIndex {
	return s.index
}

// Table returns the kept-entity identity table.
func (s *Store) Table() *EntityTable {
	return s.table
}

// Graph returns the relationship graph.
func (s *Store) Graph() *Graph {
	return s.graph
}

// Hierarchy returns the spatial containment tree, or nil when the file has
// no project record or the build failed.
func (s *Store) Hierarchy() *Hierarchy {
	return s.hier
}

// Entity returns the identity row of a kept entity.
func (s *Store) Entity(id uint32) (Info, bool) {
	return s.table.Get(id)
}

// RawRecord returns the record text of id exactly as it appears in the file.
func (s *Store) RawRecord(id uint32) (string, bool) {
	ref, ok := s.index.Ref(id)
	if !ok {
		return "", false
	}
	return string(s.buf[ref.Offset : ref.Offset+ref.Length]), true
}

// Warnings returns the non-fatal problems noted during ingestion.
func (s *Store) Warnings() []string {
	return s.warnings
}

// Elapsed returns the wall time the ingestion took.
func (s *Store) Elapsed() time.Duration {
	return s.elapsed
}

func (s *Store) warn(msg string) {
	s.warnings = append(s.warnings, msg)
	logger.Warnf("%s", msg)
}
