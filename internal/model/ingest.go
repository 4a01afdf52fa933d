package model

import (
	"fmt"
	"runtime"
	"time"

	"github.com/strata-bim/strata/internal/ifc"
	"github.com/strata-bim/strata/internal/logger"
	"github.com/strata-bim/strata/internal/step"
)

// Progress is one advisory sample of ingestion progress, delivered on the
// ingesting goroutine.
type Progress struct {
	Phase   string `json:"phase"`
	Percent int    `json:"percent"`
}

// ProgressFunc receives progress samples.
type ProgressFunc func(Progress)

// Ingestion phase labels in the order they run.
const (
	PhaseScan          = "scanning records"
	PhaseIdentity      = "decoding identity"
	PhaseRelationships = "linking relationships"
	PhaseValueSets     = "decoding value sets"
	PhaseFilter        = "building entity table"
	PhaseHierarchy     = "building spatial tree"
)

const defaultYieldEvery = 10000

// Option configures one ingestion run.
type Option func(*session)

// WithProgress installs an advisory progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(s *session) { s.progress = fn }
}

// WithYieldEvery overrides how many records pass between yield points.
// Zero or negative disables yielding.
func WithYieldEvery(n int) Option {
	return func(s *session) { s.yieldEvery = n }
}

// WithYield replaces the yield action. The default lets the runtime
// reschedule so goroutines sharing the thread keep getting slices of a
// long ingestion.
func WithYield(fn func()) Option {
	return func(s *session) { s.yieldFn = fn }
}

// WithEagerTables decodes every property and quantity set up front into
// tables keyed by set id instead of registering per-object lookasides.
// Extraction then resolves set membership through the graph's definition
// edges. Costs decode time and memory at ingest, saves it on every query.
func WithEagerTables() Option {
	return func(s *session) { s.eager = true }
}

// Ingest scans buf and builds the store in one pass over the records plus a
// filtered second pass that lays out the entity table. Malformed records
// are skipped where they stand; a failed spatial tree build downgrades to a
// store warning. Ingest never fails outright: an empty or foreign buffer
// yields an empty store.
func Ingest(buf []byte, opts ...Option) *Store {
	start := time.Now()
	st := &Store{
		buf:       buf,
		schema:    ifc.DetectSchemaVersion(buf),
		scale:     1.0,
		graph:     NewGraph(),
		classRefs: make(map[uint32][]uint32),
		docRefs:   make(map[uint32][]uint32),
		material:  make(map[uint32]uint32),
	}
	s := &session{
		store:      st,
		yieldEvery: defaultYieldEvery,
		yieldFn:    runtime.Gosched,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.eager {
		st.propSets = make(map[uint32][]uint32)
		st.quantSets = make(map[uint32][]uint32)
	}

	s.refs = step.Scan(buf)

	s.beginPhase(PhaseScan, len(s.refs), 0, 30)
	s.scanPass()
	st.dec = step.NewDecoder(buf, st.index.byID)
	s.dec = st.dec

	s.beginPhase(PhaseIdentity, len(s.spatialRefs)+len(s.geomRefs)+len(s.typeRefs), 30, 45)
	s.decodeIdentities()

	s.beginPhase(PhaseRelationships, len(s.rels), 45, 60)
	s.decodeRelationships()

	if s.eager {
		s.beginPhase(PhaseValueSets, len(s.valueSets), 60, 70)
		s.decodeValueSets()
	}

	s.beginPhase(PhaseFilter, len(s.refs), 70, 95)
	s.filterPass()

	s.beginPhase(PhaseHierarchy, 0, 95, 100)
	s.buildTree()

	if projects := st.index.IDsOfType("IFCPROJECT"); len(projects) > 0 {
		st.scale = ifc.LengthUnitScale(st.dec, projects[0])
	}

	st.elapsed = time.Since(start)
	s.finish()
	logger.Debugf("ingested %d records: kept %d, %d edges, schema %s in %s",
		len(s.refs), st.table.Len(), st.graph.Len(), st.schema, st.elapsed)
	return st
}

// relRef pairs a scanned relationship record with its parsed kind.
type relRef struct {
	ref  step.EntityRef
	kind ifc.RelKind
}

// identity carries the eagerly decoded display fields of one record.
type identity struct {
	globalID    string
	name        string
	description string
	objectType  string
}

// session holds the working state of one ingestion run. All counters live
// here, never in package state, so concurrent ingestions stay independent.
type session struct {
	store *Store
	dec   *step.Decoder
	refs  []step.EntityRef

	progress   ProgressFunc
	yieldEvery int
	yieldFn    func()
	eager      bool

	spatialRefs []step.EntityRef
	geomRefs    []step.EntityRef
	typeRefs    []step.EntityRef
	valueSets   []step.EntityRef
	rels        []relRef

	identities map[uint32]identity

	counter    int
	phase      string
	phaseLo    int
	phaseHi    int
	phaseDone  int
	phaseTotal int
	lastPct    int
}

func (s *session) beginPhase(label string, total, lo, hi int) {
	s.phase, s.phaseTotal, s.phaseLo, s.phaseHi, s.phaseDone = label, total, lo, hi, 0
	s.emit()
}

// advance counts one processed record, sampling progress and yielding the
// processor at the configured cadence.
func (s *session) advance() {
	s.phaseDone++
	s.counter++
	if s.yieldEvery > 0 && s.counter%s.yieldEvery == 0 {
		s.emit()
		if s.yieldFn != nil {
			s.yieldFn()
		}
	}
}

// emit reports the current percent, clamped so callers always observe a
// nondecreasing sequence ending at 100.
func (s *session) emit() {
	if s.progress == nil {
		return
	}
	pct := s.phaseLo
	if s.phaseTotal > 0 {
		pct += (s.phaseHi - s.phaseLo) * s.phaseDone / s.phaseTotal
	}
	if pct < s.lastPct {
		pct = s.lastPct
	}
	if pct > 100 {
		pct = 100
	}
	s.lastPct = pct
	s.progress(Progress{Phase: s.phase, Percent: pct})
}

func (s *session) finish() {
	s.phaseLo, s.phaseHi, s.phaseTotal, s.phaseDone = 100, 100, 1, 1
	s.emit()
}

// scanPass indexes every record and buckets it into exactly one category.
// The categories are disjoint: relationship kinds win over everything,
// spatial wins over geometry, and unknown types stay uncategorized.
func (s *session) scanPass() {
	ix := newEntityIndex(len(s.refs))
	for _, ref := range s.refs {
		s.advance()
		if !ix.add(ref) {
			continue
		}
		if kind, ok := ifc.ParseRelKind(ref.Type); ok {
			ix.rels.Add(ref.ID)
			s.rels = append(s.rels, relRef{ref: ref, kind: kind})
			continue
		}
		switch {
		case ifc.IsSpatial(ref.Type):
			ix.spatial.Add(ref.ID)
			s.spatialRefs = append(s.spatialRefs, ref)
			if ifc.HasGeometry(ref.Type) {
				ix.geometry.Add(ref.ID)
			}
		case ifc.IsTypeDefinition(ref.Type):
			ix.typeDefs.Add(ref.ID)
			s.typeRefs = append(s.typeRefs, ref)
		case ifc.HasGeometry(ref.Type):
			ix.geometry.Add(ref.ID)
			s.geomRefs = append(s.geomRefs, ref)
		case ifc.IsValueSet(ref.Type):
			ix.valueSets.Add(ref.ID)
			s.valueSets = append(s.valueSets, ref)
		}
	}
	s.store.index = ix
}

// decodeIdentities decodes display fields for the buckets whose identity is
// wanted up front: spatial nodes, geometry carriers and type objects.
// Everything else stays undecoded until something asks.
func (s *session) decodeIdentities() {
	s.identities = make(map[uint32]identity,
		len(s.spatialRefs)+len(s.geomRefs)+len(s.typeRefs))
	for _, bucket := range [][]step.EntityRef{s.spatialRefs, s.geomRefs, s.typeRefs} {
		for _, ref := range bucket {
			s.advance()
			ent, ok := s.dec.Decode(ref)
			if !ok {
				continue
			}
			var ident identity
			ident.globalID, _ = ent.Str(ifc.AttrGlobalID)
			ident.name, _ = ent.Str(ifc.AttrName)
			ident.description, _ = ent.Str(ifc.AttrDescription)
			ident.objectType, _ = ent.Str(ifc.AttrObjectType)
			s.identities[ref.ID] = ident
		}
	}
}

// decodeRelationships turns every captured relationship record into edges,
// reading the relating and related sides from the kind's layout so the
// attribute-order quirks live in one table. Definition and association
// kinds additionally route into the lookaside maps.
func (s *session) decodeRelationships() {
	st := s.store
	for _, rr := range s.rels {
		s.advance()
		ent, ok := s.dec.Decode(rr.ref)
		if !ok {
			continue
		}
		layout := rr.kind.Layout()
		relating, ok := ent.Ref(layout.Relating)
		if !ok {
			continue
		}
		related := refList(ent, layout.Related)
		if len(related) == 0 {
			continue
		}
		for _, obj := range related {
			st.graph.AddEdge(relating, obj, rr.kind, ent.ID)
		}

		switch {
		case rr.kind == ifc.RelDefinesByProperties && !s.eager:
			defType, ok := st.index.TypeOf(relating)
			if !ok {
				break
			}
			switch {
			case ifc.IsPropertySet(defType):
				for _, obj := range related {
					st.propSets[obj] = append(st.propSets[obj], relating)
				}
			case ifc.IsQuantitySet(defType):
				for _, obj := range related {
					st.quantSets[obj] = append(st.quantSets[obj], relating)
				}
			}
		case rr.kind == ifc.RelAssociatesMaterial:
			// Last association in file order wins.
			for _, obj := range related {
				st.material[obj] = relating
			}
		case rr.kind == ifc.RelAssociatesClassification:
			for _, obj := range related {
				st.classRefs[obj] = append(st.classRefs[obj], relating)
			}
		case rr.kind == ifc.RelAssociatesDocument:
			for _, obj := range related {
				st.docRefs[obj] = append(st.docRefs[obj], relating)
			}
		}
	}
}

// decodeValueSets builds the eager property and quantity tables, keyed by
// set id. Only runs in eager-table mode.
func (s *session) decodeValueSets() {
	st := s.store
	st.eagerProps = make(map[uint32]PropertySet, len(s.valueSets))
	st.eagerQuants = make(map[uint32]QuantitySet)
	for _, ref := range s.valueSets {
		s.advance()
		ent, ok := s.dec.Decode(ref)
		if !ok {
			continue
		}
		switch {
		case ifc.IsPropertySet(ent.Type):
			if ps, ok := st.propertySetFrom(ent); ok {
				st.eagerProps[ent.ID] = ps
			}
		case ifc.IsQuantitySet(ent.Type):
			if qs, ok := st.quantitySetFrom(ent); ok {
				st.eagerQuants[ent.ID] = qs
			}
		}
	}
}

// filterPass lays out the entity table: a second walk over the scan order,
// keeping only the rows worth a table entry.
func (s *session) filterPass() {
	st := s.store
	st.table = newEntityTable(len(s.identities))
	for _, ref := range s.refs {
		s.advance()
		if indexed, ok := st.index.Ref(ref.ID); !ok || indexed != ref {
			continue
		}
		if !s.keep(ref.ID) {
			continue
		}
		info := Info{
			ID:          ref.ID,
			Type:        ref.Type,
			HasGeometry: st.index.HasGeometry(ref.ID),
			IsType:      st.index.IsTypeDefinition(ref.ID),
		}
		if ident, ok := s.identities[ref.ID]; ok {
			info.GlobalID = ident.globalID
			info.Name = ident.name
			info.Description = ident.description
			info.ObjectType = ident.objectType
		}
		st.table.append(info)
	}
}

// keep decides whether an entity earns a table row: geometry carriers,
// spatial nodes, type objects, relationship records, and any object that
// has property or quantity sets attached.
func (s *session) keep(id uint32) bool {
	ix := s.store.index
	if ix.HasGeometry(id) || ix.IsSpatial(id) || ix.IsTypeDefinition(id) || ix.IsRelationship(id) {
		return true
	}
	if s.eager {
		for _, defID := range s.store.graph.Related(id, ifc.RelDefinesByProperties, Inverse) {
			if _, ok := s.store.eagerProps[defID]; ok {
				return true
			}
			if _, ok := s.store.eagerQuants[defID]; ok {
				return true
			}
		}
		return false
	}
	if _, ok := s.store.propSets[id]; ok {
		return true
	}
	_, ok := s.store.quantSets[id]
	return ok
}

// buildTree assembles the spatial hierarchy, downgrading any failure to a
// warning so a corrupt containment structure never loses the rest of the
// ingestion.
func (s *session) buildTree() {
	st := s.store
	defer func() {
		if r := recover(); r != nil {
			st.hier = nil
			st.warn(fmt.Sprintf("spatial tree build failed: %v", r))
		}
	}()
	h, err := buildHierarchy(st)
	if err != nil {
		st.warn("spatial tree build failed: " + err.Error())
		return
	}
	st.hier = h
}
