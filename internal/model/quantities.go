package model

import (
	"github.com/strata-bim/strata/internal/ifc"
	"github.com/strata-bim/strata/internal/step"
)

// Quantity is one scalar physical quantity. Kind labels the dimension
// (length, area, volume, count, weight, time); Value is in the file's own
// units.
type Quantity struct {
	Name  string  `json:"name"`
	Kind  string  `json:"kind"`
	Value float64 `json:"value"`
}

// QuantitySet is one resolved quantity container.
type QuantitySet struct {
	ID         uint32     `json:"id"`
	Name       string     `json:"name"`
	Method     string     `json:"method,omitempty"`
	Quantities []Quantity `json:"quantities"`
}

// Quantities resolves every quantity set attached to id under the same
// contract as Properties: own sets before type-level sets, name shadowing,
// no caching between calls.
func (s *Store) Quantities(id uint32) []QuantitySet {
	var out []QuantitySet
	byName := make(map[string]bool)
	for _, setID := range s.candidateIDs(id, s.directQuantitySets) {
		qs, ok := s.quantitySet(setID)
		if !ok || byName[qs.Name] {
			continue
		}
		byName[qs.Name] = true
		out = append(out, qs)
	}
	return out
}

func (s *Store) directQuantitySets(id uint32) []uint32 {
	var ids []uint32
	if s.quantSets != nil {
		ids = cloneIDs(s.quantSets[id])
	} else {
		for _, defID := range s.graph.Related(id, ifc.RelDefinesByProperties, Inverse) {
			if _, ok := s.eagerQuants[defID]; ok {
				ids = append(ids, defID)
			}
		}
	}
	if s.index.IsTypeDefinition(id) {
		ids = append(ids, s.typeSharedSets(id, ifc.IsQuantitySet)...)
	}
	return ids
}

func (s *Store) quantitySet(setID uint32) (QuantitySet, bool) {
	if s.eagerQuants != nil {
		qs, ok := s.eagerQuants[setID]
		return qs, ok
	}
	ent, ok := s.dec.DecodeID(setID)
	if !ok || !ifc.IsQuantitySet(ent.Type) {
		return QuantitySet{}, false
	}
	return s.quantitySetFrom(ent)
}

// quantitySetFrom decodes the members of one quantity container. Member
// records outside the closed quantity-kind set are skipped, as is any
// member without a readable numeric value.
func (s *Store) quantitySetFrom(ent step.Entity) (QuantitySet, bool) {
	name, ok := ent.Str(ifc.AttrQsetName)
	if !ok {
		return QuantitySet{}, false
	}
	qs := QuantitySet{ID: ent.ID, Name: name}
	qs.Method, _ = ent.Str(ifc.AttrQsetMethod)
	members, _ := ent.List(ifc.AttrQsetQuantities)
	for _, m := range members {
		memberID, ok := m.Ref()
		if !ok {
			continue
		}
		rec, ok := s.dec.DecodeID(memberID)
		if !ok {
			continue
		}
		kind, ok := ifc.QuantityKind(rec.Type)
		if !ok {
			continue
		}
		qname, ok := rec.Str(ifc.AttrQuantityName)
		if !ok {
			continue
		}
		v, ok := rec.Attr(ifc.AttrQuantityValue)
		if !ok {
			continue
		}
		f, ok := scalarFloat(v)
		if !ok {
			continue
		}
		qs.Quantities = append(qs.Quantities, Quantity{Name: qname, Kind: kind, Value: f})
	}
	return qs, true
}
