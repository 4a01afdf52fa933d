package model

import "github.com/strata-bim/strata/internal/ifc"

// Relation is one edge touching an entity, annotated with what sits on the
// other end. Direction is forward when the entity is the relating side.
type Relation struct {
	Kind      string `json:"kind"`
	Direction string `json:"direction"`
	Other     uint32 `json:"other"`
	OtherType string `json:"other_type,omitempty"`
	OtherName string `json:"other_name,omitempty"`
	Owner     uint32 `json:"owner"`
}

// Relationships lists every captured edge touching id in both directions,
// grouped by kind in declaration order, file order within a kind. The far
// entity's identity comes from the table when it was kept and falls back to
// its record type alone.
func (s *Store) Relationships(id uint32) []Relation {
	var out []Relation
	for k := ifc.RelKind(0); int(k) < ifc.NumRelKinds; k++ {
		for _, e := range s.graph.EdgesOf(id, k, Forward) {
			out = append(out, s.relation(k, Forward, e.Target, e.Owner))
		}
		for _, e := range s.graph.EdgesOf(id, k, Inverse) {
			out = append(out, s.relation(k, Inverse, e.Source, e.Owner))
		}
	}
	return out
}

func (s *Store) relation(kind ifc.RelKind, dir Direction, other, owner uint32) Relation {
	r := Relation{Kind: kind.String(), Direction: dir.String(), Other: other, Owner: owner}
	if info, ok := s.table.Get(other); ok {
		r.OtherType, r.OtherName = info.Type, info.Name
	} else if t, ok := s.index.TypeOf(other); ok {
		r.OtherType = t
	}
	return r
}
