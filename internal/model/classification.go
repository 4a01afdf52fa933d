package model

import "github.com/strata-bim/strata/internal/ifc"

// Classification is one resolved classification of an entity: the code path
// from the associated reference up through its parents, and the system it
// roots in when the chain reaches one.
type Classification struct {
	System  string   `json:"system,omitempty"`
	Edition string   `json:"edition,omitempty"`
	Path    []string `json:"path,omitempty"`
}

// Classifications resolves every classification associated with id, its own
// and those of its defining types. Each association walks its parent chain
// independently; a malformed loop truncates that one path.
func (s *Store) Classifications(id uint32) []Classification {
	ids := s.candidateIDs(id, func(x uint32) []uint32 {
		return cloneIDs(s.classRefs[x])
	})
	var out []Classification
	for _, refID := range ids {
		if c, ok := s.resolveClassification(refID); ok {
			out = append(out, c)
		}
	}
	return out
}

// resolveClassification walks one reference's parent chain. Codes append
// leaf-first; each reference prefers its identification code and falls back
// to its display name.
func (s *Store) resolveClassification(refID uint32) (Classification, bool) {
	var c Classification
	found := false
	visited := make(map[uint32]bool)
	walkChain(refID, visited, func(id uint32) (uint32, bool) {
		rec, ok := s.dec.DecodeID(id)
		if !ok {
			return 0, false
		}
		switch rec.Type {
		case "IFCCLASSIFICATIONREFERENCE":
			found = true
			code, ok := rec.Str(ifc.AttrClassRefIdentification)
			if !ok || code == "" {
				code, _ = rec.Str(ifc.AttrClassRefName)
			}
			if code != "" {
				c.Path = append(c.Path, code)
			}
			return rec.Ref(ifc.AttrClassRefSource)
		case "IFCCLASSIFICATION":
			found = true
			c.System, _ = rec.Str(ifc.AttrClassName)
			c.Edition, _ = rec.Str(ifc.AttrClassEdition)
		}
		return 0, false
	})
	return c, found
}
