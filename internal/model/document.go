package model

import "github.com/strata-bim/strata/internal/ifc"

// Document is one resolved document association.
type Document struct {
	Identification string `json:"identification,omitempty"`
	Name           string `json:"name,omitempty"`
	Description    string `json:"description,omitempty"`
	Location       string `json:"location,omitempty"`
}

// Documents resolves every document associated with id, its own and those
// of its defining types. A reference chaining to an information record
// merges the two first-set-wins, so the reference's own fields take
// precedence over the document they point at.
func (s *Store) Documents(id uint32) []Document {
	ids := s.candidateIDs(id, func(x uint32) []uint32 {
		return cloneIDs(s.docRefs[x])
	})
	var out []Document
	for _, docID := range ids {
		if d, ok := s.resolveDocument(docID); ok {
			out = append(out, d)
		}
	}
	return out
}

func (s *Store) resolveDocument(docID uint32) (Document, bool) {
	var d Document
	found := false
	visited := make(map[uint32]bool)
	walkChain(docID, visited, func(id uint32) (uint32, bool) {
		rec, ok := s.dec.DecodeID(id)
		if !ok {
			return 0, false
		}
		switch rec.Type {
		case "IFCDOCUMENTREFERENCE":
			found = true
			v, ok := rec.Str(ifc.AttrDocRefLocation)
			mergeField(&d.Location, v, ok)
			v, ok = rec.Str(ifc.AttrDocRefIdentification)
			mergeField(&d.Identification, v, ok)
			v, ok = rec.Str(ifc.AttrDocRefName)
			mergeField(&d.Name, v, ok)
			v, ok = rec.Str(ifc.AttrDocRefDescription)
			mergeField(&d.Description, v, ok)
			return rec.Ref(ifc.AttrDocRefDocument)
		case "IFCDOCUMENTINFORMATION":
			found = true
			v, ok := rec.Str(ifc.AttrDocInfoIdentification)
			mergeField(&d.Identification, v, ok)
			v, ok = rec.Str(ifc.AttrDocInfoName)
			mergeField(&d.Name, v, ok)
			v, ok = rec.Str(ifc.AttrDocInfoDescription)
			mergeField(&d.Description, v, ok)
			v, ok = rec.Str(ifc.AttrDocInfoLocation)
			mergeField(&d.Location, v, ok)
		}
		return 0, false
	})
	return d, found
}

// mergeField fills dst only when it is still empty and the decoded value is
// present and nonempty.
func mergeField(dst *string, v string, ok bool) {
	if *dst == "" && ok && v != "" {
		*dst = v
	}
}
