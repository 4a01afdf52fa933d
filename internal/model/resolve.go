package model

import (
	"github.com/strata-bim/strata/internal/ifc"
	"github.com/strata-bim/strata/internal/step"
)

// candidateIDs collects the definition ids bound to an entity: its own
// first, then those inherited through the type objects that define it.
// Order is preserved and duplicates drop on first sight, so a type-level
// definition never displaces one bound locally. direct must return a slice
// the caller may append to.
func (s *Store) candidateIDs(id uint32, direct func(uint32) []uint32) []uint32 {
	out := direct(id)
	seen := make(map[uint32]bool, len(out))
	for _, d := range out {
		seen[d] = true
	}
	for _, typeID := range s.graph.Related(id, ifc.RelDefinesByType, Inverse) {
		for _, d := range direct(typeID) {
			if seen[d] {
				continue
			}
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

// walkChain follows one reference chain, calling next for each record id
// until it reports no onward link or an id repeats. The visited set belongs
// to the caller, so sibling walks from one extraction stay independent and
// a shared set spans a multi-stage walk.
func walkChain(start uint32, visited map[uint32]bool, next func(id uint32) (uint32, bool)) {
	id := start
	for !visited[id] {
		visited[id] = true
		n, ok := next(id)
		if !ok {
			return
		}
		id = n
	}
}

// refList reads attribute i as a reference list. A single reference counts
// as a one-element list; anything in the list that is not a reference is
// skipped.
func refList(ent step.Entity, i int) []uint32 {
	v, ok := ent.Attr(i)
	if !ok {
		return nil
	}
	if id, ok := v.Ref(); ok {
		return []uint32{id}
	}
	items, ok := v.List()
	if !ok {
		return nil
	}
	ids := make([]uint32, 0, len(items))
	for _, it := range items {
		if id, ok := it.Ref(); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func cloneIDs(ids []uint32) []uint32 {
	if len(ids) == 0 {
		return nil
	}
	return append([]uint32(nil), ids...)
}
