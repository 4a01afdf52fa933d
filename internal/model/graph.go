package model

import "github.com/strata-bim/strata/internal/ifc"

// Direction selects which end of an edge a graph query anchors on.
type Direction uint8

const (
	// Forward finds the targets of edges whose source is the queried id:
	// the objects it aggregates, contains or defines.
	Forward Direction = iota
	// Inverse finds the sources of edges whose target is the queried id:
	// the container it sits in, the sets that define it.
	Inverse
)

func (d Direction) String() string {
	if d == Inverse {
		return "inverse"
	}
	return "forward"
}

// Edge is one relating-to-related link. Source is always the relating side
// no matter how the file ordered the record's attributes; Owner is the
// relationship record that declared the link.
type Edge struct {
	Source uint32
	Target uint32
	Kind   ifc.RelKind
	Owner  uint32
}

// Graph is the typed adjacency over every captured relationship record.
// Edges append in file order and adjacency slices preserve that order, so
// first-wins and last-wins policies resolve identically on every run.
type Graph struct {
	edges  []Edge
	byKind [ifc.NumRelKinds][]int32
	fwd    [ifc.NumRelKinds]map[uint32][]int32
	inv    [ifc.NumRelKinds]map[uint32][]int32
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	g := &Graph{}
	for k := range g.fwd {
		g.fwd[k] = make(map[uint32][]int32)
		g.inv[k] = make(map[uint32][]int32)
	}
	return g
}

// AddEdge links relating source to related target.
func (g *Graph) AddEdge(source, target uint32, kind ifc.RelKind, owner uint32) {
	i := int32(len(g.edges))
	g.edges = append(g.edges, Edge{Source: source, Target: target, Kind: kind, Owner: owner})
	g.byKind[kind] = append(g.byKind[kind], i)
	g.fwd[kind][source] = append(g.fwd[kind][source], i)
	g.inv[kind][target] = append(g.inv[kind][target], i)
}

// Related returns the ids on the far end of id's edges of one kind, in
// insertion order. Forward walks source to target, Inverse target to source.
func (g *Graph) Related(id uint32, kind ifc.RelKind, dir Direction) []uint32 {
	idx := g.fwd[kind][id]
	if dir == Inverse {
		idx = g.inv[kind][id]
	}
	if len(idx) == 0 {
		return nil
	}
	out := make([]uint32, len(idx))
	for i, e := range idx {
		if dir == Inverse {
			out[i] = g.edges[e].Source
		} else {
			out[i] = g.edges[e].Target
		}
	}
	return out
}

// EdgesOf returns id's edges of one kind and direction in insertion order.
func (g *Graph) EdgesOf(id uint32, kind ifc.RelKind, dir Direction) []Edge {
	idx := g.fwd[kind][id]
	if dir == Inverse {
		idx = g.inv[kind][id]
	}
	if len(idx) == 0 {
		return nil
	}
	out := make([]Edge, len(idx))
	for i, e := range idx {
		out[i] = g.edges[e]
	}
	return out
}

// KindEdges returns every edge of one kind in insertion order.
func (g *Graph) KindEdges(kind ifc.RelKind) []Edge {
	idx := g.byKind[kind]
	if len(idx) == 0 {
		return nil
	}
	out := make([]Edge, len(idx))
	for i, e := range idx {
		out[i] = g.edges[e]
	}
	return out
}

// Edges returns all edges in insertion order. The slice is shared; callers
// must not mutate it.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Len returns the total edge count.
func (g *Graph) Len() int {
	return len(g.edges)
}
