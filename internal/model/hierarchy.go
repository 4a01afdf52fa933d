package model

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dominikbraun/graph"

	"github.com/strata-bim/strata/internal/ifc"
	"github.com/strata-bim/strata/internal/step"
)

// SpatialNode is one node of the containment tree.
type SpatialNode struct {
	ID        uint32         `json:"id"`
	Type      string         `json:"type"`
	Name      string         `json:"name,omitempty"`
	Path      string         `json:"path"`
	Level     int            `json:"level"`
	Elevation *float64       `json:"elevation,omitempty"`
	Children  []*SpatialNode `json:"children,omitempty"`
	Elements  []uint32       `json:"elements,omitempty"`
}

// Label is the display name used in paths: the entity name when present,
// otherwise the record type and id.
func (n *SpatialNode) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.Type + "#" + strconv.FormatUint(uint64(n.ID), 10)
}

// Hierarchy is the project-rooted containment tree plus reverse lookups
// from any contained element to its enclosing spatial nodes. Orphaned
// spatial records, ones not reachable from the project through aggregation,
// are omitted along with anything contained in them.
type Hierarchy struct {
	Root *SpatialNode

	nodes     map[uint32]*SpatialNode
	parent    map[uint32]uint32
	container map[uint32]uint32
}

// Node returns the tree node for a spatial entity id.
func (h *Hierarchy) Node(id uint32) (*SpatialNode, bool) {
	n, ok := h.nodes[id]
	return n, ok
}

// Len returns the number of nodes in the tree.
func (h *Hierarchy) Len() int {
	return len(h.nodes)
}

// ContainerOf returns the spatial node directly containing an element.
func (h *Hierarchy) ContainerOf(id uint32) (uint32, bool) {
	c, ok := h.container[id]
	return c, ok
}

// StoreyOf returns the storey enclosing an element, walking up from its
// container when the element sits in a space.
func (h *Hierarchy) StoreyOf(id uint32) (uint32, bool) {
	return h.ancestor(id, "IFCBUILDINGSTOREY")
}

// BuildingOf returns the building enclosing an element.
func (h *Hierarchy) BuildingOf(id uint32) (uint32, bool) {
	return h.ancestor(id, "IFCBUILDING")
}

// SiteOf returns the site enclosing an element.
func (h *Hierarchy) SiteOf(id uint32) (uint32, bool) {
	return h.ancestor(id, "IFCSITE")
}

// SpaceOf returns the space directly containing an element, if its
// container is one.
func (h *Hierarchy) SpaceOf(id uint32) (uint32, bool) {
	return h.ancestor(id, "IFCSPACE")
}

// ancestor walks from id's container toward the root until a node of the
// wanted type appears. Spatial ids resolve against their own ancestry.
func (h *Hierarchy) ancestor(id uint32, typeName string) (uint32, bool) {
	at, ok := h.container[id]
	if !ok {
		if _, spatial := h.nodes[id]; !spatial {
			return 0, false
		}
		at = id
	}
	for {
		n, ok := h.nodes[at]
		if !ok {
			return 0, false
		}
		if n.Type == typeName {
			return at, true
		}
		p, ok := h.parent[at]
		if !ok {
			return 0, false
		}
		at = p
	}
}

// Walk visits every node preorder, parents before children.
func (h *Hierarchy) Walk(fn func(*SpatialNode)) {
	if h == nil || h.Root == nil {
		return
	}
	walkNode(h.Root, fn)
}

func walkNode(n *SpatialNode, fn func(*SpatialNode)) {
	fn(n)
	for _, c := range n.Children {
		walkNode(c, fn)
	}
}

// buildHierarchy assembles the containment tree from aggregation edges
// between spatial records. When two aggregations claim one child, the last
// in file order wins. A cycle-preventing DAG guards the chosen links so one
// malformed loop drops the offending link instead of hanging the tree walk.
// Files without a project record have no tree and return nil.
func buildHierarchy(st *Store) (*Hierarchy, error) {
	ix := st.index
	projects := ix.IDsOfType("IFCPROJECT")
	if len(projects) == 0 {
		return nil, nil
	}
	root := projects[0]

	parentOf := make(map[uint32]uint32)
	var childOrder []uint32
	for _, e := range st.graph.KindEdges(ifc.RelAggregates) {
		if !ix.IsSpatial(e.Source) || !ix.IsSpatial(e.Target) {
			continue
		}
		if _, seen := parentOf[e.Target]; !seen {
			childOrder = append(childOrder, e.Target)
		}
		parentOf[e.Target] = e.Source
	}

	dag := graph.New(func(id uint32) uint32 { return id },
		graph.Directed(), graph.PreventCycles())
	_ = dag.AddVertex(root)
	for _, child := range childOrder {
		_ = dag.AddVertex(child)
		_ = dag.AddVertex(parentOf[child])
	}
	for _, child := range childOrder {
		err := dag.AddEdge(parentOf[child], child)
		switch {
		case err == nil || errors.Is(err, graph.ErrEdgeAlreadyExists):
		case errors.Is(err, graph.ErrEdgeCreatesCycle):
			st.warn(fmt.Sprintf("dropping containment of #%d under #%d: closes a cycle", child, parentOf[child]))
			delete(parentOf, child)
		default:
			return nil, fmt.Errorf("containment guard: %w", err)
		}
	}

	children := make(map[uint32][]uint32)
	for _, child := range childOrder {
		p, ok := parentOf[child]
		if !ok {
			continue
		}
		children[p] = append(children[p], child)
	}

	h := &Hierarchy{
		nodes:     make(map[uint32]*SpatialNode),
		parent:    make(map[uint32]uint32),
		container: make(map[uint32]uint32),
	}

	var grow func(id uint32, parentPath string, level int) *SpatialNode
	grow = func(id uint32, parentPath string, level int) *SpatialNode {
		n := &SpatialNode{ID: id, Level: level}
		n.Type, _ = ix.TypeOf(id)
		n.Name = st.table.Name(id)
		if n.Type == "IFCBUILDINGSTOREY" {
			n.Elevation = storeyElevation(st.dec, id)
		}
		if parentPath == "" {
			n.Path = n.Label()
		} else {
			n.Path = parentPath + "/" + n.Label()
		}
		h.nodes[id] = n
		for _, c := range children[id] {
			n.Children = append(n.Children, grow(c, n.Path, level+1))
			h.parent[c] = id
		}
		return n
	}
	h.Root = grow(root, "", 0)

	// Elements attach to reachable nodes only; containment into an orphaned
	// subtree drops with it. Last containment in file order wins.
	containerOf := make(map[uint32]uint32)
	var elemOrder []uint32
	for _, e := range st.graph.KindEdges(ifc.RelContainedInSpatialStructure) {
		if _, reachable := h.nodes[e.Source]; !reachable {
			continue
		}
		if _, seen := containerOf[e.Target]; !seen {
			elemOrder = append(elemOrder, e.Target)
		}
		containerOf[e.Target] = e.Source
	}

	// Containment declared on a type object spreads to occurrences that
	// have none of their own.
	for _, e := range st.graph.KindEdges(ifc.RelDefinesByType) {
		c, ok := containerOf[e.Source]
		if !ok {
			continue
		}
		if _, seen := containerOf[e.Target]; seen {
			continue
		}
		containerOf[e.Target] = c
		elemOrder = append(elemOrder, e.Target)
	}

	for _, el := range elemOrder {
		n, ok := h.nodes[containerOf[el]]
		if !ok {
			continue
		}
		n.Elements = append(n.Elements, el)
		h.container[el] = n.ID
	}
	return h, nil
}

// storeyElevation reads the elevation attribute of a storey record. It sits
// at index 8 in the common serialization; some exporters drop an attribute
// and shift it to 7, so both are tried.
func storeyElevation(dec *step.Decoder, id uint32) *float64 {
	ent, ok := dec.DecodeID(id)
	if !ok {
		return nil
	}
	v, ok := ent.Attr(ifc.AttrStoreyElevation)
	if ok {
		if f, ok := scalarFloat(v); ok {
			return &f
		}
	}
	v, ok = ent.Attr(ifc.AttrStoreyElevationFallback)
	if ok {
		if f, ok := scalarFloat(v); ok {
			return &f
		}
	}
	return nil
}
