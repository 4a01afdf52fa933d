package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-bim/strata/internal/ifc"
)

// Test Plan for the relationship graph:
// - Every captured kind produces an edge with source on the relating side,
//   including the kinds whose file layout inverts the attribute order
// - A single related reference behaves like a one-element list
// - Adjacency preserves file order
// - Relationships lists both directions with owner and far-side identity

func TestGraph_DirectionPerKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record string
		kind   ifc.RelKind
	}{
		{"aggregates", "#8=IFCRELAGGREGATES('g01',$,$,$,#1,(#2));", ifc.RelAggregates},
		{"nests", "#8=IFCRELNESTS('g02',$,$,$,#1,(#2));", ifc.RelNests},
		{"contained inverted", "#8=IFCRELCONTAINEDINSPATIALSTRUCTURE('g03',$,$,$,(#2),#1);", ifc.RelContainedInSpatialStructure},
		{"defines by properties inverted", "#8=IFCRELDEFINESBYPROPERTIES('g04',$,$,$,(#2),#1);", ifc.RelDefinesByProperties},
		{"defines by type inverted", "#8=IFCRELDEFINESBYTYPE('g05',$,$,$,(#2),#1);", ifc.RelDefinesByType},
		{"associates material", "#8=IFCRELASSOCIATESMATERIAL('g06',$,$,$,(#2),#1);", ifc.RelAssociatesMaterial},
		{"associates classification", "#8=IFCRELASSOCIATESCLASSIFICATION('g07',$,$,$,(#2),#1);", ifc.RelAssociatesClassification},
		{"associates document", "#8=IFCRELASSOCIATESDOCUMENT('g08',$,$,$,(#2),#1);", ifc.RelAssociatesDocument},
		{"voids single ref", "#8=IFCRELVOIDSELEMENT('g09',$,$,$,#1,#2);", ifc.RelVoidsElement},
		{"fills single ref", "#8=IFCRELFILLSELEMENT('g10',$,$,$,#1,#2);", ifc.RelFillsElement},
		{"space boundary", "#8=IFCRELSPACEBOUNDARY('g11',$,$,$,#1,#2,$,.PHYSICAL.);", ifc.RelSpaceBoundary},
		{"connects with geometry slot", "#8=IFCRELCONNECTSPATHELEMENTS('g12',$,$,$,$,#1,#2,(),(),.ATPATH.,.ATSTART.);", ifc.RelConnectsElements},
		{"services buildings", "#8=IFCRELSERVICESBUILDINGS('g13',$,$,$,#1,(#2));", ifc.RelServicesBuildings},
		{"covers elements", "#8=IFCRELCOVERSBLDGELEMENTS('g14',$,$,$,#1,(#2));", ifc.RelCoversElements},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			st := ingestRecords(tt.record)
			require.Equal(t, 1, st.Graph().Len())

			assert.Equal(t, []uint32{2}, st.Graph().Related(1, tt.kind, Forward))
			assert.Equal(t, []uint32{1}, st.Graph().Related(2, tt.kind, Inverse))
			assert.Empty(t, st.Graph().Related(1, tt.kind, Inverse))

			edges := st.Graph().EdgesOf(1, tt.kind, Forward)
			require.Len(t, edges, 1)
			assert.Equal(t, uint32(8), edges[0].Owner)
		})
	}
}

func TestGraph_InsertionOrderPreserved(t *testing.T) {
	t.Parallel()

	st := ingestRecords(
		"#1=IFCWALL('w0000000001',$,'W',$,$,$,$,$);",
		"#2=IFCPROPERTYSET('p0000000001',$,'A',$,());",
		"#3=IFCPROPERTYSET('p0000000002',$,'B',$,());",
		"#4=IFCRELDEFINESBYPROPERTIES('r0000000001',$,$,$,(#1),#2);",
		"#5=IFCRELDEFINESBYPROPERTIES('r0000000002',$,$,$,(#1),#3);",
	)

	assert.Equal(t, []uint32{2, 3}, st.Graph().Related(1, ifc.RelDefinesByProperties, Inverse))
}

func TestGraph_FanOut(t *testing.T) {
	t.Parallel()

	st := ingestRecords(
		"#9=IFCRELCONTAINEDINSPATIALSTRUCTURE('f01',$,$,$,(#2,#3,#4),#1);",
	)

	assert.Equal(t, []uint32{2, 3, 4}, st.Graph().Related(1, ifc.RelContainedInSpatialStructure, Forward))
	assert.Equal(t, 3, st.Graph().Len())
	assert.Len(t, st.Graph().KindEdges(ifc.RelContainedInSpatialStructure), 3)
}

func TestRelationships_BothDirections(t *testing.T) {
	t.Parallel()

	st := ingestBuilding()

	rels := st.Relationships(10)
	require.NotEmpty(t, rels)

	byKind := make(map[string][]Relation)
	for _, r := range rels {
		byKind[r.Kind] = append(byKind[r.Kind], r)
	}

	contained := byKind["ContainedInSpatialStructure"]
	require.Len(t, contained, 1)
	assert.Equal(t, "inverse", contained[0].Direction)
	assert.Equal(t, uint32(4), contained[0].Other)
	assert.Equal(t, "Level 1", contained[0].OtherName)
	assert.Equal(t, uint32(24), contained[0].Owner)

	defines := byKind["DefinesByProperties"]
	require.Len(t, defines, 2)
	assert.Equal(t, uint32(30), defines[0].Other)
	assert.Equal(t, uint32(40), defines[1].Other)

	// The property set was not kept, so identity falls back to the record
	// type from the index.
	assert.Equal(t, "IFCPROPERTYSET", defines[0].OtherType)
	assert.Empty(t, defines[0].OtherName)

	material := byKind["AssociatesMaterial"]
	require.Len(t, material, 1)
	assert.Equal(t, uint32(65), material[0].Other)

	// The storey sees the same containment edge from the forward side.
	var fwd []Relation
	for _, r := range st.Relationships(4) {
		if r.Kind == "ContainedInSpatialStructure" && r.Direction == "forward" {
			fwd = append(fwd, r)
		}
	}
	require.Len(t, fwd, 1)
	assert.Equal(t, uint32(10), fwd[0].Other)
	assert.Equal(t, "Wall-Ext-001", fwd[0].OtherName)
}
