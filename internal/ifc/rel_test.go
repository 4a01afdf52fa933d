package ifc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for relationship kinds:
// - Every kind in the closed enum has a non-zero attribute layout
// - Exactly three kinds are marked inverted, and they are the right three
// - Exactly the three Associates kinds route through the association path
// - ParseRelKind covers every record type in the table and rejects others
// - String names round-trip for all kinds

func TestRelLayouts_Exhaustive(t *testing.T) {
	t.Parallel()

	// A kind whose layout was never filled in would read relating and
	// related both from attribute 0. Guarding this here keeps a new kind
	// from shipping without its layout.
	for k := RelKind(0); int(k) < NumRelKinds; k++ {
		layout := k.Layout()
		assert.NotEqual(t, layout.Relating, layout.Related, "kind %s has a degenerate layout", k)
		assert.Greater(t, layout.Relating, 0, "kind %s relating index unset", k)
		assert.Greater(t, layout.Related, 0, "kind %s related index unset", k)
	}
}

func TestRelLayouts_InvertedKinds(t *testing.T) {
	t.Parallel()

	inverted := map[RelKind]bool{}
	for k := RelKind(0); int(k) < NumRelKinds; k++ {
		if k.Layout().Inverted {
			inverted[k] = true
		}
	}

	require.Len(t, inverted, 3)
	assert.True(t, inverted[RelContainedInSpatialStructure])
	assert.True(t, inverted[RelDefinesByProperties])
	assert.True(t, inverted[RelDefinesByType])
}

func TestRelLayouts_AssociationKinds(t *testing.T) {
	t.Parallel()

	assocs := map[RelKind]bool{}
	for k := RelKind(0); int(k) < NumRelKinds; k++ {
		if k.IsAssociation() {
			assocs[k] = true
		}
	}

	require.Len(t, assocs, 3)
	assert.True(t, assocs[RelAssociatesMaterial])
	assert.True(t, assocs[RelAssociatesClassification])
	assert.True(t, assocs[RelAssociatesDocument])

	// Association kinds read the related list before the relating
	// definition in the record text.
	for k := range assocs {
		assert.Equal(t, 5, k.Layout().Relating)
		assert.Equal(t, 4, k.Layout().Related)
	}
}

func TestParseRelKind(t *testing.T) {
	t.Parallel()

	k, ok := ParseRelKind("IFCRELAGGREGATES")
	require.True(t, ok)
	assert.Equal(t, RelAggregates, k)

	k, ok = ParseRelKind("IFCRELSPACEBOUNDARY2NDLEVEL")
	require.True(t, ok)
	assert.Equal(t, RelSpaceBoundary, k)

	k, ok = ParseRelKind("IFCRELCONNECTSPATHELEMENTS")
	require.True(t, ok)
	assert.Equal(t, RelConnectsElements, k)

	_, ok = ParseRelKind("IFCRELDECLARES")
	assert.False(t, ok)
	_, ok = ParseRelKind("IFCWALL")
	assert.False(t, ok)
}

func TestRelKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Aggregates", RelAggregates.String())
	assert.Equal(t, "DefinesByType", RelDefinesByType.String())
	assert.Equal(t, "CoversElements", RelCoversElements.String())
	assert.Equal(t, "Unknown", RelKind(200).String())
}

func TestIsDefinition(t *testing.T) {
	t.Parallel()

	assert.True(t, RelDefinesByProperties.IsDefinition())
	assert.True(t, RelDefinesByType.IsDefinition())
	assert.False(t, RelAggregates.IsDefinition())
	assert.False(t, RelAssociatesMaterial.IsDefinition())
}
