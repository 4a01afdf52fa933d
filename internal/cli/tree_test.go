package cli

// Test Plan for Tree Command:
// - writeTree renders every spatial level with connectors and elevations
// - container nodes show element counts; --elements lists them as leaves
// - a depth limit prunes the render
// - runTree succeeds against a model file

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTree_FullHierarchy(t *testing.T) {
	st := loadTestStore(t)

	var buf bytes.Buffer
	writeTree(&buf, st, 0, false)
	out := buf.String()

	assert.Contains(t, out, "Demo Project  [IFCPROJECT]")
	assert.Contains(t, out, "└── Site  [IFCSITE]")
	assert.Contains(t, out, "Building A  [IFCBUILDING]")
	// Elevations convert to metres via the millimetre length scale.
	assert.Contains(t, out, "├── Level 1  [IFCBUILDINGSTOREY]  elev 0.00m  (1 element)")
	assert.Contains(t, out, "└── Level 2  [IFCBUILDINGSTOREY]  elev 3.00m")
	assert.Contains(t, out, "Office 101  [IFCSPACE]  (1 element)")
}

func TestWriteTree_WithElements(t *testing.T) {
	st := loadTestStore(t)

	var buf bytes.Buffer
	writeTree(&buf, st, 0, true)
	out := buf.String()

	assert.Contains(t, out, `#10 IFCWALLSTANDARDCASE "Wall-Ext-001"`)
	assert.Contains(t, out, `#12 IFCDOOR "Door-001"`)
	// Counts collapse once elements render as leaves.
	assert.NotContains(t, out, "(1 element)")
}

func TestWriteTree_DepthLimit(t *testing.T) {
	st := loadTestStore(t)

	var buf bytes.Buffer
	writeTree(&buf, st, 2, false)
	out := buf.String()

	assert.Contains(t, out, "Demo Project  [IFCPROJECT]")
	assert.Contains(t, out, "└── Site  [IFCSITE]")
	assert.NotContains(t, out, "Building A")
}

func TestRunTree_Smoke(t *testing.T) {
	path := writeModel(t, t.TempDir(), "building.ifc")

	resetFlags(t)
	quietFlag = true
	require.NoError(t, runTree(treeCmd, []string{path}))
}
