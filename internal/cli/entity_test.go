package cli

// Test Plan for Entity Command:
// - parseEntityID accepts plain and #-prefixed ids, rejects anything else
// - runEntity errors on unknown ids and names the record type of values
//   the entity table does not keep
// - writeEntityReport renders identity plus every requested section
// - requested sections with no data render as (none)
// - runEntity --all --json round-trips without error

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-bim/strata/internal/model"
)

func TestParseEntityID(t *testing.T) {
	id, err := parseEntityID("10")
	require.NoError(t, err)
	assert.Equal(t, uint32(10), id)

	id, err = parseEntityID("#512")
	require.NoError(t, err)
	assert.Equal(t, uint32(512), id)

	for _, bad := range []string{"", "ten", "-3", "#", "1.5"} {
		_, err := parseEntityID(bad)
		assert.Error(t, err, "id %q", bad)
	}
}

func TestRunEntity_UnknownID(t *testing.T) {
	path := writeModel(t, t.TempDir(), "building.ifc")

	resetFlags(t)
	err := runEntity(entityCmd, []string{path, "999999"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRunEntity_UnkeptRecord(t *testing.T) {
	path := writeModel(t, t.TempDir(), "building.ifc")

	resetFlags(t)
	// #31 is a property value: present in the file, not in the entity table.
	err := runEntity(entityCmd, []string{path, "#31"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IFCPROPERTYSINGLEVALUE")
}

func TestWriteEntityReport_AllSections(t *testing.T) {
	st := loadTestStore(t)

	info, ok := st.Entity(10)
	require.True(t, ok)

	rep := &entityReport{
		Entity:            info,
		LengthScale:       st.LengthScale(),
		Properties:        st.Properties(10),
		Quantities:        st.Quantities(10),
		Material:          st.Material(10),
		Classifications:   st.Classifications(10),
		Documents:         st.Documents(10),
		Relations:         st.Relationships(10),
		materialRequested: true,
	}
	if sid, ok := st.Hierarchy().StoreyOf(10); ok {
		if node, ok := st.Hierarchy().Node(sid); ok {
			rep.Storey = node.Path
		}
	}

	var buf bytes.Buffer
	writeEntityReport(&buf, rep)
	out := buf.String()

	assert.Contains(t, out, "#10 IFCWALLSTANDARDCASE")
	assert.Contains(t, out, "Name:         Wall-Ext-001")
	assert.Contains(t, out, "GlobalId:     2o1haQMXj4sQyswzEvW1")
	assert.Contains(t, out, "Storey:       Demo Project/Site/Building A/Level 1")
	assert.Contains(t, out, "Length scale: 0.001")

	assert.Contains(t, out, "Pset_WallCommon  (#30)")
	assert.Contains(t, out, "IsExternal (boolean) = true")
	assert.Contains(t, out, "FireRating (string) = REI120")

	assert.Contains(t, out, "Qto_WallBaseQuantities  (#40, BaseQuantities)")
	assert.Contains(t, out, "Length (length) = 4500")
	assert.Contains(t, out, "NetSideArea (area) = 13.5")

	assert.Contains(t, out, `Material: layer set "Ext-200"`)
	assert.Contains(t, out, "Concrete  thickness 200")
	assert.Contains(t, out, "Insulation  thickness 80, ventilated")

	assert.Contains(t, out, "Uniclass 2015 [2015]: EF_25_10_25 / EF_25_10")
	assert.Contains(t, out, "Wall Spec Ref [DOC-7]  specs/walls.pdf")

	assert.Contains(t, out, "Relationships (7):")
	assert.Contains(t, out, `← #4 IFCBUILDINGSTOREY "Level 1"  (rel #24)`)
}

func TestWriteEntityReport_EmptySections(t *testing.T) {
	st := loadTestStore(t)

	// The door has no sets, material, or associations of its own.
	info, ok := st.Entity(12)
	require.True(t, ok)

	rep := &entityReport{
		Entity:            info,
		LengthScale:       st.LengthScale(),
		Properties:        []model.PropertySet{},
		Material:          nil,
		materialRequested: true,
	}

	var buf bytes.Buffer
	writeEntityReport(&buf, rep)
	out := buf.String()

	assert.Contains(t, out, "Properties:\n  (none)")
	assert.Contains(t, out, "Material: (none)")
}

func TestRunEntity_JSON(t *testing.T) {
	path := writeModel(t, t.TempDir(), "building.ifc")

	resetFlags(t)
	entityAllFlag = true
	entityJSONFlag = true
	require.NoError(t, runEntity(entityCmd, []string{path, "10"}))
}
