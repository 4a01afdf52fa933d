package storage

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-bim/strata/internal/model"
)

// Test Plan for snapshot write/read:
// - WriteSnapshot persists entities, relationships, spatial nodes and
//   property rows; the reader returns them all
// - Summary reports meta, counts and the per-type breakdown
// - Entity lookups resolve storeys and report missing ids
// - A second WriteSnapshot replaces the first instead of appending
// - NewReader rejects databases that are not snapshots

func testSnapshotStore(t *testing.T) *model.Store {
	t.Helper()

	var b strings.Builder
	b.WriteString("ISO-10303-21;\nHEADER;\n")
	b.WriteString("FILE_DESCRIPTION((''),'2;1');\n")
	b.WriteString("FILE_NAME('snapshot.ifc','2024-01-01T00:00:00',(''),(''),'','','');\n")
	b.WriteString("FILE_SCHEMA(('IFC4'));\nENDSEC;\nDATA;\n")
	for _, r := range []string{
		"#1=IFCPROJECT('prj00000001',$,'Snapshot Project',$,$,$,$,$,#80);",
		"#2=IFCSITE('sit00000001',$,'Site',$,$,$,$,$,.ELEMENT.,$,$,$,$,$);",
		"#3=IFCBUILDING('bld00000001',$,'Main Building',$,$,$,$,$,.ELEMENT.,$,$,$);",
		"#4=IFCBUILDINGSTOREY('sty00000001',$,'Level 1',$,$,$,$,.ELEMENT.,0.);",
		"#10=IFCWALL('wal00000001',$,'North Wall','Load bearing',$,$,$,$);",
		"#12=IFCDOOR('dor00000001',$,'Front Door',$,$,$,$,$,$,$);",
		"#20=IFCRELAGGREGATES('agg00000001',$,$,$,#1,(#2));",
		"#21=IFCRELAGGREGATES('agg00000002',$,$,$,#2,(#3));",
		"#22=IFCRELAGGREGATES('agg00000003',$,$,$,#3,(#4));",
		"#23=IFCRELCONTAINEDINSPATIALSTRUCTURE('cnt00000001',$,$,$,(#10,#12),#4);",
		"#30=IFCPROPERTYSET('pse00000001',$,'Pset_WallCommon',$,(#31,#32));",
		"#31=IFCPROPERTYSINGLEVALUE('IsExternal',$,.T.,$);",
		"#32=IFCPROPERTYSINGLEVALUE('FireRating',$,'REI120',$);",
		"#33=IFCRELDEFINESBYPROPERTIES('rdp00000001',$,$,$,(#10),#30);",
		"#40=IFCELEMENTQUANTITY('qto00000001',$,'Qto_WallBaseQuantities',$,'BaseQuantities',(#41));",
		"#41=IFCQUANTITYLENGTH('Length',$,$,4500.);",
		"#42=IFCRELDEFINESBYPROPERTIES('rdp00000002',$,$,$,(#10),#40);",
		"#80=IFCUNITASSIGNMENT((#81));",
		"#81=IFCSIUNIT(*,.LENGTHUNIT.,.MILLI.,.METRE.);",
	} {
		b.WriteString(r)
		b.WriteByte('\n')
	}
	b.WriteString("ENDSEC;\nEND-ISO-10303-21;\n")

	return model.Ingest([]byte(b.String()))
}

// writeTestSnapshot writes the fixture store to a fresh file and returns
// the snapshot id together with the database path.
func writeTestSnapshot(t *testing.T) (string, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "snapshot.db")
	writer, err := NewWriter(dbPath)
	require.NoError(t, err)

	snapshotID, err := writer.WriteSnapshot(testSnapshotStore(t), "models/snapshot.ifc")
	require.NoError(t, err)
	require.NotEmpty(t, snapshotID)
	require.NoError(t, writer.Close())

	return snapshotID, dbPath
}

func TestWriteSnapshot_Summary(t *testing.T) {
	t.Parallel()

	snapshotID, dbPath := writeTestSnapshot(t)

	reader, err := NewReader(dbPath)
	require.NoError(t, err)
	defer reader.Close()

	summary, err := reader.Summary()
	require.NoError(t, err)

	assert.Equal(t, snapshotID, summary.SnapshotID)
	assert.Equal(t, "models/snapshot.ifc", summary.SourcePath)
	assert.Equal(t, "IFC4", summary.Schema)
	assert.InDelta(t, 0.001, summary.LengthScale, 1e-12)
	assert.NotEmpty(t, summary.CreatedAt)

	assert.Equal(t, 12, summary.Entities)
	assert.Equal(t, 7, summary.Relationships)
	assert.Equal(t, 4, summary.SpatialNodes)
	assert.Equal(t, 3, summary.PropertyRows)

	require.Len(t, summary.TypeCounts, 9)
	assert.Equal(t, TypeCount{Type: "IFCRELAGGREGATES", Count: 3}, summary.TypeCounts[0])
	assert.Equal(t, TypeCount{Type: "IFCRELDEFINESBYPROPERTIES", Count: 2}, summary.TypeCounts[1])
}

func TestReader_EntityLookups(t *testing.T) {
	t.Parallel()

	_, dbPath := writeTestSnapshot(t)

	reader, err := NewReader(dbPath)
	require.NoError(t, err)
	defer reader.Close()

	wall, err := reader.Entity(10)
	require.NoError(t, err)
	assert.Equal(t, "IFCWALL", wall.Type)
	assert.Equal(t, "wal00000001", wall.GlobalID)
	assert.Equal(t, "North Wall", wall.Name)
	assert.Equal(t, "Load bearing", wall.Description)
	assert.True(t, wall.HasGeometry)
	assert.False(t, wall.IsType)
	assert.Equal(t, uint32(4), wall.StoreyID)

	project, err := reader.Entity(1)
	require.NoError(t, err)
	assert.False(t, project.HasGeometry)
	assert.Zero(t, project.StoreyID)

	_, err = reader.Entity(999)
	require.ErrorIs(t, err, ErrEntityNotFound)

	walls, err := reader.EntitiesByType("IFCWALL")
	require.NoError(t, err)
	require.Len(t, walls, 1)
	assert.Equal(t, uint32(10), walls[0].ID)

	none, err := reader.EntitiesByType("IFCSLAB")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReader_SpatialNodes(t *testing.T) {
	t.Parallel()

	_, dbPath := writeTestSnapshot(t)

	reader, err := NewReader(dbPath)
	require.NoError(t, err)
	defer reader.Close()

	nodes, err := reader.SpatialNodes()
	require.NoError(t, err)
	require.Len(t, nodes, 4)

	root := nodes[0]
	assert.Equal(t, uint32(1), root.ID)
	assert.Zero(t, root.ParentID)
	assert.Equal(t, "Snapshot Project", root.Path)
	assert.Equal(t, 0, root.Level)
	assert.Nil(t, root.Elevation)

	storey := nodes[3]
	assert.Equal(t, uint32(4), storey.ID)
	assert.Equal(t, uint32(3), storey.ParentID)
	assert.Equal(t, "IFCBUILDINGSTOREY", storey.Type)
	assert.Equal(t, "Snapshot Project/Site/Main Building/Level 1", storey.Path)
	assert.Equal(t, 3, storey.Level)
	require.NotNil(t, storey.Elevation)
	assert.InDelta(t, 0.0, *storey.Elevation, 1e-9)
}

func TestReader_PropertyRows(t *testing.T) {
	t.Parallel()

	_, dbPath := writeTestSnapshot(t)

	reader, err := NewReader(dbPath)
	require.NoError(t, err)
	defer reader.Close()

	rows, err := reader.PropertyRowsFor(10)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Ordered by set kind, then set name, then member name.
	fire := rows[0]
	assert.Equal(t, "Pset_WallCommon", fire.SetName)
	assert.Equal(t, "property", fire.SetKind)
	assert.Equal(t, "FireRating", fire.Name)
	assert.Equal(t, "string", fire.ValueType)
	assert.Equal(t, "REI120", fire.Value)

	external := rows[1]
	assert.Equal(t, "IsExternal", external.Name)
	assert.Equal(t, "boolean", external.ValueType)
	assert.Equal(t, "true", external.Value)

	length := rows[2]
	assert.Equal(t, "Qto_WallBaseQuantities", length.SetName)
	assert.Equal(t, "quantity", length.SetKind)
	assert.Equal(t, "Length", length.Name)
	assert.Equal(t, "length", length.ValueType)
	assert.Equal(t, "4500", length.Value)
	assert.Equal(t, uint32(40), length.SetID)

	empty, err := reader.PropertyRowsFor(12)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestReader_Relationships(t *testing.T) {
	t.Parallel()

	_, dbPath := writeTestSnapshot(t)

	reader, err := NewReader(dbPath)
	require.NoError(t, err)
	defer reader.Close()

	rels, err := reader.RelationshipsOf(10)
	require.NoError(t, err)
	require.Len(t, rels, 3)

	assert.Equal(t, "ContainedInSpatialStructure", rels[0].Kind)
	assert.Equal(t, uint32(4), rels[0].Source)
	assert.Equal(t, uint32(10), rels[0].Target)
	assert.Equal(t, uint32(23), rels[0].Owner)

	assert.Equal(t, "DefinesByProperties", rels[1].Kind)
	assert.Equal(t, uint32(30), rels[1].Source)
	assert.Equal(t, "DefinesByProperties", rels[2].Kind)
	assert.Equal(t, uint32(40), rels[2].Source)
}

func TestWriteSnapshot_ReplacesPrevious(t *testing.T) {
	t.Parallel()

	db, dbPath := NewTestDBFile(t)
	writer := NewWriterWithDB(db)
	defer writer.Close()

	st := testSnapshotStore(t)
	first, err := writer.WriteSnapshot(st, "models/snapshot.ifc")
	require.NoError(t, err)
	second, err := writer.WriteSnapshot(st, "models/snapshot.ifc")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	reader, err := NewReader(dbPath)
	require.NoError(t, err)
	defer reader.Close()

	summary, err := reader.Summary()
	require.NoError(t, err)
	assert.Equal(t, second, summary.SnapshotID)
	assert.Equal(t, 12, summary.Entities)
	assert.Equal(t, 7, summary.Relationships)
}

func TestNewReader_RejectsNonSnapshot(t *testing.T) {
	t.Parallel()

	db, dbPath := NewTestDBFile(t)

	// Strip the schema marker so the file no longer looks like a snapshot.
	_, err := db.Exec("DELETE FROM snapshot_meta WHERE key = 'schema_version'")
	require.NoError(t, err)

	_, err = NewReader(dbPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a snapshot database")
}
