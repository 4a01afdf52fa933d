package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strata-bim/strata/internal/model"
)

// testModel is a small but complete model: a spatial tree down to a space,
// a wall with property and quantity sets, a wall type sharing a set, a
// layered material, a classification chain, a document and millimetre units.
const testModel = `ISO-10303-21;
HEADER;
FILE_DESCRIPTION((''),'2;1');
FILE_NAME('demo.ifc','2024-01-01T00:00:00',(''),(''),'','','');
FILE_SCHEMA(('IFC4'));
ENDSEC;
DATA;
#1=IFCPROJECT('2o1haQMXj4sQyswzEvP1',$,'Demo Project',$,$,$,$,(#90),#80);
#2=IFCSITE('2o1haQMXj4sQyswzEvS1',$,'Site',$,$,$,$,$,.ELEMENT.,$,$,$,$,$);
#3=IFCBUILDING('2o1haQMXj4sQyswzEvB1',$,'Building A',$,$,$,$,$,.ELEMENT.,$,$,$);
#4=IFCBUILDINGSTOREY('2o1haQMXj4sQyswzEvL1',$,'Level 1',$,$,$,$,.ELEMENT.,0.);
#5=IFCBUILDINGSTOREY('2o1haQMXj4sQyswzEvL2',$,'Level 2',$,$,$,$,3000.);
#10=IFCWALLSTANDARDCASE('2o1haQMXj4sQyswzEvW1',$,'Wall-Ext-001',$,$,$,$,$);
#11=IFCSPACE('2o1haQMXj4sQyswzEvR1',$,'Office 101',$,$,$,$,$,.ELEMENT.,.INTERNAL.,$);
#12=IFCDOOR('2o1haQMXj4sQyswzEvD1',$,'Door-001',$,$,$,$,$,$,$);
#20=IFCRELAGGREGATES('3zAgA000001',$,$,$,#1,(#2));
#21=IFCRELAGGREGATES('3zAgB000001',$,$,$,#2,(#3));
#22=IFCRELAGGREGATES('3zAgC000001',$,$,$,#3,(#4,#5));
#23=IFCRELAGGREGATES('3zAgD000001',$,$,$,#4,(#11));
#24=IFCRELCONTAINEDINSPATIALSTRUCTURE('3zCn1000001',$,$,$,(#10),#4);
#25=IFCRELCONTAINEDINSPATIALSTRUCTURE('3zCn2000001',$,$,$,(#12),#11);
#30=IFCPROPERTYSET('3zPs1000001',$,'Pset_WallCommon',$,(#31,#32,#33));
#31=IFCPROPERTYSINGLEVALUE('IsExternal',$,IFCBOOLEAN(.T.),$);
#32=IFCPROPERTYSINGLEVALUE('FireRating',$,'REI120',$);
#33=IFCPROPERTYSINGLEVALUE('ThermalTransmittance',$,IFCTHERMALTRANSMITTANCEMEASURE(0.24),$);
#34=IFCRELDEFINESBYPROPERTIES('3zDp1000001',$,$,$,(#10),#30);
#40=IFCELEMENTQUANTITY('3zQt1000001',$,'Qto_WallBaseQuantities',$,'BaseQuantities',(#41,#42,#43));
#41=IFCQUANTITYLENGTH('Length',$,$,4500.);
#42=IFCQUANTITYAREA('NetSideArea',$,$,13.5);
#43=IFCQUANTITYCOUNT('OpeningCount',$,$,3);
#44=IFCRELDEFINESBYPROPERTIES('3zDp2000001',$,$,$,(#10),#40);
#50=IFCWALLTYPE('3zWt1000001',$,'WT-200',$,$,(#51),$,$,$,.STANDARD.);
#51=IFCPROPERTYSET('3zPs2000001',$,'Pset_TypeShared',$,(#52));
#52=IFCPROPERTYSINGLEVALUE('LoadBearing',$,IFCBOOLEAN(.F.),$);
#53=IFCRELDEFINESBYTYPE('3zDt1000001',$,$,$,(#10),#50);
#60=IFCMATERIAL('Concrete');
#61=IFCMATERIAL('Insulation');
#62=IFCMATERIALLAYER(#60,200.,$);
#63=IFCMATERIALLAYER(#61,80.,.T.);
#64=IFCMATERIALLAYERSET((#62,#63),'Ext-200');
#65=IFCMATERIALLAYERSETUSAGE(#64,.AXIS2.,.POSITIVE.,0.);
#66=IFCRELASSOCIATESMATERIAL('3zAm1000001',$,$,$,(#10),#65);
#70=IFCCLASSIFICATION('BSI','2015',$,'Uniclass 2015');
#71=IFCCLASSIFICATIONREFERENCE($,'EF_25_10','Walls',#70);
#72=IFCCLASSIFICATIONREFERENCE($,'EF_25_10_25','External walls',#71);
#73=IFCRELASSOCIATESCLASSIFICATION('3zAc1000001',$,$,$,(#10),#72);
#75=IFCDOCUMENTINFORMATION('DOC-7','Wall Spec','Exterior wall data sheet','specs/walls.pdf');
#76=IFCDOCUMENTREFERENCE($,$,'Wall Spec Ref',$,#75);
#77=IFCRELASSOCIATESDOCUMENT('3zAd1000001',$,$,$,(#10),#76);
#80=IFCUNITASSIGNMENT((#81));
#81=IFCSIUNIT(*,.LENGTHUNIT.,.MILLI.,.METRE.);
#90=IFCGEOMETRICREPRESENTATIONCONTEXT($,'Model',3,1.E-05,$,$);
ENDSEC;
END-ISO-10303-21;
`

// writeModel writes the demo model under dir at relPath.
func writeModel(t testing.TB, dir, relPath string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(testModel), 0o644))
	return path
}

// loadTestStore ingests the demo model and hands back its store.
func loadTestStore(t *testing.T) *model.Store {
	t.Helper()

	path := writeModel(t, t.TempDir(), "building.ifc")
	result, ing, err := loadModel(context.Background(), path, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ing.Close() })
	return result.Store
}

// resetFlags restores every command flag a test mutates. Commands share
// package-level flag variables, so tests touching them must not run in
// parallel.
func resetFlags(t *testing.T) {
	t.Helper()

	prevQuiet, prevVerbose := quietFlag, verboseFlag
	prevSnapshot, prevEager, prevWatch := ingestSnapshotFlag, ingestEagerFlag, ingestWatchFlag
	prevInspectJSON := inspectJSONFlag
	prevLimit, prevType, prevStorey := searchLimitFlag, searchTypeFlag, searchStoreyFlag
	prevElements, prevDepth := treeElementsFlag, treeDepthFlag
	prevProps, prevQuants, prevMaterial := entityPropsFlag, entityQuantsFlag, entityMaterialFlag
	prevClass, prevDocs, prevRelated := entityClassFlag, entityDocsFlag, entityRelatedFlag
	prevRaw, prevAll, prevEntityJSON := entityRawFlag, entityAllFlag, entityJSONFlag

	t.Cleanup(func() {
		quietFlag, verboseFlag = prevQuiet, prevVerbose
		ingestSnapshotFlag, ingestEagerFlag, ingestWatchFlag = prevSnapshot, prevEager, prevWatch
		inspectJSONFlag = prevInspectJSON
		searchLimitFlag, searchTypeFlag, searchStoreyFlag = prevLimit, prevType, prevStorey
		treeElementsFlag, treeDepthFlag = prevElements, prevDepth
		entityPropsFlag, entityQuantsFlag, entityMaterialFlag = prevProps, prevQuants, prevMaterial
		entityClassFlag, entityDocsFlag, entityRelatedFlag = prevClass, prevDocs, prevRelated
		entityRawFlag, entityAllFlag, entityJSONFlag = prevRaw, prevAll, prevEntityJSON
	})
}

// chdir switches the working directory for the duration of a test.
func chdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
