package model

import (
	"strings"
)

// stepFile wraps data-section records in a minimal IFC4 exchange structure.
func stepFile(records ...string) []byte {
	var b strings.Builder
	b.WriteString("ISO-10303-21;\nHEADER;\n")
	b.WriteString("FILE_DESCRIPTION((''),'2;1');\n")
	b.WriteString("FILE_NAME('fixture.ifc','2024-01-01T00:00:00',(''),(''),'','','');\n")
	b.WriteString("FILE_SCHEMA(('IFC4'));\nENDSEC;\nDATA;\n")
	for _, r := range records {
		b.WriteString(r)
		b.WriteByte('\n')
	}
	b.WriteString("ENDSEC;\nEND-ISO-10303-21;\n")
	return []byte(b.String())
}

func ingestRecords(records ...string) *Store {
	return Ingest(stepFile(records...))
}

// buildingRecords is a small but complete model: a spatial tree down to a
// space, a wall with property and quantity sets, a wall type sharing a set,
// a layered material, a classification chain, a document and millimetre
// units. Entity ids are grouped by concern so tests can reference them.
func buildingRecords() []string {
	return []string{
		"#1=IFCPROJECT('2o1haQMXj4sQyswzEvP1',$,'Demo Project',$,$,$,$,(#90),#80);",
		"#2=IFCSITE('2o1haQMXj4sQyswzEvS1',$,'Site',$,$,$,$,$,.ELEMENT.,$,$,$,$,$);",
		"#3=IFCBUILDING('2o1haQMXj4sQyswzEvB1',$,'Building A',$,$,$,$,$,.ELEMENT.,$,$,$);",
		"#4=IFCBUILDINGSTOREY('2o1haQMXj4sQyswzEvL1',$,'Level 1',$,$,$,$,.ELEMENT.,0.);",
		"#5=IFCBUILDINGSTOREY('2o1haQMXj4sQyswzEvL2',$,'Level 2',$,$,$,$,3000.);",
		"#10=IFCWALLSTANDARDCASE('2o1haQMXj4sQyswzEvW1',$,'Wall-Ext-001',$,$,$,$,$);",
		"#11=IFCSPACE('2o1haQMXj4sQyswzEvR1',$,'Office 101',$,$,$,$,$,.ELEMENT.,.INTERNAL.,$);",
		"#12=IFCDOOR('2o1haQMXj4sQyswzEvD1',$,'Door-001',$,$,$,$,$,$,$);",
		"#13=IFCCARTESIANPOINT((0.,0.,0.));",
		"#20=IFCRELAGGREGATES('3zAgA000001',$,$,$,#1,(#2));",
		"#21=IFCRELAGGREGATES('3zAgB000001',$,$,$,#2,(#3));",
		"#22=IFCRELAGGREGATES('3zAgC000001',$,$,$,#3,(#4,#5));",
		"#23=IFCRELAGGREGATES('3zAgD000001',$,$,$,#4,(#11));",
		"#24=IFCRELCONTAINEDINSPATIALSTRUCTURE('3zCn1000001',$,$,$,(#10),#4);",
		"#25=IFCRELCONTAINEDINSPATIALSTRUCTURE('3zCn2000001',$,$,$,(#12),#11);",
		"#30=IFCPROPERTYSET('3zPs1000001',$,'Pset_WallCommon',$,(#31,#32,#33));",
		"#31=IFCPROPERTYSINGLEVALUE('IsExternal',$,IFCBOOLEAN(.T.),$);",
		"#32=IFCPROPERTYSINGLEVALUE('FireRating',$,'REI120',$);",
		"#33=IFCPROPERTYSINGLEVALUE('ThermalTransmittance',$,IFCTHERMALTRANSMITTANCEMEASURE(0.24),$);",
		"#34=IFCRELDEFINESBYPROPERTIES('3zDp1000001',$,$,$,(#10),#30);",
		"#40=IFCELEMENTQUANTITY('3zQt1000001',$,'Qto_WallBaseQuantities',$,'BaseQuantities',(#41,#42,#43));",
		"#41=IFCQUANTITYLENGTH('Length',$,$,4500.);",
		"#42=IFCQUANTITYAREA('NetSideArea',$,$,13.5);",
		"#43=IFCQUANTITYCOUNT('OpeningCount',$,$,3);",
		"#44=IFCRELDEFINESBYPROPERTIES('3zDp2000001',$,$,$,(#10),#40);",
		"#50=IFCWALLTYPE('3zWt1000001',$,'WT-200',$,$,(#51),$,$,$,.STANDARD.);",
		"#51=IFCPROPERTYSET('3zPs2000001',$,'Pset_TypeShared',$,(#52));",
		"#52=IFCPROPERTYSINGLEVALUE('LoadBearing',$,IFCBOOLEAN(.F.),$);",
		"#53=IFCRELDEFINESBYTYPE('3zDt1000001',$,$,$,(#10),#50);",
		"#60=IFCMATERIAL('Concrete');",
		"#61=IFCMATERIAL('Insulation');",
		"#62=IFCMATERIALLAYER(#60,200.,$);",
		"#63=IFCMATERIALLAYER(#61,80.,.T.);",
		"#64=IFCMATERIALLAYERSET((#62,#63),'Ext-200');",
		"#65=IFCMATERIALLAYERSETUSAGE(#64,.AXIS2.,.POSITIVE.,0.);",
		"#66=IFCRELASSOCIATESMATERIAL('3zAm1000001',$,$,$,(#10),#65);",
		"#70=IFCCLASSIFICATION('BSI','2015',$,'Uniclass 2015');",
		"#71=IFCCLASSIFICATIONREFERENCE($,'EF_25_10','Walls',#70);",
		"#72=IFCCLASSIFICATIONREFERENCE($,'EF_25_10_25','External walls',#71);",
		"#73=IFCRELASSOCIATESCLASSIFICATION('3zAc1000001',$,$,$,(#10),#72);",
		"#75=IFCDOCUMENTINFORMATION('DOC-7','Wall Spec','Exterior wall data sheet','specs/walls.pdf');",
		"#76=IFCDOCUMENTREFERENCE($,$,'Wall Spec Ref',$,#75);",
		"#77=IFCRELASSOCIATESDOCUMENT('3zAd1000001',$,$,$,(#10),#76);",
		"#80=IFCUNITASSIGNMENT((#81));",
		"#81=IFCSIUNIT(*,.LENGTHUNIT.,.MILLI.,.METRE.);",
		"#90=IFCGEOMETRICREPRESENTATIONCONTEXT($,'Model',3,1.E-05,$,$);",
	}
}

func ingestBuilding(opts ...Option) *Store {
	return Ingest(stepFile(buildingRecords()...), opts...)
}
