package ifc

import (
	"testing"

	"github.com/strata-bim/strata/internal/step"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for LengthUnitScale:
// - MILLI prefix resolves to 0.001
// - Null prefix resolves to plain metres (1.0)
// - Conversion-based FOOT resolves to 0.3048 by name
// - Conversion-based unit with unknown name falls back to its measure value
// - Missing project, wrong types, or missing units all default to 1.0

func unitDecoder(t *testing.T, body string) *step.Decoder {
	t.Helper()
	buf := []byte("ISO-10303-21;\nHEADER;\nFILE_SCHEMA(('IFC4'));\nENDSEC;\nDATA;\n" +
		body + "ENDSEC;\nEND-ISO-10303-21;\n")
	byID := make(map[uint32]step.EntityRef)
	for _, ref := range step.Scan(buf) {
		byID[ref.ID] = ref
	}
	require.NotEmpty(t, byID)
	return step.NewDecoder(buf, byID)
}

func TestLengthUnitScale_Millimetres(t *testing.T) {
	t.Parallel()

	dec := unitDecoder(t, `#1=IFCPROJECT('guid',$,'Test',$,$,$,$,(#2),#3);
#2=IFCGEOMETRICREPRESENTATIONCONTEXT($,'Model',3,1.E-5,#4,$);
#3=IFCUNITASSIGNMENT((#5));
#4=IFCAXIS2PLACEMENT3D(#6,$,$);
#5=IFCSIUNIT(*,.LENGTHUNIT.,.MILLI.,.METRE.);
#6=IFCCARTESIANPOINT((0.,0.,0.));
`)
	assert.InDelta(t, 0.001, LengthUnitScale(dec, 1), 1e-9)
}

func TestLengthUnitScale_PlainMetres(t *testing.T) {
	t.Parallel()

	dec := unitDecoder(t, `#1=IFCPROJECT('guid',$,'Test',$,$,$,$,(#2),#3);
#2=IFCGEOMETRICREPRESENTATIONCONTEXT($,'Model',3,1.E-5,$,$);
#3=IFCUNITASSIGNMENT((#5));
#5=IFCSIUNIT(*,.LENGTHUNIT.,$,.METRE.);
`)
	assert.InDelta(t, 1.0, LengthUnitScale(dec, 1), 1e-9)
}

func TestLengthUnitScale_Feet(t *testing.T) {
	t.Parallel()

	dec := unitDecoder(t, `#1=IFCPROJECT('guid',$,'Test',$,$,$,$,(#2),#3);
#2=IFCGEOMETRICREPRESENTATIONCONTEXT($,'Model',3,1.E-5,$,$);
#3=IFCUNITASSIGNMENT((#5));
#5=IFCCONVERSIONBASEDUNIT(#7,.LENGTHUNIT.,'FOOT',#8);
#7=IFCDIMENSIONALEXPONENTS(1,0,0,0,0,0,0);
#8=IFCMEASUREWITHUNIT(IFCLENGTHMEASURE(0.3048),#9);
#9=IFCSIUNIT(*,.LENGTHUNIT.,$,.METRE.);
`)
	assert.InDelta(t, 0.3048, LengthUnitScale(dec, 1), 1e-9)
}

func TestLengthUnitScale_MeasureFallback(t *testing.T) {
	t.Parallel()

	// 'LINK' is not in the named factor table; the measure record decides.
	dec := unitDecoder(t, `#1=IFCPROJECT('guid',$,'Test',$,$,$,$,(#2),#3);
#2=IFCGEOMETRICREPRESENTATIONCONTEXT($,'Model',3,1.E-5,$,$);
#3=IFCUNITASSIGNMENT((#5));
#5=IFCCONVERSIONBASEDUNIT(#7,.LENGTHUNIT.,'LINK',#8);
#7=IFCDIMENSIONALEXPONENTS(1,0,0,0,0,0,0);
#8=IFCMEASUREWITHUNIT(IFCLENGTHMEASURE(0.201168),#9);
#9=IFCSIUNIT(*,.LENGTHUNIT.,$,.METRE.);
`)
	assert.InDelta(t, 0.201168, LengthUnitScale(dec, 1), 1e-9)
}

func TestLengthUnitScale_Defaults(t *testing.T) {
	t.Parallel()

	// Missing project id.
	dec := unitDecoder(t, "#1=IFCWALL($,$,$,$,$,$,$,$,$);\n")
	assert.InDelta(t, 1.0, LengthUnitScale(dec, 99), 1e-9)

	// Project without a unit assignment.
	dec = unitDecoder(t, "#1=IFCPROJECT('guid',$,'Test',$,$,$,$,$,$);\n")
	assert.InDelta(t, 1.0, LengthUnitScale(dec, 1), 1e-9)

	// Assignment whose only unit is an area unit.
	dec = unitDecoder(t, `#1=IFCPROJECT('guid',$,'Test',$,$,$,$,$,#3);
#3=IFCUNITASSIGNMENT((#5));
#5=IFCSIUNIT(*,.AREAUNIT.,$,.SQUARE_METRE.);
`)
	assert.InDelta(t, 1.0, LengthUnitScale(dec, 1), 1e-9)
}

func TestQuantityKind(t *testing.T) {
	t.Parallel()

	kind, ok := QuantityKind("IFCQUANTITYAREA")
	require.True(t, ok)
	assert.Equal(t, "area", kind)

	_, ok = QuantityKind("IFCQUANTITYMOOD")
	assert.False(t, ok)
}
