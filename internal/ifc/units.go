package ifc

import (
	"strings"

	"github.com/strata-bim/strata/internal/step"
)

// siPrefixScale maps SI prefix enum names to their multiplier against the
// base metre. A null prefix is the metre itself.
var siPrefixScale = map[string]float64{
	"ATTO":  1e-18,
	"FEMTO": 1e-15,
	"PICO":  1e-12,
	"NANO":  1e-9,
	"MICRO": 1e-6,
	"MILLI": 1e-3,
	"CENTI": 1e-2,
	"DECI":  1e-1,
	"DECA":  1e1,
	"HECTO": 1e2,
	"KILO":  1e3,
	"MEGA":  1e6,
	"GIGA":  1e9,
	"TERA":  1e12,
	"PETA":  1e15,
	"EXA":   1e18,
}

// conversionFactors are the named imperial length units with their exact
// metre equivalents. Files naming one of these skip the measure lookup.
var conversionFactors = map[string]float64{
	"FOOT": 0.3048,
	"FEET": 0.3048,
	"INCH": 0.0254,
	"YARD": 0.9144,
	"MILE": 1609.344,
}

// LengthUnitScale resolves the multiplier that converts the file's length
// coordinates to metres. It walks Project UnitsInContext to the unit
// assignment and scans for the first length unit: an SI unit contributes its
// prefix multiplier, a conversion-based unit its named factor or, failing
// that, the value of its measure record. Every failure path returns 1.0;
// the walk never errors.
func LengthUnitScale(dec *step.Decoder, projectID uint32) float64 {
	project, ok := dec.DecodeID(projectID)
	if !ok || project.Type != "IFCPROJECT" {
		return 1.0
	}
	assignID, ok := project.Ref(AttrProjectUnits)
	if !ok {
		return 1.0
	}
	assignment, ok := dec.DecodeID(assignID)
	if !ok || assignment.Type != "IFCUNITASSIGNMENT" {
		return 1.0
	}
	units, ok := assignment.List(AttrUnitAssignmentUnits)
	if !ok {
		return 1.0
	}

	for _, u := range units {
		unitID, ok := u.Ref()
		if !ok {
			continue
		}
		unit, ok := dec.DecodeID(unitID)
		if !ok {
			continue
		}
		if kind, ok := unit.Enum(AttrUnitType); !ok || kind != "LENGTHUNIT" {
			continue
		}

		switch unit.Type {
		case "IFCSIUNIT":
			prefix, ok := unit.Enum(AttrSIPrefix)
			if !ok {
				return 1.0 // null prefix: plain metres
			}
			if scale, ok := siPrefixScale[prefix]; ok {
				return scale
			}
			return 1.0

		case "IFCCONVERSIONBASEDUNIT":
			if name, ok := unit.Str(AttrConvName); ok {
				if factor, ok := conversionFactors[strings.ToUpper(name)]; ok {
					return factor
				}
			}
			measureID, ok := unit.Ref(AttrConvRatio)
			if !ok {
				continue
			}
			measure, ok := dec.DecodeID(measureID)
			if !ok {
				continue
			}
			if scale, ok := measureFloat(measure); ok && scale > 0 {
				return scale
			}
		}
	}
	return 1.0
}

// measureFloat reads the numeric component of an IFCMEASUREWITHUNIT. The
// value usually arrives inside a typed wrapper like IFCLENGTHMEASURE(0.3048),
// which the decoder decays to a list headed by the wrapper name.
func measureFloat(measure step.Entity) (float64, bool) {
	v, ok := measure.Attr(AttrMeasureValue)
	if !ok {
		return 0, false
	}
	if f, ok := v.Float(); ok {
		return f, true
	}
	if items, ok := v.List(); ok && len(items) == 2 {
		return items[1].Float()
	}
	return 0, false
}
