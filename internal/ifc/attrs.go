package ifc

// Positional attribute indexes for every entity family the store decodes.
// All positional knowledge lives in this one table; nothing else in the
// repository indexes an attribute list by a bare number.

// Rooted identity attributes shared by every IfcRoot subtype.
const (
	AttrGlobalID    = 0
	AttrName        = 2
	AttrDescription = 3
	AttrObjectType  = 4 // products only; harmless to read elsewhere
)

// Type objects (IFCWALLTYPE and friends).
const (
	AttrTypeHasPropertySets = 5 // optional list of shared property sets
)

// IFCBUILDINGSTOREY. Elevation sits at 8 in conforming files; some exporters
// drop the CompositionType attribute and shift it to 7, so readers try both.
const (
	AttrStoreyElevation         = 8
	AttrStoreyElevationFallback = 7
)

// IFCPROPERTYSET.
const (
	AttrPsetName          = 2
	AttrPsetHasProperties = 4
)

// IFCELEMENTQUANTITY.
const (
	AttrQsetName       = 2
	AttrQsetMethod     = 4
	AttrQsetQuantities = 5
)

// IFCQUANTITYLENGTH / AREA / VOLUME / COUNT / WEIGHT / TIME all share one
// layout: Name, Description, Unit, then the value.
const (
	AttrQuantityName  = 0
	AttrQuantityValue = 3
)

// Property value entities. Name and Description lead in every shape; the
// payload position depends on the concrete type.
const (
	AttrPropName = 0

	AttrPropSingleValue = 2 // IFCPROPERTYSINGLEVALUE NominalValue

	AttrPropEnumValues = 2 // IFCPROPERTYENUMERATEDVALUE EnumerationValues

	AttrPropUpperBound = 2 // IFCPROPERTYBOUNDEDVALUE
	AttrPropLowerBound = 3
	AttrPropSetPoint   = 5 // IFC4 only; absent in older files

	AttrPropListValues = 2 // IFCPROPERTYLISTVALUE

	AttrPropTableDefining = 2 // IFCPROPERTYTABLEVALUE DefiningValues
	AttrPropTableDefined  = 3

	AttrPropUsageName   = 2 // IFCPROPERTYREFERENCEVALUE
	AttrPropReferencedP = 3
)

// Classification references and the root system they chain up to.
const (
	AttrClassRefLocation       = 0
	AttrClassRefIdentification = 1 // ItemReference in IFC2X3, same slot
	AttrClassRefName           = 2
	AttrClassRefSource         = 3 // parent reference or root system

	AttrClassSource  = 0 // IFCCLASSIFICATION publisher
	AttrClassEdition = 1
	AttrClassName    = 3
)

// Material family.
const (
	AttrMaterialName = 0 // IFCMATERIAL

	AttrLayerSetLayers = 0 // IFCMATERIALLAYERSET
	AttrLayerSetName   = 1

	AttrLayerMaterial   = 0 // IFCMATERIALLAYER
	AttrLayerThickness  = 1
	AttrLayerVentilated = 2

	AttrLayerSetUsageFor = 0 // IFCMATERIALLAYERSETUSAGE ForLayerSet

	AttrProfileSetName     = 0 // IFCMATERIALPROFILESET
	AttrProfileSetProfiles = 2

	AttrProfileName     = 0 // IFCMATERIALPROFILE
	AttrProfileMaterial = 2

	AttrProfileSetUsageFor = 0 // IFCMATERIALPROFILESETUSAGE ForProfileSet

	AttrConstituentSetName  = 0 // IFCMATERIALCONSTITUENTSET
	AttrConstituentSetParts = 2

	AttrConstituentName     = 0 // IFCMATERIALCONSTITUENT
	AttrConstituentMaterial = 2
	AttrConstituentFraction = 3

	AttrMaterialListItems = 0 // IFCMATERIALLIST
)

// Document references and the information records they may chain to.
// IFC2X3 references stop at Name; the ReferencedDocument slot only exists
// in IFC4 files and reads as absent elsewhere.
const (
	AttrDocRefLocation       = 0
	AttrDocRefIdentification = 1
	AttrDocRefName           = 2
	AttrDocRefDescription    = 3
	AttrDocRefDocument       = 4

	AttrDocInfoIdentification = 0
	AttrDocInfoName           = 1
	AttrDocInfoDescription    = 2
	AttrDocInfoLocation       = 3
)

// IFCPROJECT unit chain.
const (
	AttrProjectUnits = 8 // UnitsInContext -> IFCUNITASSIGNMENT

	AttrUnitAssignmentUnits = 0

	AttrUnitType  = 1 // SIUNIT and CONVERSIONBASEDUNIT share 1
	AttrSIPrefix  = 2
	AttrConvName  = 2
	AttrConvRatio = 3 // ConversionFactor -> IFCMEASUREWITHUNIT

	AttrMeasureValue = 0
)

// quantityKinds maps quantity entity types to the unitless kind label the
// extractor reports. Closed set; anything else in a Quantities list is not a
// scalar quantity and is skipped.
var quantityKinds = map[string]string{
	"IFCQUANTITYLENGTH": "length",
	"IFCQUANTITYAREA":   "area",
	"IFCQUANTITYVOLUME": "volume",
	"IFCQUANTITYCOUNT":  "count",
	"IFCQUANTITYWEIGHT": "weight",
	"IFCQUANTITYTIME":   "time",
}

// QuantityKind returns the kind label for a quantity entity type.
func QuantityKind(typeName string) (string, bool) {
	k, ok := quantityKinds[typeName]
	return k, ok
}
