package ifc

import "strings"

// The ingestion pass buckets every record by type with O(1) membership
// checks against the sets below. The sets are deliberately closed: an
// unknown type is simply uncategorized, which keeps malformed or exotic
// files from growing the store.

// spatialTypes are the structure nodes of the containment tree.
var spatialTypes = map[string]struct{}{
	"IFCPROJECT":        {},
	"IFCSITE":           {},
	"IFCBUILDING":       {},
	"IFCBUILDINGSTOREY": {},
	"IFCSPACE":          {},
}

// elementTypes is the curated allow-list of element categories kept in the
// entity table even when they carry no geometry. Everything a viewer's
// model tree or a validator's rule set commonly touches.
var elementTypes = map[string]struct{}{
	"IFCWALL":                 {},
	"IFCWALLSTANDARDCASE":     {},
	"IFCSLAB":                 {},
	"IFCBEAM":                 {},
	"IFCCOLUMN":               {},
	"IFCDOOR":                 {},
	"IFCWINDOW":               {},
	"IFCROOF":                 {},
	"IFCSTAIR":                {},
	"IFCSTAIRFLIGHT":          {},
	"IFCRAMP":                 {},
	"IFCRAMPFLIGHT":           {},
	"IFCRAILING":              {},
	"IFCCURTAINWALL":          {},
	"IFCPLATE":                {},
	"IFCMEMBER":               {},
	"IFCCOVERING":             {},
	"IFCFOOTING":              {},
	"IFCPILE":                 {},
	"IFCFURNISHINGELEMENT":    {},
	"IFCFLOWTERMINAL":         {},
	"IFCFLOWSEGMENT":          {},
	"IFCFLOWFITTING":          {},
	"IFCFLOWCONTROLLER":       {},
	"IFCDISTRIBUTIONELEMENT":  {},
	"IFCBUILDINGELEMENTPROXY": {},
	"IFCOPENINGELEMENT":       {},
	"IFCELEMENTASSEMBLY":      {},
	"IFCTRANSPORTELEMENT":     {},
	"IFCREINFORCINGBAR":       {},
	"IFCREINFORCINGMESH":      {},
	"IFCTENDON":               {},
	"IFCCHIMNEY":              {},
	"IFCSHADINGDEVICE":        {},
}

// geometryTypes are product types whose records can carry a shape
// representation. Their display identity is decoded eagerly so a viewer can
// label meshes without a second pass; pure resource records (points,
// directions, placements) stay undecoded.
var geometryTypes = map[string]struct{}{
	"IFCGEOGRAPHICELEMENT": {},
	"IFCCIVILELEMENT":      {},
	"IFCVIRTUALELEMENT":    {},
	"IFCFEATUREELEMENT":    {},
	"IFCDISCRETEACCESSORY": {},
	"IFCFASTENER":          {},
	"IFCMECHANICALFASTENER": {},
	"IFCSPACEHEATER":       {},
	"IFCSANITARYTERMINAL":  {},
	"IFCLIGHTFIXTURE":      {},
	"IFCAIRTERMINAL":       {},
	"IFCDUCTSEGMENT":       {},
	"IFCDUCTFITTING":       {},
	"IFCPIPESEGMENT":       {},
	"IFCPIPEFITTING":       {},
	"IFCCABLECARRIERSEGMENT": {},
	"IFCCABLESEGMENT":      {},
	"IFCENERGYCONVERSIONDEVICE": {},
	"IFCFLOWMOVINGDEVICE":  {},
	"IFCFLOWSTORAGEDEVICE": {},
	"IFCFLOWTREATMENTDEVICE": {},
	"IFCPROXY":             {},
}

// valueSetTypes are the direct property and quantity containers routed into
// the eager tables when WithEagerTables is on, and kept in the entity table
// either way once something references them.
var valueSetTypes = map[string]struct{}{
	"IFCPROPERTYSET":     {},
	"IFCELEMENTQUANTITY": {},
}

// IsSpatial reports whether typeName is a containment-tree node type.
func IsSpatial(typeName string) bool {
	_, ok := spatialTypes[typeName]
	return ok
}

// IsElement reports whether typeName is in the curated element allow-list.
func IsElement(typeName string) bool {
	_, ok := elementTypes[typeName]
	return ok
}

// HasGeometry reports whether records of this type can carry a shape
// representation worth displaying.
func HasGeometry(typeName string) bool {
	if _, ok := elementTypes[typeName]; ok {
		return true
	}
	if _, ok := geometryTypes[typeName]; ok {
		return true
	}
	_, ok := spatialTypes[typeName]
	return ok && typeName != "IFCPROJECT"
}

// IsTypeDefinition reports whether typeName declares a type object
// (IFCWALLTYPE, IFCDOORSTYLE, ...). Type objects carry the shared property
// sets their occurrences inherit. Presentation styles (IFCSURFACESTYLE and
// friends) are not type objects, and neither is IFCRELDEFINESBYTYPE despite
// the suffix.
func IsTypeDefinition(typeName string) bool {
	switch typeName {
	case "IFCDOORSTYLE", "IFCWINDOWSTYLE", "IFCTYPEPRODUCT", "IFCTYPEOBJECT":
		return true
	}
	return strings.HasPrefix(typeName, "IFC") &&
		strings.HasSuffix(typeName, "TYPE") &&
		!strings.HasPrefix(typeName, "IFCREL")
}

// IsValueSet reports whether typeName is a property set or element quantity
// container.
func IsValueSet(typeName string) bool {
	_, ok := valueSetTypes[typeName]
	return ok
}

// IsPropertySet reports whether typeName is the property set container.
func IsPropertySet(typeName string) bool {
	return typeName == "IFCPROPERTYSET"
}

// IsQuantitySet reports whether typeName is the element quantity container.
func IsQuantitySet(typeName string) bool {
	return typeName == "IFCELEMENTQUANTITY"
}
