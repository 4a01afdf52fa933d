package ifc

// RelKind enumerates the relationship record kinds the store captures. The
// set is closed: records of any other IFCREL type stay uncategorized and
// produce no edges.
type RelKind uint8

const (
	RelAggregates RelKind = iota
	RelNests
	RelContainedInSpatialStructure
	RelDefinesByProperties
	RelDefinesByType
	RelAssociatesMaterial
	RelAssociatesClassification
	RelAssociatesDocument
	RelVoidsElement
	RelFillsElement
	RelSpaceBoundary
	RelConnectsElements
	RelServicesBuildings
	RelCoversElements

	NumRelKinds int = iota
)

var relKindNames = [NumRelKinds]string{
	RelAggregates:                  "Aggregates",
	RelNests:                       "Nests",
	RelContainedInSpatialStructure: "ContainedInSpatialStructure",
	RelDefinesByProperties:         "DefinesByProperties",
	RelDefinesByType:               "DefinesByType",
	RelAssociatesMaterial:          "AssociatesMaterial",
	RelAssociatesClassification:    "AssociatesClassification",
	RelAssociatesDocument:          "AssociatesDocument",
	RelVoidsElement:                "VoidsElement",
	RelFillsElement:                "FillsElement",
	RelSpaceBoundary:               "SpaceBoundary",
	RelConnectsElements:            "ConnectsElements",
	RelServicesBuildings:           "ServicesBuildings",
	RelCoversElements:              "CoversElements",
}

func (k RelKind) String() string {
	if int(k) >= NumRelKinds {
		return "Unknown"
	}
	return relKindNames[k]
}

// RelLayout gives the positional attribute indexes of one relationship kind.
// Relating is the index of the relating (owning) side, Related the index of
// the related side; Related may hold a single reference or a list, and a
// single reference is treated as a one-element list.
//
// Most kinds encode the relating object before the related objects. Exactly
// three kinds flip that order in the file text: ContainedInSpatialStructure,
// DefinesByProperties and DefinesByType. Get one of them backwards and every
// edge of that kind points the wrong way, so the layouts live in this one
// table and nowhere else.
type RelLayout struct {
	Relating int
	Related  int
	// Inverted marks the three flipped kinds. The generic decode path
	// special-cases exactly these; associations never use the generic path.
	Inverted bool
	// Association marks the three lookaside-routed kinds, decoded by the
	// dedicated association routine rather than the generic path.
	Association bool
}

var relLayouts = [NumRelKinds]RelLayout{
	RelAggregates:                  {Relating: 4, Related: 5},
	RelNests:                       {Relating: 4, Related: 5},
	RelContainedInSpatialStructure: {Relating: 5, Related: 4, Inverted: true},
	RelDefinesByProperties:         {Relating: 5, Related: 4, Inverted: true},
	RelDefinesByType:               {Relating: 5, Related: 4, Inverted: true},
	RelAssociatesMaterial:          {Relating: 5, Related: 4, Association: true},
	RelAssociatesClassification:    {Relating: 5, Related: 4, Association: true},
	RelAssociatesDocument:          {Relating: 5, Related: 4, Association: true},
	RelVoidsElement:                {Relating: 4, Related: 5},
	RelFillsElement:                {Relating: 4, Related: 5},
	RelSpaceBoundary:               {Relating: 4, Related: 5},
	RelConnectsElements:            {Relating: 5, Related: 6}, // geometry sits at 4
	RelServicesBuildings:           {Relating: 4, Related: 5},
	RelCoversElements:              {Relating: 4, Related: 5},
}

// Layout returns the attribute layout for k.
func (k RelKind) Layout() RelLayout {
	return relLayouts[k]
}

// IsAssociation reports whether k routes into a lookaside map
// (classification, material or document).
func (k RelKind) IsAssociation() bool {
	return relLayouts[k].Association
}

// IsDefinition reports whether k attaches property or type definitions.
func (k RelKind) IsDefinition() bool {
	return k == RelDefinesByProperties || k == RelDefinesByType
}

// relKindsByType maps record type names to kinds. The space-boundary and
// connects subtypes share their parents' relating/related layout.
var relKindsByType = map[string]RelKind{
	"IFCRELAGGREGATES":                  RelAggregates,
	"IFCRELNESTS":                       RelNests,
	"IFCRELCONTAINEDINSPATIALSTRUCTURE": RelContainedInSpatialStructure,
	"IFCRELDEFINESBYPROPERTIES":         RelDefinesByProperties,
	"IFCRELDEFINESBYTYPE":               RelDefinesByType,
	"IFCRELASSOCIATESMATERIAL":          RelAssociatesMaterial,
	"IFCRELASSOCIATESCLASSIFICATION":    RelAssociatesClassification,
	"IFCRELASSOCIATESDOCUMENT":          RelAssociatesDocument,
	"IFCRELVOIDSELEMENT":                RelVoidsElement,
	"IFCRELFILLSELEMENT":                RelFillsElement,
	"IFCRELSPACEBOUNDARY":               RelSpaceBoundary,
	"IFCRELSPACEBOUNDARY1STLEVEL":       RelSpaceBoundary,
	"IFCRELSPACEBOUNDARY2NDLEVEL":       RelSpaceBoundary,
	"IFCRELCONNECTSELEMENTS":            RelConnectsElements,
	"IFCRELCONNECTSPATHELEMENTS":        RelConnectsElements,
	"IFCRELSERVICESBUILDINGS":           RelServicesBuildings,
	"IFCRELCOVERSBLDGELEMENTS":          RelCoversElements,
}

// ParseRelKind maps an upper-cased record type name to its kind.
func ParseRelKind(typeName string) (RelKind, bool) {
	k, ok := relKindsByType[typeName]
	return k, ok
}
