package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/strata-bim/strata/internal/ifc"
	"github.com/strata-bim/strata/internal/step"
)

// Property is one named value inside a property set. Type names the value
// shape; Value holds a Go scalar for single values and a rendered string
// for the composite shapes.
type Property struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// PropertySet is one resolved property container.
type PropertySet struct {
	ID         uint32     `json:"id"`
	Name       string     `json:"name"`
	Properties []Property `json:"properties"`
}

// Properties resolves every property set attached to id, both its own and
// those inherited from the type objects defining it. A set bound locally
// shadows a type-level set of the same name. Sets resolve fresh on every
// call; nothing is cached between calls.
func (s *Store) Properties(id uint32) []PropertySet {
	var out []PropertySet
	byName := make(map[string]bool)
	for _, setID := range s.candidateIDs(id, s.directPropertySets) {
		ps, ok := s.propertySet(setID)
		if !ok || byName[ps.Name] {
			continue
		}
		byName[ps.Name] = true
		out = append(out, ps)
	}
	return out
}

// directPropertySets lists the property set ids bound straight to id,
// including the shared sets a type object declares inline.
func (s *Store) directPropertySets(id uint32) []uint32 {
	var ids []uint32
	if s.propSets != nil {
		ids = cloneIDs(s.propSets[id])
	} else {
		for _, defID := range s.graph.Related(id, ifc.RelDefinesByProperties, Inverse) {
			if _, ok := s.eagerProps[defID]; ok {
				ids = append(ids, defID)
			}
		}
	}
	if s.index.IsTypeDefinition(id) {
		ids = append(ids, s.typeSharedSets(id, ifc.IsPropertySet)...)
	}
	return ids
}

// typeSharedSets reads the set list a type object carries inline, filtered
// to containers matching want.
func (s *Store) typeSharedSets(typeID uint32, want func(string) bool) []uint32 {
	ent, ok := s.dec.DecodeID(typeID)
	if !ok {
		return nil
	}
	items, ok := ent.List(ifc.AttrTypeHasPropertySets)
	if !ok {
		return nil
	}
	var ids []uint32
	for _, it := range items {
		setID, ok := it.Ref()
		if !ok {
			continue
		}
		if t, ok := s.index.TypeOf(setID); ok && want(t) {
			ids = append(ids, setID)
		}
	}
	return ids
}

// propertySet materializes one set by id, from the eager table when one was
// built, otherwise by decoding the container and each member record.
func (s *Store) propertySet(setID uint32) (PropertySet, bool) {
	if s.eagerProps != nil {
		ps, ok := s.eagerProps[setID]
		return ps, ok
	}
	ent, ok := s.dec.DecodeID(setID)
	if !ok || !ifc.IsPropertySet(ent.Type) {
		return PropertySet{}, false
	}
	return s.propertySetFrom(ent)
}

func (s *Store) propertySetFrom(ent step.Entity) (PropertySet, bool) {
	name, ok := ent.Str(ifc.AttrPsetName)
	if !ok {
		return PropertySet{}, false
	}
	ps := PropertySet{ID: ent.ID, Name: name}
	members, _ := ent.List(ifc.AttrPsetHasProperties)
	for _, m := range members {
		memberID, ok := m.Ref()
		if !ok {
			continue
		}
		rec, ok := s.dec.DecodeID(memberID)
		if !ok {
			continue
		}
		if p, ok := decodeProperty(rec); ok {
			ps.Properties = append(ps.Properties, p)
		}
	}
	return ps, true
}

// decodeProperty turns one property record into its reported shape. Unknown
// property types and valueless records report ok=false, so a half-written
// property disappears rather than surfacing as an empty value.
func decodeProperty(rec step.Entity) (Property, bool) {
	name, ok := rec.Str(ifc.AttrPropName)
	if !ok || name == "" {
		return Property{}, false
	}
	p := Property{Name: name}
	switch rec.Type {
	case "IFCPROPERTYSINGLEVALUE":
		v, ok := rec.Attr(ifc.AttrPropSingleValue)
		if !ok || v.IsNull() {
			return Property{}, false
		}
		p.Value, p.Type = scalarValue(v)
	case "IFCPROPERTYENUMERATEDVALUE":
		items, ok := rec.List(ifc.AttrPropEnumValues)
		if !ok || len(items) == 0 {
			return Property{}, false
		}
		p.Type = "enum"
		p.Value = joinScalars(items)
	case "IFCPROPERTYBOUNDEDVALUE":
		upper, _ := rec.Attr(ifc.AttrPropUpperBound)
		lower, _ := rec.Attr(ifc.AttrPropLowerBound)
		if upper.IsNull() && lower.IsNull() {
			return Property{}, false
		}
		p.Type = "bounded"
		bounds := fmt.Sprintf("[%s – %s]", formatScalar(lower), formatScalar(upper))
		if set, ok := rec.Attr(ifc.AttrPropSetPoint); ok && !set.IsNull() {
			bounds = formatScalar(set) + " " + bounds
		}
		p.Value = bounds
	case "IFCPROPERTYLISTVALUE":
		items, ok := rec.List(ifc.AttrPropListValues)
		if !ok || len(items) == 0 {
			return Property{}, false
		}
		p.Type = "list"
		p.Value = joinScalars(items)
	case "IFCPROPERTYTABLEVALUE":
		rows, _ := rec.List(ifc.AttrPropTableDefining)
		p.Type = "table"
		p.Value = fmt.Sprintf("(%d rows)", len(rows))
	case "IFCPROPERTYREFERENCEVALUE":
		ref, ok := rec.Ref(ifc.AttrPropReferencedP)
		if !ok {
			return Property{}, false
		}
		p.Type = "reference"
		p.Value = "#" + strconv.FormatUint(uint64(ref), 10)
	default:
		return Property{}, false
	}
	return p, true
}

// scalarValue maps a decoded attribute to a Go value and shape label. The
// decoder decays typed wrappers to lists headed by the wrapper name; only
// the payload matters here, with booleans keeping their wrapper-given
// meaning.
func scalarValue(v step.Value) (any, string) {
	v = unwrap(v)
	switch v.Kind {
	case step.KindInt:
		return v.IntVal, "integer"
	case step.KindFloat:
		return v.FloatVal, "number"
	case step.KindString:
		return v.StrVal, "string"
	case step.KindEnum:
		if b, ok := v.Bool(); ok {
			return b, "boolean"
		}
		return v.StrVal, "enum"
	case step.KindRef:
		return "#" + strconv.FormatUint(uint64(v.RefID), 10), "reference"
	}
	return v.String(), "unknown"
}

// unwrap strips one typed-wrapper layer: a decayed wrapper is a two-element
// list whose head names the wrapper type.
func unwrap(v step.Value) step.Value {
	if v.Kind != step.KindList || len(v.Items) != 2 {
		return v
	}
	if head := v.Items[0]; head.Kind != step.KindString || !strings.HasPrefix(head.StrVal, "IFC") {
		return v
	}
	return v.Items[1]
}

// scalarFloat reads a numeric value through any typed wrapper.
func scalarFloat(v step.Value) (float64, bool) {
	return unwrap(v).Float()
}

// formatScalar renders one attribute for display inside a composite value.
func formatScalar(v step.Value) string {
	v = unwrap(v)
	switch v.Kind {
	case step.KindNull, step.KindDerived:
		return ""
	case step.KindString:
		return v.StrVal
	case step.KindEnum:
		return v.StrVal
	case step.KindInt:
		return strconv.FormatInt(v.IntVal, 10)
	case step.KindFloat:
		return strconv.FormatFloat(v.FloatVal, 'g', -1, 64)
	case step.KindRef:
		return "#" + strconv.FormatUint(uint64(v.RefID), 10)
	}
	return v.String()
}

func joinScalars(items []step.Value) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, formatScalar(it))
	}
	return strings.Join(parts, ", ")
}
