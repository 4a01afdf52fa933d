package model

import (
	"github.com/strata-bim/strata/internal/ifc"
	"github.com/strata-bim/strata/internal/step"
)

// Material is the resolved material assignment of one entity. Type tells
// which collection field is populated: Material (Name only), LayerSet,
// ProfileSet, ConstituentSet or List.
type Material struct {
	Type         string                `json:"type"`
	Name         string                `json:"name,omitempty"`
	Layers       []MaterialLayer       `json:"layers,omitempty"`
	Profiles     []MaterialProfile     `json:"profiles,omitempty"`
	Constituents []MaterialConstituent `json:"constituents,omitempty"`
	Materials    []string              `json:"materials,omitempty"`
}

// MaterialLayer is one layer of a layer set, in set order.
type MaterialLayer struct {
	Material   string  `json:"material,omitempty"`
	Thickness  float64 `json:"thickness"`
	Ventilated bool    `json:"ventilated,omitempty"`
}

// MaterialProfile is one profile of a profile set.
type MaterialProfile struct {
	Name     string `json:"name,omitempty"`
	Material string `json:"material,omitempty"`
}

// MaterialConstituent is one constituent of a constituent set.
type MaterialConstituent struct {
	Name     string  `json:"name,omitempty"`
	Material string  `json:"material,omitempty"`
	Fraction float64 `json:"fraction,omitempty"`
}

// Material resolves the material assignment of id, preferring a direct
// association and falling back to the defining type's. Usage records chain
// to the set they wrap; a malformed reference loop ends the walk with nil.
func (s *Store) Material(id uint32) *Material {
	defID, ok := s.materialDefinition(id)
	if !ok {
		return nil
	}
	return s.resolveMaterial(defID, make(map[uint32]bool))
}

func (s *Store) materialDefinition(id uint32) (uint32, bool) {
	if defID, ok := s.material[id]; ok {
		return defID, true
	}
	for _, typeID := range s.graph.Related(id, ifc.RelDefinesByType, Inverse) {
		if defID, ok := s.material[typeID]; ok {
			return defID, true
		}
	}
	return 0, false
}

// resolveMaterial follows usage indirections until a concrete definition
// appears, then dispatches on its declared type.
func (s *Store) resolveMaterial(defID uint32, visited map[uint32]bool) *Material {
	var out *Material
	walkChain(defID, visited, func(id uint32) (uint32, bool) {
		rec, ok := s.dec.DecodeID(id)
		if !ok {
			return 0, false
		}
		switch rec.Type {
		case "IFCMATERIALLAYERSETUSAGE":
			return rec.Ref(ifc.AttrLayerSetUsageFor)
		case "IFCMATERIALPROFILESETUSAGE":
			return rec.Ref(ifc.AttrProfileSetUsageFor)
		}
		out = s.materialFrom(rec)
		return 0, false
	})
	return out
}

// materialFrom builds the result for one concrete material definition.
// Unknown definition types yield nil.
func (s *Store) materialFrom(rec step.Entity) *Material {
	switch rec.Type {
	case "IFCMATERIAL":
		m := &Material{Type: "Material"}
		m.Name, _ = rec.Str(ifc.AttrMaterialName)
		return m

	case "IFCMATERIALLAYERSET":
		m := &Material{Type: "LayerSet"}
		m.Name, _ = rec.Str(ifc.AttrLayerSetName)
		for _, layerID := range refList(rec, ifc.AttrLayerSetLayers) {
			layer, ok := s.dec.DecodeID(layerID)
			if !ok || layer.Type != "IFCMATERIALLAYER" {
				continue
			}
			l := MaterialLayer{Material: s.materialName(layer, ifc.AttrLayerMaterial)}
			if v, ok := layer.Attr(ifc.AttrLayerThickness); ok {
				l.Thickness, _ = scalarFloat(v)
			}
			if v, ok := layer.Attr(ifc.AttrLayerVentilated); ok {
				l.Ventilated, _ = unwrap(v).Bool()
			}
			m.Layers = append(m.Layers, l)
		}
		return m

	case "IFCMATERIALPROFILESET":
		m := &Material{Type: "ProfileSet"}
		m.Name, _ = rec.Str(ifc.AttrProfileSetName)
		for _, profID := range refList(rec, ifc.AttrProfileSetProfiles) {
			prof, ok := s.dec.DecodeID(profID)
			if !ok || prof.Type != "IFCMATERIALPROFILE" {
				continue
			}
			p := MaterialProfile{Material: s.materialName(prof, ifc.AttrProfileMaterial)}
			p.Name, _ = prof.Str(ifc.AttrProfileName)
			m.Profiles = append(m.Profiles, p)
		}
		return m

	case "IFCMATERIALCONSTITUENTSET":
		m := &Material{Type: "ConstituentSet"}
		m.Name, _ = rec.Str(ifc.AttrConstituentSetName)
		for _, partID := range refList(rec, ifc.AttrConstituentSetParts) {
			part, ok := s.dec.DecodeID(partID)
			if !ok || part.Type != "IFCMATERIALCONSTITUENT" {
				continue
			}
			c := MaterialConstituent{Material: s.materialName(part, ifc.AttrConstituentMaterial)}
			c.Name, _ = part.Str(ifc.AttrConstituentName)
			if v, ok := part.Attr(ifc.AttrConstituentFraction); ok {
				c.Fraction, _ = scalarFloat(v)
			}
			m.Constituents = append(m.Constituents, c)
		}
		return m

	case "IFCMATERIALLIST":
		m := &Material{Type: "List"}
		for _, matID := range refList(rec, ifc.AttrMaterialListItems) {
			mat, ok := s.dec.DecodeID(matID)
			if !ok || mat.Type != "IFCMATERIAL" {
				continue
			}
			if name, ok := mat.Str(ifc.AttrMaterialName); ok {
				m.Materials = append(m.Materials, name)
			}
		}
		return m
	}
	return nil
}

// materialName resolves a material reference attribute to its display name.
func (s *Store) materialName(rec step.Entity, attr int) string {
	id, ok := rec.Ref(attr)
	if !ok {
		return ""
	}
	mat, ok := s.dec.DecodeID(id)
	if !ok {
		return ""
	}
	name, _ := mat.Str(ifc.AttrMaterialName)
	return name
}
