// Package ifc carries the schema knowledge the store needs: version
// detection, the type taxonomy that buckets records during ingestion, the
// relationship kinds with their attribute layouts, the positional attribute
// indexes of the entity families the extractors decode, and length-unit
// resolution. Everything here is data about the exchange format, not
// behavior; the model package supplies the behavior.
package ifc

import "bytes"

// Version is an exchange schema version from the closed set this store
// recognizes. Unrecognized markers fall back to IFC4.
type Version string

const (
	IFC2X3 Version = "IFC2X3"
	IFC4   Version = "IFC4"
	IFC4X1 Version = "IFC4X1"
	IFC4X3 Version = "IFC4X3"
)

// schemaProbeSize bounds how far DetectSchemaVersion looks. The FILE_SCHEMA
// header line sits within the first few hundred bytes of well-formed files.
const schemaProbeSize = 2000

// schemaMarkers is ordered longest first so IFC4X3 and IFC4X1 are not
// mistaken for their IFC4 prefix.
var schemaMarkers = []Version{IFC4X3, IFC4X1, IFC2X3, IFC4}

// DetectSchemaVersion sniffs the FILE_SCHEMA header marker in the first
// schemaProbeSize bytes. It never fails: a missing or unknown marker yields
// IFC4.
func DetectSchemaVersion(buf []byte) Version {
	probe := buf
	if len(probe) > schemaProbeSize {
		probe = probe[:schemaProbeSize]
	}
	i := bytes.Index(probe, []byte("FILE_SCHEMA"))
	if i < 0 {
		return IFC4
	}
	rest := probe[i:]
	if j := bytes.IndexByte(rest, ';'); j >= 0 {
		rest = rest[:j]
	}
	for _, v := range schemaMarkers {
		if bytes.Contains(rest, []byte(v)) {
			return v
		}
	}
	return IFC4
}
