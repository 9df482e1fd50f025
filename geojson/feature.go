package geojson

import (
	"encoding/json"
	"fmt"

	"github.com/twpayne/go-geos"
)

// Feature struct: Holds geometry + properties. The geometry stays as raw
// JSON so coordinates pass through the service untouched.
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   json.RawMessage        `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// FeatureCollection struct: Holds multiple features
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// NewFeature wraps a geometry document in a named feature.
func NewFeature(name string, geometry json.RawMessage) Feature {
	return Feature{
		Type:       "Feature",
		Geometry:   geometry,
		Properties: map[string]interface{}{"name": name},
	}
}

// Name returns the feature's name property, or "" when it has none.
func (f Feature) Name() string {
	if v, ok := f.Properties["name"].(string); ok {
		return v
	}
	return ""
}

// Geom parses the feature geometry with GEOS.
func (f Feature) Geom() (*geos.Geom, error) {
	if len(f.Geometry) == 0 || string(f.Geometry) == "null" {
		return nil, fmt.Errorf("feature has no geometry")
	}
	return geos.NewGeomFromGeoJSON(string(f.Geometry))
}

// FromGeom wraps a GEOS geometry in a named feature.
func FromGeom(name string, geom *geos.Geom) Feature {
	return NewFeature(name, json.RawMessage(geom.ToGeoJSON(-1)))
}

// IsPolygonal reports whether a geometry is a Polygon or MultiPolygon.
func IsPolygonal(geom *geos.Geom) bool {
	if geom == nil {
		return false
	}
	return geom.TypeID() == geos.TypeIDPolygon || geom.TypeID() == geos.TypeIDMultiPolygon
}

// ExtractGeometry pulls the geometry document out of a drawn-shape record.
// Depending on the widget version a record arrives either as a full feature
// or as a bare geometry; anything else is reported as unusable.
func ExtractGeometry(record json.RawMessage) (json.RawMessage, bool) {
	if len(record) == 0 || string(record) == "null" {
		return nil, false
	}
	var probe struct {
		Type     string          `json:"type"`
		Geometry json.RawMessage `json:"geometry"`
	}
	if err := json.Unmarshal(record, &probe); err != nil {
		return nil, false
	}
	if len(probe.Geometry) > 0 && string(probe.Geometry) != "null" {
		return probe.Geometry, true
	}
	if isGeometryType(probe.Type) {
		return record, true
	}
	return nil, false
}

// ParseFeature decodes a single GeoJSON feature and checks the basics.
func ParseFeature(data []byte) (Feature, error) {
	var f Feature
	if err := json.Unmarshal(data, &f); err != nil {
		return Feature{}, fmt.Errorf("failed to parse feature: %v", err)
	}
	if f.Type != "Feature" {
		return Feature{}, fmt.Errorf("expected a Feature, got %q", f.Type)
	}
	if len(f.Geometry) == 0 || string(f.Geometry) == "null" {
		return Feature{}, fmt.Errorf("feature has no geometry")
	}
	if f.Properties == nil {
		f.Properties = map[string]interface{}{}
	}
	return f, nil
}

func isGeometryType(name string) bool {
	switch name {
	case "Point", "MultiPoint", "LineString", "MultiLineString",
		"Polygon", "MultiPolygon", "GeometryCollection":
		return true
	}
	return false
}
