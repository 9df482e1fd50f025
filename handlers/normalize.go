package handlers

import (
	"encoding/json"

	"github.com/bsaid97/go-boundary-editor/geojson"
	"github.com/twpayne/go-geos"
)

// EditorOutput is the raw payload the map draw widget reports after a user
// interaction. Field names vary between widget versions, so every field is
// optional and records may be full features or bare geometries.
type EditorOutput struct {
	AllDrawings       []json.RawMessage `json:"all_drawings"`
	AllFeatures       []json.RawMessage `json:"all_features"`
	LastActiveDrawing json.RawMessage   `json:"last_active_drawing"`
}

// NormalizeDrawnFeatures turns widget output into a single (Multi)Polygon
// feature. Polygonal drawings are dissolved together; malformed or
// non-polygonal records are dropped. When nothing usable was drawn, or the
// dissolve degenerates into something non-polygonal, the fallback feature
// is returned unchanged. The result always keeps the fallback's name.
func NormalizeDrawnFeatures(output EditorOutput, fallback geojson.Feature) geojson.Feature {
	candidates := collectCandidates(output)

	geoms := make([]*geos.Geom, 0, len(candidates))
	for _, candidate := range candidates {
		geom, err := geos.NewGeomFromGeoJSON(string(candidate))
		if err != nil {
			continue
		}
		if !geom.IsValid() {
			geom = geom.MakeValid()
		}
		if geojson.IsPolygonal(geom) {
			geoms = append(geoms, geom)
		}
	}

	// Nothing drawn, keep the original boundary
	if len(geoms) == 0 {
		return fallback
	}

	merged, err := CascadedUnion(geoms)
	if err != nil || merged == nil {
		return fallback
	}
	if !geojson.IsPolygonal(merged) {
		return fallback
	}

	return geojson.FromGeom(fallback.Name(), merged)
}

// collectCandidates gathers geometry documents from every shape-list field
// the widget is known to emit, plus the last active drawing when present.
func collectCandidates(output EditorOutput) []json.RawMessage {
	var candidates []json.RawMessage
	for _, records := range [][]json.RawMessage{output.AllDrawings, output.AllFeatures} {
		for _, record := range records {
			if geometry, ok := geojson.ExtractGeometry(record); ok {
				candidates = append(candidates, geometry)
			}
		}
	}
	if geometry, ok := geojson.ExtractGeometry(output.LastActiveDrawing); ok {
		candidates = append(candidates, geometry)
	}
	return candidates
}
