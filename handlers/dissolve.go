package handlers

import (
	"fmt"

	"github.com/bsaid97/go-boundary-editor/geojson"
	"github.com/twpayne/go-geos"
)

// CascadedUnion dissolves a set of geometries into one with a divide and
// conquer union.
func CascadedUnion(geometries []*geos.Geom) (*geos.Geom, error) {
	if len(geometries) == 0 {
		return nil, fmt.Errorf("no geometries to union")
	}
	if len(geometries) == 1 {
		return geometries[0], nil
	}

	mid := len(geometries) / 2
	left, err := CascadedUnion(geometries[:mid])
	if err != nil {
		return nil, err
	}
	right, err := CascadedUnion(geometries[mid:])
	if err != nil {
		return nil, err
	}

	result := left.Union(right)

	// Clean up to free memory
	left.Destroy()
	right.Destroy()

	return result, nil
}

// DissolveCollection merges every polygonal feature of a collection into a
// single feature carrying the given name. Non-polygonal and unparseable
// features are skipped; a collection without any polygonal feature is an
// error.
func DissolveCollection(fc geojson.FeatureCollection, name string) (geojson.Feature, error) {
	geoms := make([]*geos.Geom, 0, len(fc.Features))
	for _, f := range fc.Features {
		geom, err := f.Geom()
		if err != nil {
			continue
		}
		if !geom.IsValid() {
			geom = geom.MakeValid()
		}
		if geojson.IsPolygonal(geom) {
			geoms = append(geoms, geom.Buffer(0, 0))
		}
	}
	if len(geoms) == 0 {
		return geojson.Feature{}, fmt.Errorf("no polygonal features in collection")
	}

	merged, err := CascadedUnion(geoms)
	if err != nil {
		return geojson.Feature{}, fmt.Errorf("failed to dissolve collection: %v", err)
	}
	if !geojson.IsPolygonal(merged) {
		return geojson.Feature{}, fmt.Errorf("dissolved geometry is %s, expected Polygon or MultiPolygon", merged.Type())
	}

	return geojson.FromGeom(name, merged), nil
}
