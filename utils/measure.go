package utils

import (
	"fmt"
	"math"

	"github.com/bsaid97/go-boundary-editor/geojson"
	"github.com/golang/geo/s2"
	geom "github.com/twpayne/go-geom"
	geomjson "github.com/twpayne/go-geom/encoding/geojson"
)

const earthRadiusKm = 6371.0088

// ViewMetadata tells the map widget where to look: centroid for centering,
// bounding box for the initial zoom, area for display.
type ViewMetadata struct {
	Center  [2]float64 `json:"center"` // [lon, lat]
	BBox    [4]float64 `json:"bbox"`   // [minLon, minLat, maxLon, maxLat]
	AreaKm2 float64    `json:"area_km2"`
}

// MeasureFeature computes view metadata for a polygonal feature.
func MeasureFeature(feature geojson.Feature) (ViewMetadata, error) {
	var g geom.T
	if err := geomjson.Unmarshal(feature.Geometry, &g); err != nil {
		return ViewMetadata{}, fmt.Errorf("failed to parse geometry: %v", err)
	}

	var meta ViewMetadata
	bounds := g.Bounds()
	meta.BBox = [4]float64{bounds.Min(0), bounds.Min(1), bounds.Max(0), bounds.Max(1)}

	switch t := g.(type) {
	case *geom.Polygon:
		_, cx, cy := polygonCentroid(t)
		meta.Center = [2]float64{cx, cy}
		meta.AreaKm2 = sphericalPolygonArea(t)
	case *geom.MultiPolygon:
		var weightSum, cxSum, cySum float64
		for i := 0; i < t.NumPolygons(); i++ {
			polygon := t.Polygon(i)
			weight, cx, cy := polygonCentroid(polygon)
			cxSum += cx * weight
			cySum += cy * weight
			weightSum += weight
			meta.AreaKm2 += sphericalPolygonArea(polygon)
		}
		if weightSum > 0 {
			meta.Center = [2]float64{cxSum / weightSum, cySum / weightSum}
		} else {
			meta.Center = bboxCenter(meta.BBox)
		}
	default:
		return ViewMetadata{}, fmt.Errorf("cannot measure geometry of type %T", g)
	}

	return meta, nil
}

// polygonCentroid is the planar area-weighted centroid, holes subtracted.
// Planar math is fine here: the centroid only centers a web map.
func polygonCentroid(p *geom.Polygon) (weight, cx, cy float64) {
	for i := 0; i < p.NumLinearRings(); i++ {
		area, x, y := ringCentroid(p.LinearRing(i).Coords())
		if i > 0 {
			area = -area
		}
		cx += x * area
		cy += y * area
		weight += area
	}
	if weight == 0 {
		bounds := p.Bounds()
		return 0, (bounds.Min(0) + bounds.Max(0)) / 2, (bounds.Min(1) + bounds.Max(1)) / 2
	}
	return weight, cx / weight, cy / weight
}

// ringCentroid returns the unsigned shoelace area of a closed ring and its
// centroid.
func ringCentroid(coords []geom.Coord) (area, cx, cy float64) {
	var a, sx, sy float64
	for i := 0; i < len(coords)-1; i++ {
		x0, y0 := coords[i].X(), coords[i].Y()
		x1, y1 := coords[i+1].X(), coords[i+1].Y()
		cross := x0*y1 - x1*y0
		a += cross
		sx += (x0 + x1) * cross
		sy += (y0 + y1) * cross
	}
	a /= 2
	if a == 0 {
		return 0, 0, 0
	}
	return math.Abs(a), sx / (6 * a), sy / (6 * a)
}

// sphericalPolygonArea measures one polygon on the sphere, holes
// subtracted, in square kilometers.
func sphericalPolygonArea(p *geom.Polygon) float64 {
	var steradians float64
	for i := 0; i < p.NumLinearRings(); i++ {
		area := ringSteradians(p.LinearRing(i).Coords())
		if i == 0 {
			steradians += area
		} else {
			steradians -= area
		}
	}
	if steradians < 0 {
		steradians = 0
	}
	return steradians * earthRadiusKm * earthRadiusKm
}

func ringSteradians(coords []geom.Coord) float64 {
	// GeoJSON rings repeat the first coordinate; s2 loops must not.
	if len(coords) < 4 {
		return 0
	}
	points := make([]s2.Point, 0, len(coords)-1)
	for _, c := range coords[:len(coords)-1] {
		points = append(points, s2.PointFromLatLng(s2.LatLngFromDegrees(c.Y(), c.X())))
	}
	loop := s2.LoopFromPoints(points)
	loop.Normalize()
	return loop.Area()
}

func bboxCenter(bbox [4]float64) [2]float64 {
	return [2]float64{(bbox[0] + bbox[2]) / 2, (bbox[1] + bbox[3]) / 2}
}
