package utils

import (
	"fmt"
	"math"

	"github.com/twpayne/go-geos"
)

// PRECISION is the number of coordinate decimals kept on export. Seven
// decimals is roughly a centimeter at the equator.
var PRECISION int = 7

// RoundGeometry rewrites a (Multi)Polygon with every coordinate rounded to
// PRECISION decimals. Degenerate interior rings produced by the rounding
// are dropped.
func RoundGeometry(geom *geos.Geom) (*geos.Geom, error) {
	if geom == nil {
		return nil, fmt.Errorf(`geometry is nil`)
	}

	switch geom.TypeID() {
	case geos.TypeIDPolygon:
		rounded := roundSinglePolygon(geom)
		if rounded == nil {
			return nil, fmt.Errorf("polygon collapsed while rounding")
		}
		return rounded, nil
	case geos.TypeIDMultiPolygon:
		polygons := make([]*geos.Geom, 0, geom.NumGeometries())
		for i := range geom.NumGeometries() {
			if rounded := roundSinglePolygon(geom.Geometry(i)); rounded != nil {
				polygons = append(polygons, rounded)
			}
		}
		if len(polygons) == 0 {
			return nil, fmt.Errorf("multipolygon collapsed while rounding")
		}
		if len(polygons) == 1 {
			return polygons[0], nil
		}
		return geos.NewCollection(geos.TypeIDMultiPolygon, polygons), nil
	default:
		return nil, fmt.Errorf("cannot round geometry of type %s", geom.Type())
	}
}

func roundSinglePolygon(polygon *geos.Geom) *geos.Geom {
	exterior := polygon.ExteriorRing()
	if exterior == nil || exterior.CoordSeq().Size() <= 3 {
		return nil
	}

	var rings [][][]float64
	rings = append(rings, roundRing(exterior))

	for r := range polygon.NumInteriorRings() {
		ring := polygon.InteriorRing(r)
		if ring.CoordSeq().Size() <= 3 {
			continue
		}
		ringCoords := roundRing(ring)
		// Rounding can pinch a small hole shut; keep it only if it still
		// forms a valid polygon on its own.
		testPolygon := geos.NewPolygon([][][]float64{ringCoords})
		if testPolygon.IsValid() {
			rings = append(rings, ringCoords)
		}
		testPolygon.Destroy()
	}

	return geos.NewPolygon(rings)
}

func roundRing(ring *geos.Geom) [][]float64 {
	seq := ring.CoordSeq()
	coords := make([][]float64, 0, seq.Size())
	for i := range seq.Size() {
		x, y := roundCoordinates(seq.X(i), seq.Y(i))
		coords = append(coords, []float64{x, y})
	}
	return coords
}

func roundCoordinates(x float64, y float64) (float64, float64) {
	return roundFloat(x, uint(PRECISION)), roundFloat(y, uint(PRECISION))
}

func roundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
