package handlers

import (
	"encoding/json"
	"testing"

	"github.com/bsaid97/go-boundary-editor/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geos"
)

func TestCascadedUnion(t *testing.T) {
	t.Run("Should fail on an empty set", func(t *testing.T) {
		_, err := CascadedUnion(nil)
		require.Error(t, err)
	})

	t.Run("Should return a single geometry unchanged", func(t *testing.T) {
		geom := mustGeom(t, square(0, 0, 1))
		got, err := CascadedUnion([]*geos.Geom{geom})
		require.NoError(t, err)
		assert.Same(t, geom, got)
	})

	t.Run("Should dissolve many touching squares into one polygon", func(t *testing.T) {
		var geoms []*geos.Geom
		for i := 0; i < 4; i++ {
			geoms = append(geoms, mustGeom(t, square(float64(i), 0, 1)))
		}
		got, err := CascadedUnion(geoms)
		require.NoError(t, err)
		assert.Equal(t, geos.TypeIDPolygon, got.TypeID())
		assert.InDelta(t, 4.0, got.Area(), 1e-9)
	})
}

func TestDissolveCollection(t *testing.T) {
	t.Run("Should merge overlapping features into one named feature", func(t *testing.T) {
		fc := geojson.FeatureCollection{
			Type: "FeatureCollection",
			Features: []geojson.Feature{
				geojson.NewFeature("a", square(0, 0, 2)),
				geojson.NewFeature("b", square(1, 1, 2)),
			},
		}

		got, err := DissolveCollection(fc, "uploaded")
		require.NoError(t, err)
		assert.Equal(t, "uploaded", got.Name())

		gotGeom, err := got.Geom()
		require.NoError(t, err)
		assert.Equal(t, geos.TypeIDPolygon, gotGeom.TypeID())
		assert.InDelta(t, 7.0, gotGeom.Area(), 1e-9)
	})

	t.Run("Should skip non-polygonal features", func(t *testing.T) {
		fc := geojson.FeatureCollection{
			Type: "FeatureCollection",
			Features: []geojson.Feature{
				geojson.NewFeature("pt", json.RawMessage(`{"type":"Point","coordinates":[1,2]}`)),
				geojson.NewFeature("a", square(0, 0, 1)),
			},
		}

		got, err := DissolveCollection(fc, "uploaded")
		require.NoError(t, err)

		gotGeom, err := got.Geom()
		require.NoError(t, err)
		assert.InDelta(t, 1.0, gotGeom.Area(), 1e-9)
	})

	t.Run("Should fail on an empty collection", func(t *testing.T) {
		_, err := DissolveCollection(geojson.FeatureCollection{Type: "FeatureCollection"}, "uploaded")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no polygonal features")
	})

	t.Run("Should fail when no feature is polygonal", func(t *testing.T) {
		fc := geojson.FeatureCollection{
			Type: "FeatureCollection",
			Features: []geojson.Feature{
				geojson.NewFeature("pt", json.RawMessage(`{"type":"Point","coordinates":[1,2]}`)),
			},
		}
		_, err := DissolveCollection(fc, "uploaded")
		require.Error(t, err)
	})
}
