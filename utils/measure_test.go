package utils

import (
	"encoding/json"
	"testing"

	"github.com/bsaid97/go-boundary-editor/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureFeature(t *testing.T) {
	t.Run("Should center on a unit square at the equator", func(t *testing.T) {
		feature := geojson.NewFeature("sq", json.RawMessage(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}`))

		meta, err := MeasureFeature(feature)
		require.NoError(t, err)

		assert.InDelta(t, 0.5, meta.Center[0], 1e-9)
		assert.InDelta(t, 0.5, meta.Center[1], 1e-9)
		assert.Equal(t, [4]float64{0, 0, 1, 1}, meta.BBox)
		// one square degree at the equator is about 12364 km^2
		assert.InDelta(t, 12364, meta.AreaKm2, 60)
	})

	t.Run("Should subtract holes from the area", func(t *testing.T) {
		solid := geojson.NewFeature("solid", json.RawMessage(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}`))
		holed := geojson.NewFeature("holed", json.RawMessage(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]],[[0.25,0.25],[0.75,0.25],[0.75,0.75],[0.25,0.75],[0.25,0.25]]]}`))

		solidMeta, err := MeasureFeature(solid)
		require.NoError(t, err)
		holedMeta, err := MeasureFeature(holed)
		require.NoError(t, err)

		assert.Less(t, holedMeta.AreaKm2, solidMeta.AreaKm2)
		assert.InDelta(t, solidMeta.AreaKm2*0.75, holedMeta.AreaKm2, 10)
	})

	t.Run("Should measure a multipolygon as a whole", func(t *testing.T) {
		feature := geojson.NewFeature("mp", json.RawMessage(`{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[1,1],[0,1],[0,0]]],[[[2,0],[3,0],[3,1],[2,1],[2,0]]]]}`))

		meta, err := MeasureFeature(feature)
		require.NoError(t, err)

		assert.InDelta(t, 1.5, meta.Center[0], 1e-9)
		assert.InDelta(t, 0.5, meta.Center[1], 1e-9)
		assert.Equal(t, [4]float64{0, 0, 3, 1}, meta.BBox)
		assert.InDelta(t, 2*12364, meta.AreaKm2, 120)
	})

	t.Run("Should refuse non-polygonal geometry", func(t *testing.T) {
		feature := geojson.NewFeature("pt", json.RawMessage(`{"type":"Point","coordinates":[1,2]}`))
		_, err := MeasureFeature(feature)
		require.Error(t, err)
	})

	t.Run("Should refuse malformed geometry", func(t *testing.T) {
		feature := geojson.NewFeature("bad", json.RawMessage(`{"type":"Polygon"`))
		_, err := MeasureFeature(feature)
		require.Error(t, err)
	})
}
