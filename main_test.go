package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geos"
)

func TestImportFeature(t *testing.T) {
	t.Run("Should pass a single feature through", func(t *testing.T) {
		feature, err := importFeature([]byte(`{"type":"Feature","properties":{"name":"Bhopal"},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}}`))
		require.NoError(t, err)
		assert.Equal(t, "Bhopal", feature.Name())
	})

	t.Run("Should dissolve a feature collection into one feature", func(t *testing.T) {
		feature, err := importFeature([]byte(`{"type":"FeatureCollection","features":[
			{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2],[0,2],[0,0]]]}},
			{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[1,1],[3,1],[3,3],[1,3],[1,1]]]}}
		]}`))
		require.NoError(t, err)
		assert.Equal(t, "uploaded", feature.Name())

		geom, err := feature.Geom()
		require.NoError(t, err)
		assert.Equal(t, geos.TypeIDPolygon, geom.TypeID())
		assert.InDelta(t, 7.0, geom.Area(), 1e-9)
	})

	t.Run("Should reject a non-polygonal feature", func(t *testing.T) {
		_, err := importFeature([]byte(`{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,2]}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be Polygon or MultiPolygon")
	})

	t.Run("Should reject other GeoJSON structures", func(t *testing.T) {
		_, err := importFeature([]byte(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid GeoJSON structure")
	})

	t.Run("Should reject malformed documents", func(t *testing.T) {
		_, err := importFeature([]byte(`not geojson`))
		require.Error(t, err)
	})

	t.Run("Should reject a feature without geometry", func(t *testing.T) {
		_, err := importFeature([]byte(`{"type":"Feature","properties":{},"geometry":null}`))
		require.Error(t, err)
	})
}
