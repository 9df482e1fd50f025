package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bsaid97/go-boundary-editor/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testGeometry = json.RawMessage(`{"type":"Polygon","coordinates":[[[77,12],[78,12],[78,13],[77,13],[77,12]]]}`)

func TestSaveFeature(t *testing.T) {
	t.Run("Should write a timestamped file that parses back equal", func(t *testing.T) {
		dir := t.TempDir()
		feature := geojson.NewFeature("Bengaluru, India", testGeometry)

		path, err := SaveFeature(feature, dir)
		require.NoError(t, err)

		base := filepath.Base(path)
		assert.True(t, strings.HasPrefix(base, "Bengaluru,_India_edited_"), base)
		assert.True(t, strings.HasSuffix(base, ".geojson"), base)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		parsed, err := geojson.ParseFeature(data)
		require.NoError(t, err)
		assert.Equal(t, feature.Name(), parsed.Name())

		originalGeom, err := feature.Geom()
		require.NoError(t, err)
		parsedGeom, err := parsed.Geom()
		require.NoError(t, err)
		assert.True(t, originalGeom.Equals(parsedGeom))
	})

	t.Run("Should create the save directory when missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "saved")
		_, err := SaveFeature(geojson.NewFeature("a", testGeometry), dir)
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("Should fall back to a generic name for unnamed features", func(t *testing.T) {
		path, err := SaveFeature(geojson.Feature{Type: "Feature", Geometry: testGeometry}, t.TempDir())
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(filepath.Base(path), "boundary_edited_"))
	})
}

func TestDownloadFilename(t *testing.T) {
	t.Run("Should replace spaces in the name", func(t *testing.T) {
		feature := geojson.NewFeature("Bhopal, India", testGeometry)
		assert.Equal(t, "Bhopal,_India_edited.geojson", DownloadFilename(feature))
	})

	t.Run("Should handle unnamed features", func(t *testing.T) {
		assert.Equal(t, "boundary_edited.geojson", DownloadFilename(geojson.Feature{}))
	})
}
