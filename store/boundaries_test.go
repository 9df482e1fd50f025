package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/bsaid97/go-boundary-editor/geojson"
	"github.com/bsaid97/go-boundary-editor/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveBoundary(t *testing.T, dir, name string, geometry string) string {
	t.Helper()
	path, err := utils.SaveFeature(geojson.NewFeature(name, json.RawMessage(geometry)), dir)
	require.NoError(t, err)
	return path
}

func TestStore(t *testing.T) {
	square := `{"type":"Polygon","coordinates":[[[77,12],[78,12],[78,13],[77,13],[77,12]]]}`

	t.Run("Should locate a point inside a saved boundary", func(t *testing.T) {
		dir := t.TempDir()
		saveBoundary(t, dir, "Bengaluru", square)

		s, err := Open(dir)
		require.NoError(t, err)
		require.Equal(t, 1, s.Len())

		matches := s.Locate(77.5, 12.5)
		require.Len(t, matches, 1)
		assert.Equal(t, "Bengaluru", matches[0].Name)

		assert.Empty(t, s.Locate(0, 0))
	})

	t.Run("Should open an empty or missing directory", func(t *testing.T) {
		s, err := Open(filepath.Join(t.TempDir(), "does-not-exist"))
		require.NoError(t, err)
		assert.Equal(t, 0, s.Len())
		assert.Empty(t, s.Locate(77.5, 12.5))
	})

	t.Run("Should skip malformed and non-geojson files", func(t *testing.T) {
		dir := t.TempDir()
		saveBoundary(t, dir, "Good", square)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.geojson"), []byte("{not json"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0644))

		s, err := Open(dir)
		require.NoError(t, err)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("Should pick up new files on reload", func(t *testing.T) {
		dir := t.TempDir()
		s, err := Open(dir)
		require.NoError(t, err)
		require.Equal(t, 0, s.Len())

		saveBoundary(t, dir, "Later", square)
		require.NoError(t, s.Reload())
		assert.Equal(t, 1, s.Len())
	})
}
