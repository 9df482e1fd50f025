package store

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bsaid97/go-boundary-editor/geojson"
	"github.com/bsaid97/go-boundary-editor/logger"
	"github.com/bsaid97/go-boundary-editor/utils"
)

// Boundaries are degrees-sized, so half-degree cells keep lookups to a
// handful of candidates.
const indexCellSize = 0.5

// Match is one saved boundary containing a queried point.
type Match struct {
	Name string `json:"name"`
	File string `json:"file"`
}

// Store indexes the boundaries saved to the export directory and answers
// point-in-boundary lookups.
type Store struct {
	dir string

	mu    sync.RWMutex
	index *utils.SpatialIndex
}

// Open scans dir for saved boundary files. A missing directory is fine;
// it just means nothing has been exported yet.
func Open(dir string) (*Store, error) {
	s := &Store{dir: dir}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload rebuilds the index from the save directory. Files that no longer
// parse are skipped with a warning; a saved file must never break lookups.
func (s *Store) Reload() error {
	index := utils.NewSpatialIndex(indexCellSize)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.swap(index)
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".geojson") {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			logger.L().Warn("skipping unreadable boundary file", "path", path, "err", err)
			continue
		}
		feature, err := geojson.ParseFeature(data)
		if err != nil {
			logger.L().Warn("skipping malformed boundary file", "path", path, "err", err)
			continue
		}
		geom, err := feature.Geom()
		if err != nil || !geojson.IsPolygonal(geom) {
			logger.L().Warn("skipping non-polygonal boundary file", "path", path)
			continue
		}

		index.Add(&utils.IndexedBoundary{Geom: geom, Name: feature.Name(), Path: path})
	}

	s.swap(index)
	logger.L().Debug("boundary index reloaded", "dir", s.dir, "count", index.Len())
	return nil
}

// Locate returns every saved boundary containing the point.
func (s *Store) Locate(lon, lat float64) []Match {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := []Match{}
	for _, boundary := range s.index.FindContaining(lon, lat) {
		matches = append(matches, Match{Name: boundary.Name, File: filepath.Base(boundary.Path)})
	}
	return matches
}

// Len reports how many boundaries are indexed.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Len()
}

func (s *Store) swap(index *utils.SpatialIndex) {
	s.mu.Lock()
	s.index = index
	s.mu.Unlock()
}
