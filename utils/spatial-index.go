package utils

import (
	"math"

	"github.com/twpayne/go-geos"
)

// SpatialIndex is a uniform grid over saved boundaries, good enough for
// point-in-boundary lookups against at most a few hundred files.
type SpatialIndex struct {
	cellSize float64
	grid     map[cellKey][]*IndexedBoundary
}

type cellKey struct {
	x, y int
}

// IndexedBoundary is one saved boundary registered in the index.
type IndexedBoundary struct {
	Geom *geos.Geom
	Name string
	Path string
}

func NewSpatialIndex(cellSize float64) *SpatialIndex {
	return &SpatialIndex{
		cellSize: cellSize,
		grid:     make(map[cellKey][]*IndexedBoundary),
	}
}

// Add registers a boundary in every grid cell its bounding box touches.
func (si *SpatialIndex) Add(boundary *IndexedBoundary) {
	if boundary == nil || boundary.Geom == nil {
		return
	}
	bounds := boundary.Geom.Bounds()
	if bounds == nil {
		return
	}

	minX := int(math.Floor(bounds.MinX / si.cellSize))
	minY := int(math.Floor(bounds.MinY / si.cellSize))
	maxX := int(math.Floor(bounds.MaxX / si.cellSize))
	maxY := int(math.Floor(bounds.MaxY / si.cellSize))

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			key := cellKey{x: x, y: y}
			si.grid[key] = append(si.grid[key], boundary)
		}
	}
}

// FindContaining returns every indexed boundary containing the point.
func (si *SpatialIndex) FindContaining(lon, lat float64) []*IndexedBoundary {
	key := cellKey{
		x: int(math.Floor(lon / si.cellSize)),
		y: int(math.Floor(lat / si.cellSize)),
	}

	point := geos.NewPoint([]float64{lon, lat})
	defer point.Destroy()

	var matches []*IndexedBoundary
	for _, candidate := range si.grid[key] {
		if candidate.Geom.Contains(point) {
			matches = append(matches, candidate)
		}
	}
	return matches
}

// Len reports how many boundaries the index holds.
func (si *SpatialIndex) Len() int {
	seen := make(map[*IndexedBoundary]struct{})
	for _, cell := range si.grid {
		for _, boundary := range cell {
			seen[boundary] = struct{}{}
		}
	}
	return len(seen)
}
