package utils

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bsaid97/go-boundary-editor/geojson"
	"github.com/jonas-p/go-shp"
)

// boundaryGeometry is the slice of the geometry document shapefile
// conversion needs.
type boundaryGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// GenerateBoundaryZip packs the boundary feature as a zip holding the
// GeoJSON text plus shapefile components (.shp/.shx/.dbf), so the download
// works in GIS tools that cannot read GeoJSON.
func GenerateBoundaryZip(feature geojson.Feature) ([]byte, error) {
	base := safeName(feature)

	jsonData, err := json.MarshalIndent(feature, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode feature: %v", err)
	}

	var zipBuffer bytes.Buffer
	zipWriter := zip.NewWriter(&zipBuffer)

	jsonFile, err := zipWriter.Create(base + ".geojson")
	if err != nil {
		return nil, fmt.Errorf("failed to create GeoJSON entry in zip: %v", err)
	}
	if _, err := jsonFile.Write(jsonData); err != nil {
		return nil, fmt.Errorf("failed to write GeoJSON data to zip: %v", err)
	}

	if err := addShapefileToZip(zipWriter, feature, base); err != nil {
		return nil, fmt.Errorf("failed to add shapefile to zip: %v", err)
	}

	if err := zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zip writer: %v", err)
	}

	return zipBuffer.Bytes(), nil
}

// addShapefileToZip writes the boundary into a temporary shapefile and
// copies its components into the zip.
func addShapefileToZip(zipWriter *zip.Writer, feature geojson.Feature, base string) error {
	tempDir, err := os.MkdirTemp("", "shapefile_")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	shapefilePath := filepath.Join(tempDir, base+".shp")
	if err := writeBoundaryShapefile(shapefilePath, feature); err != nil {
		return err
	}

	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		componentPath := strings.TrimSuffix(shapefilePath, ".shp") + ext
		if _, err := os.Stat(componentPath); os.IsNotExist(err) {
			continue
		}

		content, err := os.ReadFile(componentPath)
		if err != nil {
			return fmt.Errorf("failed to read shapefile component %s: %v", ext, err)
		}

		zipFile, err := zipWriter.Create(base + ext)
		if err != nil {
			return fmt.Errorf("failed to create %s entry in zip: %v", ext, err)
		}
		if _, err := zipFile.Write(content); err != nil {
			return fmt.Errorf("failed to write %s data to zip: %v", ext, err)
		}
	}

	return nil
}

// writeBoundaryShapefile writes the boundary as a single polygon record
// with a NAME attribute.
func writeBoundaryShapefile(shapefilePath string, feature geojson.Feature) error {
	var geometry boundaryGeometry
	if err := json.Unmarshal(feature.Geometry, &geometry); err != nil {
		return fmt.Errorf("failed to parse geometry: %v", err)
	}

	var polygon *shp.Polygon
	switch geometry.Type {
	case "Polygon":
		var coords [][][]float64
		if err := json.Unmarshal(geometry.Coordinates, &coords); err != nil {
			return fmt.Errorf("failed to parse polygon coordinates: %v", err)
		}
		polygon = polygonShape([][][][]float64{coords})
	case "MultiPolygon":
		var coords [][][][]float64
		if err := json.Unmarshal(geometry.Coordinates, &coords); err != nil {
			return fmt.Errorf("failed to parse multipolygon coordinates: %v", err)
		}
		polygon = polygonShape(coords)
	default:
		return fmt.Errorf("unsupported geometry type for shapefile export: %s", geometry.Type)
	}

	shape, err := shp.Create(shapefilePath, shp.POLYGON)
	if err != nil {
		return fmt.Errorf("failed to create shapefile: %v", err)
	}
	defer shape.Close()

	shape.SetFields([]shp.Field{shp.StringField("NAME", 100)})
	shape.Write(polygon)
	shape.WriteAttribute(0, 0, feature.Name())

	return nil
}

// polygonShape flattens (multi)polygon rings into a single shapefile
// polygon with one part per ring.
func polygonShape(polygons [][][][]float64) *shp.Polygon {
	polygon := &shp.Polygon{}
	partIndex := int32(0)

	for _, rings := range polygons {
		for _, ring := range rings {
			var points []shp.Point
			for _, coord := range ring {
				if len(coord) >= 2 {
					points = append(points, shp.Point{X: coord[0], Y: coord[1]})
				}
			}
			if len(points) > 0 {
				polygon.Parts = append(polygon.Parts, partIndex)
				polygon.Points = append(polygon.Points, points...)
				partIndex += int32(len(points))
			}
		}
	}

	return polygon
}
