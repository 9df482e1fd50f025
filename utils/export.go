package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bsaid97/go-boundary-editor/geojson"
)

// SaveFeature writes the feature as a timestamped GeoJSON file under dir
// and returns the path it wrote.
func SaveFeature(feature geojson.Feature, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create save directory: %v", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_edited_%s.geojson", safeName(feature), timestamp))

	data, err := json.MarshalIndent(feature, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode feature: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save feature: %v", err)
	}
	return path, nil
}

// DownloadFilename is the filename offered for a GeoJSON download.
func DownloadFilename(feature geojson.Feature) string {
	return safeName(feature) + "_edited.geojson"
}

func safeName(feature geojson.Feature) string {
	name := feature.Name()
	if name == "" {
		name = "boundary"
	}
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	return name
}
