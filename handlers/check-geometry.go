package handlers

import (
	"fmt"

	"github.com/bsaid97/go-boundary-editor/geojson"
)

// ValidityError reports one invalid feature in an uploaded collection.
type ValidityError struct {
	Ref    int    `json:"ref"`
	Reason string `json:"reason"`
}

// CheckFeatures validates every feature of an uploaded collection and
// reports the invalid ones. Uploads are never silently repaired; the report
// goes back to the user.
func CheckFeatures(fc geojson.FeatureCollection) []ValidityError {
	var errors []ValidityError
	for i, f := range fc.Features {
		geom, err := f.Geom()
		if err != nil {
			errors = append(errors, ValidityError{Ref: i, Reason: fmt.Sprintf("unparseable geometry: %v", err)})
			continue
		}
		if !geom.IsValid() {
			errors = append(errors, ValidityError{Ref: i, Reason: geom.IsValidReason()})
		}
	}
	return errors
}
