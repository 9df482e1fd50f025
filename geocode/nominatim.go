package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bsaid97/go-boundary-editor/geojson"
	"github.com/bsaid97/go-boundary-editor/handlers"
	"github.com/twpayne/go-geos"
)

// ErrNotFound means the place resolved to no polygonal boundary. There is
// no retry; the user has to refine the query.
var ErrNotFound = errors.New("no boundary polygon found")

// Client queries a Nominatim-compatible endpoint for administrative
// boundary polygons.
type Client struct {
	BaseURL   string
	UserAgent string
	HTTP      *http.Client
}

// searchResult is the slice of the Nominatim /search response we need.
type searchResult struct {
	DisplayName string          `json:"display_name"`
	Class       string          `json:"class"`
	Type        string          `json:"type"`
	GeoJSON     json.RawMessage `json:"geojson"`
}

func NewClient(baseURL, userAgent string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{BaseURL: baseURL, UserAgent: userAgent, HTTP: httpClient}
}

// FetchBoundary resolves a place name to a single (Multi)Polygon feature
// named after the query. Some places come back as several disjoint parts;
// those are dissolved into one geometry.
func (c *Client) FetchBoundary(ctx context.Context, place string) (geojson.Feature, error) {
	q := url.Values{}
	q.Set("q", place)
	q.Set("format", "jsonv2")
	q.Set("polygon_geojson", "1")
	q.Set("limit", "5")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return geojson.Feature{}, err
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return geojson.Feature{}, fmt.Errorf("boundary lookup failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geojson.Feature{}, fmt.Errorf("boundary lookup failed: status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return geojson.Feature{}, fmt.Errorf("failed to decode lookup response: %v", err)
	}

	// Keep polygonal results only; points and lines are of no use here
	var geoms []*geos.Geom
	for _, result := range results {
		if len(result.GeoJSON) == 0 {
			continue
		}
		geom, err := geos.NewGeomFromGeoJSON(string(result.GeoJSON))
		if err != nil {
			continue
		}
		if !geom.IsValid() {
			geom = geom.MakeValid()
		}
		if geojson.IsPolygonal(geom) {
			geoms = append(geoms, geom)
		}
	}
	if len(geoms) == 0 {
		return geojson.Feature{}, fmt.Errorf("%w for %q", ErrNotFound, place)
	}

	merged, err := handlers.CascadedUnion(geoms)
	if err != nil {
		return geojson.Feature{}, fmt.Errorf("failed to dissolve boundary parts: %v", err)
	}
	if !geojson.IsPolygonal(merged) {
		return geojson.Feature{}, fmt.Errorf("%w for %q", ErrNotFound, place)
	}

	return geojson.FromGeom(place, merged), nil
}
