package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/bsaid97/go-boundary-editor/config"
	"github.com/bsaid97/go-boundary-editor/geocode"
	"github.com/bsaid97/go-boundary-editor/geojson"
	"github.com/bsaid97/go-boundary-editor/handlers"
	"github.com/bsaid97/go-boundary-editor/logger"
	"github.com/bsaid97/go-boundary-editor/store"
	"github.com/bsaid97/go-boundary-editor/utils"
)

type server struct {
	cfg        config.Config
	geocoder   *geocode.Client
	boundaries *store.Store
}

// featureResponse pairs a boundary feature with the metadata the map
// widget needs to center and zoom on it.
type featureResponse struct {
	Feature geojson.Feature    `json:"feature"`
	View    utils.ViewMetadata `json:"view"`
}

func main() {
	logger.Setup()
	cfg := config.Load()

	boundaries, err := store.Open(cfg.SaveDir)
	if err != nil {
		logger.L().Error("failed to open boundary store", "dir", cfg.SaveDir, "err", err)
		os.Exit(1)
	}

	srv := &server{
		cfg:        cfg,
		geocoder:   geocode.NewClient(cfg.NominatimURL, cfg.UserAgent, &http.Client{Timeout: cfg.HTTPTimeout}),
		boundaries: boundaries,
	}

	http.HandleFunc("/fetch-boundary", srv.fetchBoundaryHandler)
	http.HandleFunc("/normalize", srv.normalizeHandler)
	http.HandleFunc("/import", srv.importHandler)
	http.HandleFunc("/export", srv.exportHandler)
	http.HandleFunc("/check-geometry", srv.checkGeometryHandler)
	http.HandleFunc("/locate", srv.locateHandler)

	logger.L().Info("boundary editor listening", "port", cfg.Port, "save_dir", cfg.SaveDir)
	if err := http.ListenAndServe(":"+cfg.Port, nil); err != nil {
		logger.L().Error("server failed", "err", err)
		os.Exit(1)
	}
}

// fetchBoundaryHandler resolves a place name to its administrative
// boundary.
func (s *server) fetchBoundaryHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Place string `json:"place"`
	}
	if err := decodeBody(r, &request); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}
	if strings.TrimSpace(request.Place) == "" {
		httpError(w, http.StatusBadRequest, "place is required")
		return
	}

	feature, err := s.geocoder.FetchBoundary(r.Context(), request.Place)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			httpError(w, http.StatusNotFound, "lookup failed: %v; try a more specific name (e.g. \"City, Country\")", err)
			return
		}
		logger.L().Error("boundary fetch failed", "place", request.Place, "err", err)
		httpError(w, http.StatusBadGateway, "lookup failed: %v", err)
		return
	}

	s.sendFeature(w, feature)
}

// normalizeHandler turns raw editor output plus the current boundary into
// the next boundary.
func (s *server) normalizeHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		EditorOutput handlers.EditorOutput `json:"editor_output"`
		Fallback     geojson.Feature       `json:"fallback"`
	}
	if err := decodeBody(r, &request); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}

	geom, err := request.Fallback.Geom()
	if err != nil || !geojson.IsPolygonal(geom) {
		httpError(w, http.StatusBadRequest, "fallback must be a feature with Polygon or MultiPolygon geometry")
		return
	}

	s.sendFeature(w, handlers.NormalizeDrawnFeatures(request.EditorOutput, request.Fallback))
}

// importHandler accepts an uploaded GeoJSON Feature or FeatureCollection,
// as a multipart file or a raw JSON body. Collections are dissolved into a
// single feature before use.
func (s *server) importHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := readPayload(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, "%v", err)
		return
	}

	feature, err := importFeature(payload)
	if err != nil {
		httpError(w, http.StatusBadRequest, "failed to read GeoJSON: %v", err)
		return
	}

	s.sendFeature(w, feature)
}

// exportHandler delivers the final boundary: as a GeoJSON download, as a
// zip with shapefile components, or saved server-side with a timestamped
// filename.
func (s *server) exportHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Feature geojson.Feature `json:"feature"`
		Save    bool            `json:"save"`
		Format  string          `json:"format"`
	}
	if strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		upload := utils.ReadUploadForm(r, "file")
		if upload.File == "" {
			httpError(w, http.StatusBadRequest, "no file found in upload")
			return
		}
		feature, err := geojson.ParseFeature([]byte(upload.File))
		if err != nil {
			httpError(w, http.StatusBadRequest, "failed to read GeoJSON: %v", err)
			return
		}
		request.Feature = feature
		request.Save = upload.SaveFile
		request.Format = upload.Format
	} else if err := decodeBody(r, &request); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}

	geom, err := request.Feature.Geom()
	if err != nil || !geojson.IsPolygonal(geom) {
		httpError(w, http.StatusBadRequest, "feature must have Polygon or MultiPolygon geometry")
		return
	}

	// Exported coordinates are rounded; editors emit far more decimals
	// than the data is worth.
	rounded, err := utils.RoundGeometry(geom)
	if err != nil {
		httpError(w, http.StatusBadRequest, "failed to round coordinates: %v", err)
		return
	}
	feature := geojson.FromGeom(request.Feature.Name(), rounded)

	if request.Save {
		path, err := utils.SaveFeature(feature, s.cfg.SaveDir)
		if err != nil {
			logger.L().Error("failed to save boundary", "err", err)
			httpError(w, http.StatusInternalServerError, "failed to save boundary: %v", err)
			return
		}
		if err := s.boundaries.Reload(); err != nil {
			logger.L().Warn("failed to reload boundary index", "err", err)
		}
		logger.L().Info("boundary saved", "path", path)
		sendJSON(w, map[string]string{"saved": path})
		return
	}

	switch request.Format {
	case "", "geojson":
		data, err := json.MarshalIndent(feature, "", "  ")
		if err != nil {
			httpError(w, http.StatusInternalServerError, "failed to encode feature: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", utils.DownloadFilename(feature)))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	case "shapefile":
		zipData, err := utils.GenerateBoundaryZip(feature)
		if err != nil {
			logger.L().Error("shapefile export failed", "err", err)
			httpError(w, http.StatusInternalServerError, "shapefile export failed: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", strings.TrimSuffix(utils.DownloadFilename(feature), ".geojson")+".zip"))
		w.WriteHeader(http.StatusOK)
		w.Write(zipData)
	default:
		httpError(w, http.StatusBadRequest, "unknown export format %q", request.Format)
	}
}

// checkGeometryHandler reports invalid features in an uploaded collection.
func (s *server) checkGeometryHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := readPayload(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, "%v", err)
		return
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(payload, &fc); err != nil {
		httpError(w, http.StatusBadRequest, "failed to parse feature collection: %v", err)
		return
	}

	report := handlers.CheckFeatures(fc)
	if report == nil {
		report = []handlers.ValidityError{}
	}
	sendJSON(w, report)
}

// locateHandler answers "which saved boundary contains this point".
func (s *server) locateHandler(w http.ResponseWriter, r *http.Request) {
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if lonErr != nil || latErr != nil {
		httpError(w, http.StatusBadRequest, "lon and lat query parameters are required")
		return
	}

	sendJSON(w, s.boundaries.Locate(lon, lat))
}

// importFeature normalizes an uploaded document to a single feature.
func importFeature(payload []byte) (geojson.Feature, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return geojson.Feature{}, err
	}

	switch probe.Type {
	case "Feature":
		feature, err := geojson.ParseFeature(payload)
		if err != nil {
			return geojson.Feature{}, err
		}
		geom, err := feature.Geom()
		if err != nil {
			return geojson.Feature{}, err
		}
		if !geojson.IsPolygonal(geom) {
			return geojson.Feature{}, fmt.Errorf("feature geometry must be Polygon or MultiPolygon, got %s", geom.Type())
		}
		return feature, nil
	case "FeatureCollection":
		var fc geojson.FeatureCollection
		if err := json.Unmarshal(payload, &fc); err != nil {
			return geojson.Feature{}, err
		}
		return handlers.DissolveCollection(fc, "uploaded")
	default:
		return geojson.Feature{}, fmt.Errorf("invalid GeoJSON structure: type %q", probe.Type)
	}
}

// readPayload extracts the request document from a JSON body or a
// multipart "file" part.
func readPayload(r *http.Request) ([]byte, error) {
	if r.Method != http.MethodPost {
		return nil, fmt.Errorf("invalid request method, only POST allowed")
	}

	if strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		upload := utils.ReadUploadForm(r, "file")
		if upload.File == "" {
			return nil, fmt.Errorf("no file found in upload")
		}
		return []byte(upload.File), nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading request body: %v", err)
	}
	defer r.Body.Close()
	if len(body) == 0 {
		return nil, fmt.Errorf("empty request body")
	}
	return body, nil
}

func decodeBody(r *http.Request, v interface{}) error {
	if r.Method != http.MethodPost {
		return fmt.Errorf("invalid request method, only POST allowed")
	}
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *server) sendFeature(w http.ResponseWriter, feature geojson.Feature) {
	view, err := utils.MeasureFeature(feature)
	if err != nil {
		logger.L().Warn("failed to measure feature", "err", err)
	}
	sendJSON(w, featureResponse{Feature: feature, View: view})
}

func sendJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, format string, args ...interface{}) {
	http.Error(w, fmt.Sprintf(format, args...), status)
}
