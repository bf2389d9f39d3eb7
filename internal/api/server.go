// Package api exposes the extraction pipelines over HTTP. Handlers decode
// the upload, run the pure core under a concurrency gate, and write the
// report back as JSON. The pipelines themselves never touch the network.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"golang.org/x/sync/semaphore"

	"github.com/geoagent-data/terrain.report/internal/config"
	"github.com/geoagent-data/terrain.report/internal/lidar"
	"github.com/geoagent-data/terrain.report/internal/loader"
	"github.com/geoagent-data/terrain.report/internal/store"
	"github.com/geoagent-data/terrain.report/internal/thermal"
	"github.com/geoagent-data/terrain.report/internal/version"
)

// maxUploadBytes caps request bodies. Point tiles and thermal frames beyond
// this belong on the worker queue, not an interactive request.
const maxUploadBytes = 64 << 20 // 64 MiB

// Server routes extraction requests to the core pipelines.
type Server struct {
	cfg   *config.ProcessingConfig
	store *store.Store // may be nil: persistence is optional
	jobs  *semaphore.Weighted
}

// NewServer builds a Server. st may be nil to disable report persistence.
func NewServer(cfg *config.ProcessingConfig, st *store.Store) *Server {
	if cfg == nil {
		cfg = config.EmptyProcessingConfig()
	}
	return &Server{
		cfg:   cfg,
		store: st,
		jobs:  semaphore.NewWeighted(int64(cfg.GetMaxConcurrentJobs())),
	}
}

// Routes registers every handler on a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealth)

	mux.HandleFunc("/api/lidar/classify", s.handleLidarClassify)
	mux.HandleFunc("/api/thermal/anomalies", s.handleThermalAnomalies)
	mux.HandleFunc("/api/thermal/heatmap", s.handleThermalHeatmap)
	mux.HandleFunc("/api/reports/", s.handleGetReport)

	// Operations carried at the boundary only; no algorithmic content yet.
	mux.HandleFunc("/api/lidar/segment", s.handleNotImplemented("lidar segmentation"))
	mux.HandleFunc("/api/spectral/identify", s.handleNotImplemented("material identification"))
	mux.HandleFunc("/api/spectral/unmix", s.handleNotImplemented("spectral unmixing"))
	mux.HandleFunc("/api/thermal/segment", s.handleNotImplemented("thermal segmentation"))
	mux.HandleFunc("/api/sar/changes", s.handleNotImplemented("SAR change detection"))

	return mux
}

// classifyRequest is the JSON body for point-cloud classification.
type classifyRequest struct {
	Points [][3]float64 `json:"points"`
	Eps    *float64     `json:"eps,omitempty"`
	MinPts *int         `json:"min_pts,omitempty"`
}

// anomalyRequest is the JSON body for thermal anomaly detection.
type anomalyRequest struct {
	Grid            [][]float64 `json:"grid"`
	KMultiplier     *float64    `json:"k_multiplier,omitempty"`
	MinRegionPixels *int        `json:"min_region_pixels,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

// handleLidarClassify accepts either a JSON body (points plus optional
// parameter overrides) or a raw XYZ text upload, runs the classification
// pipeline, and returns the report.
func (s *Server) handleLidarClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)

	params := lidar.ClusteringParams{Eps: s.cfg.GetEps(), MinPts: s.cfg.GetMinPts()}
	var points []lidar.Point3D

	if isJSONRequest(r) {
		var req classifyRequest
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("bad JSON body: %v", err))
			return
		}
		points = make([]lidar.Point3D, len(req.Points))
		for i, p := range req.Points {
			points[i] = lidar.Point3D{X: p[0], Y: p[1], Z: p[2]}
		}
		if req.Eps != nil {
			params.Eps = *req.Eps
		}
		if req.MinPts != nil {
			params.MinPts = *req.MinPts
		}
	} else {
		var err error
		points, err = loader.ParsePoints(body)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if !s.acquireJob(w, r) {
		return
	}
	defer s.jobs.Release(1)

	report, err := lidar.ClassifyPointCloud(points, params)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	s.persist(store.KindLidarClassification, r.URL.Query().Get("source"), report)
	writeJSON(w, http.StatusOK, report)
}

// handleThermalAnomalies accepts a JSON grid or a grayscale PNG upload and
// returns the anomaly report.
func (s *Server) handleThermalAnomalies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)

	params := thermal.Params{
		KMultiplier:     s.cfg.GetKMultiplier(),
		MinRegionPixels: s.cfg.GetMinRegionPixels(),
	}

	grid, overrides, err := s.decodeGridRequest(r, body)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if overrides.KMultiplier != nil {
		params.KMultiplier = *overrides.KMultiplier
	}
	if overrides.MinRegionPixels != nil {
		params.MinRegionPixels = *overrides.MinRegionPixels
	}

	if !s.acquireJob(w, r) {
		return
	}
	defer s.jobs.Release(1)

	report, err := thermal.DetectAnomalies(grid, params)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	s.persist(store.KindThermalAnomalies, r.URL.Query().Get("source"), report)
	writeJSON(w, http.StatusOK, report)
}

// handleThermalHeatmap renders an HTML heat map of the uploaded grid using
// go-echarts, for quick visual inspection next to the anomaly report.
func (s *Server) handleThermalHeatmap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)

	grid, _, err := s.decodeGridRequest(r, body)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := thermal.RenderHeatmap(w, grid, "Thermal Intensity"); err != nil {
		// Headers are gone; log and give up on this response.
		log.Printf("heatmap render failed: %v", err)
	}
}

// decodeGridRequest reads a thermal grid from either a JSON body or an
// image upload, returning any parameter overrides found in the JSON form.
func (s *Server) decodeGridRequest(r *http.Request, body io.Reader) (*thermal.Grid, anomalyRequest, error) {
	var overrides anomalyRequest
	if isJSONRequest(r) {
		if err := json.NewDecoder(body).Decode(&overrides); err != nil {
			return nil, overrides, fmt.Errorf("bad JSON body: %v", err)
		}
		grid, err := thermal.GridFromRows(overrides.Grid)
		if err != nil {
			return nil, overrides, err
		}
		return grid, overrides, nil
	}
	grid, err := loader.DecodeGrid(body)
	return grid, overrides, err
}

// handleGetReport serves a persisted report by id: /api/reports/{id}.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSONError(w, http.StatusNotFound, "report persistence is disabled")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/reports/")
	if id == "" || strings.Contains(id, "/") {
		writeJSONError(w, http.StatusBadRequest, "report id required")
		return
	}
	stored, err := s.store.GetReport(id)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "no such report")
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// handleNotImplemented builds a stub handler for operations that exist at
// the API boundary but carry no processing yet.
func (s *Server) handleNotImplemented(operation string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotImplemented, map[string]string{
			"error": operation + " not yet implemented",
		})
	}
}

// acquireJob gates CPU-bound pipeline runs so a burst of uploads cannot
// saturate every core. Returns false after writing the error response.
func (s *Server) acquireJob(w http.ResponseWriter, r *http.Request) bool {
	if err := s.jobs.Acquire(r.Context(), 1); err != nil {
		writeJSONError(w, http.StatusServiceUnavailable, "processing capacity unavailable")
		return false
	}
	return true
}

// persist records a report if a store is configured. Persistence failures
// are logged, not surfaced: the caller already has the report in hand.
func (s *Server) persist(kind, source string, report interface{}) {
	if s.store == nil {
		return
	}
	if _, err := s.store.SaveReport(kind, source, report); err != nil {
		log.Printf("failed to persist %s report: %v", kind, err)
	}
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// writePipelineError maps core errors onto HTTP statuses: malformed input
// is the client's fault, anything else is ours.
func writePipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lidar.ErrEmptyInput), errors.Is(err, lidar.ErrBadParams),
		errors.Is(err, thermal.ErrEmptyGrid), errors.Is(err, thermal.ErrBadParams),
		errors.Is(err, loader.ErrDecode):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
