// Package tasks implements the queue-side entry points for batch
// extraction jobs. Payloads reference files on shared storage; results go
// to the report store rather than back over the queue.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/geoagent-data/terrain.report/internal/config"
	"github.com/geoagent-data/terrain.report/internal/lidar"
	"github.com/geoagent-data/terrain.report/internal/loader"
	"github.com/geoagent-data/terrain.report/internal/monitoring"
	"github.com/geoagent-data/terrain.report/internal/store"
	"github.com/geoagent-data/terrain.report/internal/thermal"
)

// Task type names. Producers enqueue with these exact strings.
const (
	TypeLidarClassify = "lidar:classify"
	TypeThermalDetect = "thermal:detect_anomalies"
)

// LidarClassifyPayload asks for height classification and building
// extraction over a point file. Unset parameters fall back to the
// handler's processing config.
type LidarClassifyPayload struct {
	Path   string   `json:"path"`
	Eps    *float64 `json:"eps,omitempty"`
	MinPts *int     `json:"min_pts,omitempty"`
}

// ThermalDetectPayload asks for anomaly detection over an intensity frame.
type ThermalDetectPayload struct {
	Path            string   `json:"path"`
	KMultiplier     *float64 `json:"k_multiplier,omitempty"`
	MinRegionPixels *int     `json:"min_region_pixels,omitempty"`
}

// Handler binds the task handlers to a processing config and a report
// store. The store must be non-nil: a batch job with nowhere to put its
// report is useless.
type Handler struct {
	cfg   *config.ProcessingConfig
	store *store.Store
}

// NewHandler builds a Handler.
func NewHandler(cfg *config.ProcessingConfig, st *store.Store) *Handler {
	if cfg == nil {
		cfg = config.EmptyProcessingConfig()
	}
	return &Handler{cfg: cfg, store: st}
}

// Register mounts every task handler on the mux.
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeLidarClassify, h.HandleLidarClassify)
	mux.HandleFunc(TypeThermalDetect, h.HandleThermalDetect)
}

// HandleLidarClassify runs the classification pipeline over the payload's
// point file and persists the report.
func (h *Handler) HandleLidarClassify(ctx context.Context, t *asynq.Task) error {
	var p LidarClassifyPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("bad payload: %v: %w", err, asynq.SkipRetry)
	}

	points, err := loader.LoadPoints(p.Path)
	if err != nil {
		return skipIfUnreadable(err)
	}

	params := lidar.ClusteringParams{Eps: h.cfg.GetEps(), MinPts: h.cfg.GetMinPts()}
	if p.Eps != nil {
		params.Eps = *p.Eps
	}
	if p.MinPts != nil {
		params.MinPts = *p.MinPts
	}

	report, err := lidar.ClassifyPointCloud(points, params)
	if err != nil {
		return skipIfUnprocessable(err)
	}

	id, err := h.store.SaveReport(store.KindLidarClassification, p.Path, report)
	if err != nil {
		return fmt.Errorf("persist report: %w", err)
	}
	monitoring.Logf("classified %d points from %s: %d buildings, report %s",
		report.NumPoints, p.Path, len(report.Buildings), id)
	return nil
}

// HandleThermalDetect runs anomaly detection over the payload's intensity
// frame and persists the report.
func (h *Handler) HandleThermalDetect(ctx context.Context, t *asynq.Task) error {
	var p ThermalDetectPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("bad payload: %v: %w", err, asynq.SkipRetry)
	}

	grid, err := loader.LoadGrid(p.Path)
	if err != nil {
		return skipIfUnreadable(err)
	}

	params := thermal.Params{
		KMultiplier:     h.cfg.GetKMultiplier(),
		MinRegionPixels: h.cfg.GetMinRegionPixels(),
	}
	if p.KMultiplier != nil {
		params.KMultiplier = *p.KMultiplier
	}
	if p.MinRegionPixels != nil {
		params.MinRegionPixels = *p.MinRegionPixels
	}

	report, err := thermal.DetectAnomalies(grid, params)
	if err != nil {
		return skipIfUnprocessable(err)
	}

	id, err := h.store.SaveReport(store.KindThermalAnomalies, p.Path, report)
	if err != nil {
		return fmt.Errorf("persist report: %w", err)
	}
	monitoring.Logf("detected %d anomalies in %s, report %s", len(report.Anomalies), p.Path, id)
	return nil
}

// skipIfUnreadable marks decode failures as non-retryable: a corrupt file
// stays corrupt. Missing files keep retrying in case storage is catching up.
func skipIfUnreadable(err error) error {
	if errors.Is(err, loader.ErrDecode) {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return err
}

// skipIfUnprocessable marks invalid inputs and parameters as non-retryable.
func skipIfUnprocessable(err error) error {
	if errors.Is(err, lidar.ErrEmptyInput) || errors.Is(err, lidar.ErrBadParams) ||
		errors.Is(err, thermal.ErrEmptyGrid) || errors.Is(err, thermal.ErrBadParams) {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return err
}
