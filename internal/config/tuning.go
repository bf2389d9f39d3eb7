package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Processing defaults, used when a field is absent from the config file and
// when no config file is supplied at all.
const (
	DefaultEps               = 2.0
	DefaultMinPts            = 50
	DefaultKMultiplier       = 2.0
	DefaultMinRegionPixels   = 10
	DefaultMaxConcurrentJobs = 4
)

// ProcessingConfig holds the tunable extraction parameters. Fields are
// pointers so a partial JSON file only overrides what it names; the Get*
// accessors fall back to defaults for everything else.
type ProcessingConfig struct {
	// Point-cloud clustering params
	Eps    *float64 `json:"eps,omitempty"`
	MinPts *int     `json:"min_pts,omitempty"`

	// Thermal anomaly params
	KMultiplier     *float64 `json:"k_multiplier,omitempty"`
	MinRegionPixels *int     `json:"min_region_pixels,omitempty"`

	// Host-side execution params
	MaxConcurrentJobs *int `json:"max_concurrent_jobs,omitempty"`
}

// EmptyProcessingConfig returns a config with every field unset, so every
// accessor yields its default.
func EmptyProcessingConfig() *ProcessingConfig {
	return &ProcessingConfig{}
}

// LoadProcessingConfig loads a ProcessingConfig from a JSON file. Partial
// configs are safe: omitted fields keep their defaults.
func LoadProcessingConfig(path string) (*ProcessingConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyProcessingConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that any values the file did set are well-formed.
func (c *ProcessingConfig) Validate() error {
	if c.Eps != nil && *c.Eps <= 0 {
		return fmt.Errorf("eps must be positive, got %f", *c.Eps)
	}
	if c.MinPts != nil && *c.MinPts < 1 {
		return fmt.Errorf("min_pts must be at least 1, got %d", *c.MinPts)
	}
	if c.KMultiplier != nil && *c.KMultiplier < 0 {
		return fmt.Errorf("k_multiplier must be non-negative, got %f", *c.KMultiplier)
	}
	if c.MinRegionPixels != nil && *c.MinRegionPixels < 1 {
		return fmt.Errorf("min_region_pixels must be at least 1, got %d", *c.MinRegionPixels)
	}
	if c.MaxConcurrentJobs != nil && *c.MaxConcurrentJobs < 1 {
		return fmt.Errorf("max_concurrent_jobs must be at least 1, got %d", *c.MaxConcurrentJobs)
	}
	return nil
}

// GetEps returns the clustering radius or the default.
func (c *ProcessingConfig) GetEps() float64 {
	if c.Eps == nil {
		return DefaultEps
	}
	return *c.Eps
}

// GetMinPts returns the minimum cluster population or the default.
func (c *ProcessingConfig) GetMinPts() int {
	if c.MinPts == nil {
		return DefaultMinPts
	}
	return *c.MinPts
}

// GetKMultiplier returns the anomaly threshold multiplier or the default.
func (c *ProcessingConfig) GetKMultiplier() float64 {
	if c.KMultiplier == nil {
		return DefaultKMultiplier
	}
	return *c.KMultiplier
}

// GetMinRegionPixels returns the minimum anomaly region size or the default.
func (c *ProcessingConfig) GetMinRegionPixels() int {
	if c.MinRegionPixels == nil {
		return DefaultMinRegionPixels
	}
	return *c.MinRegionPixels
}

// GetMaxConcurrentJobs returns the server-side job concurrency cap or the default.
func (c *ProcessingConfig) GetMaxConcurrentJobs() int {
	if c.MaxConcurrentJobs == nil {
		return DefaultMaxConcurrentJobs
	}
	return *c.MaxConcurrentJobs
}
