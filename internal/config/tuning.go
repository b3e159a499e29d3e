package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig holds the analysis tuning parameters. Fields are pointers so
// a partial JSON file only overrides what it names; the Get* methods supply
// defaults for everything else.
type TuningConfig struct {
	// Segmentation params
	MaxWindow *int     `json:"max_window,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`

	// Reference keypoint whose x/y displacement drives segmentation
	ReferenceKeypoint *int `json:"reference_keypoint,omitempty"`

	// Delta computation params
	StrictLeadingGap *bool `json:"strict_leading_gap,omitempty"`
	ChannelWorkers   *int  `json:"channel_workers,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON file retain their default
// values, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.MaxWindow != nil && *c.MaxWindow < 1 {
		return fmt.Errorf("max_window must be at least 1, got %d", *c.MaxWindow)
	}
	if c.Threshold != nil && *c.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %f", *c.Threshold)
	}
	if c.ReferenceKeypoint != nil && *c.ReferenceKeypoint < 0 {
		return fmt.Errorf("reference_keypoint must be non-negative, got %d", *c.ReferenceKeypoint)
	}
	if c.ChannelWorkers != nil && *c.ChannelWorkers < 0 {
		return fmt.Errorf("channel_workers must be non-negative, got %d", *c.ChannelWorkers)
	}
	return nil
}

// GetMaxWindow returns the max_window value or the default.
func (c *TuningConfig) GetMaxWindow() int {
	if c.MaxWindow == nil {
		return 30
	}
	return *c.MaxWindow
}

// GetThreshold returns the threshold value or the default.
func (c *TuningConfig) GetThreshold() float64 {
	if c.Threshold == nil {
		return 20.0
	}
	return *c.Threshold
}

// GetReferenceKeypoint returns the reference_keypoint value or the default.
func (c *TuningConfig) GetReferenceKeypoint() int {
	if c.ReferenceKeypoint == nil {
		return 0 // keypoint 0 (the nose in pose pipelines)
	}
	return *c.ReferenceKeypoint
}

// GetStrictLeadingGap returns the strict_leading_gap value or the default.
func (c *TuningConfig) GetStrictLeadingGap() bool {
	if c.StrictLeadingGap == nil {
		return false // default: bridge against step 0
	}
	return *c.StrictLeadingGap
}

// GetChannelWorkers returns the channel_workers value or the default.
func (c *TuningConfig) GetChannelWorkers() int {
	if c.ChannelWorkers == nil {
		return 1 // sequential
	}
	return *c.ChannelWorkers
}
