package sdmap

import (
	"fmt"

	"go.viam.com/rdk/logging"
)

// Config describes the construction-time parameters of a DepthMapper in the
// same json-tagged, Validate-checked shape used throughout this module's
// component configs.
type Config struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// FxPixels, FyPixels, CxPixels, CyPixels are the pinhole intrinsics in
	// pixels. Distortion is not modeled at this layer; callers that need it
	// should undistort frames upstream with rimage/transform.
	FxPixels float64 `json:"fx_pixels"`
	FyPixels float64 `json:"fy_pixels"`
	CxPixels float64 `json:"cx_pixels"`
	CyPixels float64 `json:"cy_pixels"`

	// ReducerStride overrides the default ParallelReducer row stride. Zero
	// keeps the default.
	ReducerStride int `json:"reducer_stride,omitempty"`

	// Settings overrides the tuning constants. A zero value is replaced by
	// DefaultSettings() in Validate.
	Settings Settings `json:"settings,omitempty"`
}

// Validate ensures all parts of the config are valid, returning no
// dependencies since DepthMapper has no resource-graph collaborators.
func (cfg *Config) Validate(path string) ([]string, error) {
	if cfg.Width <= 6 {
		return nil, fmt.Errorf("%s: width must be greater than 6, got %d", path, cfg.Width)
	}
	if cfg.Height <= 6 {
		return nil, fmt.Errorf("%s: height must be greater than 6, got %d", path, cfg.Height)
	}
	if cfg.FxPixels <= 0 || cfg.FyPixels <= 0 {
		return nil, fmt.Errorf("%s: fx_pixels and fy_pixels must be positive", path)
	}
	if cfg.Settings == (Settings{}) {
		cfg.Settings = DefaultSettings()
	}
	return nil, nil
}

// NewDepthMapperFromConfig builds a DepthMapper and its backing intrinsics
// from a validated Config. A nil logger defaults the same way
// NewDepthMapper does.
func NewDepthMapperFromConfig(cfg *Config, logger logging.Logger) (*DepthMapper, *Intrinsics, error) {
	if _, err := cfg.Validate("config"); err != nil {
		return nil, nil, err
	}

	k := &Intrinsics{
		Width:  cfg.Width,
		Height: cfg.Height,
		Fx:     cfg.FxPixels,
		Fy:     cfg.FyPixels,
		Ppx:    cfg.CxPixels,
		Ppy:    cfg.CyPixels,
	}

	var reducer Reducer
	if cfg.ReducerStride > 0 {
		reducer = ParallelReducer{Stride: cfg.ReducerStride}
	}

	return NewDepthMapper(cfg.Width, cfg.Height, k, cfg.Settings, reducer, logger), k, nil
}
