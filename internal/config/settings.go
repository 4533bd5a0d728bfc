// Package config loads the application tuning settings.
//
// The schema uses pointer fields so a partial JSON file only overrides
// what it names; the Get* methods supply defaults for everything else.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical settings file, relative
// to the repository root.
const DefaultConfigPath = "config/defaults.json"

// Settings is the root tuning configuration. The schema matches the
// /api/config endpoint so the same JSON serves startup configuration and
// runtime inspection.
type Settings struct {
	// Analysis defaults
	ZFactor      *float64 `json:"z_factor,omitempty"`
	PixelScaleXY *float64 `json:"pixel_scale_xy,omitempty"`
	PixelScaleZ  *float64 `json:"pixel_scale_z,omitempty"`

	// Capture
	FrameSource   *string `json:"frame_source,omitempty"` // "synthetic" or "screen"
	FrameWidth    *int    `json:"frame_width,omitempty"`
	FrameHeight   *int    `json:"frame_height,omitempty"`
	Denoiser      *string `json:"denoiser,omitempty"` // "gaussian", "median" or "none"
	DenoiseKernel *int    `json:"denoise_kernel,omitempty"`

	// Worker
	QueueDepth *int `json:"queue_depth,omitempty"`

	// Perspective, when present, calibrates arc-length measurements:
	// paths are rectified through the corner homography and reported in
	// meters instead of pixels.
	Perspective *PerspectiveSettings `json:"perspective,omitempty"`
}

// PerspectiveSettings describes a four-corner calibration: the
// image-space corners of a reference rectangle (ordered top-left,
// top-right, bottom-right, bottom-left) and its real-world size.
type PerspectiveSettings struct {
	Corners    [][]float64 `json:"corners"`
	RealWidth  float64     `json:"real_width"`
	RealHeight float64     `json:"real_height"`
}

// Validate checks the calibration geometry.
func (p *PerspectiveSettings) Validate() error {
	if len(p.Corners) != 4 {
		return fmt.Errorf("perspective.corners must list exactly 4 points, got %d", len(p.Corners))
	}
	for i, c := range p.Corners {
		if len(c) != 2 {
			return fmt.Errorf("perspective.corners[%d] must be an [x, y] pair, got %d values", i, len(c))
		}
	}
	if p.RealWidth <= 0 || p.RealHeight <= 0 {
		return fmt.Errorf("perspective real dimensions must be positive, got %gx%g", p.RealWidth, p.RealHeight)
	}
	return nil
}

// EmptySettings returns a Settings with all fields unset.
func EmptySettings() *Settings {
	return &Settings{}
}

// Load reads settings from a JSON file. Fields omitted from the file
// keep their defaults, so partial configs are safe.
func Load(path string) (*Settings, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	s := EmptySettings()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}

// Validate checks the set fields against their domains.
func (s *Settings) Validate() error {
	if s.ZFactor != nil && *s.ZFactor <= 0 {
		return fmt.Errorf("z_factor must be positive, got %g", *s.ZFactor)
	}
	if s.PixelScaleXY != nil && *s.PixelScaleXY <= 0 {
		return fmt.Errorf("pixel_scale_xy must be positive, got %g", *s.PixelScaleXY)
	}
	if s.PixelScaleZ != nil && *s.PixelScaleZ <= 0 {
		return fmt.Errorf("pixel_scale_z must be positive, got %g", *s.PixelScaleZ)
	}
	if s.FrameWidth != nil && *s.FrameWidth <= 0 {
		return fmt.Errorf("frame_width must be positive, got %d", *s.FrameWidth)
	}
	if s.FrameHeight != nil && *s.FrameHeight <= 0 {
		return fmt.Errorf("frame_height must be positive, got %d", *s.FrameHeight)
	}
	if s.DenoiseKernel != nil && (*s.DenoiseKernel <= 0 || *s.DenoiseKernel%2 == 0) {
		return fmt.Errorf("denoise_kernel must be a positive odd integer, got %d", *s.DenoiseKernel)
	}
	if s.QueueDepth != nil && *s.QueueDepth <= 0 {
		return fmt.Errorf("queue_depth must be positive, got %d", *s.QueueDepth)
	}
	if s.Perspective != nil {
		if err := s.Perspective.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// GetZFactor returns the default height scale for volume calculations.
func (s *Settings) GetZFactor() float64 {
	if s.ZFactor == nil {
		return 1.0
	}
	return *s.ZFactor
}

// GetPixelScaleXY returns the physical cell size.
func (s *Settings) GetPixelScaleXY() float64 {
	if s.PixelScaleXY == nil {
		return 1.0
	}
	return *s.PixelScaleXY
}

// GetPixelScaleZ returns the physical height scale.
func (s *Settings) GetPixelScaleZ() float64 {
	if s.PixelScaleZ == nil {
		return 1.0
	}
	return *s.PixelScaleZ
}

// GetFrameSource returns the capture backend name.
func (s *Settings) GetFrameSource() string {
	if s.FrameSource == nil {
		return "synthetic"
	}
	return *s.FrameSource
}

// GetFrameWidth returns the synthetic frame width.
func (s *Settings) GetFrameWidth() int {
	if s.FrameWidth == nil {
		return 640
	}
	return *s.FrameWidth
}

// GetFrameHeight returns the synthetic frame height.
func (s *Settings) GetFrameHeight() int {
	if s.FrameHeight == nil {
		return 480
	}
	return *s.FrameHeight
}

// GetDenoiser returns the denoising strategy name.
func (s *Settings) GetDenoiser() string {
	if s.Denoiser == nil {
		return "gaussian"
	}
	return *s.Denoiser
}

// GetDenoiseKernel returns the denoising kernel size.
func (s *Settings) GetDenoiseKernel() int {
	if s.DenoiseKernel == nil {
		return 5
	}
	return *s.DenoiseKernel
}

// GetQueueDepth returns the analysis worker queue depth.
func (s *Settings) GetQueueDepth() int {
	if s.QueueDepth == nil {
		return 8
	}
	return *s.QueueDepth
}
