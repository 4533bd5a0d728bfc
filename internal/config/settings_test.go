package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestEmptySettingsDefaults(t *testing.T) {
	s := EmptySettings()

	if got := s.GetZFactor(); got != 1.0 {
		t.Errorf("GetZFactor() = %g, want 1.0", got)
	}
	if got := s.GetPixelScaleXY(); got != 1.0 {
		t.Errorf("GetPixelScaleXY() = %g, want 1.0", got)
	}
	if got := s.GetFrameSource(); got != "synthetic" {
		t.Errorf("GetFrameSource() = %q, want synthetic", got)
	}
	if got := s.GetFrameWidth(); got != 640 {
		t.Errorf("GetFrameWidth() = %d, want 640", got)
	}
	if got := s.GetDenoiser(); got != "gaussian" {
		t.Errorf("GetDenoiser() = %q, want gaussian", got)
	}
	if got := s.GetDenoiseKernel(); got != 5 {
		t.Errorf("GetDenoiseKernel() = %d, want 5", got)
	}
	if got := s.GetQueueDepth(); got != 8 {
		t.Errorf("GetQueueDepth() = %d, want 8", got)
	}
}

func TestLoadPartialConfig(t *testing.T) {
	path := writeConfig(t, `{"z_factor": 2.5, "denoiser": "median", "denoise_kernel": 3}`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := s.GetZFactor(); got != 2.5 {
		t.Errorf("GetZFactor() = %g, want 2.5", got)
	}
	if got := s.GetDenoiser(); got != "median" {
		t.Errorf("GetDenoiser() = %q, want median", got)
	}
	// Unset fields keep their defaults.
	if got := s.GetFrameHeight(); got != 480 {
		t.Errorf("GetFrameHeight() = %d, want 480", got)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative z_factor", `{"z_factor": -1}`},
		{"zero pixel scale", `{"pixel_scale_xy": 0}`},
		{"even kernel", `{"denoise_kernel": 4}`},
		{"zero queue depth", `{"queue_depth": 0}`},
		{"bad json", `{"z_factor": `},
		{"three perspective corners", `{"perspective": {"corners": [[0,0],[1,0],[1,1]], "real_width": 2, "real_height": 2}}`},
		{"non-pair corner", `{"perspective": {"corners": [[0,0],[1,0],[1,1],[0]], "real_width": 2, "real_height": 2}}`},
		{"zero real width", `{"perspective": {"corners": [[0,0],[1,0],[1,1],[0,1]], "real_width": 0, "real_height": 2}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Errorf("Load accepted %s", tt.content)
			}
		})
	}
}

func TestLoadPerspectiveCalibration(t *testing.T) {
	path := writeConfig(t, `{"perspective": {"corners": [[10,20],[620,25],[600,460],[15,450]], "real_width": 3.5, "real_height": 2.0}}`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Perspective == nil {
		t.Fatal("perspective block not loaded")
	}
	if got := len(s.Perspective.Corners); got != 4 {
		t.Errorf("corners = %d, want 4", got)
	}
	if s.Perspective.RealWidth != 3.5 {
		t.Errorf("real_width = %g, want 3.5", s.Perspective.RealWidth)
	}
}

func TestLoadRejectsNonJSONPath(t *testing.T) {
	if _, err := Load("settings.yaml"); err == nil {
		t.Error("Load accepted non-.json path")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Load accepted missing file")
	}
}
