package capture

import (
	"fmt"
	"image"
	"time"

	"github.com/vova616/screenshot"
)

// ScreenSource captures the desktop as the frame stream. Useful for
// analyzing on-screen imagery (simulators, recorded footage playing in
// another window) without camera hardware.
type ScreenSource struct {
	sourceState

	// Rect restricts capture to a sub-rectangle of the screen when
	// non-empty. Zero value captures the whole screen.
	Rect image.Rectangle
}

// NewScreenSource returns a whole-screen capture source.
func NewScreenSource() *ScreenSource {
	return &ScreenSource{}
}

// Start implements FrameSource. It probes the screen once so a missing
// display fails at startup instead of on the first analysis request.
func (s *ScreenSource) Start() error {
	if _, err := screenshot.ScreenRect(); err != nil {
		return fmt.Errorf("screen capture unavailable: %w", err)
	}
	s.setRunning(true)
	return nil
}

// Stop implements FrameSource.
func (s *ScreenSource) Stop() {
	s.setRunning(false)
}

// Frame implements FrameSource.
func (s *ScreenSource) Frame() (*Frame, error) {
	if !s.isRunning() {
		return nil, fmt.Errorf("screen source not started")
	}

	var img image.Image
	var err error
	if s.Rect.Empty() {
		img, err = screenshot.CaptureScreen()
	} else {
		img, err = screenshot.CaptureRect(s.Rect)
	}
	if err != nil {
		return nil, fmt.Errorf("screen capture failed: %w", err)
	}
	return &Frame{Image: img, Timestamp: time.Now()}, nil
}
