// Package capture provides frame sources and frame preprocessing.
//
// A FrameSource produces grayscale-convertible frames on demand; the
// analysis layer pulls the latest frame, denoises it, and converts it to
// a scalar field. Real camera device management is out of scope; the
// sources here are a synthetic pattern generator and an X11 screen grab.
package capture

import (
	"fmt"
	"image"
	"sync"
	"time"
)

// Frame is a single captured image with its capture time.
type Frame struct {
	Image     image.Image
	Timestamp time.Time
}

// FrameSource is the contract a frame supplier implements. Frame returns
// the most recent frame; it never blocks waiting for a new one.
type FrameSource interface {
	Start() error
	Stop()
	Frame() (*Frame, error)
}

// sourceState tracks running/stopped across Start/Stop pairs. Embedded
// by the concrete sources.
type sourceState struct {
	mu      sync.Mutex
	running bool
}

func (s *sourceState) setRunning(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = v
}

func (s *sourceState) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NewSource builds a frame source by name: "synthetic" or "screen".
func NewSource(name string, width, height int) (FrameSource, error) {
	switch name {
	case "synthetic":
		return NewSyntheticSource(width, height), nil
	case "screen":
		return NewScreenSource(), nil
	default:
		return nil, fmt.Errorf("unknown frame source %q (want synthetic or screen)", name)
	}
}
