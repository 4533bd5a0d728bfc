package capture

import (
	"fmt"
	"image"
	"math"
	"sync/atomic"
	"time"
)

// SyntheticSource generates an animated terrain-like pattern: a radial
// ripple drifting over a diagonal ramp. Deterministic per frame counter,
// so tests can assert exact values.
type SyntheticSource struct {
	sourceState
	width   int
	height  int
	counter atomic.Int64
}

// NewSyntheticSource returns a generator producing width x height frames.
func NewSyntheticSource(width, height int) *SyntheticSource {
	if width <= 0 {
		width = 640
	}
	if height <= 0 {
		height = 480
	}
	return &SyntheticSource{width: width, height: height}
}

// Start implements FrameSource.
func (s *SyntheticSource) Start() error {
	s.setRunning(true)
	return nil
}

// Stop implements FrameSource.
func (s *SyntheticSource) Stop() {
	s.setRunning(false)
}

// Frame implements FrameSource. Each call advances the animation by one
// tick.
func (s *SyntheticSource) Frame() (*Frame, error) {
	if !s.isRunning() {
		return nil, fmt.Errorf("synthetic source not started")
	}
	tick := float64(s.counter.Add(1))

	img := image.NewGray(image.Rect(0, 0, s.width, s.height))
	cx := float64(s.width)/2 + 40*math.Sin(tick/30)
	cy := float64(s.height)/2 + 40*math.Cos(tick/30)

	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			ramp := 0.3 * (float64(x) + float64(y)) / float64(s.width+s.height) * 255
			r := math.Hypot(float64(x)-cx, float64(y)-cy)
			ripple := 80 * (0.5 + 0.5*math.Sin(r/12-tick/10))
			v := ramp + ripple
			if v > 255 {
				v = 255
			}
			img.Pix[y*img.Stride+x] = uint8(v)
		}
	}

	return &Frame{Image: img, Timestamp: time.Now()}, nil
}
