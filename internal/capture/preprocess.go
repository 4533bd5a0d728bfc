package capture

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// Denoiser smooths a frame before analysis so sensor noise does not
// dominate the finite-difference gradient.
type Denoiser interface {
	Process(img image.Image) image.Image
}

// GaussianDenoiser suppresses high-frequency noise with a Gaussian blur.
type GaussianDenoiser struct {
	sigma float64
}

// NewGaussianDenoiser builds a Gaussian denoiser from an odd kernel size
// (the convention user settings use), converted to a blur sigma.
func NewGaussianDenoiser(kernelSize int) (*GaussianDenoiser, error) {
	if err := checkKernel(kernelSize); err != nil {
		return nil, err
	}
	// Common OpenCV-style mapping from kernel extent to sigma.
	sigma := 0.3*(float64(kernelSize-1)/2-1) + 0.8
	return &GaussianDenoiser{sigma: sigma}, nil
}

// Process implements Denoiser.
func (d *GaussianDenoiser) Process(img image.Image) image.Image {
	return imaging.Blur(img, d.sigma)
}

// MedianDenoiser removes salt-and-pepper noise with a median filter.
type MedianDenoiser struct {
	kernel int
}

// NewMedianDenoiser builds a median denoiser with the given odd kernel
// size.
func NewMedianDenoiser(kernelSize int) (*MedianDenoiser, error) {
	if err := checkKernel(kernelSize); err != nil {
		return nil, err
	}
	return &MedianDenoiser{kernel: kernelSize}, nil
}

// Process implements Denoiser.
func (d *MedianDenoiser) Process(img image.Image) image.Image {
	return effect.Median(img, float64(d.kernel))
}

// NoopDenoiser passes frames through untouched.
type NoopDenoiser struct{}

// Process implements Denoiser.
func (NoopDenoiser) Process(img image.Image) image.Image { return img }

// NewDenoiser builds a denoiser by name: "gaussian", "median" or "none".
func NewDenoiser(name string, kernelSize int) (Denoiser, error) {
	switch name {
	case "gaussian":
		return NewGaussianDenoiser(kernelSize)
	case "median":
		return NewMedianDenoiser(kernelSize)
	case "none", "":
		return NoopDenoiser{}, nil
	default:
		return nil, fmt.Errorf("unknown denoiser %q (want gaussian, median or none)", name)
	}
}

func checkKernel(size int) error {
	if size <= 0 || size%2 == 0 {
		return fmt.Errorf("kernel size must be a positive odd integer, got %d", size)
	}
	return nil
}
