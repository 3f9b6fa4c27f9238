// Package imaging implements the page enhancement pipeline applied to every
// rasterized page: grayscale, non-local means denoising, deskew, sharpening,
// and a linear contrast adjustment. All stages operate on 8-bit grayscale
// buffers and are deterministic for identical input and configuration.
package imaging

import "image"

// Config holds the tunable parameters of the enhancement pipeline.
type Config struct {
	// DenoiseStrength is the non-local means filter strength h.
	// Zero disables denoising.
	DenoiseStrength float64
	// TemplateWindow is the side length of the patch compared between pixels.
	TemplateWindow int
	// SearchWindow is the side length of the neighborhood searched for similar patches.
	SearchWindow int
	// AngleThreshold is the minimum absolute skew, in degrees, that triggers rotation.
	AngleThreshold float64
	// Alpha is the contrast gain.
	Alpha float64
	// Beta is the brightness offset.
	Beta float64
}

// DefaultConfig returns the standard enhancement parameters.
func DefaultConfig() Config {
	return Config{
		DenoiseStrength: 10,
		TemplateWindow:  7,
		SearchWindow:    21,
		AngleThreshold:  2.0,
		Alpha:           1.25,
		Beta:            0,
	}
}

// Enhancer applies the enhancement pipeline with a fixed configuration.
// It holds no mutable state and is safe for concurrent use.
type Enhancer struct {
	cfg Config
}

// NewEnhancer creates an Enhancer for the given configuration.
func NewEnhancer(cfg Config) *Enhancer {
	return &Enhancer{cfg: cfg}
}

// Config returns the enhancer's configuration.
func (e *Enhancer) Config() Config {
	return e.cfg
}

// Enhance runs every stage in order and returns an opaque three-channel image
// with the same dimensions as the input.
func (e *Enhancer) Enhance(img image.Image) *image.RGBA {
	g := Grayscale(img)
	g = Denoise(g, e.cfg.DenoiseStrength, e.cfg.TemplateWindow, e.cfg.SearchWindow)
	g, _ = Deskew(g, e.cfg.AngleThreshold)
	g = Sharpen(g)
	g = Contrast(g, e.cfg.Alpha, e.cfg.Beta)
	return ToRGB(g)
}

func cloneGray(src *image.Gray) *image.Gray {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		off := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], src.Pix[off:off+w])
	}
	return dst
}

// compact returns src re-based at the origin with a tight stride.
func compact(src *image.Gray) *image.Gray {
	if src.Rect.Min == (image.Point{}) && src.Stride == src.Rect.Dx() {
		return src
	}
	return cloneGray(src)
}

// reflect101 maps an out-of-range index into [0, n) by mirroring
// around the edge pixels without repeating them.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}

func clampInt(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}

func saturate(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
