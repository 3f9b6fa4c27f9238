// Package rasterize renders PDF pages into bitmaps at a configured
// resolution and classifies each page as digital or scanned.
package rasterize

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/image/draw"

	"github.com/JaimeStill/stapler/pkg/imaging"
)

// PointsPerInch is the PDF user space unit density.
const PointsPerInch = 72

// Origin records how a page's content was produced.
type Origin string

const (
	Digital Origin = "DIGITAL"
	Scanned Origin = "SCANNED"
)

// Config controls output resolution. The per-page scale factor is
// TargetDPI / ReferenceDPI applied to the page size in points.
type Config struct {
	TargetDPI    int
	ReferenceDPI int
}

func DefaultConfig() Config {
	return Config{TargetDPI: 200, ReferenceDPI: 72}
}

func (c Config) Validate() error {
	if c.TargetDPI <= 0 {
		return fmt.Errorf("%w: target_dpi must be positive", ErrInvalidConfig)
	}
	if c.ReferenceDPI <= 0 {
		return fmt.Errorf("%w: reference_dpi must be positive", ErrInvalidConfig)
	}
	return nil
}

// Scale returns the pixels-per-point factor.
func (c Config) Scale() float64 {
	return float64(c.TargetDPI) / float64(c.ReferenceDPI)
}

// Density returns the rendering density in dots per inch.
func (c Config) Density() int {
	return max(int(math.Round(PointsPerInch*c.Scale())), 1)
}

// Page is one rendered page.
type Page struct {
	Number int
	Image  image.Image
	Origin Origin
}

// Skip describes a page that could not be rendered.
type Skip struct {
	Number int
	Reason string
}

// Summary reports what a Rasterize call produced.
type Summary struct {
	PageCount int
	Rendered  int
	Skipped   []Skip
}

// Rasterizer renders PDFs page by page. It is safe for concurrent use
// when its Opener is.
type Rasterizer struct {
	cfg    Config
	opener Opener
	logger *slog.Logger
}

// New creates a Rasterizer. A nil opener selects the ImageMagick renderer.
func New(cfg Config, opener Opener, logger *slog.Logger) (*Rasterizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opener == nil {
		opener = MagickOpener{}
	}
	return &Rasterizer{
		cfg:    cfg,
		opener: opener,
		logger: logger.With("system", "rasterize"),
	}, nil
}

func (r *Rasterizer) Config() Config {
	return r.cfg
}

// Rasterize renders every page of data in physical order and passes each to
// visit. A structurally unreadable PDF fails the call. A page that fails to
// render is skipped and recorded in the summary. An error returned by visit
// stops iteration and is returned unchanged.
func (r *Rasterizer) Rasterize(ctx context.Context, data []byte, visit func(Page) error) (*Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dims, err := PageDims(data)
	if err != nil {
		return nil, err
	}

	summary := &Summary{PageCount: len(dims)}
	if len(dims) == 0 {
		return summary, nil
	}

	origins := Classify(data, len(dims))

	path, cleanup, err := stage(data)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	src, err := r.opener.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer src.Close()

	density := r.cfg.Density()
	scale := r.cfg.Scale()

	for i, dim := range dims {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		number := i + 1
		img, err := r.render(src, number, density, expectedSize(dim, scale))
		if err != nil {
			r.logger.WarnContext(ctx, "page skipped", "page", number, "reason", err)
			summary.Skipped = append(summary.Skipped, Skip{Number: number, Reason: err.Error()})
			continue
		}

		if err := visit(Page{Number: number, Image: img, Origin: origins[i]}); err != nil {
			return nil, err
		}
		summary.Rendered++
	}

	return summary, nil
}

// PageDims reads the size of every page in points.
func PageDims(data []byte) ([]types.Dim, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	dims, err := api.PageDims(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPDF, err)
	}
	return dims, nil
}

func (r *Rasterizer) render(src PageSource, number, density int, size image.Point) (image.Image, error) {
	data, err := src.RenderPage(number, density)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	if img.Bounds().Size() == size {
		return img, nil
	}
	return resize(img, size), nil
}

func expectedSize(dim types.Dim, scale float64) image.Point {
	return image.Point{
		X: max(int(math.Round(dim.Width*scale)), 1),
		Y: max(int(math.Round(dim.Height*scale)), 1),
	}
}

func resize(img image.Image, size image.Point) *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: size})
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func stage(data []byte) (string, func(), error) {
	f, err := os.CreateTemp("", "stapler-*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrStage, err)
	}
	path := f.Name()
	cleanup := func() { os.Remove(path) }

	if _, err := f.Write(data); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("%w: %w", ErrStage, err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("%w: %w", ErrStage, err)
	}

	return path, cleanup, nil
}
