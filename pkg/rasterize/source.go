package rasterize

import (
	"fmt"
	"io"

	"github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/image"
)

// PageSource renders individual pages of an opened PDF.
type PageSource interface {
	// RenderPage returns the encoded bitmap of a 1-based page at dpi.
	RenderPage(number, dpi int) ([]byte, error)
	io.Closer
}

// Opener opens a PDF on disk for rendering.
type Opener interface {
	Open(path string) (PageSource, error)
}

type pageExtractor interface {
	ExtractPage(pageNum int) (document.Page, error)
	io.Closer
}

// MagickOpener renders pages through ImageMagick via document-context.
type MagickOpener struct{}

func (MagickOpener) Open(path string) (PageSource, error) {
	doc, err := document.OpenPDF(path)
	if err != nil {
		return nil, err
	}
	return &magickSource{doc: doc}, nil
}

type magickSource struct {
	doc pageExtractor
}

func (s *magickSource) RenderPage(number, dpi int) ([]byte, error) {
	page, err := s.doc.ExtractPage(number)
	if err != nil {
		return nil, fmt.Errorf("extract page %d: %w", number, err)
	}

	renderer, err := image.NewImageMagickRenderer(config.ImageConfig{
		Format: "png",
		DPI:    dpi,
		Options: map[string]any{
			"background": "white",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	data, err := page.ToImage(renderer, nil)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", number, err)
	}
	return data, nil
}

func (s *magickSource) Close() error {
	return s.doc.Close()
}
