// Package rasterizetest provides PDF fixtures and a fake page renderer for
// tests that exercise rasterization without ImageMagick.
package rasterizetest

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync/atomic"

	"github.com/JaimeStill/stapler/pkg/rasterize"
)

// Letter page size in points.
const (
	PageWidth  = 612
	PageHeight = 792
)

// PDF builds a minimal, structurally valid PDF with one Letter page per
// entry in pages. A non-empty entry is drawn as a text layer in Helvetica.
// An empty entry produces a page carrying only vector strokes.
func PDF(pages ...string) []byte {
	var objs []string

	n := len(pages)
	kids := make([]string, n)
	for i := range n {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)

	for i, text := range pages {
		content := "0 0 m 100 100 l S"
		if text != "" {
			content = fmt.Sprintf("BT /F1 24 Tf 72 700 Td (%s) Tj ET", escape(text))
		}
		objs = append(objs,
			fmt.Sprintf(
				"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
				PageWidth, PageHeight, 5+2*i,
			),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objs))
	for i, obj := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)

	return buf.Bytes()
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// PNG encodes a w by h light page with a dark horizontal band.
func PNG(w, h int) []byte {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		v := uint8(235)
		if y > h/3 && y < h/3+max(h/20, 1) {
			v = 30
		}
		for x := range w {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Opener is a fake renderer. Each page renders as a Width by Height PNG,
// or, when Width is zero, at the size implied by the requested dpi.
// Pages listed in Fail return an error.
type Opener struct {
	Width  int
	Height int
	Fail   map[int]bool

	opened atomic.Int64
}

func (o *Opener) Open(path string) (rasterize.PageSource, error) {
	o.opened.Add(1)
	return &source{o: o}, nil
}

// Opened returns how many documents have been opened.
func (o *Opener) Opened() int {
	return int(o.opened.Load())
}

type source struct {
	o *Opener
}

func (s *source) RenderPage(number, dpi int) ([]byte, error) {
	if s.o.Fail[number] {
		return nil, fmt.Errorf("render page %d: simulated failure", number)
	}

	w, h := s.o.Width, s.o.Height
	if w == 0 || h == 0 {
		w = PageWidth * dpi / rasterize.PointsPerInch
		h = PageHeight * dpi / rasterize.PointsPerInch
	}
	return PNG(w, h), nil
}

func (s *source) Close() error {
	return nil
}
