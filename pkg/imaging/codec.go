package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	_ "image/gif"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Format is an output encoding for enhanced pages.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

// JPEGQuality is the quality used for JPEG output.
const JPEGQuality = 75

// ParseFormat resolves a configured format name. An empty name selects PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

// MimeType returns the media type produced by f.
func (f Format) MimeType() string {
	if f == JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Ext returns the file extension for f, without the leading dot.
func (f Format) Ext() string {
	if f == JPEG {
		return "jpg"
	}
	return "png"
}

// Encoder encodes images in a single format.
type Encoder struct {
	format Format
}

// NewEncoder returns an Encoder for f. Unknown formats fail at Encode.
func NewEncoder(f Format) *Encoder {
	return &Encoder{format: f}
}

// MimeType returns the content type of the encoded output.
func (e *Encoder) MimeType() string {
	return e.format.MimeType()
}

// Encode returns the encoded bytes of img.
func (e *Encoder) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch e.format {
	case PNG:
		err = png.Encode(&buf, img)
	case JPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, e.format)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

// Decode reads a png, jpeg, gif, bmp, tiff or webp image from r.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return img, nil
}
