package imaging_test

import (
	"bytes"
	"errors"
	"image"
	"testing"

	"github.com/JaimeStill/stapler/pkg/imaging"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in       string
		expected imaging.Format
		err      error
	}{
		{"", imaging.PNG, nil},
		{"PNG", imaging.PNG, nil},
		{"jpeg", imaging.JPEG, nil},
		{"jpg", imaging.JPEG, nil},
		{"webp", "", imaging.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := imaging.ParseFormat(tt.in)
			if !errors.Is(err, tt.err) {
				t.Fatalf("err: got %v, want %v", err, tt.err)
			}
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestEncoderRoundTrip(t *testing.T) {
	src := imaging.ToRGB(uniform(8, 6, 200))

	tests := []struct {
		format imaging.Format
		mime   string
		ext    string
	}{
		{imaging.PNG, "image/png", "png"},
		{imaging.JPEG, "image/jpeg", "jpg"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			enc := imaging.NewEncoder(tt.format)
			if enc.MimeType() != tt.mime {
				t.Errorf("mime: got %s, want %s", enc.MimeType(), tt.mime)
			}
			if tt.format.Ext() != tt.ext {
				t.Errorf("ext: got %s, want %s", tt.format.Ext(), tt.ext)
			}

			data, err := enc.Encode(src)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}

			img, err := imaging.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if img.Bounds() != image.Rect(0, 0, 8, 6) {
				t.Errorf("bounds: got %v", img.Bounds())
			}
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	_, err := imaging.Decode(bytes.NewReader([]byte("not an image")))
	if !errors.Is(err, imaging.ErrDecode) {
		t.Errorf("got %v, want ErrDecode", err)
	}
}

func TestEncoderUnsupportedFormat(t *testing.T) {
	enc := imaging.NewEncoder(imaging.Format("tiff"))

	_, err := enc.Encode(image.NewGray(image.Rect(0, 0, 2, 2)))
	if !errors.Is(err, imaging.ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
}
