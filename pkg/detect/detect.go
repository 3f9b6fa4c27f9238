// Package detect identifies file types from content, falling back to the
// file extension only when content sniffing is inconclusive.
package detect

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Unknown is returned when neither content nor extension identify the file.
const Unknown = "application/octet-stream"

// PDF is the normalized MIME type for PDF documents.
const PDF = "application/pdf"

// File returns the normalized MIME type of the file at path.
// It never fails: unreadable or unrecognized files yield Unknown.
func File(path string) string {
	if m, err := mimetype.DetectFile(path); err == nil {
		if mt := Normalize(m.String()); mt != Unknown {
			return mt
		}
	}

	if mt := mime.TypeByExtension(filepath.Ext(path)); mt != "" {
		return Normalize(mt)
	}

	return Unknown
}

// Normalize lowercases a MIME type and strips any parameters.
// Empty or malformed input yields Unknown.
func Normalize(mt string) string {
	mt, _, _ = strings.Cut(mt, ";")
	mt = strings.ToLower(strings.TrimSpace(mt))
	if mt == "" || !strings.Contains(mt, "/") {
		return Unknown
	}
	return mt
}

// IsPDF reports whether mt identifies a PDF document.
func IsPDF(mt string) bool {
	return mt == PDF
}

// IsImage reports whether mt identifies a raster image.
func IsImage(mt string) bool {
	return strings.HasPrefix(mt, "image/")
}
