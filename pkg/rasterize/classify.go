package rasterize

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// HasText reports whether s contains any rune other than whitespace and
// control characters.
func HasText(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsSpace(r) && !unicode.IsControl(r)
	}) >= 0
}

// Classify returns the origin of each of the first n pages of data. Pages
// whose text layer cannot be read are Scanned. A reader panic anywhere in the
// pass leaves every page Scanned.
func Classify(data []byte, n int) (origins []Origin) {
	origins = make([]Origin, n)
	for i := range origins {
		origins[i] = Scanned
	}

	defer func() {
		if p := recover(); p != nil {
			for i := range origins {
				origins[i] = Scanned
			}
		}
	}()

	r, err := openText(data)
	if err != nil {
		return origins
	}

	for i := range min(n, r.NumPage()) {
		if HasText(pageText(r, i+1)) {
			origins[i] = Digital
		}
	}
	return origins
}

func openText(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			r, err = nil, ErrInvalidPDF
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

func pageText(r *pdf.Reader, number int) (text string) {
	defer func() {
		if p := recover(); p != nil {
			text = ""
		}
	}()

	page := r.Page(number)
	if page.V.IsNull() {
		return ""
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}
