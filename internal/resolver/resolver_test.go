package resolver_test

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/JaimeStill/stapler/internal/resolver"
)

func TestStem(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"abc123.pdf", "abc123"},
		{"archive.tar.gz", "archive.tar"},
		{"noext", "noext"},
		{".pdf", ".pdf"},
		{"..pdf", "..pdf"},
		{".hidden.png", ".hidden"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := resolver.Stem(tt.in); got != tt.expected {
			t.Errorf("Stem(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestResolve(t *testing.T) {
	m := resolver.New([]resolver.Entry{
		{RandomFilename: "abc123.pdf", OriginalFilename: "invoice.pdf"},
		{RandomFilename: "def456.png", OriginalFilename: "crl.png"},
		{RandomFilename: "abc1234.pdf", OriginalFilename: "longer.pdf"},
	})

	tests := []struct {
		name     string
		pageID   string
		expected string
	}{
		{"match", "abc123.pdf_page_1", "invoice.pdf"},
		{"image", "def456.png_page_1", "crl.png"},
		{"longest wins", "abc1234.pdf_page_2", "longer.pdf"},
		{"no match", "zzz999.pdf_page_1", resolver.NotFound},
		{"empty id", "", resolver.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Resolve(tt.pageID); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestResolveTieFirstWins(t *testing.T) {
	m := resolver.New([]resolver.Entry{
		{RandomFilename: "aaa.pdf", OriginalFilename: "first.pdf"},
		{RandomFilename: "bbb.pdf", OriginalFilename: "second.pdf"},
	})

	if got := m.Resolve("aaa_bbb_page_1"); got != "first.pdf" {
		t.Errorf("got %q, want first.pdf", got)
	}
}

func TestNewFiltersEntries(t *testing.T) {
	m := resolver.New([]resolver.Entry{
		{RandomFilename: "", OriginalFilename: "blank.pdf"},
		{RandomFilename: "x1.pdf", OriginalFilename: ""},
		{RandomFilename: "x1.pdf", OriginalFilename: "first.pdf"},
		{RandomFilename: "x1.pdf", OriginalFilename: "dup.pdf"},
	})

	if m.Len() != 1 {
		t.Fatalf("len: got %d, want 1", m.Len())
	}
	if got := m.Resolve("x1.pdf_page_1"); got != "first.pdf" {
		t.Errorf("got %q, want first.pdf", got)
	}
}

func TestResolvePages(t *testing.T) {
	m := resolver.New([]resolver.Entry{{RandomFilename: "abc123.pdf", OriginalFilename: "invoice.pdf"}})

	got := m.ResolvePages([]string{"abc123.pdf_page_1", "zzz999.pdf_page_1", "abc123.pdf_page_2"})
	want := []string{"invoice.pdf", resolver.NotFound, "invoice.pdf"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLoad(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		m, err := resolver.Load(strings.NewReader(`[{"random_filename":"abc123.pdf","original_filename":"invoice.pdf"}]`))
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if m.Resolve("abc123.pdf_page_1") != "invoice.pdf" {
			t.Error("expected entry to resolve")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := resolver.Load(strings.NewReader(`{"random_filename":`))
		if !errors.Is(err, resolver.ErrInvalidMapping) {
			t.Errorf("got %v, want ErrInvalidMapping", err)
		}
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	_, err := resolver.LoadFile(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, resolver.ErrMappingNotFound) {
		t.Errorf("got %v, want ErrMappingNotFound", err)
	}

	path := filepath.Join(dir, "mapping.json")
	if err := os.WriteFile(path, []byte(`[{"random_filename":"r.png","original_filename":"o.png"}]`), 0600); err != nil {
		t.Fatal(err)
	}

	m, err := resolver.LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if m.Resolve("r.png_page_1") != "o.png" {
		t.Error("expected entry to resolve")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{resolver.ErrMappingNotFound, http.StatusNotFound},
		{resolver.ErrInvalidMapping, http.StatusBadRequest},
		{errors.New("other"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := resolver.MapHTTPStatus(tt.err); got != tt.expected {
			t.Errorf("%v: got %d, want %d", tt.err, got, tt.expected)
		}
	}
}
