package workflow_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/JaimeStill/stapler/internal/manifest"
	"github.com/JaimeStill/stapler/internal/provider"
	"github.com/JaimeStill/stapler/internal/provider/providertest"
	"github.com/JaimeStill/stapler/internal/resolver"
	"github.com/JaimeStill/stapler/internal/workflow"
)

type stubBuilder struct {
	m   *manifest.Manifest
	err error
}

func (b stubBuilder) Build(ctx context.Context, dir string) (*manifest.Manifest, error) {
	if b.err != nil {
		return nil, b.err
	}
	m := *b.m
	m.Folder = dir
	return &m, nil
}

type stubComposer struct {
	prompt string
	err    error
}

func (c stubComposer) Compose(ctx context.Context) (string, error) {
	return c.prompt, c.err
}

func page(file string, index int) manifest.PageRecord {
	return manifest.PageRecord{
		SourceFilename: file,
		PageIndex:      index,
		PageID:         manifest.PageID(file, index),
		MimeType:       "image/png",
		Image:          []byte{0x89, 'P', 'N', 'G'},
	}
}

func sample() *manifest.Manifest {
	return &manifest.Manifest{
		Pages: []manifest.PageRecord{
			page("abc123.pdf", 1),
			page("abc123.pdf", 2),
			page("zzz999.png", 1),
		},
		Files: []manifest.FileOutcome{
			{Filename: "abc123.pdf", Status: manifest.StatusProcessed, PageCount: 2},
			{Filename: "notes.txt", Status: manifest.StatusSkipped, Reason: "unsupported type"},
			{Filename: "zzz999.png", Status: manifest.StatusProcessed, PageCount: 1},
		},
	}
}

func newRuntime(b workflow.Builder, p provider.Provider) *workflow.Runtime {
	return &workflow.Runtime{
		Builder:  b,
		Provider: p,
		Prompts:  stubComposer{prompt: "group these pages"},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func writeMapping(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mapping.json")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExecuteWithoutMapping(t *testing.T) {
	fake := &providertest.Fake{Group: providertest.PerFile}
	rt := newRuntime(stubBuilder{m: sample()}, fake)

	res, err := workflow.Execute(context.Background(), rt, workflow.Input{
		RequestID:  "req-1",
		FolderPath: "/scans",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if res.RequestID != "req-1" {
		t.Errorf("request id: got %q", res.RequestID)
	}

	calls := fake.Calls()
	if len(calls) != 1 {
		t.Fatalf("got %d engine calls, want 1", len(calls))
	}
	if calls[0].Instructions != "group these pages" {
		t.Errorf("instructions: got %q", calls[0].Instructions)
	}
	if got := calls[0].IDs(); !slices.Equal(got, sample().PageIDs()) {
		t.Errorf("request pages: got %v", got)
	}

	if len(res.Documents) != 2 {
		t.Fatalf("got %d documents, want 2", len(res.Documents))
	}

	doc := res.Documents[0]
	want := []string{"abc123.pdf_page_1", "abc123.pdf_page_2"}
	if !slices.Equal(doc.Pages, want) || !slices.Equal(doc.PageIDs, want) {
		t.Errorf("pages %v page_ids %v, want %v", doc.Pages, doc.PageIDs, want)
	}

	md := res.Metadata
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"folder", md.FolderPath, "/scans"},
		{"file count", md.FileCount, 3},
		{"processed", md.ProcessedFiles, 2},
		{"skipped", md.SkippedFiles, 1},
		{"pages", md.PageCount, 3},
		{"documents", md.DocumentCount, 2},
		{"mapped", md.Mapped, false},
		{"model", md.Model, "fake"},
		{"notes", md.Notes, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if res.Manifest == nil || len(res.Manifest.Pages) != 3 {
		t.Error("manifest not retained")
	}
}

func TestExecuteWithMapping(t *testing.T) {
	path := writeMapping(t, `[{"random_filename":"abc123.pdf","original_filename":"invoice.pdf"}]`)

	fake := &providertest.Fake{Group: providertest.PerFile}
	rt := newRuntime(stubBuilder{m: sample()}, fake)

	res, err := workflow.Execute(context.Background(), rt, workflow.Input{
		FolderPath:  "/scans",
		MappingPath: path,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if res.RequestID == "" {
		t.Error("request id not generated")
	}

	tests := []struct {
		name    string
		doc     int
		pages   []string
		pageIDs []string
	}{
		{
			name:    "resolved",
			doc:     0,
			pages:   []string{"invoice.pdf", "invoice.pdf"},
			pageIDs: []string{"abc123.pdf_page_1", "abc123.pdf_page_2"},
		},
		{
			name:    "not found",
			doc:     1,
			pages:   []string{resolver.NotFound},
			pageIDs: []string{"zzz999.png_page_1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := res.Documents[tt.doc]
			if !slices.Equal(doc.Pages, tt.pages) {
				t.Errorf("pages: got %v, want %v", doc.Pages, tt.pages)
			}
			if !slices.Equal(doc.PageIDs, tt.pageIDs) {
				t.Errorf("page ids: got %v, want %v", doc.PageIDs, tt.pageIDs)
			}
		})
	}

	if !res.Metadata.Mapped {
		t.Error("expected mapped metadata")
	}
	if res.Metadata.UnresolvedCount != 1 {
		t.Errorf("unresolved: got %d, want 1", res.Metadata.UnresolvedCount)
	}
}

func TestExecuteEmptyFolder(t *testing.T) {
	empty := &manifest.Manifest{
		Files: []manifest.FileOutcome{
			{Filename: "notes.txt", Status: manifest.StatusSkipped},
		},
	}

	fake := &providertest.Fake{}
	rt := newRuntime(stubBuilder{m: empty}, fake)

	res, err := workflow.Execute(context.Background(), rt, workflow.Input{FolderPath: "/scans"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if n := len(fake.Calls()); n != 0 {
		t.Errorf("engine called %d times", n)
	}
	if res.Documents == nil || len(res.Documents) != 0 {
		t.Errorf("documents: got %v, want empty", res.Documents)
	}
	if res.Metadata.Notes != workflow.EmptyNote {
		t.Errorf("notes: got %q", res.Metadata.Notes)
	}
	if res.Metadata.FileCount != 1 {
		t.Errorf("file count: got %d", res.Metadata.FileCount)
	}
}

func TestExecuteErrors(t *testing.T) {
	engineErr := errors.New("engine down")
	composeErr := errors.New("db offline")

	tests := []struct {
		name     string
		builder  workflow.Builder
		provider provider.Provider
		prompts  workflow.Composer
		mapping  string
		want     error
		calls    int
	}{
		{
			name:     "missing folder",
			builder:  stubBuilder{err: manifest.ErrNotFound},
			provider: &providertest.Fake{},
			want:     manifest.ErrNotFound,
		},
		{
			name:     "missing mapping",
			builder:  stubBuilder{m: sample()},
			provider: &providertest.Fake{},
			mapping:  filepath.Join(t.TempDir(), "absent.json"),
			want:     resolver.ErrMappingNotFound,
		},
		{
			name:     "malformed mapping",
			builder:  stubBuilder{m: sample()},
			provider: &providertest.Fake{},
			mapping:  writeMapping(t, `{not json`),
			want:     resolver.ErrInvalidMapping,
		},
		{
			name:     "engine failure",
			builder:  stubBuilder{m: sample()},
			provider: &providertest.Fake{Err: engineErr},
			want:     engineErr,
			calls:    1,
		},
		{
			name:     "compose failure",
			builder:  stubBuilder{m: sample()},
			provider: &providertest.Fake{},
			prompts:  stubComposer{err: composeErr},
			want:     workflow.ErrCompose,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := newRuntime(tt.builder, tt.provider)
			if tt.prompts != nil {
				rt.Prompts = tt.prompts
			}

			_, err := workflow.Execute(context.Background(), rt, workflow.Input{
				FolderPath:  "/scans",
				MappingPath: tt.mapping,
			})
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}

			if fake, ok := tt.provider.(*providertest.Fake); ok {
				if n := len(fake.Calls()); n != tt.calls {
					t.Errorf("engine calls: got %d, want %d", n, tt.calls)
				}
			}
		})
	}
}
