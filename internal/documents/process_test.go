package documents_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/stapler/internal/documents"
	"github.com/JaimeStill/stapler/internal/manifest"
	"github.com/JaimeStill/stapler/internal/prompts"
	"github.com/JaimeStill/stapler/internal/provider/providertest"
	"github.com/JaimeStill/stapler/internal/resolver"
	"github.com/JaimeStill/stapler/internal/runs"
	"github.com/JaimeStill/stapler/internal/workflow"
	"github.com/JaimeStill/stapler/pkg/middleware"
	"github.com/JaimeStill/stapler/pkg/pagination"
)

type failingBuilder struct {
	err   error
	calls *int
}

func (b failingBuilder) Build(context.Context, string) (*manifest.Manifest, error) {
	if b.calls != nil {
		*b.calls++
	}
	return nil, b.err
}

type recordingRuns struct {
	runs.System
	recorded []runs.CreateCommand
}

func (r *recordingRuns) Record(_ context.Context, cmd runs.CreateCommand) (*runs.Run, error) {
	r.recorded = append(r.recorded, cmd)
	return &runs.Run{ID: uuid.New(), Status: cmd.Status}, nil
}

func TestProcessRejectsEmptyFolder(t *testing.T) {
	rec := &recordingRuns{}
	sys := documents.New(nil, nil, rec, &workflow.Runtime{}, "fake", discard(), pagination.Config{})

	_, err := sys.Process(context.Background(), documents.ProcessCommand{FolderPath: "  "})
	if !errors.Is(err, documents.ErrInvalidRequest) {
		t.Fatalf("got %v, want ErrInvalidRequest", err)
	}
	if len(rec.recorded) != 0 {
		t.Errorf("invalid request recorded %d runs", len(rec.recorded))
	}
}

func TestProcessRecordsFailedRun(t *testing.T) {
	rec := &recordingRuns{}
	fake := &providertest.Fake{}
	rt := &workflow.Runtime{
		Builder:  failingBuilder{err: manifest.ErrNotFound},
		Provider: fake,
		Prompts:  prompts.Defaults{},
		Logger:   discard(),
	}

	sys := documents.New(nil, nil, rec, rt, "azure", discard(), pagination.Config{})

	mapping := filepath.Join(t.TempDir(), "map.json")
	entries := `[{"random_filename": "abc123.pdf", "original_filename": "invoice.pdf"}]`
	if err := os.WriteFile(mapping, []byte(entries), 0o600); err != nil {
		t.Fatal(err)
	}
	ctx := middleware.WithRequestID(context.Background(), "req-42")

	_, err := sys.Process(ctx, documents.ProcessCommand{FolderPath: "/absent", MappingFilePath: &mapping})
	if !errors.Is(err, manifest.ErrNotFound) {
		t.Fatalf("got %v, want manifest.ErrNotFound", err)
	}

	if n := len(fake.Calls()); n != 0 {
		t.Errorf("engine called %d times", n)
	}

	if len(rec.recorded) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(rec.recorded))
	}

	cmd := rec.recorded[0]
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"status", cmd.Status, runs.StatusFailed},
		{"request id", cmd.RequestID, "req-42"},
		{"folder", cmd.FolderPath, "/absent"},
		{"provider", cmd.ProviderName, "azure"},
		{"error recorded", cmd.Error != nil, true},
		{"mapping path", *cmd.MappingPath, mapping},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestProcessMissingMappingSkipsBuild(t *testing.T) {
	rec := &recordingRuns{}
	builds := 0
	rt := &workflow.Runtime{
		Builder:  failingBuilder{err: manifest.ErrNotFound, calls: &builds},
		Provider: &providertest.Fake{},
		Prompts:  prompts.Defaults{},
		Logger:   discard(),
	}

	sys := documents.New(nil, nil, rec, rt, "azure", discard(), pagination.Config{})

	mapping := filepath.Join(t.TempDir(), "missing.json")
	_, err := sys.Process(context.Background(), documents.ProcessCommand{FolderPath: "/scans", MappingFilePath: &mapping})
	if !errors.Is(err, resolver.ErrMappingNotFound) {
		t.Fatalf("got %v, want resolver.ErrMappingNotFound", err)
	}
	if builds != 0 {
		t.Errorf("builder called %d times, want 0", builds)
	}
	if len(rec.recorded) != 1 || rec.recorded[0].Status != runs.StatusFailed {
		t.Errorf("recorded: got %+v", rec.recorded)
	}
}
