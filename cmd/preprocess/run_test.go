package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/stapler/internal/manifest"
	"github.com/JaimeStill/stapler/internal/prompts"
	"github.com/JaimeStill/stapler/internal/provider/providertest"
	"github.com/JaimeStill/stapler/internal/workflow"
	"github.com/JaimeStill/stapler/pkg/imaging"
	"github.com/JaimeStill/stapler/pkg/rasterize"
	"github.com/JaimeStill/stapler/pkg/rasterize/rasterizetest"
)

func testRuntime(t *testing.T, fake *providertest.Fake) *workflow.Runtime {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r, err := rasterize.New(rasterize.Config{TargetDPI: 18, ReferenceDPI: 72}, &rasterizetest.Opener{}, logger)
	if err != nil {
		t.Fatalf("new rasterizer: %v", err)
	}

	ecfg := imaging.DefaultConfig()
	ecfg.DenoiseStrength = 0

	return &workflow.Runtime{
		Builder:  manifest.New(manifest.Config{Workers: 2}, r, imaging.NewEnhancer(ecfg), logger),
		Provider: fake,
		Prompts:  prompts.Defaults{},
		Logger:   logger,
	}
}

func folder(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string][]byte{
		"a.pdf": rasterizetest.PDF("Invoice", "Terms"),
		"b.png": rasterizetest.PNG(40, 30),
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func readManifest(t *testing.T, out string) manifest.Manifest {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(out, manifestFile))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var m manifest.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	return m
}

func TestRunManifestOnly(t *testing.T) {
	fake := &providertest.Fake{Group: providertest.PerFile}
	rt := testRuntime(t, fake)
	out := t.TempDir()

	if err := run(context.Background(), rt, options{Dir: folder(t), Out: out}); err != nil {
		t.Fatalf("run: %v", err)
	}

	m := readManifest(t, out)
	if len(m.Pages) != 3 {
		t.Fatalf("pages: got %d, want 3", len(m.Pages))
	}

	for _, id := range []string{"a.pdf_page_1", "a.pdf_page_2", "b.png_page_1"} {
		if _, err := os.Stat(filepath.Join(out, pagesDir, id+".png")); err != nil {
			t.Errorf("page image %s: %v", id, err)
		}
	}

	if _, err := os.Stat(filepath.Join(out, resultFile)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("result.json written without -sequence: %v", err)
	}
	if n := len(fake.Calls()); n != 0 {
		t.Errorf("engine calls: got %d, want 0", n)
	}
}

func TestRunSequence(t *testing.T) {
	fake := &providertest.Fake{Group: providertest.PerFile}
	rt := testRuntime(t, fake)
	out := t.TempDir()

	opts := options{Dir: folder(t), Out: out, Sequence: true}
	if err := run(context.Background(), rt, opts); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, resultFile))
	if err != nil {
		t.Fatalf("read result: %v", err)
	}

	var res struct {
		Documents []workflow.Document `json:"documents"`
		Metadata  workflow.Metadata   `json:"processing_metadata"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}

	if len(res.Documents) != 2 {
		t.Errorf("documents: got %d, want 2", len(res.Documents))
	}
	if res.Metadata.PageCount != 3 {
		t.Errorf("page count: got %d, want 3", res.Metadata.PageCount)
	}
	if n := len(fake.Calls()); n != 1 {
		t.Errorf("engine calls: got %d, want 1", n)
	}
}

func TestRunMissingFolder(t *testing.T) {
	rt := testRuntime(t, &providertest.Fake{Group: providertest.PerFile})

	err := run(context.Background(), rt, options{
		Dir: filepath.Join(t.TempDir(), "missing"),
		Out: t.TempDir(),
	})
	if !errors.Is(err, manifest.ErrNotFound) {
		t.Fatalf("got %v, want manifest.ErrNotFound", err)
	}
}
