package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/JaimeStill/stapler/internal/manifest"
	"github.com/JaimeStill/stapler/internal/workflow"
)

const (
	manifestFile = "manifest.json"
	resultFile   = "result.json"
	pagesDir     = "pages"
)

type options struct {
	Dir      string
	Out      string
	Mapping  string
	Sequence bool
}

func run(ctx context.Context, rt *workflow.Runtime, opts options) error {
	var (
		m      *manifest.Manifest
		result *workflow.Result
	)

	if opts.Sequence {
		res, err := workflow.Execute(ctx, rt, workflow.Input{
			FolderPath:  opts.Dir,
			MappingPath: opts.Mapping,
		})
		if err != nil {
			return err
		}
		result = res
		m = res.Manifest
	} else {
		built, err := rt.Builder.Build(ctx, opts.Dir)
		if err != nil {
			return err
		}
		m = built
	}

	if err := writeManifest(opts.Out, m); err != nil {
		return err
	}

	if result != nil {
		if err := writeJSON(filepath.Join(opts.Out, resultFile), result); err != nil {
			return err
		}
	}

	rt.Logger.InfoContext(
		ctx,
		"preprocess complete",
		"folder", opts.Dir,
		"out", opts.Out,
		"page_count", len(m.Pages),
		"file_count", len(m.Files),
	)

	return nil
}

func writeManifest(out string, m *manifest.Manifest) error {
	dir := filepath.Join(out, pagesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for _, p := range m.Pages {
		name := p.PageID + pageExt(p.MimeType)
		if err := os.WriteFile(filepath.Join(dir, name), p.Image, 0o644); err != nil {
			return fmt.Errorf("write page %s: %w", p.PageID, err)
		}
	}

	return writeJSON(filepath.Join(out, manifestFile), m)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func pageExt(mime string) string {
	if m := mimetype.Lookup(mime); m != nil {
		return m.Extension()
	}
	return ".bin"
}
