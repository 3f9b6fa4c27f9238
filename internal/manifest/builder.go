package manifest

import (
	"cmp"
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/stapler/pkg/detect"
	"github.com/JaimeStill/stapler/pkg/imaging"
	"github.com/JaimeStill/stapler/pkg/rasterize"
)

// Rasterizer renders the pages of a PDF.
type Rasterizer interface {
	Rasterize(ctx context.Context, data []byte, visit func(rasterize.Page) error) (*rasterize.Summary, error)
}

// Config bounds a folder build.
type Config struct {
	// Workers caps concurrent file processing. Zero selects runtime.NumCPU.
	Workers int
	// MaxFileSize skips files larger than this many bytes. Zero disables the limit.
	MaxFileSize int64
	// Format is the encoding of every page image.
	Format imaging.Format
}

// Builder turns folders into manifests. A Builder holds no per-build state
// and may serve concurrent builds.
type Builder struct {
	cfg        Config
	rasterizer Rasterizer
	enhancer   *imaging.Enhancer
	encoder    *imaging.Encoder
	logger     *slog.Logger
}

func New(cfg Config, rasterizer Rasterizer, enhancer *imaging.Enhancer, logger *slog.Logger) *Builder {
	if cfg.Format == "" {
		cfg.Format = imaging.PNG
	}
	return &Builder{
		cfg:        cfg,
		rasterizer: rasterizer,
		enhancer:   enhancer,
		encoder:    imaging.NewEncoder(cfg.Format),
		logger:     logger.With("system", "manifest"),
	}
}

type entry struct {
	name string
	path string
	size int64
}

type fileResult struct {
	pages   []PageRecord
	outcome FileOutcome
}

// Build processes every regular file in dir and returns the ordered
// manifest. Files that cannot be processed are recorded as failed or
// skipped and contribute no pages. A missing folder returns ErrNotFound.
// A cancelled context returns its error and no manifest.
func (b *Builder) Build(ctx context.Context, dir string) (*Manifest, error) {
	start := time.Now()

	files, err := listFiles(dir)
	if err != nil {
		return nil, err
	}

	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workerCount(len(files)))

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := b.processFile(gctx, f)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := &Manifest{
		Folder: dir,
		Pages:  make([]PageRecord, 0, len(files)),
		Files:  make([]FileOutcome, 0, len(files)),
	}
	for _, res := range results {
		m.Pages = append(m.Pages, res.pages...)
		m.Files = append(m.Files, res.outcome)
	}

	slices.SortStableFunc(m.Pages, func(a, b PageRecord) int {
		return cmp.Or(
			cmp.Compare(a.SourceFilename, b.SourceFilename),
			cmp.Compare(a.PageIndex, b.PageIndex),
		)
	})

	b.logger.InfoContext(
		ctx, "manifest built",
		"folder", dir,
		"file_count", len(m.Files),
		"page_count", len(m.Pages),
		"duration", time.Since(start),
	)

	return m, nil
}

func (b *Builder) workerCount(files int) int {
	n := b.cfg.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return max(min(n, files), 1)
}

func listFiles(dir string) ([]entry, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
	}

	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFolder, err)
	}

	files := make([]entry, 0, len(dirents))
	for _, d := range dirents {
		path := filepath.Join(dir, d.Name())
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		files = append(files, entry{name: d.Name(), path: path, size: fi.Size()})
	}

	slices.SortFunc(files, func(a, b entry) int {
		return cmp.Compare(a.name, b.name)
	})

	return files, nil
}

// processFile returns an error only when ctx is done. A panic while
// decoding or rendering records the file as failed.
func (b *Builder) processFile(ctx context.Context, f entry) (res fileResult, err error) {
	mt := detect.File(f.path)
	outcome := FileOutcome{Filename: f.name, MimeType: mt}

	defer func() {
		if p := recover(); p != nil {
			b.logger.ErrorContext(ctx, "file failed", "file", f.name, "reason", p)
			outcome.Status = StatusFailed
			outcome.Reason = fmt.Sprintf("%s: %v", ErrPanic, p)
			res, err = fileResult{outcome: outcome}, nil
		}
	}()

	if b.cfg.MaxFileSize > 0 && f.size > b.cfg.MaxFileSize {
		b.logger.WarnContext(ctx, "file skipped", "file", f.name, "reason", "exceeds max file size", "size", f.size)
		outcome.Status = StatusSkipped
		outcome.Reason = fmt.Sprintf("exceeds max file size of %d bytes", b.cfg.MaxFileSize)
		return fileResult{outcome: outcome}, nil
	}

	var (
		pages   []PageRecord
		skipped []int
	)

	switch {
	case detect.IsPDF(mt):
		pages, skipped, err = b.processPDF(ctx, f)
	case detect.IsImage(mt):
		pages, err = b.processImage(f)
	default:
		b.logger.WarnContext(ctx, "file skipped", "file", f.name, "reason", "unsupported file type", "mime_type", mt)
		outcome.Status = StatusSkipped
		outcome.Reason = "unsupported file type " + mt
		return fileResult{outcome: outcome}, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fileResult{}, ctxErr
	}

	if err != nil {
		b.logger.WarnContext(ctx, "file failed", "file", f.name, "reason", err)
		outcome.Status = StatusFailed
		outcome.Reason = err.Error()
		outcome.SkippedPages = skipped
		return fileResult{outcome: outcome}, nil
	}

	outcome.Status = StatusProcessed
	outcome.PageCount = len(pages)
	outcome.SkippedPages = skipped

	return fileResult{pages: pages, outcome: outcome}, nil
}

func (b *Builder) processPDF(ctx context.Context, f entry) ([]PageRecord, []int, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, nil, err
	}

	var (
		pages   []PageRecord
		skipped []int
	)

	summary, err := b.rasterizer.Rasterize(ctx, data, func(p rasterize.Page) error {
		rec, err := b.record(f.name, p.Number, p.Origin, p.Image)
		if err != nil {
			b.logger.WarnContext(ctx, "page skipped", "file", f.name, "page", p.Number, "reason", err)
			skipped = append(skipped, p.Number)
			return nil
		}
		pages = append(pages, rec)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	for _, s := range summary.Skipped {
		skipped = append(skipped, s.Number)
	}
	slices.Sort(skipped)

	if len(pages) == 0 && summary.PageCount > 0 {
		return nil, skipped, ErrNoPages
	}

	return pages, skipped, nil
}

func (b *Builder) processImage(f entry) ([]PageRecord, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	rec, err := b.record(f.name, 1, rasterize.Scanned, img)
	if err != nil {
		return nil, err
	}
	return []PageRecord{rec}, nil
}

// record enhances and encodes one page, assigning its identifier once the
// bitmap is encoded.
func (b *Builder) record(filename string, index int, origin rasterize.Origin, img image.Image) (PageRecord, error) {
	data, err := b.encoder.Encode(b.enhancer.Enhance(img))
	if err != nil {
		return PageRecord{}, err
	}

	return PageRecord{
		SourceFilename: filename,
		PageIndex:      index,
		PageID:         PageID(filename, index),
		Origin:         origin,
		MimeType:       b.encoder.MimeType(),
		Image:          data,
	}, nil
}
