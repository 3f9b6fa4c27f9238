package documents

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/stapler/internal/manifest"
	"github.com/JaimeStill/stapler/internal/runs"
	"github.com/JaimeStill/stapler/internal/workflow"
	"github.com/JaimeStill/stapler/pkg/middleware"
	"github.com/JaimeStill/stapler/pkg/pagination"
	"github.com/JaimeStill/stapler/pkg/query"
	"github.com/JaimeStill/stapler/pkg/repository"
	"github.com/JaimeStill/stapler/pkg/storage"
)

type repo struct {
	db           *sql.DB
	storage      storage.System
	runs         runs.System
	rt           *workflow.Runtime
	providerName string
	logger       *slog.Logger
	pagination   pagination.Config
}

// New creates a document repository implementing the System interface.
// providerName is recorded on every run.
func New(
	db *sql.DB,
	store storage.System,
	runsSys runs.System,
	rt *workflow.Runtime,
	providerName string,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:           db,
		storage:      store,
		runs:         runsSys,
		rt:           rt,
		providerName: providerName,
		logger:       logger.With("system", "documents"),
		pagination:   pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Process(ctx context.Context, cmd ProcessCommand) (*ProcessResult, error) {
	cmd.FolderPath = strings.TrimSpace(cmd.FolderPath)
	if cmd.FolderPath == "" {
		return nil, fmt.Errorf("%w: folder_path is required", ErrInvalidRequest)
	}

	var mappingPath string
	if cmd.MappingFilePath != nil {
		mappingPath = strings.TrimSpace(*cmd.MappingFilePath)
	}

	requestID := middleware.RequestIDFrom(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	started := time.Now()
	r.logger.InfoContext(ctx, "processing folder", "request_id", requestID, "folder", cmd.FolderPath)

	result, err := workflow.Execute(ctx, r.rt, workflow.Input{
		RequestID:   requestID,
		FolderPath:  cmd.FolderPath,
		MappingPath: mappingPath,
	})
	if err != nil {
		r.recordFailure(ctx, requestID, cmd, started, err)
		return nil, err
	}

	runID := uuid.New()

	pages, err := r.archive(ctx, runID, result.Manifest)
	if err != nil {
		r.compensate(ctx, runID)
		r.recordFailure(ctx, requestID, cmd, started, err)
		return nil, err
	}

	docs := persisted(runID, result.Documents, result.Metadata.Mapped)

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (runs.Run, error) {
		run, err := runs.Insert(ctx, tx, runs.CreateCommand{
			ID:              runID,
			RequestID:       requestID,
			FolderPath:      cmd.FolderPath,
			MappingPath:     optional(mappingPath),
			Status:          runs.StatusComplete,
			FileCount:       result.Metadata.FileCount,
			PageCount:       result.Metadata.PageCount,
			DocumentCount:   result.Metadata.DocumentCount,
			UnresolvedCount: result.Metadata.UnresolvedCount,
			Outcomes:        result.Metadata.Files,
			Pages:           pages,
			ModelName:       optional(result.Metadata.Model),
			ProviderName:    r.providerName,
			StartedAt:       started,
		})
		if err != nil {
			return run, fmt.Errorf("insert run: %w", err)
		}

		if err := insertDocuments(ctx, tx, docs); err != nil {
			return run, err
		}

		return run, nil
	})

	if err != nil {
		r.compensate(ctx, runID)
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.InfoContext(
		ctx, "folder processed",
		"request_id", requestID,
		"run_id", runID,
		"document_count", len(docs),
		"page_count", len(pages),
		"duration", time.Since(started),
	)

	return &ProcessResult{
		RequestID: requestID,
		RunID:     runID,
		Documents: result.Documents,
		Metadata:  result.Metadata,
	}, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "DocumentID", "DocumentType", "DocumentSummary")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

// archive uploads every manifest page under the run's prefix and returns
// the page index recorded on the run.
func (r *repo) archive(ctx context.Context, runID uuid.UUID, m *manifest.Manifest) ([]runs.Page, error) {
	pages := make([]runs.Page, len(m.Pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(min(runtime.NumCPU(), len(m.Pages)), 1))

	for i, p := range m.Pages {
		position := i + 1
		key := runs.PageKey(runID, position, p.MimeType)

		pages[i] = runs.Page{
			Position:   position,
			PageID:     p.PageID,
			StorageKey: key,
			Origin:     string(p.Origin),
			MimeType:   p.MimeType,
		}

		g.Go(func() error {
			if err := r.storage.Upload(gctx, key, bytes.NewReader(p.Image), p.MimeType); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrArchive, p.PageID, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return pages, nil
}

func (r *repo) compensate(ctx context.Context, runID uuid.UUID) {
	ctx = context.WithoutCancel(ctx)
	if _, err := r.storage.DeletePrefix(ctx, runs.Prefix(runID)); err != nil {
		r.logger.WarnContext(ctx, "compensating blob delete failed", "run_id", runID, "error", err)
	}
}

func (r *repo) recordFailure(ctx context.Context, requestID string, cmd ProcessCommand, started time.Time, cause error) {
	msg := cause.Error()

	_, err := r.runs.Record(context.WithoutCancel(ctx), runs.CreateCommand{
		RequestID:    requestID,
		FolderPath:   cmd.FolderPath,
		MappingPath:  cmd.MappingFilePath,
		Status:       runs.StatusFailed,
		ProviderName: r.providerName,
		Error:        &msg,
		StartedAt:    started,
	})
	if err != nil {
		r.logger.WarnContext(ctx, "failed run not recorded", "request_id", requestID, "error", err)
	}
}

func persisted(runID uuid.UUID, docs []workflow.Document, mapped bool) []Document {
	out := make([]Document, len(docs))
	for i, d := range docs {
		refs := make([]PageRef, len(d.PageIDs))
		for j, id := range d.PageIDs {
			refs[j] = PageRef{PageID: id}
			if mapped && j < len(d.Pages) {
				name := d.Pages[j]
				refs[j].OriginalFilename = &name
			}
		}

		out[i] = Document{
			ID:              uuid.New(),
			RunID:           runID,
			Position:        i + 1,
			DocumentID:      d.DocumentID,
			DocumentType:    d.DocumentType,
			DocumentSummary: d.DocumentSummary,
			Reasoning:       d.Reasoning,
			ConfidenceScore: d.ConfidenceScore,
			Pages:           refs,
		}
	}
	return out
}

func insertDocuments(ctx context.Context, tx *sql.Tx, docs []Document) error {
	type row struct {
		doc   Document
		pages []byte
	}

	rows := make([]row, len(docs))
	for i, d := range docs {
		pagesJSON, err := json.Marshal(d.Pages)
		if err != nil {
			return fmt.Errorf("marshal document pages: %w", err)
		}
		rows[i] = row{doc: d, pages: pagesJSON}
	}

	stmt := `
		INSERT INTO documents(
			id, run_id, position, document_id, document_type, document_summary,
			reasoning, confidence_score, pages
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	err := repository.ExecEach(ctx, tx, stmt, rows, func(r row) []any {
		return []any{
			r.doc.ID,
			r.doc.RunID,
			r.doc.Position,
			r.doc.DocumentID,
			r.doc.DocumentType,
			r.doc.DocumentSummary,
			r.doc.Reasoning,
			r.doc.ConfidenceScore,
			r.pages,
		}
	})
	if err != nil {
		return fmt.Errorf("insert documents: %w", err)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
