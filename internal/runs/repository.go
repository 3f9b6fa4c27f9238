package runs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/stapler/internal/manifest"
	"github.com/JaimeStill/stapler/pkg/pagination"
	"github.com/JaimeStill/stapler/pkg/query"
	"github.com/JaimeStill/stapler/pkg/repository"
	"github.com/JaimeStill/stapler/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a run repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "runs"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Run], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "FolderPath", "RequestID")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRun)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Run, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	run, err := repository.QueryOne(ctx, r.db, q, args, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &run, nil
}

func (r *repo) Record(ctx context.Context, cmd CreateCommand) (*Run, error) {
	run, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Run, error) {
		return Insert(ctx, tx, cmd)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.InfoContext(ctx, "run recorded", "id", run.ID, "status", run.Status)
	return &run, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM runs WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	removed, delErr := r.storage.DeletePrefix(ctx, Prefix(id))
	if delErr != nil {
		r.logger.WarnContext(
			ctx, "blob delete failed after DB delete",
			"prefix", Prefix(id),
			"error", delErr,
		)
	}

	r.logger.InfoContext(ctx, "run deleted", "id", id, "blobs_removed", removed)
	return nil
}

func (r *repo) PageImage(ctx context.Context, id uuid.UUID, position int) (*PageImage, error) {
	run, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	page, ok := run.Page(position)
	if !ok {
		return nil, fmt.Errorf("%w: position %d", ErrPageNotFound, position)
	}

	body, err := r.storage.Download(ctx, page.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrPageNotFound, err)
		}
		return nil, fmt.Errorf("download page: %w", err)
	}

	return &PageImage{Page: page, Body: body}, nil
}

// Insert writes a run using q, which is typically a transaction shared with
// the run's documents.
func Insert(ctx context.Context, q repository.Querier, cmd CreateCommand) (Run, error) {
	if cmd.ID == uuid.Nil {
		cmd.ID = uuid.New()
	}
	if cmd.StartedAt.IsZero() {
		cmd.StartedAt = time.Now()
	}
	if cmd.Status == "" {
		cmd.Status = StatusComplete
	}

	if cmd.Outcomes == nil {
		cmd.Outcomes = []manifest.FileOutcome{}
	}
	outcomesJSON, err := json.Marshal(cmd.Outcomes)
	if err != nil {
		return Run{}, fmt.Errorf("marshal outcomes: %w", err)
	}

	if cmd.Pages == nil {
		cmd.Pages = []Page{}
	}
	pagesJSON, err := json.Marshal(cmd.Pages)
	if err != nil {
		return Run{}, fmt.Errorf("marshal pages: %w", err)
	}

	stmt := `
		INSERT INTO runs(
			id, request_id, folder_path, mapping_path, status, file_count, page_count,
			document_count, unresolved_count, outcomes, pages, model_name, provider_name,
			error, started_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + returning

	args := []any{
		cmd.ID,
		cmd.RequestID,
		cmd.FolderPath,
		cmd.MappingPath,
		string(cmd.Status),
		cmd.FileCount,
		cmd.PageCount,
		cmd.DocumentCount,
		cmd.UnresolvedCount,
		outcomesJSON,
		pagesJSON,
		cmd.ModelName,
		cmd.ProviderName,
		cmd.Error,
		cmd.StartedAt,
	}

	return repository.QueryOne(ctx, q, stmt, args, scanRun)
}
