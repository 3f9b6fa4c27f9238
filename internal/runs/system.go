package runs

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/JaimeStill/stapler/pkg/pagination"
)

// PageImage is an open page image stream. The caller must close Body.
type PageImage struct {
	Page Page
	Body io.ReadCloser
}

// System defines the public contract for run domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Run], error)

	Find(ctx context.Context, id uuid.UUID) (*Run, error)

	// Record inserts a run outside any caller transaction.
	Record(ctx context.Context, cmd CreateCommand) (*Run, error)

	// Delete removes the run, its documents, and its archived page images.
	Delete(ctx context.Context, id uuid.UUID) error

	// PageImage opens the archived image at position.
	PageImage(ctx context.Context, id uuid.UUID, position int) (*PageImage, error)
}
