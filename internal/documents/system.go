package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/stapler/pkg/pagination"
)

// System defines the public contract for document domain operations.
type System interface {
	Handler() *Handler

	// Process runs the folder through the workflow, archives its page
	// images, and records the run with its documents.
	Process(ctx context.Context, cmd ProcessCommand) (*ProcessResult, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
}
