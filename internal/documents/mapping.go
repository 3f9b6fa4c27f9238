package documents

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/stapler/pkg/query"
	"github.com/JaimeStill/stapler/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("run_id", "RunID").
	Project("position", "Position").
	Project("document_id", "DocumentID").
	Project("document_type", "DocumentType").
	Project("document_summary", "DocumentSummary").
	Project("reasoning", "Reasoning").
	Project("confidence_score", "ConfidenceScore").
	Project("pages", "Pages").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. RunID and DocumentType use exact matching.
// DocumentID uses case-insensitive contains matching.
type Filters struct {
	RunID        *uuid.UUID `json:"run_id,omitempty"`
	DocumentType *string    `json:"document_type,omitempty"`
	DocumentID   *string    `json:"document_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("RunID", f.RunID).
		WhereEquals("DocumentType", f.DocumentType).
		WhereContains("DocumentID", f.DocumentID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if rid := values.Get("run_id"); rid != "" {
		if v, err := uuid.Parse(rid); err == nil {
			f.RunID = &v
		}
	}

	if dt := values.Get("document_type"); dt != "" {
		f.DocumentType = &dt
	}

	if did := values.Get("document_id"); did != "" {
		f.DocumentID = &did
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	var pagesRaw []byte

	err := s.Scan(
		&d.ID,
		&d.RunID,
		&d.Position,
		&d.DocumentID,
		&d.DocumentType,
		&d.DocumentSummary,
		&d.Reasoning,
		&d.ConfidenceScore,
		&pagesRaw,
		&d.CreatedAt,
	)

	if err != nil {
		return d, err
	}

	if len(pagesRaw) > 0 {
		if err := json.Unmarshal(pagesRaw, &d.Pages); err != nil {
			return d, fmt.Errorf("unmarshal pages: %w", err)
		}
	}

	if d.Pages == nil {
		d.Pages = []PageRef{}
	}

	return d, nil
}
