package runs

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/JaimeStill/stapler/internal/manifest"
	"github.com/JaimeStill/stapler/pkg/query"
	"github.com/JaimeStill/stapler/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "runs", "r").
	Project("id", "ID").
	Project("request_id", "RequestID").
	Project("folder_path", "FolderPath").
	Project("mapping_path", "MappingPath").
	Project("status", "Status").
	Project("file_count", "FileCount").
	Project("page_count", "PageCount").
	Project("document_count", "DocumentCount").
	Project("unresolved_count", "UnresolvedCount").
	Project("outcomes", "Outcomes").
	Project("pages", "Pages").
	Project("model_name", "ModelName").
	Project("provider_name", "ProviderName").
	Project("error", "Error").
	Project("started_at", "StartedAt").
	Project("completed_at", "CompletedAt")

const returning = `id, request_id, folder_path, mapping_path, status, file_count, page_count,
	document_count, unresolved_count, outcomes, pages, model_name, provider_name,
	error, started_at, completed_at`

var defaultSort = query.SortField{
	Field:      "StartedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for run queries.
// Nil fields are ignored. FolderPath uses case-insensitive contains matching,
// StartedAfter and StartedBefore bound StartedAt, and the rest match exactly.
type Filters struct {
	Status        *string    `json:"status,omitempty"`
	RequestID     *string    `json:"request_id,omitempty"`
	FolderPath    *string    `json:"folder_path,omitempty"`
	ModelName     *string    `json:"model_name,omitempty"`
	StartedAfter  *time.Time `json:"started_after,omitempty"`
	StartedBefore *time.Time `json:"started_before,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("RequestID", f.RequestID).
		WhereContains("FolderPath", f.FolderPath).
		WhereEquals("ModelName", f.ModelName).
		WhereAfter("StartedAt", f.StartedAfter).
		WhereBefore("StartedAt", f.StartedBefore)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Timestamps use RFC 3339; unparseable values are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if rid := values.Get("request_id"); rid != "" {
		f.RequestID = &rid
	}

	if fp := values.Get("folder_path"); fp != "" {
		f.FolderPath = &fp
	}

	if mn := values.Get("model_name"); mn != "" {
		f.ModelName = &mn
	}

	if sa := values.Get("started_after"); sa != "" {
		if t, err := time.Parse(time.RFC3339, sa); err == nil {
			f.StartedAfter = &t
		}
	}

	if sb := values.Get("started_before"); sb != "" {
		if t, err := time.Parse(time.RFC3339, sb); err == nil {
			f.StartedBefore = &t
		}
	}

	return f
}

func scanRun(s repository.Scanner) (Run, error) {
	var r Run
	var outcomesRaw, pagesRaw []byte

	err := s.Scan(
		&r.ID,
		&r.RequestID,
		&r.FolderPath,
		&r.MappingPath,
		&r.Status,
		&r.FileCount,
		&r.PageCount,
		&r.DocumentCount,
		&r.UnresolvedCount,
		&outcomesRaw,
		&pagesRaw,
		&r.ModelName,
		&r.ProviderName,
		&r.Error,
		&r.StartedAt,
		&r.CompletedAt,
	)

	if err != nil {
		return r, err
	}

	if len(outcomesRaw) > 0 {
		if err := json.Unmarshal(outcomesRaw, &r.Outcomes); err != nil {
			return r, fmt.Errorf("unmarshal outcomes: %w", err)
		}
	}

	if len(pagesRaw) > 0 {
		if err := json.Unmarshal(pagesRaw, &r.Pages); err != nil {
			return r, fmt.Errorf("unmarshal pages: %w", err)
		}
	}

	if r.Outcomes == nil {
		r.Outcomes = []manifest.FileOutcome{}
	}

	if r.Pages == nil {
		r.Pages = []Page{}
	}

	return r, nil
}
