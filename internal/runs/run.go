// Package runs records each execution of the folder processing operation:
// its per-file outcomes, the pages sent to the engine, and the archived
// page images in blob storage.
package runs

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/stapler/internal/manifest"
	"github.com/JaimeStill/stapler/pkg/storage"
)

// Status is the terminal state of a run.
type Status string

const (
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Page is one archived page image. Position is the 1-based manifest order.
type Page struct {
	Position   int    `json:"position"`
	PageID     string `json:"page_id"`
	StorageKey string `json:"storage_key"`
	Origin     string `json:"origin"`
	MimeType   string `json:"mime_type"`
}

// Run is one persisted execution.
type Run struct {
	ID              uuid.UUID              `json:"id"`
	RequestID       string                 `json:"request_id"`
	FolderPath      string                 `json:"folder_path"`
	MappingPath     *string                `json:"mapping_path"`
	Status          Status                 `json:"status"`
	FileCount       int                    `json:"file_count"`
	PageCount       int                    `json:"page_count"`
	DocumentCount   int                    `json:"document_count"`
	UnresolvedCount int                    `json:"unresolved_count"`
	Outcomes        []manifest.FileOutcome `json:"outcomes"`
	Pages           []Page                 `json:"pages"`
	ModelName       *string                `json:"model_name"`
	ProviderName    string                 `json:"provider_name"`
	Error           *string                `json:"error"`
	StartedAt       time.Time              `json:"started_at"`
	CompletedAt     time.Time              `json:"completed_at"`
}

// Page returns the page at position.
func (r *Run) Page(position int) (Page, bool) {
	for _, p := range r.Pages {
		if p.Position == position {
			return p, true
		}
	}
	return Page{}, false
}

// CreateCommand carries the data needed to record a run. A zero ID is
// replaced with a new UUID.
type CreateCommand struct {
	ID              uuid.UUID
	RequestID       string
	FolderPath      string
	MappingPath     *string
	Status          Status
	FileCount       int
	PageCount       int
	DocumentCount   int
	UnresolvedCount int
	Outcomes        []manifest.FileOutcome
	Pages           []Page
	ModelName       *string
	ProviderName    string
	Error           *string
	StartedAt       time.Time
}

// Prefix is the blob prefix holding every page image of a run.
func Prefix(id uuid.UUID) string {
	return storage.Key("runs", id.String()) + "/"
}

// PageKey is the blob key of the page image at position.
func PageKey(id uuid.UUID, position int, mimeType string) string {
	return storage.Key("runs", id.String(), "pages", fmt.Sprintf("%04d.%s", position, extension(mimeType)))
}

func extension(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	default:
		return "bin"
	}
}
