// Package documents implements the document domain for Stapler.
// It runs the folder processing workflow, archives page images, and persists
// the documents the engine returned for each run.
package documents

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/stapler/internal/workflow"
)

// PageRef is one page of a persisted document. OriginalFilename is set when
// the run used a mapping file.
type PageRef struct {
	PageID           string  `json:"page_id"`
	OriginalFilename *string `json:"original_filename,omitempty"`
}

// Document is one engine-grouped document persisted with its run.
// Position is its 1-based order within the run.
type Document struct {
	ID              uuid.UUID `json:"id"`
	RunID           uuid.UUID `json:"run_id"`
	Position        int       `json:"position"`
	DocumentID      string    `json:"document_id"`
	DocumentType    string    `json:"document_type"`
	DocumentSummary string    `json:"document_summary"`
	Reasoning       *string   `json:"reasoning"`
	ConfidenceScore *float64  `json:"confidence_score"`
	Pages           []PageRef `json:"pages"`
	CreatedAt       time.Time `json:"created_at"`
}

// ProcessCommand identifies a folder to process. MappingFilePath is optional.
type ProcessCommand struct {
	FolderPath      string  `json:"folder_path"`
	MappingFilePath *string `json:"mapping_file_path,omitempty"`
}

// ProcessResult is the response of a processing run.
type ProcessResult struct {
	RequestID string              `json:"request_id"`
	RunID     uuid.UUID           `json:"run_id"`
	Documents []workflow.Document `json:"documents"`
	Metadata  workflow.Metadata   `json:"processing_metadata"`
}
