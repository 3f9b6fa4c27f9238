package workflow

import (
	"github.com/JaimeStill/stapler/internal/manifest"
)

// EmptyNote is reported when a folder yields no pages.
const EmptyNote = "No files were found to process."

// Document is one sequenced document. Pages holds original filenames when a
// mapping was supplied and page ids otherwise. PageIDs always holds page ids.
type Document struct {
	DocumentID      string   `json:"document_id"`
	DocumentType    string   `json:"document_type"`
	DocumentSummary string   `json:"document_summary"`
	Pages           []string `json:"pages"`
	PageIDs         []string `json:"page_ids"`
	Reasoning       *string  `json:"reasoning,omitempty"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`
}

// Metadata summarizes one execution.
type Metadata struct {
	FolderPath      string                 `json:"folder_path"`
	FileCount       int                    `json:"file_count"`
	ProcessedFiles  int                    `json:"processed_files"`
	SkippedFiles    int                    `json:"skipped_files"`
	FailedFiles     int                    `json:"failed_files"`
	PageCount       int                    `json:"page_count"`
	DocumentCount   int                    `json:"document_count"`
	Files           []manifest.FileOutcome `json:"files"`
	UnknownPages    []string               `json:"unknown_pages,omitempty"`
	UnassignedPages []string               `json:"unassigned_pages,omitempty"`
	Mapped          bool                   `json:"mapped"`
	UnresolvedCount int                    `json:"unresolved_count"`
	Model           string                 `json:"model,omitempty"`
	AICallLatencyMS int64                  `json:"ai_call_latency_ms"`
	LatencyMS       int64                  `json:"latency_ms"`
	Notes           string                 `json:"notes,omitempty"`
}

// Result is the outcome of one execution. Manifest is retained so callers can
// archive the page images.
type Result struct {
	RequestID string             `json:"request_id"`
	Documents []Document         `json:"documents"`
	Metadata  Metadata           `json:"processing_metadata"`
	Manifest  *manifest.Manifest `json:"-"`
}
