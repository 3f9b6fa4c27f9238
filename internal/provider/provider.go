// Package provider defines the boundary to the sequencing engine: the
// component that clusters page images into documents, orders each document's
// pages, and classifies it.
package provider

import (
	"context"
	"slices"
	"time"
)

// Provider clusters, sequences, and classifies the pages of a request.
type Provider interface {
	Sequence(ctx context.Context, req Request) (*Result, error)
}

// Page is a single encoded page image offered to the engine.
type Page struct {
	ID       string
	MimeType string
	Data     []byte
}

// Request is one sequencing call. Instructions is the composed system prompt.
type Request struct {
	RequestID    string
	Instructions string
	Pages        []Page
}

// IDs returns the page ids in request order.
func (r Request) IDs() []string {
	ids := make([]string, len(r.Pages))
	for i, p := range r.Pages {
		ids[i] = p.ID
	}
	return ids
}

// Document is one logical document as grouped by the engine. Pages holds
// page ids in reading order.
type Document struct {
	DocumentID      string   `json:"document_id"`
	DocumentType    string   `json:"document_type"`
	DocumentSummary string   `json:"document_summary"`
	Pages           []string `json:"pages"`
	Reasoning       *string  `json:"reasoning"`
	ConfidenceScore *float64 `json:"confidence_score"`
}

// Result is a validated engine response.
type Result struct {
	Documents []Document `json:"documents"`
	// UnknownPages lists ids the engine returned that were not in the request.
	UnknownPages []string `json:"unknown_pages,omitempty"`
	// UnassignedPages lists request ids no document claimed.
	UnassignedPages []string      `json:"unassigned_pages,omitempty"`
	Model           string        `json:"model,omitempty"`
	Latency         time.Duration `json:"-"`
}

// Validate reconciles raw against the request's page ids. Unknown ids are
// removed and reported, a page claimed twice stays with its first document,
// documents left without pages are dropped, and a confidence outside [0, 1]
// is cleared.
func Validate(raw []Document, ids []string) *Result {
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	assigned := make(map[string]bool, len(ids))
	res := &Result{Documents: make([]Document, 0, len(raw))}

	for _, doc := range raw {
		pages := make([]string, 0, len(doc.Pages))
		for _, id := range doc.Pages {
			switch {
			case !known[id]:
				if !slices.Contains(res.UnknownPages, id) {
					res.UnknownPages = append(res.UnknownPages, id)
				}
			case assigned[id]:
			default:
				assigned[id] = true
				pages = append(pages, id)
			}
		}

		if len(pages) == 0 {
			continue
		}

		doc.Pages = pages
		if c := doc.ConfidenceScore; c != nil && (*c < 0 || *c > 1) {
			doc.ConfidenceScore = nil
		}
		res.Documents = append(res.Documents, doc)
	}

	for _, id := range ids {
		if !assigned[id] {
			res.UnassignedPages = append(res.UnassignedPages, id)
		}
	}

	return res
}
