package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/stapler/internal/manifest"
	"github.com/JaimeStill/stapler/internal/provider"
	"github.com/JaimeStill/stapler/internal/resolver"
)

// PreprocessNode builds the folder manifest and loads the mapping file when
// a path was supplied.
func PreprocessNode(rt *Runtime, tr *tracker) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		folder, err := get[string](s, KeyFolder)
		if err != nil {
			return s, tr.fail("preprocess", err)
		}

		mappingPath, _ := get[string](s, KeyMappingPath)

		// the mapping is loaded first so a bad path fails before any rendering
		var mapping *resolver.Mapping
		if mappingPath != "" {
			mapping, err = resolver.LoadFile(mappingPath)
			if err != nil {
				return s, tr.fail("preprocess", err)
			}
		}

		m, err := rt.Builder.Build(ctx, folder)
		if err != nil {
			return s, tr.fail("preprocess", err)
		}

		requestID, _ := get[string](s, KeyRequestID)
		rt.Logger.InfoContext(
			ctx, "preprocess node complete",
			"request_id", requestID,
			"folder", folder,
			"file_count", len(m.Files),
			"page_count", len(m.Pages),
		)

		s = s.Set(KeyManifest, m)
		if mapping != nil {
			s = s.Set(KeyMapping, mapping)
		}

		return s, nil
	})
}

// SequenceNode composes the prompt and sends the manifest to the provider.
func SequenceNode(rt *Runtime, tr *tracker) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		m, err := get[*manifest.Manifest](s, KeyManifest)
		if err != nil {
			return s, tr.fail("sequence", err)
		}

		instructions, err := rt.Prompts.Compose(ctx)
		if err != nil {
			return s, tr.fail("sequence", fmt.Errorf("%w: %w", ErrCompose, err))
		}

		requestID, _ := get[string](s, KeyRequestID)

		req := provider.Request{
			RequestID:    requestID,
			Instructions: instructions,
			Pages:        make([]provider.Page, len(m.Pages)),
		}
		for i, p := range m.Pages {
			req.Pages[i] = provider.Page{ID: p.PageID, MimeType: p.MimeType, Data: p.Image}
		}

		res, err := rt.Provider.Sequence(ctx, req)
		if err != nil {
			return s, tr.fail("sequence", err)
		}

		rt.Logger.InfoContext(
			ctx, "sequence node complete",
			"request_id", requestID,
			"document_count", len(res.Documents),
			"unknown_pages", len(res.UnknownPages),
			"unassigned_pages", len(res.UnassignedPages),
		)

		return s.Set(KeyEngine, res), nil
	})
}

// ResolveNode rewrites every document's page ids to original filenames.
func ResolveNode(rt *Runtime, tr *tracker) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		res, err := get[*provider.Result](s, KeyEngine)
		if err != nil {
			return s, tr.fail("resolve", err)
		}

		mapping, err := get[*resolver.Mapping](s, KeyMapping)
		if err != nil {
			return s, tr.fail("resolve", err)
		}

		docs := make([]Document, len(res.Documents))
		unresolved := 0
		for i, d := range res.Documents {
			docs[i] = newDocument(d)
			docs[i].Pages = mapping.ResolvePages(d.Pages)
			for _, name := range docs[i].Pages {
				if name == resolver.NotFound {
					unresolved++
				}
			}
		}

		requestID, _ := get[string](s, KeyRequestID)
		if unresolved > 0 {
			rt.Logger.WarnContext(
				ctx, "pages not found in mapping",
				"request_id", requestID,
				"unresolved", unresolved,
			)
		}

		return s.Set(KeyResult, &Result{
			Documents: docs,
			Metadata:  Metadata{Mapped: true, UnresolvedCount: unresolved},
		}), nil
	})
}

// FinalizeNode assembles the Result from whatever earlier nodes produced.
func FinalizeNode(rt *Runtime, tr *tracker) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		m, err := get[*manifest.Manifest](s, KeyManifest)
		if err != nil {
			return s, tr.fail("finalize", err)
		}

		requestID, _ := get[string](s, KeyRequestID)

		result, _ := get[*Result](s, KeyResult)
		if result == nil {
			result = &Result{}
		}

		result.RequestID = requestID
		result.Manifest = m

		md := &result.Metadata
		md.FolderPath = m.Folder
		md.FileCount = len(m.Files)
		md.ProcessedFiles = m.Count(manifest.StatusProcessed)
		md.SkippedFiles = m.Count(manifest.StatusSkipped)
		md.FailedFiles = m.Count(manifest.StatusFailed)
		md.PageCount = len(m.Pages)
		md.Files = m.Files

		if res, err := get[*provider.Result](s, KeyEngine); err == nil {
			if result.Documents == nil {
				result.Documents = make([]Document, len(res.Documents))
				for i, d := range res.Documents {
					result.Documents[i] = newDocument(d)
				}
			}
			md.UnknownPages = res.UnknownPages
			md.UnassignedPages = res.UnassignedPages
			md.Model = res.Model
			md.AICallLatencyMS = res.Latency.Milliseconds()
		}

		if result.Documents == nil {
			result.Documents = []Document{}
		}
		md.DocumentCount = len(result.Documents)

		if m.Empty() {
			md.Notes = EmptyNote
		}

		rt.Logger.InfoContext(
			ctx, "finalize node complete",
			"request_id", requestID,
			"document_count", md.DocumentCount,
			"page_count", md.PageCount,
		)

		return s.Set(KeyResult, result), nil
	})
}

func newDocument(d provider.Document) Document {
	return Document{
		DocumentID:      d.DocumentID,
		DocumentType:    d.DocumentType,
		DocumentSummary: d.DocumentSummary,
		Pages:           append([]string(nil), d.Pages...),
		PageIDs:         d.Pages,
		Reasoning:       d.Reasoning,
		ConfidenceScore: d.ConfidenceScore,
	}
}
