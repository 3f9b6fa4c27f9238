package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/encoding"
	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/stapler/pkg/formatting"
)

// VisionFunc sends a prompt and ordered image data URIs to a vision model and
// returns the model's text.
type VisionFunc func(ctx context.Context, prompt string, images []string) (string, error)

// Agent is the go-agents backed Provider.
type Agent struct {
	vision VisionFunc
	model  string
	logger *slog.Logger
}

type manifestEntry struct {
	Filename string `json:"document_page_image_filename"`
}

type engineResponse struct {
	Documents []Document `json:"documents"`
}

// NewAgent creates a Provider that calls the model described by cfg. A fresh
// go-agents agent is created for every call.
func NewAgent(cfg gaconfig.AgentConfig, logger *slog.Logger) *Agent {
	vision := func(ctx context.Context, prompt string, images []string) (string, error) {
		a, err := agent.New(&cfg)
		if err != nil {
			return "", fmt.Errorf("create agent: %w", err)
		}

		resp, err := a.Vision(ctx, prompt, images)
		if err != nil {
			return "", err
		}

		return resp.Content(), nil
	}

	model := ""
	if cfg.Model != nil {
		model = cfg.Model.Name
	}

	return NewVision(vision, model, logger)
}

// NewVision creates a Provider around an arbitrary vision call.
func NewVision(vision VisionFunc, model string, logger *slog.Logger) *Agent {
	return &Agent{
		vision: vision,
		model:  model,
		logger: logger.With("system", "provider"),
	}
}

// Sequence sends every page in one call, in request order, after a text
// manifest naming each page id.
func (a *Agent) Sequence(ctx context.Context, req Request) (*Result, error) {
	if len(req.Pages) == 0 {
		return nil, ErrEmptyRequest
	}

	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, err
	}

	images := make([]string, len(req.Pages))
	for i, p := range req.Pages {
		uri, err := dataURI(p)
		if err != nil {
			return nil, err
		}
		images[i] = uri
	}

	start := time.Now()
	content, err := a.vision(ctx, prompt, images)
	latency := time.Since(start)
	if err != nil {
		a.logger.ErrorContext(ctx, "engine call failed", "request_id", req.RequestID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrAgent, err)
	}

	a.logger.InfoContext(
		ctx, "engine call complete",
		"request_id", req.RequestID,
		"model", a.model,
		"page_count", len(req.Pages),
		"latency_ms", latency.Milliseconds(),
	)

	parsed, err := formatting.Parse[engineResponse](content)
	if err != nil {
		a.logger.ErrorContext(ctx, "engine response unparseable", "request_id", req.RequestID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	res := Validate(parsed.Documents, req.IDs())
	res.Model = a.model
	res.Latency = latency

	if len(res.UnknownPages) > 0 || len(res.UnassignedPages) > 0 {
		a.logger.WarnContext(
			ctx, "engine response reconciled",
			"request_id", req.RequestID,
			"unknown_pages", len(res.UnknownPages),
			"unassigned_pages", len(res.UnassignedPages),
		)
	}

	return res, nil
}

// BuildPrompt appends the image manifest to the request instructions.
func BuildPrompt(req Request) (string, error) {
	entries := make([]manifestEntry, len(req.Pages))
	for i, p := range req.Pages {
		entries[i] = manifestEntry{Filename: p.ID}
	}

	manifest, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(req.Instructions)
	sb.WriteString("\n\n<image_manifest>")
	sb.Write(manifest)
	sb.WriteString("</image_manifest>")

	return sb.String(), nil
}

func dataURI(p Page) (string, error) {
	var (
		uri string
		err error
	)

	switch p.MimeType {
	case "image/png":
		uri, err = encoding.EncodeImageDataURI(p.Data, document.PNG)
	case "image/jpeg":
		uri, err = encoding.EncodeImageDataURI(p.Data, document.JPEG)
	default:
		return "", fmt.Errorf("%w: %s has type %q", ErrUnsupportedPage, p.ID, p.MimeType)
	}

	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUnsupportedPage, p.ID, err)
	}
	return uri, nil
}
