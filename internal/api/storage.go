package api

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"

	"github.com/gabriel-vasile/mimetype"

	"github.com/JaimeStill/stapler/pkg/handlers"
	"github.com/JaimeStill/stapler/pkg/openapi"
	"github.com/JaimeStill/stapler/pkg/routes"
	"github.com/JaimeStill/stapler/pkg/storage"
)

const sniffLen = 3072

// BlobList is a page of blob keys under a prefix.
type BlobList struct {
	Prefix    string   `json:"prefix"`
	Keys      []string `json:"keys"`
	Truncated bool     `json:"truncated"`
}

type storageHandler struct {
	store       storage.System
	logger      *slog.Logger
	maxListSize int32
}

func newStorageHandler(
	store storage.System,
	logger *slog.Logger,
	maxListSize int32,
) *storageHandler {
	return &storageHandler{
		store:       store,
		logger:      logger.With("handler", "storage"),
		maxListSize: maxListSize,
	}
}

func (h *storageHandler) routes() routes.Group {
	return routes.Group{
		Prefix:  "/storage",
		Tags:    []string{"Storage"},
		Schemas: storageSpec.Schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.list, OpenAPI: storageSpec.List},
			{Method: "GET", Pattern: "/download/{key...}", Handler: h.download, OpenAPI: storageSpec.Download},
		},
	}
}

func (h *storageHandler) list(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")

	limit := int(h.maxListSize)
	if v := r.URL.Query().Get("max_results"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			handlers.RespondError(
				w, h.logger,
				http.StatusBadRequest,
				fmt.Errorf("invalid max_results %q", v),
			)
			return
		}
		if limit <= 0 || n < limit {
			limit = n
		}
	}

	keys, err := h.store.List(r.Context(), prefix)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			storage.MapHTTPStatus(err), err,
		)
		return
	}

	result := BlobList{Prefix: prefix, Keys: keys}
	if limit > 0 && len(keys) > limit {
		result.Keys = keys[:limit]
		result.Truncated = true
	}
	if result.Keys == nil {
		result.Keys = []string{}
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *storageHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	body, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			storage.MapHTTPStatus(err), err,
		)
		return
	}
	defer body.Close()

	br := bufio.NewReaderSize(body, sniffLen)
	head, _ := br.Peek(sniffLen)

	w.Header().Set("Content-Type", mimetype.Detect(head).String())
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", path.Base(key)),
	)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, br)
}

var storageSpec = struct {
	List     *openapi.Operation
	Download *openapi.Operation
	Schemas  map[string]*openapi.Schema
}{
	List: &openapi.Operation{
		Summary: "List archived blobs",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("prefix", "string", "Key prefix, for example runs/{id}/", false),
			openapi.QueryParam("max_results", "integer", "Maximum keys returned", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Blob keys", "BlobList"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Download: &openapi.Operation{
		Summary:    "Download a blob",
		Parameters: []*openapi.Parameter{openapi.PathParam("key", "Blob key")},
		Responses: map[int]*openapi.Response{
			200: {Description: "Blob bytes"},
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"BlobList": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"prefix":    {Type: "string"},
				"keys":      {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"truncated": {Type: "boolean"},
			},
		},
	},
}
