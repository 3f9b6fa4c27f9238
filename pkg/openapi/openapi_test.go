package openapi_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/stapler/pkg/openapi"
)

func TestFromConfig(t *testing.T) {
	var cfg openapi.Config
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	spec := openapi.FromConfig(&cfg, "1.2.0")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi = %s", spec.OpenAPI)
	}
	if spec.Info.Title != "Stapler API" || spec.Info.Version != "1.2.0" {
		t.Errorf("info = %+v", spec.Info)
	}
	if spec.Info.Description == "" {
		t.Error("description empty")
	}
}

func TestConfig(t *testing.T) {
	t.Setenv("STAPLER_TEST_OPENAPI_TITLE", "Preprocessor")

	cfg := openapi.Config{Description: "kept"}
	if err := cfg.Finalize(&openapi.ConfigEnv{Title: "STAPLER_TEST_OPENAPI_TITLE"}); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if cfg.Title != "Preprocessor" || cfg.Description != "kept" {
		t.Errorf("got %+v", cfg)
	}

	cfg.Merge(&openapi.Config{Description: "overlay"})
	if cfg.Title != "Preprocessor" || cfg.Description != "overlay" {
		t.Errorf("merge got %+v", cfg)
	}
}

func TestAddOperation(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	get := &openapi.Operation{Summary: "list"}
	post := &openapi.Operation{Summary: "search"}

	spec.AddOperation("/runs", "GET", get)
	spec.AddOperation("/runs", "POST", post)
	spec.AddOperation("/runs", "PATCH", &openapi.Operation{})

	item := spec.Paths["/runs"]
	if item.Get != get || item.Post != post {
		t.Errorf("item = %+v", item)
	}
	if item.Put != nil || item.Delete != nil {
		t.Error("unexpected operations set")
	}
}

func TestComponents(t *testing.T) {
	c := openapi.NewComponents()

	for _, name := range []string{"BadRequest", "NotFound", "Conflict", "BadGateway"} {
		r := c.Responses[name]
		if r == nil {
			t.Errorf("missing response %s", name)
			continue
		}
		if r.Content["application/json"].Schema.Ref != "#/components/schemas/Error" {
			t.Errorf("%s schema = %+v", name, r.Content["application/json"].Schema)
		}
	}

	c.AddSchemas(map[string]*openapi.Schema{"Run": {Type: "object"}})
	if c.Schemas["Run"] == nil || c.Schemas["Error"] == nil {
		t.Error("AddSchemas lost entries")
	}
}

func TestHelpers(t *testing.T) {
	if got := openapi.SchemaRef("Document").Ref; got != "#/components/schemas/Document" {
		t.Errorf("SchemaRef = %s", got)
	}
	if got := openapi.ResponseRef("NotFound").Ref; got != "#/components/responses/NotFound" {
		t.Errorf("ResponseRef = %s", got)
	}

	rb := openapi.RequestBodyJSON("ProcessCommand", true)
	if !rb.Required || rb.Content["application/json"].Schema.Ref != "#/components/schemas/ProcessCommand" {
		t.Errorf("RequestBodyJSON = %+v", rb)
	}

	p := openapi.PathParam("id", "Run ID")
	if p.In != "path" || !p.Required || p.Schema.Format != "uuid" {
		t.Errorf("PathParam = %+v", p)
	}

	q := openapi.QueryParam("page", "integer", "Page", false)
	if q.In != "query" || q.Required || q.Schema.Type != "integer" {
		t.Errorf("QueryParam = %+v", q)
	}
}

func TestServeAndWrite(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	spec.AddOperation("/health", "GET", &openapi.Operation{
		Summary:   "Health",
		Responses: map[int]*openapi.Response{200: {Description: "OK"}},
	})

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data)(rec, httptest.NewRequest("GET", "/openapi.json", nil))
	body, _ := io.ReadAll(rec.Body)

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("served body not JSON: %v", err)
	}
	if rec.Header().Get("Content-Type") != "application/json; charset=utf-8" {
		t.Errorf("content type = %s", rec.Header().Get("Content-Type"))
	}

	path := filepath.Join(t.TempDir(), "openapi.json")
	if err := openapi.WriteJSON(spec, path); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(written) != string(data) {
		t.Error("written file differs from MarshalJSON output")
	}
}
