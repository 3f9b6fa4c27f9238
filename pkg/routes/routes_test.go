package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/stapler/pkg/openapi"
	"github.com/JaimeStill/stapler/pkg/routes"
)

func status(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}
}

func runsGroup() routes.Group {
	return routes.Group{
		Prefix: "/runs",
		Tags:   []string{"Runs"},
		Schemas: map[string]*openapi.Schema{
			"Run": {Type: "object"},
		},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: status(http.StatusOK), OpenAPI: &openapi.Operation{Summary: "List runs"}},
			{Method: "GET", Pattern: "/{id}", Handler: status(http.StatusOK), OpenAPI: &openapi.Operation{Summary: "Find run", Tags: []string{"Custom"}}},
			{Method: "DELETE", Pattern: "/{id}", Handler: status(http.StatusNoContent)},
		},
		Children: []routes.Group{
			{
				Prefix: "/{id}/pages",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/{position}", Handler: status(http.StatusOK), OpenAPI: &openapi.Operation{Summary: "Download page"}},
				},
			},
		},
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, runsGroup())

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/runs", http.StatusOK},
		{"GET", "/runs/123", http.StatusOK},
		{"DELETE", "/runs/123", http.StatusNoContent},
		{"GET", "/runs/123/pages/1", http.StatusOK},
		{"POST", "/runs/123", http.StatusMethodNotAllowed},
		{"GET", "/documents", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestDocument(t *testing.T) {
	spec := openapi.NewSpec("Stapler API", "test")
	routes.Document(spec, "/api", runsGroup())

	list := spec.Paths["/api/runs"]
	if list == nil || list.Get == nil || list.Get.Summary != "List runs" {
		t.Fatalf("/api/runs = %+v", list)
	}
	if list.Get.Tags[0] != "Runs" {
		t.Errorf("inherited tags = %v", list.Get.Tags)
	}

	item := spec.Paths["/api/runs/{id}"]
	if item == nil || item.Get == nil {
		t.Fatalf("/api/runs/{id} = %+v", item)
	}
	if item.Get.Tags[0] != "Custom" {
		t.Errorf("explicit tags overwritten: %v", item.Get.Tags)
	}
	if item.Delete != nil {
		t.Error("undocumented route added to spec")
	}

	if spec.Paths["/api/runs/{id}/pages/{position}"] == nil {
		t.Error("child group not documented")
	}
	if spec.Components.Schemas["Run"] == nil {
		t.Error("group schemas not merged")
	}
}
