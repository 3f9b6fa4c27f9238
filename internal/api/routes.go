package api

import (
	"net/http"

	"github.com/JaimeStill/stapler/pkg/openapi"
	"github.com/JaimeStill/stapler/pkg/routes"
)

func groups(domain *Domain, runtime *Runtime) []routes.Group {
	return []routes.Group{
		domain.Documents.Handler().Routes(),
		domain.Runs.Handler().Routes(),
		domain.Prompts.Handler().Routes(),
		newStorageHandler(
			runtime.Storage,
			runtime.Logger,
			runtime.Config.Storage.MaxListSize,
		).routes(),
	}
}

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) error {
	gs := groups(domain, runtime)
	routes.Register(mux, gs...)

	spec := openapi.FromConfig(&runtime.Config.API.OpenAPI, runtime.Config.Version)
	spec.AddServer(runtime.Config.API.BasePath)
	routes.Document(spec, "", gs...)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	return nil
}
