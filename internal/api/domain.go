package api

import (
	"github.com/JaimeStill/stapler/internal/documents"
	"github.com/JaimeStill/stapler/internal/prompts"
	"github.com/JaimeStill/stapler/internal/runs"
	"github.com/JaimeStill/stapler/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents documents.System
	Prompts   prompts.System
	Runs      runs.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	runsSystem := runs.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	wf, err := workflow.NewRuntime(runtime.Config, promptsSystem, runtime.Logger)
	if err != nil {
		return nil, err
	}

	providerName := ""
	if runtime.Config.Agent.Provider != nil {
		providerName = runtime.Config.Agent.Provider.Name
	}

	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runsSystem,
		wf,
		providerName,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Documents: docsSystem,
		Prompts:   promptsSystem,
		Runs:      runsSystem,
	}, nil
}
