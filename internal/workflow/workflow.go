// Package workflow runs one folder through the processing graph:
// preprocess, then sequence when the manifest has pages, then resolve when a
// mapping was supplied, then finalize.
package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/stapler/internal/manifest"
)

// Input identifies the folder to process. RequestID is generated when empty.
// MappingPath is optional.
type Input struct {
	RequestID   string
	FolderPath  string
	MappingPath string
}

// Execute builds the state graph, runs it, and extracts the Result from the
// final state. Node failures are returned unwrapped from the graph so callers
// can match on the originating sentinel.
func Execute(ctx context.Context, rt *Runtime, in Input) (*Result, error) {
	start := time.Now()

	if in.RequestID == "" {
		in.RequestID = uuid.NewString()
	}

	tr := &tracker{}
	graph, err := buildGraph(rt, tr)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyRequestID, in.RequestID)
	initialState = initialState.Set(KeyFolder, in.FolderPath)
	initialState = initialState.Set(KeyMappingPath, in.MappingPath)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		if nodeErr := tr.err(); nodeErr != nil {
			return nil, nodeErr
		}
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	result, err := get[*Result](finalState, KeyResult)
	if err != nil {
		return nil, err
	}

	result.Metadata.LatencyMS = time.Since(start).Milliseconds()

	rt.Logger.InfoContext(
		ctx, "workflow complete",
		"request_id", result.RequestID,
		"latency_ms", result.Metadata.LatencyMS,
	)

	return result, nil
}

func buildGraph(rt *Runtime, tr *tracker) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("stapler-process")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("preprocess", PreprocessNode(rt, tr)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("sequence", SequenceNode(rt, tr)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("resolve", ResolveNode(rt, tr)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("finalize", FinalizeNode(rt, tr)); err != nil {
		return nil, err
	}

	// preprocess → sequence (when the manifest has pages)
	if err := graph.AddEdge("preprocess", "sequence", hasPages); err != nil {
		return nil, err
	}

	// preprocess → finalize (empty folder, the engine is never called)
	if err := graph.AddEdge("preprocess", "finalize", state.Not(hasPages)); err != nil {
		return nil, err
	}

	// sequence → resolve (when a mapping was loaded)
	if err := graph.AddEdge("sequence", "resolve", has(KeyMapping)); err != nil {
		return nil, err
	}

	// sequence → finalize (no mapping)
	if err := graph.AddEdge("sequence", "finalize", state.Not(has(KeyMapping))); err != nil {
		return nil, err
	}

	// resolve → finalize (unconditional)
	if err := graph.AddEdge("resolve", "finalize", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("preprocess"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("finalize"); err != nil {
		return nil, err
	}

	return graph, nil
}

func hasPages(s state.State) bool {
	m, err := get[*manifest.Manifest](s, KeyManifest)
	return err == nil && !m.Empty()
}

// tracker keeps the first node failure of an execution.
type tracker struct {
	mu    sync.Mutex
	first error
}

func (t *tracker) fail(node string, err error) error {
	err = fmt.Errorf("%s: %w", node, err)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.first == nil {
		t.first = err
	}
	return err
}

func (t *tracker) err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.first
}
