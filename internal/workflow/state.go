package workflow

import (
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// State keys shared by the workflow nodes.
const (
	KeyRequestID   = "request_id"
	KeyFolder      = "folder_path"
	KeyMappingPath = "mapping_path"
	KeyManifest    = "manifest"
	KeyMapping     = "mapping"
	KeyEngine      = "engine_result"
	KeyResult      = "result"
)

func get[T any](s state.State, key string) (T, error) {
	var zero T

	val, ok := s.Get(key)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrMissingState, key)
	}

	v, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s has type %T", ErrMissingState, key, val)
	}

	return v, nil
}

func has(key string) func(state.State) bool {
	return func(s state.State) bool {
		val, ok := s.Get(key)
		return ok && val != nil
	}
}
