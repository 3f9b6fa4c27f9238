package lifecycle_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/stapler/pkg/lifecycle"
)

func TestReadiness(t *testing.T) {
	lc := lifecycle.New()

	var count atomic.Int32
	for range 3 {
		lc.OnStartup(func() { count.Add(1) })
	}

	if lc.Ready() {
		t.Error("ready before WaitForStartup")
	}

	lc.WaitForStartup()

	if !lc.Ready() {
		t.Error("not ready after WaitForStartup")
	}
	if got := count.Load(); got != 3 {
		t.Errorf("startup hooks: got %d, want 3", got)
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name        string
		startup     bool
		storageErr  error
		wantHealthy bool
		wantStorage string
	}{
		{"healthy", true, nil, true, "ok"},
		{"before startup", false, nil, false, "ok"},
		{"failing probe", true, errors.New("container unreachable"), false, "container unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := lifecycle.New()
			lc.Probe("database", func(context.Context) error { return nil })
			lc.Probe("storage", func(context.Context) error { return tt.storageErr })

			if tt.startup {
				lc.WaitForStartup()
			}

			results, healthy := lc.Check(context.Background())
			if healthy != tt.wantHealthy {
				t.Errorf("healthy = %v, want %v", healthy, tt.wantHealthy)
			}
			if results["database"] != "ok" {
				t.Errorf("database = %q", results["database"])
			}
			if results["storage"] != tt.wantStorage {
				t.Errorf("storage = %q, want %q", results["storage"], tt.wantStorage)
			}
		})
	}
}

func TestShutdown(t *testing.T) {
	t.Run("hooks run after cancel", func(t *testing.T) {
		lc := lifecycle.New()

		var cleaned atomic.Bool
		lc.OnShutdown(func() {
			<-lc.Context().Done()
			cleaned.Store(true)
		})

		lc.WaitForStartup()

		if err := lc.Shutdown(5 * time.Second); err != nil {
			t.Fatalf("Shutdown: %v", err)
		}
		if !cleaned.Load() {
			t.Error("shutdown hook did not run")
		}
		if lc.Context().Err() == nil {
			t.Error("context not cancelled")
		}
	})

	t.Run("timeout", func(t *testing.T) {
		lc := lifecycle.New()
		lc.OnShutdown(func() {
			<-lc.Context().Done()
			time.Sleep(500 * time.Millisecond)
		})

		lc.WaitForStartup()

		if err := lc.Shutdown(50 * time.Millisecond); err == nil {
			t.Error("expected timeout error")
		}
	})
}
