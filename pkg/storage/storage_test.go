package storage_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/JaimeStill/stapler/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := storage.Config{ConnectionString: "conn"}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		if cfg.ContainerName != "stapler-pages" || cfg.MaxListSize != 50 {
			t.Errorf("got %+v", cfg)
		}
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("STAPLER_TEST_CONTAINER", "archive")
		t.Setenv("STAPLER_TEST_CONN", "override")
		t.Setenv("STAPLER_TEST_LIST", "99999")

		var cfg storage.Config
		err := cfg.Finalize(&storage.Env{
			ContainerName:    "STAPLER_TEST_CONTAINER",
			ConnectionString: "STAPLER_TEST_CONN",
			MaxListSize:      "STAPLER_TEST_LIST",
		})
		if err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		if cfg.ContainerName != "archive" || cfg.ConnectionString != "override" {
			t.Errorf("got %+v", cfg)
		}
		if cfg.MaxListSize != storage.MaxListCap {
			t.Errorf("MaxListSize = %d, want cap %d", cfg.MaxListSize, storage.MaxListCap)
		}
	})

	t.Run("missing connection string", func(t *testing.T) {
		var cfg storage.Config
		err := cfg.Finalize(nil)
		if err == nil || !strings.Contains(err.Error(), "connection_string required") {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("merge", func(t *testing.T) {
		base := storage.Config{ContainerName: "pages", ConnectionString: "base"}
		base.Merge(&storage.Config{ConnectionString: "overlay"})
		if base.ContainerName != "pages" || base.ConnectionString != "overlay" {
			t.Errorf("got %+v", base)
		}
	})
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		conn    string
		wantErr bool
	}{
		{"azurite", azuriteConnString, false},
		{"invalid", "not-a-connection-string", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys, err := storage.New(&storage.Config{ContainerName: "pages", ConnectionString: tt.conn}, slog.Default())
			if (err != nil) != tt.wantErr {
				t.Fatalf("New error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && sys == nil {
				t.Fatal("nil system")
			}
		})
	}
}

func TestKey(t *testing.T) {
	got := storage.Key("runs", "7c1d", "pages", "0001.png")
	if got != "runs/7c1d/pages/0001.png" {
		t.Errorf("Key = %s", got)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{storage.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("page: %w", storage.ErrNotFound), http.StatusNotFound},
		{storage.ErrEmptyKey, http.StatusBadRequest},
		{storage.ErrInvalidKey, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := storage.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKeyValidation(t *testing.T) {
	sys, err := storage.New(&storage.Config{ContainerName: "pages", ConnectionString: azuriteConnString}, slog.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"empty key", "", storage.ErrEmptyKey},
		{"path traversal", "runs/../secrets", storage.ErrInvalidKey},
		{"double dot segment", "runs/..hidden/0001.png", storage.ErrInvalidKey},
	}

	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := sys.Upload(ctx, tt.key, bytes.NewReader(nil), "image/png"); !errors.Is(err, tt.wantErr) {
				t.Errorf("Upload error = %v", err)
			}
			if _, err := sys.Download(ctx, tt.key); !errors.Is(err, tt.wantErr) {
				t.Errorf("Download error = %v", err)
			}
			if err := sys.Delete(ctx, tt.key); !errors.Is(err, tt.wantErr) {
				t.Errorf("Delete error = %v", err)
			}
			if _, err := sys.List(ctx, tt.key); !errors.Is(err, tt.wantErr) {
				t.Errorf("List error = %v", err)
			}
			if _, err := sys.DeletePrefix(ctx, tt.key); !errors.Is(err, tt.wantErr) {
				t.Errorf("DeletePrefix error = %v", err)
			}
			if _, err := sys.Exists(ctx, tt.key); !errors.Is(err, tt.wantErr) {
				t.Errorf("Exists error = %v", err)
			}
		})
	}
}
