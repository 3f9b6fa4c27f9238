package infrastructure_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JaimeStill/stapler/internal/config"
	"github.com/JaimeStill/stapler/internal/infrastructure"
	"github.com/JaimeStill/stapler/pkg/database"
	"github.com/JaimeStill/stapler/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=staplerstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/staplerstore;"

func validConfig() *config.Config {
	return &config.Config{
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "stapler",
			User:            "stapler",
			Password:        "stapler",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			ContainerName:    "pages",
			ConnectionString: azuriteConnString,
		},
		Logging: config.LoggingConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
		Version: "0.1.0",
	}
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer infra.Close()

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Database == nil {
		t.Error("Database is nil")
	}
	if infra.Storage == nil {
		t.Error("Storage is nil")
	}
}

func TestNewInvalidStorage(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.ConnectionString = "not-a-connection-string"

	if _, err := infrastructure.New(cfg); err == nil {
		t.Fatal("New() expected error for invalid connection string")
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		debug   bool
		jsonOut bool
	}{
		{"text info", config.LoggingConfig{Level: "info", Format: "text"}, false, false},
		{"text debug", config.LoggingConfig{Level: "debug", Format: "text"}, true, false},
		{"json info", config.LoggingConfig{Level: "info", Format: "json"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, closer := infrastructure.NewLogger(&tt.cfg, &buf)
			defer closer.Close()

			logger.Debug("debug record")
			logger.Info("info record", "request_id", "req-1")

			out := buf.String()
			if got := strings.Contains(out, "debug record"); got != tt.debug {
				t.Errorf("debug record present = %v, want %v", got, tt.debug)
			}
			if !strings.Contains(out, "info record") {
				t.Errorf("info record missing from %q", out)
			}

			if tt.jsonOut {
				line := strings.TrimSpace(out)
				var rec map[string]any
				if err := json.Unmarshal([]byte(line), &rec); err != nil {
					t.Fatalf("json output not parseable: %v", err)
				}
				if rec["request_id"] != "req-1" {
					t.Errorf("request_id = %v, want req-1", rec["request_id"])
				}
			}
		})
	}
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stapler.log")
	cfg := config.LoggingConfig{
		Level:      "info",
		Format:     "text",
		File:       path,
		MaxSizeMB:  1,
		MaxBackups: 1,
	}

	var buf bytes.Buffer
	logger, closer := infrastructure.NewLogger(&cfg, &buf)
	logger.Info("written twice")

	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "written twice") {
		t.Errorf("log file missing record: %q", data)
	}
	if !strings.Contains(buf.String(), "written twice") {
		t.Errorf("writer missing record: %q", buf.String())
	}
}
