package database_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/stapler/pkg/database"
	"github.com/JaimeStill/stapler/pkg/lifecycle"
)

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := database.Config{Name: "stapler", User: "stapler"}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("Finalize: %v", err)
		}

		tests := []struct {
			name string
			got  any
			want any
		}{
			{"host", cfg.Host, "localhost"},
			{"port", cfg.Port, 5432},
			{"ssl_mode", cfg.SSLMode, "disable"},
			{"max_open_conns", cfg.MaxOpenConns, 25},
			{"max_idle_conns", cfg.MaxIdleConns, 5},
			{"conn_max_lifetime", cfg.ConnMaxLifetimeDuration(), 15 * time.Minute},
			{"conn_timeout", cfg.ConnTimeoutDuration(), 5 * time.Second},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if tt.got != tt.want {
					t.Errorf("got %v, want %v", tt.got, tt.want)
				}
			})
		}
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("STAPLER_TEST_DB_HOST", "db.internal")
		t.Setenv("STAPLER_TEST_DB_PORT", "5433")
		t.Setenv("STAPLER_TEST_DB_NAME", "runs")
		t.Setenv("STAPLER_TEST_DB_USER", "svc")

		var cfg database.Config
		err := cfg.Finalize(&database.Env{
			Host: "STAPLER_TEST_DB_HOST",
			Port: "STAPLER_TEST_DB_PORT",
			Name: "STAPLER_TEST_DB_NAME",
			User: "STAPLER_TEST_DB_USER",
		})
		if err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		want := "host=db.internal port=5433 dbname=runs user=svc sslmode=disable"
		if cfg.Dsn() != want {
			t.Errorf("Dsn = %q, want %q", cfg.Dsn(), want)
		}
	})

	t.Run("url overrides fields", func(t *testing.T) {
		t.Setenv("STAPLER_TEST_DB_URL", "postgres://svc@db/runs")

		var cfg database.Config
		if err := cfg.Finalize(&database.Env{URL: "STAPLER_TEST_DB_URL"}); err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		if cfg.Dsn() != "postgres://svc@db/runs" {
			t.Errorf("Dsn = %q", cfg.Dsn())
		}
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name    string
			cfg     database.Config
			wantErr string
		}{
			{"missing name", database.Config{User: "svc"}, "name required"},
			{"missing user", database.Config{Name: "runs"}, "user required"},
			{"bad lifetime", database.Config{Name: "runs", User: "svc", ConnMaxLifetime: "soon"}, "conn_max_lifetime"},
			{"bad timeout", database.Config{Name: "runs", User: "svc", ConnTimeout: "x"}, "conn_timeout"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.cfg.Finalize(nil)
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %v, want containing %q", err, tt.wantErr)
				}
			})
		}
	})

	t.Run("merge", func(t *testing.T) {
		base := database.Config{Host: "localhost", Port: 5432, Name: "runs"}
		base.Merge(&database.Config{Port: 6543, URL: "postgres://x"})
		if base.Host != "localhost" || base.Port != 6543 || base.Name != "runs" || base.URL != "postgres://x" {
			t.Errorf("got %+v", base)
		}
	})
}

func TestNew(t *testing.T) {
	cfg := database.Config{Name: "runs", User: "svc", MaxOpenConns: 42, MaxIdleConns: 7}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	sys, err := database.New(&cfg, slog.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	conn := sys.Connection()
	defer conn.Close()

	if got := conn.Stats().MaxOpenConnections; got != 42 {
		t.Errorf("MaxOpenConnections = %d, want 42", got)
	}
}

func TestPingUnreachable(t *testing.T) {
	cfg := database.Config{Host: "127.0.0.1", Port: 1, Name: "runs", User: "svc", ConnTimeout: "200ms"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	sys, err := database.New(&cfg, slog.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer sys.Connection().Close()

	if err := sys.Ping(context.Background()); !errors.Is(err, database.ErrNotReady) {
		t.Errorf("Ping error = %v, want ErrNotReady", err)
	}
}

func TestStartRegistersProbe(t *testing.T) {
	dsn := os.Getenv("STAPLER_TEST_DB_DSN")
	if dsn == "" {
		t.Skip("STAPLER_TEST_DB_DSN not set")
	}

	cfg := database.Config{URL: dsn}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	sys, err := database.New(&cfg, slog.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatalf("Start: %v", err)
	}
	lc.WaitForStartup()

	results, healthy := lc.Check(context.Background())
	if !healthy || results["database"] != "ok" {
		t.Errorf("Check = %v, %v", results, healthy)
	}

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestDsnQuotesPassword(t *testing.T) {
	tests := []struct {
		password string
		want     string
	}{
		{"plain", "password=plain "},
		{"with space", "password='with space' "},
		{"it's", `password='it\'s' `},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			cfg := database.Config{Host: "h", Port: 1, Name: "n", User: "u", Password: tt.password, SSLMode: "disable"}
			if !strings.Contains(cfg.Dsn(), tt.want) {
				t.Errorf("Dsn = %q, want containing %q", cfg.Dsn(), tt.want)
			}
		})
	}
}
