package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/stapler/pkg/middleware"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestApplyOrder(t *testing.T) {
	var order []string
	mw := middleware.New()

	for _, name := range []string{"first", "second"} {
		mw.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	handler := mw.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if strings.Join(order, ",") != "first,second,handler" {
		t.Errorf("order = %v", order)
	}
}

func TestCORS(t *testing.T) {
	enabled := &middleware.CORSConfig{
		Enabled:          true,
		Origins:          []string{"http://ops.local"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           600,
	}

	tests := []struct {
		name        string
		cfg         *middleware.CORSConfig
		method      string
		origin      string
		wantOrigin  string
		wantCreds   string
		wantMaxAge  string
		wantMethods string
	}{
		{"disabled", &middleware.CORSConfig{}, "GET", "http://ops.local", "", "", "", ""},
		{"allowed", enabled, "GET", "http://ops.local", "http://ops.local", "true", "600", "GET, POST"},
		{"disallowed", enabled, "GET", "http://other.local", "", "", "", ""},
		{"preflight", enabled, "OPTIONS", "http://ops.local", "http://ops.local", "true", "600", "GET, POST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.CORS(tt.cfg)(http.HandlerFunc(ok))
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/api/runs", nil)
			req.Header.Set("Origin", tt.origin)
			handler.ServeHTTP(rec, req)

			h := rec.Header()
			if got := h.Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := h.Get("Access-Control-Allow-Credentials"); got != tt.wantCreds {
				t.Errorf("Allow-Credentials = %q, want %q", got, tt.wantCreds)
			}
			if got := h.Get("Access-Control-Max-Age"); got != tt.wantMaxAge {
				t.Errorf("Max-Age = %q, want %q", got, tt.wantMaxAge)
			}
			if got := h.Get("Access-Control-Allow-Methods"); got != tt.wantMethods {
				t.Errorf("Allow-Methods = %q, want %q", got, tt.wantMethods)
			}
			if rec.Code != http.StatusOK {
				t.Errorf("status = %d", rec.Code)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	const supplied = "0f8fad5b-d9cb-469f-a165-70867728950e"

	tests := []struct {
		name   string
		header string
		reuse  bool
	}{
		{"generated", "", false},
		{"reused", supplied, true},
		{"invalid replaced", "not-a-uuid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = middleware.RequestIDFrom(r.Context())
			}))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set(middleware.RequestIDHeader, tt.header)
			}
			handler.ServeHTTP(rec, req)

			if seen == "" {
				t.Fatal("no request id in context")
			}
			if rec.Header().Get(middleware.RequestIDHeader) != seen {
				t.Errorf("header %q != context %q", rec.Header().Get(middleware.RequestIDHeader), seen)
			}
			if (seen == supplied) != tt.reuse {
				t.Errorf("id = %q, reuse = %v", seen, tt.reuse)
			}
			if seen == tt.header && !tt.reuse {
				t.Errorf("invalid header %q reused", tt.header)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	mw := middleware.New()
	mw.Use(middleware.RequestID())
	mw.Use(middleware.Logger(logger))

	handler := mw.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/documents/process-folder", nil))

	out := buf.String()
	for _, want := range []string{"request finished", "method=POST", "status=418", "uri=/api/documents/process-folder", "request_id="} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q: %s", want, out)
		}
	}
	if strings.Contains(out, `request_id=""`) || strings.Contains(out, "request_id= ") {
		t.Errorf("request id empty: %s", out)
	}
}

func TestCORSConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var c middleware.CORSConfig
		if err := c.Finalize(nil); err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		if len(c.AllowedMethods) != 5 || c.MaxAge != 3600 {
			t.Errorf("got %+v", c)
		}
		if c.AllowedHeaders[len(c.AllowedHeaders)-1] != middleware.RequestIDHeader {
			t.Errorf("AllowedHeaders = %v", c.AllowedHeaders)
		}
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("STAPLER_TEST_CORS_ENABLED", "true")
		t.Setenv("STAPLER_TEST_CORS_ORIGINS", "http://a.local, ,http://b.local")
		var c middleware.CORSConfig
		err := c.Finalize(&middleware.CORSEnv{
			Enabled: "STAPLER_TEST_CORS_ENABLED",
			Origins: "STAPLER_TEST_CORS_ORIGINS",
		})
		if err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		if !c.Enabled || len(c.Origins) != 2 || c.Origins[1] != "http://b.local" {
			t.Errorf("got %+v", c)
		}
	})

	t.Run("merge", func(t *testing.T) {
		base := middleware.CORSConfig{Origins: []string{"http://a.local"}, MaxAge: 100}
		base.Merge(&middleware.CORSConfig{Enabled: true, MaxAge: 200})
		if !base.Enabled || base.MaxAge != 200 || base.Origins[0] != "http://a.local" {
			t.Errorf("got %+v", base)
		}
	})
}
