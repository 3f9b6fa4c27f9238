package query_test

import (
	"testing"
	"time"

	"github.com/JaimeStill/stapler/pkg/query"
)

func runsProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "runs", "r").
		Project("id", "ID").
		Project("folder_path", "FolderPath").
		Project("status", "Status").
		Project("started_at", "StartedAt")
}

func ptr[T any](v T) *T { return &v }

func TestProjectionMap(t *testing.T) {
	p := runsProjection()

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"from", p.From(), "public.runs r"},
		{"alias", p.Alias(), "r"},
		{"columns", p.Columns(), "r.id, r.folder_path, r.status, r.started_at"},
		{"mapped column", p.Column("FolderPath"), "r.folder_path"},
		{"unmapped column", p.Column("unknown"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, want %q", tt.got, tt.expected)
			}
		})
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		in       string
		expected []query.SortField
	}{
		{"", nil},
		{"StartedAt", []query.SortField{{Field: "StartedAt"}}},
		{"-StartedAt, Status", []query.SortField{{Field: "StartedAt", Descending: true}, {Field: "Status"}}},
		{" , ", []query.SortField{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := query.ParseSortFields(tt.in)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("[%d] got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestBuilder(t *testing.T) {
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	until := since.Add(24 * time.Hour)
	defaultSort := query.SortField{Field: "StartedAt", Descending: true}

	tests := []struct {
		name     string
		build    func() (string, []any)
		wantSQL  string
		wantArgs int
	}{
		{
			name:    "select",
			build:   query.NewBuilder(runsProjection()).Build,
			wantSQL: "SELECT r.id, r.folder_path, r.status, r.started_at FROM public.runs r",
		},
		{
			name:    "count",
			build:   query.NewBuilder(runsProjection()).BuildCount,
			wantSQL: "SELECT COUNT(*) FROM public.runs r",
		},
		{
			name: "page with default sort",
			build: func() (string, []any) {
				return query.NewBuilder(runsProjection(), defaultSort).BuildPage(2, 10)
			},
			wantSQL: "SELECT r.id, r.folder_path, r.status, r.started_at FROM public.runs r ORDER BY r.started_at DESC LIMIT 10 OFFSET 10",
		},
		{
			name: "single",
			build: func() (string, []any) {
				return query.NewBuilder(runsProjection()).BuildSingle("ID", "abc")
			},
			wantSQL:  "SELECT r.id, r.folder_path, r.status, r.started_at FROM public.runs r WHERE r.id = $1",
			wantArgs: 1,
		},
		{
			name: "nil filters skipped",
			build: query.NewBuilder(runsProjection()).
				WhereEquals("Status", (*string)(nil)).
				WhereContains("FolderPath", ptr("")).
				WhereSearch(nil, "FolderPath").
				WhereAfter("StartedAt", nil).
				WhereIn("Status", nil).
				Build,
			wantSQL: "SELECT r.id, r.folder_path, r.status, r.started_at FROM public.runs r",
		},
		{
			name: "combined conditions",
			build: query.NewBuilder(runsProjection()).
				WhereEquals("Status", ptr("complete")).
				WhereContains("FolderPath", ptr("inbox")).
				WhereAfter("StartedAt", &since).
				WhereBefore("StartedAt", &until).
				BuildCount,
			wantSQL:  "SELECT COUNT(*) FROM public.runs r WHERE r.status = $1 AND r.folder_path ILIKE $2 AND r.started_at >= $3 AND r.started_at < $4",
			wantArgs: 4,
		},
		{
			name: "search and in",
			build: query.NewBuilder(runsProjection()).
				WhereSearch(ptr("x"), "FolderPath", "Status").
				WhereIn("Status", []any{"complete", "failed"}).
				Build,
			wantSQL:  "SELECT r.id, r.folder_path, r.status, r.started_at FROM public.runs r WHERE (r.folder_path ILIKE $1 OR r.status ILIKE $2) AND r.status IN ($3, $4)",
			wantArgs: 4,
		},
		{
			name: "nullable",
			build: query.NewBuilder(runsProjection()).
				WhereNullable("FolderPath", nil).
				BuildSingleOrNull,
			wantSQL: "SELECT r.id, r.folder_path, r.status, r.started_at FROM public.runs r WHERE r.folder_path IS NULL LIMIT 1",
		},
		{
			name: "explicit order",
			build: query.NewBuilder(runsProjection(), defaultSort).
				OrderByFields([]query.SortField{{Field: "Status"}}).
				Build,
			wantSQL: "SELECT r.id, r.folder_path, r.status, r.started_at FROM public.runs r ORDER BY r.status ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.build()
			if sql != tt.wantSQL {
				t.Errorf("sql:\n got  %q\n want %q", sql, tt.wantSQL)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("args: got %v, want %d", args, tt.wantArgs)
			}
		})
	}
}
