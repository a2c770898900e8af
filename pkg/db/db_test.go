package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dtnitsch/llm-web-harvester/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := OpenPath(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func testSite() *models.SiteContent {
	now := time.Now()
	return &models.SiteContent{
		MainURL:        "https://example.com/",
		Title:          "Example Domain",
		TotalPages:     3,
		ContentStats:   models.ContentStats{TotalChars: 450, AvgContentLength: 150, PagesWithContent: 2},
		TopKeywords:    []string{"garden:4", "bees:2"},
		ExtractionTime: "1.2s",
		Status:         models.StatusSuccess,
		Pages: map[string]models.PageResult{
			"https://example.com/": {
				URL: "https://example.com/", Title: "Example Domain", Content: "hello world",
				ContentLength: 300, Status: models.StatusSuccess, StatusCode: 200, FetchedAt: now,
				Items: []models.ContentItem{{Text: "one"}, {Text: "two"}},
			},
			"https://example.com/about": {
				URL: "https://example.com/about", Title: "About", Content: "about us",
				ContentLength: 150, Status: models.StatusSuccess, StatusCode: 200, Depth: 1,
				Language: "en", FetchedAt: now,
			},
			"https://example.com/missing": {
				URL: "https://example.com/missing", Status: models.StatusError, StatusCode: 404,
				ErrorType: models.ErrorTypeHTTP, Error: "http_error: not found", Depth: 1, FetchedAt: now,
			},
		},
	}
}

func TestOpenPath_CreatesSchemaOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	first, err := OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath() error = %v", err)
	}
	if _, err := first.InsertURL("https://example.com/"); err != nil {
		t.Fatal(err)
	}
	_ = first.Close()

	second, err := OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath() reopen error = %v", err)
	}
	defer second.Close()

	if second.Path() != path {
		t.Errorf("Path() = %q, want %q", second.Path(), path)
	}
	var count int
	if err := second.QueryRow("SELECT COUNT(*) FROM urls").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("urls has %d rows after reopen, want 1", count)
	}
}

func TestInsertURL_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	id1, err := db.InsertURL("https://example.com/a?b=1")
	if err != nil {
		t.Fatalf("InsertURL() error = %v", err)
	}
	id2, err := db.InsertURL("https://example.com/a?b=1")
	if err != nil {
		t.Fatal(err)
	}
	if id1 != id2 {
		t.Errorf("InsertURL() returned %d then %d, want the same ID", id1, id2)
	}

	got, err := db.GetURLByID(id1)
	if err != nil || got != "https://example.com/a?b=1" {
		t.Errorf("GetURLByID() = %q, %v", got, err)
	}
	if _, err := db.GetURLByID(9999); !errors.Is(err, ErrURLNotFound) {
		t.Errorf("GetURLByID() on unknown ID error = %v, want ErrURLNotFound", err)
	}

	if got, err := db.GetURLID("https://example.com/a?b=1"); err != nil || got != id1 {
		t.Errorf("GetURLID() = %d, %v; want %d", got, err, id1)
	}
	if _, err := db.GetURLID("https://example.com/never"); !errors.Is(err, ErrURLNotFound) {
		t.Errorf("GetURLID() on unknown URL error = %v, want ErrURLNotFound", err)
	}
}

func TestRecordAccess(t *testing.T) {
	db := setupTestDB(t)
	id, err := db.InsertURL("https://example.com/")
	if err != nil {
		t.Fatal(err)
	}

	if rec, err := db.GetLastAccess(id); err != nil || rec != nil {
		t.Fatalf("GetLastAccess() before any access = %+v, %v; want nil, nil", rec, err)
	}

	if err := db.RecordAccess(id, 500, models.ErrorTypeHTTP, false); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordAccess(id, 200, "", true); err != nil {
		t.Fatal(err)
	}

	rec, err := db.GetLastAccess(id)
	if err != nil {
		t.Fatal(err)
	}
	if rec.StatusCode != 200 || !rec.Success || rec.ErrorType != "" {
		t.Errorf("GetLastAccess() = %+v, want the successful 200 access", rec)
	}
}

func TestRecordCrawl(t *testing.T) {
	db := setupTestDB(t)

	sessionID, err := db.RecordCrawl(testSite(), RunInfo{
		PageBudget: 10, DepthBudget: 2, Workers: 5, OutputDir: "out",
		HashContent: func(s string) string { return "h:" + s },
	})
	if err != nil {
		t.Fatalf("RecordCrawl() error = %v", err)
	}

	s, err := db.GetSessionByID(sessionID)
	if err != nil {
		t.Fatalf("GetSessionByID() error = %v", err)
	}

	tests := []struct {
		name      string
		got, want any
	}{
		{"seed", s.SeedURL, "https://example.com/"},
		{"status", s.Status, "success"},
		{"total pages", s.TotalPages, 3},
		{"success", s.SuccessCount, 2},
		{"failed", s.FailedCount, 1},
		{"items", s.ItemCount, 2},
		{"chars", s.TotalChars, 450},
		{"budget", s.PageBudget, 10},
		{"output dir", s.OutputDir, "out"},
		{"keywords", len(s.TopKeywords), 2},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	pages, err := db.GetSessionPages(sessionID)
	if err != nil {
		t.Fatalf("GetSessionPages() error = %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(pages))
	}
	if pages[0].URL != "https://example.com/" || pages[0].ItemCount != 2 || pages[0].ContentHash != "h:hello world" {
		t.Errorf("pages[0] = %+v", pages[0])
	}
	missing := pages[2]
	if missing.Status != "error" || missing.StatusCode != 404 || missing.ErrorType != models.ErrorTypeHTTP {
		t.Errorf("missing page = %+v", missing)
	}
}

func TestRecordCrawl_FailedSeed(t *testing.T) {
	db := setupTestDB(t)

	site := &models.SiteContent{
		MainURL: "https://down.example.com/",
		Pages:   map[string]models.PageResult{},
		Status:  models.StatusError,
		Error:   "seed unreachable: connection refused",
	}
	id, err := db.RecordCrawl(site, RunInfo{PageBudget: 5, DepthBudget: 1, Workers: 5})
	if err != nil {
		t.Fatalf("RecordCrawl() error = %v", err)
	}

	s, err := db.GetSessionByID(id)
	if err != nil {
		t.Fatal(err)
	}
	if s.Status != "error" || s.ErrorMessage != site.Error || s.TotalPages != 0 {
		t.Errorf("session = %+v", s)
	}
}

func TestListSessions(t *testing.T) {
	db := setupTestDB(t)

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := db.RecordCrawl(testSite(), RunInfo{PageBudget: 10, DepthBudget: 2, Workers: 5})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	all, err := db.ListSessions(0)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListSessions(0) returned %d sessions, want 3", len(all))
	}
	if all[0].SessionID != ids[2] {
		t.Errorf("latest session = %d, want %d", all[0].SessionID, ids[2])
	}

	limited, err := db.ListSessions(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("ListSessions(1) returned %d sessions, want 1", len(limited))
	}

	if _, err := db.GetSessionByID(9999); err == nil {
		t.Error("GetSessionByID() on unknown ID should fail")
	}
}
