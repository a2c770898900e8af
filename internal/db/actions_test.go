package db

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/dtnitsch/llm-web-harvester/models"
	dbpkg "github.com/dtnitsch/llm-web-harvester/pkg/db"
	"github.com/dtnitsch/llm-web-harvester/pkg/manifest"
	"github.com/dtnitsch/llm-web-harvester/pkg/storage"
)

func setupTestDB(t *testing.T) *dbpkg.DB {
	t.Helper()

	database, err := dbpkg.OpenPath(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func recordSite(t *testing.T, database *dbpkg.DB, seed string) int64 {
	t.Helper()

	site := &models.SiteContent{
		MainURL:    seed,
		TotalPages: 2,
		Status:     models.StatusSuccess,
		Pages: map[string]models.PageResult{
			seed: {URL: seed, Status: models.StatusSuccess, StatusCode: 200, ContentLength: 120, FetchedAt: time.Now()},
			seed + "gone": {
				URL: seed + "gone", Status: models.StatusError, StatusCode: 404, Depth: 1,
				ErrorType: models.ErrorTypeHTTP, Error: "http_error: 404 Not Found", FetchedAt: time.Now(),
			},
		},
	}
	id, err := database.RecordCrawl(site, dbpkg.RunInfo{PageBudget: 10, DepthBudget: 1, Workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestResolveSessionID(t *testing.T) {
	database := setupTestDB(t)

	if _, err := resolveSessionID("", database); err == nil {
		t.Error("resolveSessionID() on an empty database should fail")
	}

	recordSite(t, database, "https://a.example.com/")
	latest := recordSite(t, database, "https://b.example.com/")

	got, err := resolveSessionID("", database)
	if err != nil || got != latest {
		t.Errorf("resolveSessionID(\"\") = %d, %v; want %d", got, err, latest)
	}
	if got, err := resolveSessionID("1", database); err != nil || got != 1 {
		t.Errorf("resolveSessionID(\"1\") = %d, %v", got, err)
	}
	if _, err := resolveSessionID("abc", database); err == nil {
		t.Error("resolveSessionID(\"abc\") should fail")
	}
}

func TestPrintSessions(t *testing.T) {
	var buf bytes.Buffer
	PrintSessions(&buf, nil)
	if !strings.Contains(buf.String(), "No sessions found") {
		t.Errorf("empty output = %q", buf.String())
	}

	database := setupTestDB(t)
	recordSite(t, database, "https://example.com/")
	sessions, err := database.ListSessions(0)
	if err != nil {
		t.Fatal(err)
	}

	buf.Reset()
	PrintSessions(&buf, sessions)
	out := buf.String()
	if !strings.Contains(out, "https://example.com/") || !strings.Contains(out, "Total: 1 sessions") {
		t.Errorf("PrintSessions() = %q", out)
	}
}

func TestPrintSession(t *testing.T) {
	database := setupTestDB(t)
	id := recordSite(t, database, "https://example.com/")

	s, err := database.GetSessionByID(id)
	if err != nil {
		t.Fatal(err)
	}
	pages, err := database.GetSessionPages(id)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	PrintSession(&buf, s, pages)
	out := buf.String()
	for _, want := range []string{
		"Session 1",
		"2 total (1 success, 1 failed)",
		"[error] https://example.com/gone",
		"Error: [http_error]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("PrintSession() output missing %q:\n%s", want, out)
		}
	}
}

func TestResolveURLFromIDOrURL(t *testing.T) {
	database := setupTestDB(t)
	recordSite(t, database, "https://example.com/")

	id, u, err := ResolveURLFromIDOrURL("https://example.com/gone", database)
	if err != nil || u != "https://example.com/gone" {
		t.Fatalf("ResolveURLFromIDOrURL(url) = %d, %q, %v", id, u, err)
	}
	byID, u, err := ResolveURLFromIDOrURL(strconv.FormatInt(id, 10), database)
	if err != nil || byID != id || u != "https://example.com/gone" {
		t.Errorf("ResolveURLFromIDOrURL(id) = %d, %q, %v", byID, u, err)
	}

	for _, arg := range []string{"9999", "https://example.com/never"} {
		if _, _, err := ResolveURLFromIDOrURL(arg, database); !errors.Is(err, dbpkg.ErrURLNotFound) {
			t.Errorf("ResolveURLFromIDOrURL(%q) error = %v, want ErrURLNotFound", arg, err)
		}
	}
}

func TestPrintURL(t *testing.T) {
	database := setupTestDB(t)
	recordSite(t, database, "https://example.com/")

	id, u, err := ResolveURLFromIDOrURL("https://example.com/gone", database)
	if err != nil {
		t.Fatal(err)
	}
	last, err := database.GetLastAccess(id)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	PrintURL(&buf, id, u, last)
	out := buf.String()
	for _, want := range []string{"https://example.com/gone", "Status: 404", "failed (http_error)"} {
		if !strings.Contains(out, want) {
			t.Errorf("PrintURL() output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	PrintURL(&buf, 7, "https://example.com/new", nil)
	if !strings.Contains(buf.String(), "Never fetched") {
		t.Errorf("PrintURL() without access = %q", buf.String())
	}
}

func TestWriteArtifact(t *testing.T) {
	dir := t.TempDir()
	st := storage.New(dir)
	if _, err := st.SaveYAML(manifest.SummaryFile, manifest.SummaryManifest{MainURL: "https://example.com/"}); err != nil {
		t.Fatal(err)
	}
	s := &dbpkg.Session{SessionID: 3, OutputDir: dir}

	var buf bytes.Buffer
	if err := WriteArtifact(&buf, s, "Summary"); err != nil {
		t.Fatalf("WriteArtifact() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "# Session: 3\n") || !strings.Contains(buf.String(), "main_url: https://example.com/") {
		t.Errorf("WriteArtifact() = %q", buf.String())
	}

	if err := WriteArtifact(&buf, s, "chunks"); err == nil || !strings.Contains(err.Error(), "file not found") {
		t.Errorf("missing artifact error = %v", err)
	}
	if err := WriteArtifact(&buf, s, "raw"); err == nil {
		t.Error("unknown file type should fail")
	}
	if err := WriteArtifact(&buf, &dbpkg.Session{SessionID: 4}, "summary"); err == nil {
		t.Error("session without output directory should fail")
	}
}

func TestPrintSession_ListsArtifacts(t *testing.T) {
	dir := t.TempDir()
	st := storage.New(dir)
	if _, err := st.SaveJSON(manifest.ContentFile, map[string]string{"main_url": "https://example.com/"}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	PrintSession(&buf, &dbpkg.Session{SessionID: 5, OutputDir: dir}, nil)
	out := buf.String()
	if !strings.Contains(out, manifest.ContentFile+" (") {
		t.Errorf("PrintSession() output missing content file:\n%s", out)
	}
	if strings.Contains(out, manifest.ChunksFile) {
		t.Errorf("PrintSession() listed a missing file:\n%s", out)
	}
}
