package manifest

import (
	"testing"
	"time"

	"github.com/dtnitsch/llm-web-harvester/models"
	"github.com/dtnitsch/llm-web-harvester/pkg/storage"
	"gopkg.in/yaml.v3"
)

func testSite() *models.SiteContent {
	return &models.SiteContent{
		MainURL:     "https://example.com/",
		Title:       "Example",
		TotalPages:  2,
		TopKeywords: []string{"garden:3"},
		Status:      models.StatusSuccess,
		Pages: map[string]models.PageResult{
			"https://example.com/b": {
				URL: "https://example.com/b", Status: models.StatusError, StatusCode: 404,
				ErrorType: models.ErrorTypeHTTP, Error: "not found", Depth: 1,
			},
			"https://example.com/": {
				URL: "https://example.com/", Title: "Example", Status: models.StatusSuccess,
				Content: "garden garden garden tools", Language: "en", Truncated: true,
				Items: []models.ContentItem{{Text: "a lovely garden visit"}},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := Build(testSite(), now)

	if m.Successful != 1 || m.Failed != 1 {
		t.Errorf("Successful/Failed = %d/%d, want 1/1", m.Successful, m.Failed)
	}
	if m.TotalItems != 1 {
		t.Errorf("TotalItems = %d, want 1", m.TotalItems)
	}
	if len(m.Results) != 2 || m.Results[0].URL != "https://example.com/" {
		t.Fatalf("Results not sorted by URL: %+v", m.Results)
	}

	ok := m.Results[0]
	if ok.WordCount == 0 || ok.EstimatedTokens == 0 || ok.Language != "en" || !ok.Truncated {
		t.Errorf("success summary = %+v", ok)
	}
	if len(ok.TopKeywords) == 0 || ok.TopKeywords[0] != "garden:4" {
		t.Errorf("TopKeywords = %v, want garden first", ok.TopKeywords)
	}
	if m.EstimatedTokens != ok.EstimatedTokens {
		t.Errorf("EstimatedTokens = %d, want %d", m.EstimatedTokens, ok.EstimatedTokens)
	}

	failed := m.Results[1]
	if failed.ErrorType != models.ErrorTypeHTTP || failed.StatusCode != 404 || failed.WordCount != 0 {
		t.Errorf("failed summary = %+v", failed)
	}
	if m.GeneratedAt != "2026-01-02T03:04:05Z" {
		t.Errorf("GeneratedAt = %q", m.GeneratedAt)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"abc", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"ééééé", 2},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestGenerateSummary(t *testing.T) {
	s := storage.New(t.TempDir())
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	p, err := GenerateSummary(Build(testSite(), now), s)
	if err != nil {
		t.Fatalf("GenerateSummary() error = %v", err)
	}
	if p != s.Path(SummaryFile) {
		t.Errorf("path = %q, want %q", p, s.Path(SummaryFile))
	}
	if !s.HasFile(SummaryFile) {
		t.Error("HasFile(SummaryFile) = false after writing")
	}

	data, err := s.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	var got SummaryManifest
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("manifest is not valid YAML: %v", err)
	}
	if got.MainURL != "https://example.com/" || len(got.Results) != 2 {
		t.Errorf("decoded manifest = %+v", got)
	}
}
