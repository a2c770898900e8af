package manifest

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dtnitsch/llm-web-harvester/models"
	"github.com/dtnitsch/llm-web-harvester/pkg/analytics"
	"github.com/dtnitsch/llm-web-harvester/pkg/mapreduce"
	"github.com/dtnitsch/llm-web-harvester/pkg/parser"
	"github.com/dtnitsch/llm-web-harvester/pkg/storage"
)

const pageKeywords = 10

// EstimateTokens approximates the token count of text at four runes per token.
func EstimateTokens(text string) int {
	return (parser.RuneLen(text) + 3) / 4
}

// Build assembles the manifest for a crawl. Pages are listed by URL.
func Build(site *models.SiteContent, now time.Time) SummaryManifest {
	m := SummaryManifest{
		GeneratedAt:       now.Format(time.RFC3339),
		MainURL:           site.MainURL,
		Title:             site.Title,
		Status:            string(site.Status),
		Error:             site.Error,
		TotalPages:        site.TotalPages,
		ExtractionTime:    site.ExtractionTime,
		AggregateKeywords: site.TopKeywords,
	}

	urls := make([]string, 0, len(site.Pages))
	for u := range site.Pages {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	a := &analytics.Analytics{}
	for _, u := range urls {
		page := site.Pages[u]
		summary := PageSummary{
			URL:        u,
			Status:     string(page.Status),
			Depth:      page.Depth,
			StatusCode: page.StatusCode,
		}

		if page.Failed() {
			m.Failed++
			summary.ErrorType = page.ErrorType
			summary.ErrorMessage = page.Error
		} else {
			m.Successful++
			text := page.ToPlainText()
			summary.Title = page.Title
			summary.Language = page.Language
			summary.WordCount = len(strings.Fields(text))
			summary.EstimatedTokens = EstimateTokens(text)
			summary.ItemCount = len(page.Items)
			summary.Truncated = page.Truncated
			summary.TopKeywords = mapreduce.TopKeywords(mapreduce.Map(text, a), pageKeywords)

			m.TotalItems += summary.ItemCount
			m.EstimatedTokens += summary.EstimatedTokens
		}

		m.Results = append(m.Results, summary)
	}

	return m
}

// GenerateSummary writes the manifest as SummaryFile through s and returns
// the written path.
func GenerateSummary(m SummaryManifest, s *storage.Storage) (string, error) {
	p, err := s.SaveYAML(SummaryFile, m)
	if err != nil {
		return "", fmt.Errorf("error saving manifest: %w", err)
	}
	return p, nil
}
