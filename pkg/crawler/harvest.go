package crawler

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/dtnitsch/llm-web-harvester/models"
	"github.com/dtnitsch/llm-web-harvester/pkg/analytics"
	"github.com/dtnitsch/llm-web-harvester/pkg/mapreduce"
)

// ExtractContent crawls seedURL and aggregates the result for downstream
// use. If the seed cannot be fetched the returned SiteContent has status
// error and no pages, and the error wraps ErrSeedUnreachable.
func ExtractContent(ctx context.Context, seedURL string, opts ...Option) (*models.SiteContent, error) {
	start := time.Now()

	c, err := New(opts...)
	if err != nil {
		return failedSite(seedURL, err, start), err
	}

	res, err := c.Crawl(ctx, seedURL)
	if err != nil {
		return failedSite(seedURL, err, start), err
	}

	site := c.Summarize(res)
	site.ExtractionTime = time.Since(start).Round(time.Millisecond).String()
	return site, nil
}

// Summarize turns a crawl result into a SiteContent.
func (c *Crawler) Summarize(res *CrawlResult) *models.SiteContent {
	seedLinks := make([]models.ScoredLink, len(res.Seed.Links))
	for i, l := range res.Seed.Links {
		l.Depth = 1
		seedLinks[i] = l
	}

	site := &models.SiteContent{
		MainURL:         res.SeedURL,
		Title:           res.Seed.Title,
		MetaDescription: res.Seed.MetaDescription,
		MainContent:     res.Seed.Content,
		Pages:           res.Pages,
		Links:           seedLinks,
		TotalPages:      len(res.Pages),
		ContentStats:    ComputeStats(res.Pages),
		Structure:       BuildStructure(res.SeedURL, res.Pages),
		Status:          models.StatusSuccess,
	}

	if n := c.cfg.Analytics.TopKeywords; n > 0 {
		counts := mapreduce.Reduce(mapreduce.MapPages(res.Pages, &analytics.Analytics{}))
		site.TopKeywords = mapreduce.TopKeywords(counts, n)
	}

	return site
}

// ComputeStats sums content length over all pages. The average is taken
// over every recorded page, failed ones included.
func ComputeStats(pages map[string]models.PageResult) models.ContentStats {
	var stats models.ContentStats
	for _, p := range pages {
		stats.TotalChars += p.ContentLength
		if p.ContentLength > 0 {
			stats.PagesWithContent++
		}
	}
	if len(pages) > 0 {
		stats.AvgContentLength = float64(stats.TotalChars) / float64(len(pages))
	}
	return stats
}

// BuildStructure groups page URLs into a tree by path segment. A page is
// listed in the section named by its last segment; "/" pages sit at the root.
func BuildStructure(mainURL string, pages map[string]models.PageResult) *models.SiteSection {
	root := &models.SiteSection{Name: "/"}

	urls := make([]string, 0, len(pages))
	for u := range pages {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		section := root
		for _, seg := range strings.Split(u.Path, "/") {
			if seg == "" {
				continue
			}
			if section.Subsections == nil {
				section.Subsections = make(map[string]*models.SiteSection)
			}
			next, ok := section.Subsections[seg]
			if !ok {
				next = &models.SiteSection{Name: seg}
				section.Subsections[seg] = next
			}
			section = next
		}
		section.Pages = append(section.Pages, raw)
	}

	if len(root.Pages) == 0 && len(root.Subsections) == 0 && mainURL != "" {
		root.Pages = []string{mainURL}
	}
	return root
}

func failedSite(seedURL string, err error, start time.Time) *models.SiteContent {
	return &models.SiteContent{
		MainURL:        seedURL,
		Pages:          map[string]models.PageResult{},
		Links:          []models.ScoredLink{},
		Status:         models.StatusError,
		Error:          err.Error(),
		ExtractionTime: time.Since(start).Round(time.Millisecond).String(),
	}
}
