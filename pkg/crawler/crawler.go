// Package crawler fetches a seed page and a bounded set of same-site pages
// reachable from it, extracting content from each.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dtnitsch/llm-web-harvester/models"
	"github.com/dtnitsch/llm-web-harvester/pkg/analytics"
	"github.com/dtnitsch/llm-web-harvester/pkg/extractor"
	"github.com/dtnitsch/llm-web-harvester/pkg/fetcher"
	"github.com/dtnitsch/llm-web-harvester/pkg/links"
	"github.com/dtnitsch/llm-web-harvester/pkg/parser"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

var (
	errRobotsDisallowed = errors.New("disallowed by robots.txt")
	// errRedirectVisited means a redirect led to a page this session
	// already claimed; the result is dropped rather than recorded twice.
	errRedirectVisited = errors.New("redirect target already visited")
)

type settings struct {
	cfg    models.HarvestConfig
	logger *slog.Logger
	client *http.Client
}

// Option adjusts a Crawler. WithConfig replaces the whole configuration,
// so it should come before the single-value options.
type Option func(*settings)

func WithConfig(cfg models.HarvestConfig) Option {
	return func(s *settings) { s.cfg = cfg }
}

func WithPageBudget(n int) Option {
	return func(s *settings) { s.cfg.Crawl.PageBudget = n }
}

func WithDepthBudget(n int) Option {
	return func(s *settings) { s.cfg.Crawl.DepthBudget = n }
}

func WithWorkers(n int) Option {
	return func(s *settings) { s.cfg.Crawl.Workers = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.client = c }
}

type Crawler struct {
	cfg       models.HarvestConfig
	logger    *slog.Logger
	fetcher   *fetcher.Fetcher
	parser    *parser.Parser
	extractor *extractor.Extractor
	scorer    *links.Scorer
	languages *analytics.LanguageDetector
}

// CrawlResult holds every page recorded during one crawl.
type CrawlResult struct {
	SeedURL string
	Seed    models.PageResult
	Pages   map[string]models.PageResult
	// Order lists page URLs in the order their results were recorded.
	Order []string
}

func New(opts ...Option) (*Crawler, error) {
	s := settings{cfg: models.DefaultConfig()}
	for _, opt := range opts {
		opt(&s)
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid crawl configuration: %w", err)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	ex, err := extractor.FromConfig(s.cfg)
	if err != nil {
		return nil, err
	}

	fetchOpts := []fetcher.Option{
		fetcher.WithUserAgent(s.cfg.Crawl.UserAgent),
		fetcher.WithMaxBodyBytes(s.cfg.Crawl.MaxBodyBytes),
	}
	if s.client != nil {
		fetchOpts = append(fetchOpts, fetcher.WithClient(s.client))
	}

	c := &Crawler{
		cfg:       s.cfg,
		logger:    s.logger,
		fetcher:   fetcher.NewFetcher(fetchOpts...),
		parser:    &parser.Parser{},
		extractor: ex,
		scorer:    links.FromConfig(s.cfg.Links),
	}
	if s.cfg.Analytics.DetectLanguage {
		c.languages = analytics.NewLanguageDetector()
	}
	return c, nil
}

// Config returns the effective configuration.
func (c *Crawler) Config() models.HarvestConfig {
	return c.cfg
}

// run is the per-call state of Crawl.
type run struct {
	c         *Crawler
	session   *Session
	extractor *extractor.Extractor
	limiter   *rate.Limiter
	robots    *robotsGate
	logger    *slog.Logger
}

// Crawl fetches seedURL, then pages reachable from it in batches until the
// page budget is used up or no links remain. Each URL is fetched at most
// once. Only a failure to process the seed is returned as an error; other
// failures are recorded as error pages. Cancelling ctx stops dispatching new
// batches and returns the pages gathered so far.
func (c *Crawler) Crawl(ctx context.Context, seedURL string) (*CrawlResult, error) {
	seed, err := parseSeed(seedURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSeedUnreachable, err)
	}
	seedKey := links.Normalize(seed)
	crawl := c.cfg.Crawl

	r := &run{
		c:         c,
		session:   NewSession(seed, crawl.PageBudget, crawl.DepthBudget),
		extractor: c.extractor.ForSession(),
		logger:    c.logger.With("seed", seedKey),
	}
	if crawl.RequestsPerSecond > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(crawl.RequestsPerSecond), 1)
	}
	if crawl.RespectRobots {
		r.robots = newRobotsGate(c.fetcher, crawl.FetchTimeout)
	}

	r.logger.Info("Starting crawl", "page_budget", crawl.PageBudget, "depth_budget", crawl.DepthBudget, "workers", crawl.Workers)

	r.session.TryVisit(seedKey)
	seedPage, err := r.processPage(ctx, seedKey, 0)
	if err != nil {
		r.logger.Error("Seed unreachable", "url", seedKey, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSeedUnreachable, err)
	}
	r.session.Record(seedPage)
	if crawl.DepthBudget >= 1 {
		r.session.Enqueue(seedPage.Links, 1)
	}

	for batchNum := 1; ctx.Err() == nil; batchNum++ {
		n := min(crawl.BatchSize, r.session.Remaining())
		if n <= 0 {
			break
		}
		batch := r.session.NextBatch(n)
		if len(batch) == 0 {
			break
		}

		r.logger.Debug("Dispatching batch", "batch", batchNum, "size", len(batch))
		r.runBatch(ctx, batch)

		if r.session.Remaining() <= 0 || r.session.FrontierLen() == 0 {
			break
		}
		if err := sleepContext(ctx, crawl.PolitenessDelay); err != nil {
			break
		}
	}

	pages := r.session.Pages()
	r.logger.Info("Crawl finished", "pages", len(pages))

	return &CrawlResult{
		SeedURL: seedKey,
		Seed:    seedPage,
		Pages:   pages,
		Order:   r.session.Order(),
	}, nil
}

// runBatch processes batch with at most Workers pages in flight and waits
// for all of them.
func (r *run) runBatch(ctx context.Context, batch []models.ScoredLink) {
	var g errgroup.Group
	g.SetLimit(r.c.cfg.Crawl.Workers)

	for _, link := range batch {
		g.Go(func() error {
			page, err := r.processPage(ctx, link.URL, link.Depth)
			if errors.Is(err, errRedirectVisited) {
				r.logger.Debug("Skipping redirect to visited page", "url", link.URL, "final_url", page.FinalURL)
				return nil
			}
			if err != nil {
				r.logger.Warn("Page failed", "url", link.URL, "depth", link.Depth, "error", err)
			}
			if !r.session.Record(page) {
				r.logger.Debug("Discarding page result", "url", link.URL)
				return nil
			}
			if !page.Failed() && link.Depth < r.c.cfg.Crawl.DepthBudget {
				r.session.Enqueue(page.Links, link.Depth+1)
			}
			return nil
		})
	}

	_ = g.Wait()
}

// processPage fetches and extracts one URL. A redirect onto a URL the session
// already claimed returns errRedirectVisited. Otherwise the returned page is
// always usable; on failure it carries status error and err is non-nil.
func (r *run) processPage(ctx context.Context, pageURL string, depth int) (models.PageResult, error) {
	c := r.c
	page := models.PageResult{
		URL:       pageURL,
		Depth:     depth,
		FetchedAt: time.Now(),
		Status:    models.StatusSuccess,
		Items:     []models.ContentItem{},
	}

	if r.robots != nil && !r.robots.Allowed(ctx, pageURL) {
		return failPage(page, models.ErrorTypeRobots, errRobotsDisallowed), errRobotsDisallowed
	}
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			err = fmt.Errorf("failed waiting for rate limiter: %w", err)
			return failPage(page, models.ErrorTypeFetch, err), err
		}
	}

	resp, err := c.fetcher.FetchWithTimeout(ctx, pageURL, c.cfg.Crawl.FetchTimeout)
	if err != nil {
		return failPage(page, models.ErrorTypeFetch, err), err
	}
	page.StatusCode = resp.StatusCode
	if resp.Truncated {
		page.Truncated = true
		r.logger.Warn("Body truncated", "url", pageURL, "max_body_bytes", c.cfg.Crawl.MaxBodyBytes)
	}
	base := pageURL
	if resp.FinalURL != "" && resp.FinalURL != pageURL {
		page.FinalURL = resp.FinalURL
		base = resp.FinalURL
		if final, err := links.NormalizeString(resp.FinalURL); err == nil && final != pageURL {
			page.FinalURL = final
			if !r.session.TryVisit(final) {
				return page, errRedirectVisited
			}
		}
	}

	doc, err := c.parser.Parse(base, resp.Body)
	if err != nil {
		return failPage(page, models.ErrorTypeParse, err), err
	}

	page.Links = c.scorer.ExtractLinks(doc.Doc, base)
	page.Items = r.extractor.Extract(doc.Doc, pageURL)

	parsed := c.parser.ParsePage(doc)
	page.Title = parsed.Title
	page.MetaDescription = parsed.MetaDescription
	page.SiteName = parsed.SiteName
	page.Byline = parsed.Byline
	page.Content = parsed.Content
	page.ContentLength = parser.RuneLen(page.Content)
	if c.languages != nil {
		page.Language = c.languages.Detect(page.Content)
	}

	return page, nil
}

// failPage marks page as failed. A *fetcher.FetchError supplies its own
// error type and status code; otherwise errorType is used.
func failPage(page models.PageResult, errorType string, err error) models.PageResult {
	page.Status = models.StatusError
	page.Error = err.Error()
	page.ErrorType = errorType
	page.Links = nil
	page.Items = nil

	var fe *fetcher.FetchError
	if errors.As(err, &fe) {
		page.ErrorType = fe.Kind
		page.StatusCode = fe.StatusCode
	}
	return page
}

func parseSeed(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return nil, fmt.Errorf("%w: %q is not an absolute http(s) URL", ErrInvalidSeed, raw)
	}
	return u, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
