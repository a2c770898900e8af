// Package models defines data structures for configuration and harvesting.
package models

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// HarvestConfig holds runtime configuration for a harvest run.
// Values come from an optional YAML file and are then overridden by CLI flags.
type HarvestConfig struct {
	Crawl     CrawlConfig     `yaml:"crawl"`
	Validator ValidatorConfig `yaml:"validator"`
	Dedupe    DedupeConfig    `yaml:"dedupe"`
	Links     LinksConfig     `yaml:"links"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
}

type CrawlConfig struct {
	PageBudget        int           `yaml:"page_budget"`
	DepthBudget       int           `yaml:"depth_budget"`
	Workers           int           `yaml:"workers"`
	BatchSize         int           `yaml:"batch_size"`
	FetchTimeout      time.Duration `yaml:"fetch_timeout"`
	PolitenessDelay   time.Duration `yaml:"politeness_delay"`
	RequestsPerSecond float64       `yaml:"requests_per_second"` // 0 = unlimited
	UserAgent         string        `yaml:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
	RespectRobots     bool          `yaml:"respect_robots"`
}

type ValidatorConfig struct {
	MinChars int      `yaml:"min_chars"`
	MinWords int      `yaml:"min_words"`
	Denylist []string `yaml:"denylist"`
}

type DedupeConfig struct {
	Window    int         `yaml:"window"`
	Threshold float64     `yaml:"threshold"`
	Scope     DedupeScope `yaml:"scope"`
}

// DedupeScope selects which accepted items a candidate is compared against.
type DedupeScope string

const (
	DedupeScopePage    DedupeScope = "page"
	DedupeScopeSession DedupeScope = "session"
)

type LinksConfig struct {
	QueryPenalty       float64  `yaml:"query_penalty"`
	LongURLPenalty     float64  `yaml:"long_url_penalty"`
	LongURLLength      int      `yaml:"long_url_length"`
	KeywordBonus       float64  `yaml:"keyword_bonus"`
	Keywords           []string `yaml:"keywords"`
	AnchorBonus        float64  `yaml:"anchor_bonus"`
	AnchorMinLength    int      `yaml:"anchor_min_length"`
	AnchorMaxLength    int      `yaml:"anchor_max_length"`
	ExcludedExtensions []string `yaml:"excluded_extensions"`
}

type ExtractorConfig struct {
	// Strategies uses the label:kind:selector[:min] format, records separated by ';'.
	// Empty means the built-in strategy list.
	Strategies string `yaml:"strategies"`
}

type AnalyticsConfig struct {
	DetectLanguage bool `yaml:"detect_language"`
	TopKeywords    int  `yaml:"top_keywords"`
}

type ChunkerConfig struct {
	Size    int    `yaml:"size"`
	Overlap int    `yaml:"overlap"`
	Sep     string `yaml:"separator"`
}

// DefaultConfig returns the configuration used when no file or flags are given.
func DefaultConfig() HarvestConfig {
	return HarvestConfig{
		Crawl: CrawlConfig{
			PageBudget:      50,
			DepthBudget:     2,
			Workers:         5,
			BatchSize:       10,
			FetchTimeout:    30 * time.Second,
			PolitenessDelay: time.Second,
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
			MaxBodyBytes:    10 << 20,
		},
		Validator: ValidatorConfig{
			MinChars: 30,
			MinWords: 5,
			Denylist: []string{
				"facebook", "login", "log in", "sign up", "password", "cookie",
				"privacy", "terms", "menu", "notification", "messenger", "marketplace",
			},
		},
		Dedupe: DedupeConfig{
			Window:    100,
			Threshold: 0.7,
			Scope:     DedupeScopePage,
		},
		Links: LinksConfig{
			QueryPenalty:       0.3,
			LongURLPenalty:     0.2,
			LongURLLength:      100,
			KeywordBonus:       0.5,
			Keywords:           []string{"about", "contact", "services", "products", "blog", "article", "news"},
			AnchorBonus:        0.3,
			AnchorMinLength:    10,
			AnchorMaxLength:    100,
			ExcludedExtensions: []string{".pdf", ".doc", ".docx", ".jpg", ".png", ".zip", ".exe"},
		},
		Analytics: AnalyticsConfig{
			DetectLanguage: true,
			TopKeywords:    25,
		},
		Chunker: ChunkerConfig{
			Size:    1000,
			Overlap: 200,
			Sep:     "\n",
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig.
// Keys missing from the file keep their defaults; unknown keys are an error.
func LoadConfig(path string) (HarvestConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values no component can work with.
func (c HarvestConfig) Validate() error {
	switch {
	case c.Crawl.PageBudget < 1:
		return fmt.Errorf("crawl.page_budget must be >= 1, got %d", c.Crawl.PageBudget)
	case c.Crawl.DepthBudget < 0:
		return fmt.Errorf("crawl.depth_budget must be >= 0, got %d", c.Crawl.DepthBudget)
	case c.Crawl.Workers < 1:
		return fmt.Errorf("crawl.workers must be >= 1, got %d", c.Crawl.Workers)
	case c.Crawl.BatchSize < 1:
		return fmt.Errorf("crawl.batch_size must be >= 1, got %d", c.Crawl.BatchSize)
	case c.Dedupe.Threshold < 0 || c.Dedupe.Threshold > 1:
		return fmt.Errorf("dedupe.threshold must be within [0,1], got %v", c.Dedupe.Threshold)
	case c.Dedupe.Scope != DedupeScopePage && c.Dedupe.Scope != DedupeScopeSession:
		return fmt.Errorf("dedupe.scope must be %q or %q, got %q", DedupeScopePage, DedupeScopeSession, c.Dedupe.Scope)
	case c.Chunker.Overlap >= c.Chunker.Size:
		return fmt.Errorf("chunker.overlap (%d) must be smaller than chunker.size (%d)", c.Chunker.Overlap, c.Chunker.Size)
	}
	return nil
}
