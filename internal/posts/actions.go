package posts

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dtnitsch/llm-web-harvester/internal/common"
	"github.com/dtnitsch/llm-web-harvester/models"
	"github.com/dtnitsch/llm-web-harvester/pkg/extractor"
	"github.com/dtnitsch/llm-web-harvester/pkg/fetcher"
	"github.com/urfave/cli/v2"
)

// Output is what the posts command prints.
type Output struct {
	SourceURL string               `json:"source_url" yaml:"source_url"`
	Count     int                  `json:"count" yaml:"count"`
	Items     []models.ContentItem `json:"items" yaml:"items"`
}

func PostsAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	rawURL, file := c.String("url"), c.String("file")
	if (rawURL == "") == (file == "") {
		return fmt.Errorf("exactly one of --url or --file is required")
	}

	cfg := models.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := models.LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if c.IsSet("strategies") {
		cfg.Extractor.Strategies = c.String("strategies")
	}

	ex, err := extractor.FromConfig(cfg)
	if err != nil {
		return err
	}

	var (
		markup    string
		sourceURL string
	)
	if rawURL != "" {
		seed, ok := common.ValidateURL(rawURL)
		if !ok {
			return fmt.Errorf("URL is malformed (even after cleanup): %q", rawURL)
		}
		f := fetcher.NewFetcher(fetcher.WithUserAgent(cfg.Crawl.UserAgent), fetcher.WithMaxBodyBytes(cfg.Crawl.MaxBodyBytes))
		resp, err := f.FetchWithTimeout(c.Context, seed, cfg.Crawl.FetchTimeout)
		if err != nil {
			logger.Error("Fetch failed", "url", seed, "error", err)
			os.Exit(2)
		}
		markup, sourceURL = string(resp.Body), resp.FinalURL
	} else {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		markup, sourceURL = string(data), c.String("source-url")
	}

	out, err := Extract(ex, markup, sourceURL)
	if err != nil {
		logger.Error("Extraction failed", "source_url", sourceURL, "error", err)
		os.Exit(2)
	}
	logger.Info("Extracted posts", "source_url", sourceURL, "count", out.Count)

	return Print(os.Stdout, out, c.String("format"))
}

// Extract runs the multi-strategy extractor over one page of markup.
func Extract(ex *extractor.Extractor, markup, sourceURL string) (*Output, error) {
	items, err := ex.ExtractFromHTML(markup, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract items: %w", err)
	}
	return &Output{SourceURL: sourceURL, Count: len(items), Items: items}, nil
}

func Print(w io.Writer, out *Output, format string) error {
	data, err := common.Marshal(out, format)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
