package crawl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/dtnitsch/llm-web-harvester/internal/common"
	"github.com/dtnitsch/llm-web-harvester/models"
	"github.com/dtnitsch/llm-web-harvester/pkg/analytics"
	"github.com/dtnitsch/llm-web-harvester/pkg/chunker"
	"github.com/dtnitsch/llm-web-harvester/pkg/crawler"
	"github.com/dtnitsch/llm-web-harvester/pkg/db"
	"github.com/dtnitsch/llm-web-harvester/pkg/manifest"
	"github.com/dtnitsch/llm-web-harvester/pkg/mapreduce"
	"github.com/dtnitsch/llm-web-harvester/pkg/storage"
	"github.com/urfave/cli/v2"
)

// Exit codes for a finished run.
const (
	ExitOK          = 0
	ExitPageFailure = 1
	ExitSeedFailure = 2
)

const topKeywords = 5

// Options is everything a crawl run needs besides the harvest config.
type Options struct {
	SeedURL   string
	Format    string
	Fields    string
	OutputDir string
	Chunks    bool
	NoDB      bool
	DBPath    string
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Crawler   []crawler.Option
}

func CrawlAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	seed, ok := common.ValidateURL(c.String("url"))
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: URL is malformed (even after cleanup): %q\n", c.String("url"))
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  lwh crawl --url "https://example.com" --max-pages 20 --depth 2`)
		os.Exit(ExitSeedFailure)
	}

	cfg, err := BuildConfig(c)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	code, err := Run(ctx, cfg, Options{
		SeedURL:   seed,
		Format:    c.String("format"),
		Fields:    c.String("fields"),
		OutputDir: c.String("output-dir"),
		Chunks:    c.Bool("chunks"),
		NoDB:      c.Bool("no-db"),
		DBPath:    c.String("db"),
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("Crawl run failed", "error", err)
		os.Exit(ExitSeedFailure)
	}
	if code != ExitOK {
		os.Exit(code)
	}
	return nil
}

// Run crawls opts.SeedURL, prints the result and persists the run.
// The returned code is ExitSeedFailure when the seed could not be fetched
// and ExitPageFailure when some other page failed. The error is reserved for
// output and persistence failures.
func Run(ctx context.Context, cfg models.HarvestConfig, opts Options) (int, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	crawlOpts := append([]crawler.Option{crawler.WithConfig(cfg), crawler.WithLogger(logger)}, opts.Crawler...)
	site, crawlErr := crawler.ExtractContent(ctx, opts.SeedURL, crawlOpts...)
	if crawlErr != nil && !errors.Is(crawlErr, crawler.ErrSeedUnreachable) {
		return ExitSeedFailure, fmt.Errorf("failed to crawl %s: %w", opts.SeedURL, crawlErr)
	}

	data, err := common.Marshal(common.FilterFields(site, opts.Fields), opts.Format)
	if err != nil {
		return ExitSeedFailure, fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(stdout, string(data))

	now := time.Now()
	runDir := ""
	if opts.OutputDir != "" {
		runDir = filepath.Join(opts.OutputDir, RunDirName(opts.SeedURL, now))
		if err := writeArtifacts(site, cfg, storage.New(runDir), opts.Chunks, now); err != nil {
			return ExitSeedFailure, err
		}
		fmt.Fprintf(stderr, "Results: %s\n", runDir)
	}

	if counts := mapreduce.Reduce(mapreduce.MapPages(site.Pages, &analytics.Analytics{})); len(counts) > 0 {
		fmt.Fprintln(stderr, "Top keywords:")
		mapreduce.PrintTopKeywords(stderr, counts, topKeywords)
	}

	if !opts.NoDB {
		sessionID, err := record(site, cfg, opts.DBPath, runDir)
		if err != nil {
			logger.Warn("Failed to record crawl in database", "error", err)
		} else {
			fmt.Fprintf(stderr, "Session %d: %d pages (%d failed)\n", sessionID, site.TotalPages, FailedCount(site))
		}
	}

	if crawlErr != nil {
		return ExitSeedFailure, nil
	}
	if FailedCount(site) > 0 {
		return ExitPageFailure, nil
	}
	return ExitOK, nil
}

// writeArtifacts stores the full content, a summary manifest and optionally
// the chunk file below one run directory.
func writeArtifacts(site *models.SiteContent, cfg models.HarvestConfig, s *storage.Storage, withChunks bool, now time.Time) error {
	contentPath, err := s.SaveJSON(manifest.ContentFile, site)
	if err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}

	m := manifest.Build(site, now)
	m.ContentFile = filepath.Base(contentPath)

	if withChunks {
		chunks := chunker.FromConfig(cfg.Chunker).SplitSite(site)
		chunksPath, err := s.SaveYAML(manifest.ChunksFile, chunks)
		if err != nil {
			return fmt.Errorf("failed to write chunks: %w", err)
		}
		m.ChunksFile = filepath.Base(chunksPath)
	}

	if _, err := manifest.GenerateSummary(m, s); err != nil {
		return err
	}
	return nil
}

func record(site *models.SiteContent, cfg models.HarvestConfig, dbPath, runDir string) (int64, error) {
	var (
		database *db.DB
		err      error
	)
	if dbPath != "" {
		database, err = db.OpenPath(dbPath)
	} else {
		database, err = db.Open()
	}
	if err != nil {
		return 0, fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	return database.RecordCrawl(site, db.RunInfo{
		PageBudget:  cfg.Crawl.PageBudget,
		DepthBudget: cfg.Crawl.DepthBudget,
		Workers:     cfg.Crawl.Workers,
		OutputDir:   runDir,
		HashContent: common.ContentHash,
	})
}
