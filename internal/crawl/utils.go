package crawl

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dtnitsch/llm-web-harvester/models"
	"github.com/urfave/cli/v2"
)

// RunDirName generates a filesystem-friendly directory name for one crawl of
// seedURL, e.g. example_com-docs-guide-20260102-030405.
func RunDirName(seedURL string, now time.Time) string {
	stamp := now.Format("20060102-150405")

	parsedURL, err := url.Parse(seedURL)
	if err != nil || parsedURL.Host == "" {
		safe := strings.TrimPrefix(strings.TrimPrefix(seedURL, "https://"), "http://")
		safe = strings.NewReplacer("/", "_", ":", "_").Replace(safe)
		return fmt.Sprintf("%s-%s", safe, stamp)
	}

	host := strings.NewReplacer(".", "_", ":", "_").Replace(parsedURL.Host)

	// github.com/cli/cli and github.com/urfave/cli must not collide
	path := strings.Trim(parsedURL.Path, "/")
	path = strings.ReplaceAll(path, "/", "-")
	path = strings.ReplaceAll(path, ".", "_")

	if path == "" {
		return fmt.Sprintf("%s-%s", host, stamp)
	}
	return fmt.Sprintf("%s-%s-%s", host, path, stamp)
}

// BuildConfig loads --config (or the defaults) and applies explicitly set
// flags on top.
func BuildConfig(c *cli.Context) (models.HarvestConfig, error) {
	cfg := models.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := models.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if c.IsSet("max-pages") {
		cfg.Crawl.PageBudget = c.Int("max-pages")
	}
	if c.IsSet("depth") {
		cfg.Crawl.DepthBudget = c.Int("depth")
	}
	if c.IsSet("workers") {
		cfg.Crawl.Workers = c.Int("workers")
	}
	if c.IsSet("timeout") {
		cfg.Crawl.FetchTimeout = c.Duration("timeout")
	}
	if c.IsSet("delay") {
		cfg.Crawl.PolitenessDelay = c.Duration("delay")
	}
	if c.IsSet("rps") {
		cfg.Crawl.RequestsPerSecond = c.Float64("rps")
	}
	if c.IsSet("user-agent") {
		cfg.Crawl.UserAgent = c.String("user-agent")
	}
	if c.IsSet("respect-robots") {
		cfg.Crawl.RespectRobots = c.Bool("respect-robots")
	}
	if c.IsSet("dedupe-scope") {
		cfg.Dedupe.Scope = models.DedupeScope(c.String("dedupe-scope"))
	}
	if c.IsSet("strategies") {
		cfg.Extractor.Strategies = c.String("strategies")
	}
	if c.IsSet("no-language") {
		cfg.Analytics.DetectLanguage = !c.Bool("no-language")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// FailedCount returns how many recorded pages ended in an error.
func FailedCount(site *models.SiteContent) int {
	failed := 0
	for _, page := range site.Pages {
		if page.Failed() {
			failed++
		}
	}
	return failed
}
