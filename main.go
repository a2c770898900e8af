package main

import (
	"log"
	"os"

	"github.com/dtnitsch/llm-web-harvester/internal/crawl"
	dbcmd "github.com/dtnitsch/llm-web-harvester/internal/db"
	"github.com/dtnitsch/llm-web-harvester/internal/posts"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	dbFlag := &cli.StringFlag{
		Name:  "db",
		Usage: "Path to the SQLite database (default: next to the executable)",
	}
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "YAML config file; flags override its values",
	}
	formatFlag := &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "json",
		Usage:   "Output format: json or yaml",
	}
	quietFlag := &cli.BoolFlag{
		Name:    "quiet",
		Aliases: []string{"q"},
		Usage:   "Only log errors",
	}
	strategiesFlag := &cli.StringFlag{
		Name:  "strategies",
		Usage: "Extraction strategies as label:kind:selector[:min] separated by ';'",
	}

	app := &cli.App{
		Name:    "lwh",
		Usage:   "Harvest clean, de-duplicated text from a website for LLM pipelines",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:   "crawl",
				Usage:  "Crawl a site from a seed URL and extract its content",
				Action: crawl.CrawlAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "url",
						Aliases:  []string{"u"},
						Usage:    "Seed URL",
						Required: true,
					},
					&cli.IntFlag{Name: "max-pages", Aliases: []string{"n"}, Value: 50, Usage: "Maximum pages to fetch, seed included"},
					&cli.IntFlag{Name: "depth", Aliases: []string{"d"}, Value: 2, Usage: "Maximum link depth from the seed"},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Value: 5, Usage: "Concurrent fetches per batch"},
					&cli.DurationFlag{Name: "timeout", Usage: "Per-page fetch timeout (e.g. 30s)"},
					&cli.DurationFlag{Name: "delay", Usage: "Pause between batches (e.g. 1s)"},
					&cli.Float64Flag{Name: "rps", Usage: "Maximum requests per second, 0 for unlimited"},
					&cli.StringFlag{Name: "user-agent", Usage: "User-Agent header sent with every request"},
					&cli.BoolFlag{Name: "respect-robots", Usage: "Skip pages disallowed by robots.txt"},
					&cli.StringFlag{Name: "dedupe-scope", Usage: "Near-duplicate scope: page or session"},
					&cli.BoolFlag{Name: "no-language", Usage: "Skip per-page language detection"},
					strategiesFlag,
					configFlag,
					formatFlag,
					&cli.StringFlag{Name: "fields", Usage: "Comma-separated top-level fields to print (e.g. main_url,content_stats)"},
					&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Value: "results", Usage: "Directory for content, manifest and chunk files; empty to skip"},
					&cli.BoolFlag{Name: "chunks", Usage: "Also write chunks.yaml for embedding"},
					&cli.BoolFlag{Name: "no-db", Usage: "Do not record the run in the database"},
					dbFlag,
					quietFlag,
				},
			},
			{
				Name:   "posts",
				Usage:  "Extract validated, de-duplicated content items from a single page",
				Action: posts.PostsAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "Page to fetch"},
					&cli.StringFlag{Name: "file", Usage: "Local HTML file instead of --url"},
					&cli.StringFlag{Name: "source-url", Usage: "Source URL recorded on items read from --file"},
					strategiesFlag,
					configFlag,
					formatFlag,
					quietFlag,
				},
			},
			{
				Name:  "db",
				Usage: "Inspect recorded crawl runs",
				Subcommands: []*cli.Command{
					{
						Name:   "sessions",
						Usage:  "List recent crawl sessions",
						Action: dbcmd.SessionsAction,
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Number of sessions to show, 0 for all"},
							dbFlag,
						},
					},
					{
						Name:      "session",
						Usage:     "Show one crawl session (latest when ID is omitted)",
						ArgsUsage: "[ID]",
						Action:    dbcmd.SessionAction,
						Flags:     []cli.Flag{dbFlag},
					},
					{
						Name:      "get",
						Usage:     "Print an artifact of a crawl session (latest when ID is omitted)",
						ArgsUsage: "[ID]",
						Action:    dbcmd.GetSessionAction,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Value: "summary", Usage: "Artifact to print: summary, content, or chunks"},
							dbFlag,
						},
					},
					{
						Name:      "url",
						Usage:     "Show a recorded URL and its last fetch",
						ArgsUsage: "<url_id_or_url>",
						Action:    dbcmd.URLAction,
						Flags:     []cli.Flag{dbFlag},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
