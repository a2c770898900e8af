package db

import (
	"fmt"
	"io"
	"os"
	"strings"

	dbpkg "github.com/dtnitsch/llm-web-harvester/pkg/db"
	"github.com/dtnitsch/llm-web-harvester/pkg/manifest"
	"github.com/dtnitsch/llm-web-harvester/pkg/storage"
	"github.com/urfave/cli/v2"
)

// artifactFiles maps the --file values of "db get" to run directory files.
var artifactFiles = map[string]string{
	"summary": manifest.SummaryFile,
	"content": manifest.ContentFile,
	"chunks":  manifest.ChunksFile,
}

func SessionsAction(c *cli.Context) error {
	database, err := OpenFromFlags(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	sessions, err := database.ListSessions(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	PrintSessions(os.Stdout, sessions)
	return nil
}

// SessionAction shows details for a specific session
func SessionAction(c *cli.Context) error {
	database, err := OpenFromFlags(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	sessionID, err := GetSessionIDOrLatest(c, database)
	if err != nil {
		return err
	}

	session, err := database.GetSessionByID(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	pages, err := database.GetSessionPages(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session pages: %w", err)
	}

	PrintSession(os.Stdout, session, pages)
	return nil
}

// GetSessionAction prints one artifact file of a session's run directory.
func GetSessionAction(c *cli.Context) error {
	database, err := OpenFromFlags(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	sessionID, err := GetSessionIDOrLatest(c, database)
	if err != nil {
		return err
	}
	session, err := database.GetSessionByID(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	return WriteArtifact(os.Stdout, session, c.String("file"))
}

// WriteArtifact copies the artifact named by fileType (summary, content or
// chunks) from the session's run directory to w.
func WriteArtifact(w io.Writer, s *dbpkg.Session, fileType string) error {
	fileName, ok := artifactFiles[strings.ToLower(fileType)]
	if !ok {
		return fmt.Errorf("unknown file type: %s (use: summary, content, or chunks)", fileType)
	}
	if s.OutputDir == "" {
		return fmt.Errorf("session %d was recorded without an output directory", s.SessionID)
	}

	st := storage.New(s.OutputDir)
	if !st.HasFile(fileName) {
		return fmt.Errorf("file not found: %s\nSession directory: %s", fileName, s.OutputDir)
	}
	data, err := st.ReadFile(fileName)
	if err != nil {
		return err
	}

	if strings.HasSuffix(fileName, ".yaml") {
		fmt.Fprintf(w, "# Session: %d\n", s.SessionID)
	}
	_, err = w.Write(data)
	return err
}

// URLAction shows a recorded URL and its most recent fetch attempt.
func URLAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("URL ID or URL required\nUsage: lwh db url <url_id_or_url>\nExample: lwh db url 12 OR lwh db url https://example.com/")
	}

	database, err := OpenFromFlags(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	urlID, u, err := ResolveURLFromIDOrURL(c.Args().First(), database)
	if err != nil {
		return err
	}
	last, err := database.GetLastAccess(urlID)
	if err != nil {
		return err
	}

	PrintURL(os.Stdout, urlID, u, last)
	return nil
}

func PrintURL(w io.Writer, urlID int64, u string, last *dbpkg.AccessRecord) {
	fmt.Fprintf(w, "[#%d] %s\n", urlID, u)
	if last == nil {
		fmt.Fprintln(w, "    Never fetched")
		return
	}

	outcome := "ok"
	if !last.Success {
		outcome = "failed"
		if last.ErrorType != "" {
			outcome += " (" + last.ErrorType + ")"
		}
	}
	fmt.Fprintf(w, "    Last fetch: %s | Status: %d | %s\n",
		last.AccessedAt.Format("2006-01-02 15:04:05"), last.StatusCode, outcome)
}

func PrintSessions(w io.Writer, sessions []dbpkg.Session) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions found")
		return
	}

	fmt.Fprintf(w, "%-6s %-20s %-8s %-8s %-8s %-8s %-40s\n",
		"ID", "Created", "Status", "Pages", "Success", "Failed", "Seed URL")
	fmt.Fprintln(w, strings.Repeat("-", 104))

	for _, s := range sessions {
		fmt.Fprintf(w, "%-6d %-20s %-8s %-8d %-8d %-8d %-40s\n",
			s.SessionID,
			s.CreatedAt.Format("2006-01-02 15:04:05"),
			s.Status,
			s.TotalPages,
			s.SuccessCount,
			s.FailedCount,
			s.SeedURL,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d sessions\n", len(sessions))
	fmt.Fprintf(w, "\nTip: Use 'lwh db session <id>' to see details\n")
}

func PrintSession(w io.Writer, s *dbpkg.Session, pages []dbpkg.PageRow) {
	fmt.Fprintf(w, "Session %d\n", s.SessionID)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Created:     %s\n", s.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Seed:        %s\n", s.SeedURL)
	fmt.Fprintf(w, "Status:      %s\n", s.Status)
	if s.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:       %s\n", s.ErrorMessage)
	}
	fmt.Fprintf(w, "Budgets:     %d pages, depth %d, %d workers\n", s.PageBudget, s.DepthBudget, s.Workers)
	fmt.Fprintf(w, "Pages:       %d total (%d success, %d failed)\n", s.TotalPages, s.SuccessCount, s.FailedCount)
	fmt.Fprintf(w, "Items:       %d\n", s.ItemCount)
	fmt.Fprintf(w, "Characters:  %d\n", s.TotalChars)
	fmt.Fprintf(w, "Duration:    %s\n", s.ExtractionTime)
	if s.OutputDir != "" {
		fmt.Fprintf(w, "Directory:   %s\n", s.OutputDir)
		printArtifacts(w, storage.New(s.OutputDir))
	}
	if len(s.TopKeywords) > 0 {
		fmt.Fprintf(w, "Keywords:    %s\n", strings.Join(s.TopKeywords, ", "))
	}

	if len(pages) == 0 {
		return
	}
	fmt.Fprintf(w, "\nPages (%d):\n", len(pages))
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for i, p := range pages {
		fmt.Fprintf(w, "%2d. [%s] %s\n", i+1, p.Status, p.URL)
		if p.Status == "error" {
			fmt.Fprintf(w, "    Error: [%s] %s\n", p.ErrorType, p.ErrorMessage)
		} else {
			fmt.Fprintf(w, "    Status: %d | Depth: %d | Chars: %d | Items: %d | Lang: %s\n",
				p.StatusCode, p.Depth, p.ContentLength, p.ItemCount, p.Language)
		}
	}
}

func printArtifacts(w io.Writer, st *storage.Storage) {
	for _, name := range []string{manifest.SummaryFile, manifest.ContentFile, manifest.ChunksFile} {
		if !st.HasFile(name) {
			continue
		}
		stats, err := st.GetFileStats(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "             %s (%d bytes, %s)\n", name, stats.SizeBytes, stats.ModTime.Format("2006-01-02 15:04:05"))
	}
}
