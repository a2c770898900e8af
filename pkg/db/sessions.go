package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dtnitsch/llm-web-harvester/models"
)

// Session is a recorded crawl run.
type Session struct {
	SessionID      int64
	CreatedAt      time.Time
	SeedURL        string
	Status         string
	ErrorMessage   string
	PageBudget     int
	DepthBudget    int
	Workers        int
	TotalPages     int
	SuccessCount   int
	FailedCount    int
	ItemCount      int
	TotalChars     int
	ExtractionTime string
	OutputDir      string
	TopKeywords    []string
}

// PageRow is a recorded page outcome.
type PageRow struct {
	URL           string
	Status        string
	StatusCode    int
	ErrorType     string
	ErrorMessage  string
	Title         string
	Language      string
	Depth         int
	ContentLength int
	ItemCount     int
	ContentHash   string
}

// RunInfo carries the crawl parameters that are not part of the result.
type RunInfo struct {
	PageBudget  int
	DepthBudget int
	Workers     int
	OutputDir   string
	// HashContent computes a content fingerprint for each page; optional.
	HashContent func(string) string
}

// RecordCrawl stores a crawl result with one row per page and one access
// record per fetch attempt. Pages are written in URL order.
func (db *DB) RecordCrawl(site *models.SiteContent, info RunInfo) (int64, error) {
	seedID, err := db.InsertURL(site.MainURL)
	if err != nil {
		return 0, fmt.Errorf("failed to insert seed URL: %w", err)
	}

	keywords, err := json.Marshal(site.TopKeywords)
	if err != nil {
		return 0, fmt.Errorf("failed to encode keywords: %w", err)
	}

	result, err := db.Exec(`
		INSERT INTO crawl_sessions (seed_url_id, status, error_message, page_budget, depth_budget,
		                            workers, total_pages, total_chars, extraction_time, output_dir, top_keywords)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, seedID, string(site.Status), NewNullString(site.Error), info.PageBudget, info.DepthBudget,
		info.Workers, site.TotalPages, site.ContentStats.TotalChars, site.ExtractionTime,
		NewNullString(info.OutputDir), string(keywords))
	if err != nil {
		return 0, fmt.Errorf("failed to create session: %w", err)
	}
	sessionID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get session ID: %w", err)
	}

	urls := make([]string, 0, len(site.Pages))
	for u := range site.Pages {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	var success, failed, items int
	for _, u := range urls {
		page := site.Pages[u]
		if page.Failed() {
			failed++
		} else {
			success++
		}
		items += len(page.Items)

		urlID, err := db.InsertURL(u)
		if err != nil {
			return 0, fmt.Errorf("failed to insert URL %s: %w", u, err)
		}
		hash := ""
		if info.HashContent != nil && page.Content != "" {
			hash = info.HashContent(page.Content)
		}
		if err := db.insertPage(sessionID, urlID, page, hash); err != nil {
			return 0, err
		}
		if err := db.RecordAccess(urlID, page.StatusCode, page.ErrorType, !page.Failed()); err != nil {
			return 0, err
		}
	}

	if err := db.UpdateSessionStats(sessionID, success, failed, items); err != nil {
		return 0, err
	}
	return sessionID, nil
}

func (db *DB) insertPage(sessionID, urlID int64, page models.PageResult, contentHash string) error {
	_, err := db.Exec(`
		INSERT INTO crawl_pages (session_id, url_id, status, status_code, error_type, error_message,
		                         title, language, depth, content_length, item_count, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sessionID, urlID, string(page.Status), page.StatusCode, NewNullString(page.ErrorType),
		NewNullString(page.Error), NewNullString(page.Title), NewNullString(page.Language), page.Depth,
		page.ContentLength, len(page.Items), NewNullString(contentHash), page.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to insert page %s: %w", page.URL, err)
	}
	return nil
}

// UpdateSessionStats updates the per-status counts for a session
func (db *DB) UpdateSessionStats(sessionID int64, successCount, failedCount, itemCount int) error {
	_, err := db.Exec(`
		UPDATE crawl_sessions
		SET success_count = ?, failed_count = ?, item_count = ?
		WHERE session_id = ?
	`, successCount, failedCount, itemCount, sessionID)
	if err != nil {
		return fmt.Errorf("failed to update session stats: %w", err)
	}
	return nil
}

const sessionColumns = `
	s.session_id, s.created_at, u.url, s.status, s.error_message, s.page_budget, s.depth_budget,
	s.workers, s.total_pages, s.success_count, s.failed_count, s.item_count, s.total_chars,
	s.extraction_time, s.output_dir, s.top_keywords`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var s Session
	var errMsg, extractionTime, outputDir, keywords sql.NullString
	if err := row.Scan(&s.SessionID, &s.CreatedAt, &s.SeedURL, &s.Status, &errMsg,
		&s.PageBudget, &s.DepthBudget, &s.Workers, &s.TotalPages, &s.SuccessCount,
		&s.FailedCount, &s.ItemCount, &s.TotalChars, &extractionTime, &outputDir, &keywords); err != nil {
		return nil, err
	}
	s.ErrorMessage = errMsg.String
	s.ExtractionTime = extractionTime.String
	s.OutputDir = outputDir.String
	if keywords.Valid && keywords.String != "" {
		_ = json.Unmarshal([]byte(keywords.String), &s.TopKeywords)
	}
	return &s, nil
}

// GetSessionByID retrieves a session by its ID
func (db *DB) GetSessionByID(sessionID int64) (*Session, error) {
	row := db.QueryRow(`SELECT `+sessionColumns+`
		FROM crawl_sessions s
		JOIN urls u ON u.url_id = s.seed_url_id
		WHERE s.session_id = ?`, sessionID)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %d not found", sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// ListSessions retrieves sessions ordered by most recent first.
// A limit of 0 or less returns every session.
func (db *DB) ListSessions(limit int) ([]Session, error) {
	query := `SELECT ` + sessionColumns + `
		FROM crawl_sessions s
		JOIN urls u ON u.url_id = s.seed_url_id
		ORDER BY s.created_at DESC, s.session_id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// GetSessionPages returns the pages of a session ordered by URL.
func (db *DB) GetSessionPages(sessionID int64) ([]PageRow, error) {
	rows, err := db.Query(`
		SELECT u.url, p.status, p.status_code, p.error_type, p.error_message, p.title,
		       p.language, p.depth, p.content_length, p.item_count, p.content_hash
		FROM crawl_pages p
		JOIN urls u ON u.url_id = p.url_id
		WHERE p.session_id = ?
		ORDER BY u.url
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session pages: %w", err)
	}
	defer rows.Close()

	var pages []PageRow
	for rows.Next() {
		var p PageRow
		var statusCode sql.NullInt64
		var errorType, errorMessage, title, language, hash sql.NullString
		if err := rows.Scan(&p.URL, &p.Status, &statusCode, &errorType, &errorMessage, &title,
			&language, &p.Depth, &p.ContentLength, &p.ItemCount, &hash); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		p.StatusCode = int(statusCode.Int64)
		p.ErrorType = errorType.String
		p.ErrorMessage = errorMessage.String
		p.Title = title.String
		p.Language = language.String
		p.ContentHash = hash.String
		pages = append(pages, p)
	}
	return pages, rows.Err()
}
