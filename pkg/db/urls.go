package db

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"
)

// ErrURLNotFound is returned by lookups of URLs that were never recorded.
var ErrURLNotFound = errors.New("url not found")

// AccessRecord is one fetch attempt of a URL.
type AccessRecord struct {
	AccessedAt time.Time
	StatusCode int
	ErrorType  string
	Success    bool
}

// InsertURL inserts rawURL and returns its url_id.
// If the URL already exists, returns the existing url_id.
func (db *DB) InsertURL(rawURL string) (int64, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("failed to parse URL: %w", err)
	}

	existingID, err := db.GetURLID(rawURL)
	if err == nil {
		return existingID, nil
	}
	if !errors.Is(err, ErrURLNotFound) {
		return 0, err
	}

	result, err := db.Exec(`
		INSERT INTO urls (url, scheme, domain, path)
		VALUES (?, ?, ?, ?)
	`, rawURL, parsed.Scheme, parsed.Host, parsed.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to insert URL: %w", err)
	}

	urlID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get URL ID: %w", err)
	}
	return urlID, nil
}

// GetURLID returns the url_id of rawURL.
func (db *DB) GetURLID(rawURL string) (int64, error) {
	var urlID int64
	err := db.QueryRow("SELECT url_id FROM urls WHERE url = ?", rawURL).Scan(&urlID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrURLNotFound, rawURL)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to check existing URL: %w", err)
	}
	return urlID, nil
}

// GetURLByID returns the URL string for a url_id.
func (db *DB) GetURLByID(urlID int64) (string, error) {
	var u string
	err := db.QueryRow("SELECT url FROM urls WHERE url_id = ?", urlID).Scan(&u)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %d", ErrURLNotFound, urlID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get URL: %w", err)
	}
	return u, nil
}

// RecordAccess records a fetch attempt in url_accesses.
func (db *DB) RecordAccess(urlID int64, statusCode int, errorType string, success bool) error {
	_, err := db.Exec(`
		INSERT INTO url_accesses (url_id, status_code, error_type, success)
		VALUES (?, ?, ?, ?)
	`, urlID, statusCode, NewNullString(errorType), success)
	if err != nil {
		return fmt.Errorf("failed to record access: %w", err)
	}
	return nil
}

// GetLastAccess returns the most recent fetch attempt of a URL, or nil.
func (db *DB) GetLastAccess(urlID int64) (*AccessRecord, error) {
	var rec AccessRecord
	var errorType sql.NullString
	var statusCode sql.NullInt64
	err := db.QueryRow(`
		SELECT accessed_at, status_code, error_type, success
		FROM url_accesses
		WHERE url_id = ?
		ORDER BY access_id DESC
		LIMIT 1
	`, urlID).Scan(&rec.AccessedAt, &statusCode, &errorType, &rec.Success)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last access: %w", err)
	}
	rec.StatusCode = int(statusCode.Int64)
	rec.ErrorType = errorType.String
	return &rec, nil
}

// NewNullString maps "" to NULL.
func NewNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
