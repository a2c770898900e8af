package models

import (
	"strings"
	"time"
)

// PageStatus is the outcome of one fetch attempt.
type PageStatus string

const (
	StatusSuccess PageStatus = "success"
	StatusError   PageStatus = "error"
)

// Error types recorded on failed pages.
const (
	ErrorTypeFetch   = "fetch_error"
	ErrorTypeHTTP    = "http_error"
	ErrorTypeNonHTML = "non_html"
	ErrorTypeTimeout = "timeout"
	ErrorTypeParse   = "parse_error"
	ErrorTypeRobots  = "robots_disallowed"
)

// PageResult is the extraction outcome for a single URL.
// It is built once per fetch attempt and not modified afterwards.
type PageResult struct {
	URL             string        `json:"url" yaml:"url"`
	FinalURL        string        `json:"final_url,omitempty" yaml:"final_url,omitempty"`
	Title           string        `json:"title" yaml:"title"`
	MetaDescription string        `json:"meta_description" yaml:"meta_description"`
	SiteName        string        `json:"site_name,omitempty" yaml:"site_name,omitempty"`
	Byline          string        `json:"byline,omitempty" yaml:"byline,omitempty"`
	Language        string        `json:"language,omitempty" yaml:"language,omitempty"`
	Content         string        `json:"content" yaml:"content"`
	ContentLength   int           `json:"content_length" yaml:"content_length"`
	Truncated       bool          `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	Items           []ContentItem `json:"items,omitempty" yaml:"items,omitempty"`
	Status          PageStatus    `json:"status" yaml:"status"`
	StatusCode      int           `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Error           string        `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorType       string        `json:"error_type,omitempty" yaml:"error_type,omitempty"`
	Depth           int           `json:"depth" yaml:"depth"`
	FetchedAt       time.Time     `json:"fetched_at" yaml:"fetched_at"`

	// Links found on the page, derived before the markup is dropped.
	Links []ScoredLink `json:"-" yaml:"-"`
}

// Failed reports whether the page ended in an error.
func (p *PageResult) Failed() bool {
	return p.Status == StatusError
}

// ToPlainText concatenates the page content and its extracted items.
// Items already contained verbatim in the main content are skipped.
func (p *PageResult) ToPlainText() string {
	var sb strings.Builder

	if p.Title != "" {
		sb.WriteString(p.Title)
		sb.WriteString("\n")
	}
	if p.Content != "" {
		sb.WriteString(p.Content)
		sb.WriteString("\n")
	}
	for _, item := range p.Items {
		if strings.Contains(p.Content, item.Text) {
			continue
		}
		sb.WriteString(item.Text)
		sb.WriteString("\n")
	}

	return sb.String()
}
