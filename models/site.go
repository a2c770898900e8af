package models

// ScoredLink is a crawl frontier candidate.
type ScoredLink struct {
	URL        string  `json:"url" yaml:"url"`
	Score      float64 `json:"score" yaml:"score"`
	AnchorText string  `json:"anchor_text" yaml:"anchor_text"`
	Depth      int     `json:"depth,omitempty" yaml:"depth,omitempty"`
}

// ContentStats aggregates content size over all crawled pages.
type ContentStats struct {
	TotalChars       int     `json:"total_chars" yaml:"total_chars"`
	AvgContentLength float64 `json:"avg_content_length" yaml:"avg_content_length"`
	PagesWithContent int     `json:"pages_with_content" yaml:"pages_with_content"`
}

// SiteSection groups crawled pages by URL path segment.
type SiteSection struct {
	Name        string                  `json:"name" yaml:"name"`
	Pages       []string                `json:"pages,omitempty" yaml:"pages,omitempty"`
	Subsections map[string]*SiteSection `json:"subsections,omitempty" yaml:"subsections,omitempty"`
}

// SiteContent is the result handed to downstream consumers (chunking, RAG).
type SiteContent struct {
	MainURL         string                `json:"main_url" yaml:"main_url"`
	Title           string                `json:"title" yaml:"title"`
	MetaDescription string                `json:"meta_description" yaml:"meta_description"`
	MainContent     string                `json:"main_content" yaml:"main_content"`
	Pages           map[string]PageResult `json:"pages" yaml:"pages"`
	Links           []ScoredLink          `json:"links" yaml:"links"`
	TotalPages      int                   `json:"total_pages" yaml:"total_pages"`
	ContentStats    ContentStats          `json:"content_stats" yaml:"content_stats"`
	Structure       *SiteSection          `json:"structure,omitempty" yaml:"structure,omitempty"`
	TopKeywords     []string              `json:"top_keywords,omitempty" yaml:"top_keywords,omitempty"`
	ExtractionTime  string                `json:"extraction_time" yaml:"extraction_time"`
	Status          PageStatus            `json:"status" yaml:"status"`
	Error           string                `json:"error,omitempty" yaml:"error,omitempty"`
}
