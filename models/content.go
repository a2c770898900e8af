package models

import "time"

// ExtractionStrategy tells how a content item was located in the page.
type ExtractionStrategy string

const (
	// StrategyStructural matches elements by structure (role, tag, class).
	StrategyStructural ExtractionStrategy = "structural"
	// StrategyFreeText matches elements whose own text is long enough.
	StrategyFreeText ExtractionStrategy = "free_text"
)

// ContentItem is one validated, de-duplicated unit of page text.
type ContentItem struct {
	Text         string             `json:"text" yaml:"text"`
	SourceURL    string             `json:"source_url" yaml:"source_url"`
	Strategy     ExtractionStrategy `json:"extraction_strategy" yaml:"extraction_strategy"`
	Label        string             `json:"label,omitempty" yaml:"label,omitempty"`
	HasComments  bool               `json:"has_comments" yaml:"has_comments"`
	Reactions    int                `json:"reactions" yaml:"reactions"`
	DiscoveredAt time.Time          `json:"discovered_at" yaml:"discovered_at"`
}
