package manifest

// File names of the artifacts written to a run directory.
const (
	ContentFile = "content.json"
	ChunksFile  = "chunks.yaml"
	SummaryFile = "summary.yaml"
)

// SummaryManifest is a lightweight overview of one crawl: status per page
// and top keywords, without the page text.
type SummaryManifest struct {
	GeneratedAt       string        `yaml:"generated_at" json:"generated_at"`
	MainURL           string        `yaml:"main_url" json:"main_url"`
	Title             string        `yaml:"title,omitempty" json:"title,omitempty"`
	Status            string        `yaml:"status" json:"status"`
	Error             string        `yaml:"error,omitempty" json:"error,omitempty"`
	TotalPages        int           `yaml:"total_pages" json:"total_pages"`
	Successful        int           `yaml:"successful" json:"successful"`
	Failed            int           `yaml:"failed" json:"failed"`
	TotalItems        int           `yaml:"total_items" json:"total_items"`
	EstimatedTokens   int           `yaml:"estimated_tokens" json:"estimated_tokens"`
	ExtractionTime    string        `yaml:"extraction_time,omitempty" json:"extraction_time,omitempty"`
	AggregateKeywords []string      `yaml:"aggregate_keywords,omitempty" json:"aggregate_keywords,omitempty"`
	ContentFile       string        `yaml:"content_file,omitempty" json:"content_file,omitempty"`
	ChunksFile        string        `yaml:"chunks_file,omitempty" json:"chunks_file,omitempty"`
	Results           []PageSummary `yaml:"results" json:"results"`
}

// PageSummary is the per-page line of a SummaryManifest.
type PageSummary struct {
	URL             string   `yaml:"url" json:"url"`
	Status          string   `yaml:"status" json:"status"`
	Depth           int      `yaml:"depth" json:"depth"`
	StatusCode      int      `yaml:"status_code,omitempty" json:"status_code,omitempty"`
	ErrorType       string   `yaml:"error_type,omitempty" json:"error_type,omitempty"`
	ErrorMessage    string   `yaml:"error_message,omitempty" json:"error_message,omitempty"`
	Title           string   `yaml:"title,omitempty" json:"title,omitempty"`
	Language        string   `yaml:"language,omitempty" json:"language,omitempty"`
	WordCount       int      `yaml:"word_count,omitempty" json:"word_count,omitempty"`
	EstimatedTokens int      `yaml:"estimated_tokens,omitempty" json:"estimated_tokens,omitempty"`
	ItemCount       int      `yaml:"item_count,omitempty" json:"item_count,omitempty"`
	Truncated       bool     `yaml:"truncated,omitempty" json:"truncated,omitempty"`
	TopKeywords     []string `yaml:"top_keywords,omitempty" json:"top_keywords,omitempty"`
}
