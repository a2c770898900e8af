// Package dedupe flags near-duplicate text using Jaccard similarity over
// lower-cased word sets.
//
// Every candidate is compared against every accepted item, so the cost is
// O(n) per candidate. That is fine for the tens to low hundreds of items a page
// or crawl session produces; larger corpora would need MinHash or a similar
// incremental index.
package dedupe

import (
	"strings"
	"sync"

	"github.com/dtnitsch/llm-web-harvester/models"
	"github.com/dtnitsch/llm-web-harvester/pkg/parser"
)

const (
	DefaultWindow    = 100
	DefaultThreshold = 0.7
)

// Jaccard returns |A∩B| / |A∪B| over the lower-cased whitespace tokens of a
// and b. It is 0.0 when either token set is empty.
func Jaccard(a, b string) float64 {
	return jaccardSets(tokenSet(a), tokenSet(b))
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func jaccardSets(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	intersection := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// Deduplicator compares the first Window characters of two texts.
type Deduplicator struct {
	Window    int
	Threshold float64
}

func New(window int, threshold float64) *Deduplicator {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Deduplicator{Window: window, Threshold: threshold}
}

// FromConfig converts the YAML section into a Deduplicator.
func FromConfig(cfg models.DedupeConfig) *Deduplicator {
	return New(cfg.Window, cfg.Threshold)
}

// Similarity is Jaccard over the comparison windows of a and b.
func (d *Deduplicator) Similarity(a, b string) float64 {
	return Jaccard(parser.Truncate(a, d.Window), parser.Truncate(b, d.Window))
}

// IsDuplicate reports whether candidate is more similar than Threshold to any
// of the existing texts. An empty existing slice never yields a duplicate.
func (d *Deduplicator) IsDuplicate(candidate string, existing []string) bool {
	if len(existing) == 0 {
		return false
	}

	for _, other := range existing {
		if d.Similarity(candidate, other) > d.Threshold {
			return true
		}
	}
	return false
}

// Set is a concurrency-safe collection of accepted texts shared by every
// page of a crawl session when dedupe runs session-wide.
type Set struct {
	mu    sync.Mutex
	d     *Deduplicator
	texts []string
}

func NewSet(d *Deduplicator) *Set {
	return &Set{d: d}
}

// CheckAndAdd adds text unless it duplicates an accepted entry.
// It reports whether the text was added.
func (s *Set) CheckAndAdd(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.d.IsDuplicate(text, s.texts) {
		return false
	}
	s.texts = append(s.texts, text)
	return true
}

func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.texts)
}
