// Package extractor pulls post-like content items out of a parsed page using
// an ordered list of selector strategies.
package extractor

import (
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/llm-web-harvester/models"
	"github.com/dtnitsch/llm-web-harvester/pkg/dedupe"
	"github.com/dtnitsch/llm-web-harvester/pkg/parser"
	"github.com/dtnitsch/llm-web-harvester/pkg/validator"
)

type Extractor struct {
	Strategies []Strategy
	Validator  *validator.Validator
	Dedupe     *dedupe.Deduplicator

	// Shared, when set, is consulted after the per-page check so an item
	// already accepted on another page of the same crawl is dropped too.
	Shared *dedupe.Set

	now func() time.Time
}

func New(strategies []Strategy, v *validator.Validator, d *dedupe.Deduplicator) *Extractor {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	if v == nil {
		v = validator.New(validator.DefaultRules())
	}
	if d == nil {
		d = dedupe.New(dedupe.DefaultWindow, dedupe.DefaultThreshold)
	}
	return &Extractor{
		Strategies: strategies,
		Validator:  v,
		Dedupe:     d,
		now:        time.Now,
	}
}

// FromConfig builds an Extractor from the validator, dedupe and extractor
// sections of cfg. A session-scoped dedupe set is attached when configured.
func FromConfig(cfg models.HarvestConfig) (*Extractor, error) {
	strategies, err := ParseStrategies(cfg.Extractor.Strategies)
	if err != nil {
		return nil, fmt.Errorf("failed to parse extractor strategies: %w", err)
	}
	d := dedupe.FromConfig(cfg.Dedupe)
	e := New(strategies, validator.New(validator.FromConfig(cfg.Validator)), d)
	if cfg.Dedupe.Scope == models.DedupeScopeSession {
		e.Shared = dedupe.NewSet(d)
	}
	return e, nil
}

// ForSession returns a copy whose session-wide dedupe set starts empty.
// Extractors without a shared set are returned as is.
func (e *Extractor) ForSession() *Extractor {
	if e.Shared == nil {
		return e
	}
	clone := *e
	clone.Shared = dedupe.NewSet(e.Dedupe)
	return &clone
}

// Extract runs every strategy against doc in declared order and returns the
// accepted items, strategy order first and document order second.
// Each item has passed the validator and is not a near-duplicate of an
// earlier item on the page.
func (e *Extractor) Extract(doc *goquery.Document, sourceURL string) []models.ContentItem {
	items := []models.ContentItem{}
	if doc == nil {
		return items
	}

	now := e.now
	if now == nil {
		now = time.Now
	}

	var accepted []string
	for _, strategy := range e.Strategies {
		doc.Find(strategy.Selector).Each(func(_ int, s *goquery.Selection) {
			if strategy.MinDirectText > 0 && parser.RuneLen(parser.DirectText(s)) <= strategy.MinDirectText {
				return
			}

			text := parser.Normalize(parser.Text(s))
			if !e.Validator.IsValidPost(text) {
				return
			}
			if e.Dedupe.IsDuplicate(text, accepted) {
				return
			}
			if e.Shared != nil && !e.Shared.CheckAndAdd(text) {
				return
			}

			accepted = append(accepted, text)
			items = append(items, models.ContentItem{
				Text:         text,
				SourceURL:    sourceURL,
				Strategy:     strategy.Kind,
				Label:        strategy.Label,
				HasComments:  HasComments(text, strategy.Kind),
				Reactions:    Reactions(text),
				DiscoveredAt: now(),
			})
		})
	}

	return items
}

// ExtractFromHTML parses markup and runs Extract on it.
// A parse failure returns an empty slice and the error.
func (e *Extractor) ExtractFromHTML(markup, sourceURL string) ([]models.ContentItem, error) {
	p := &parser.Parser{SkipReadability: true}
	d, err := p.ParseHTML(sourceURL, markup)
	if err != nil {
		return []models.ContentItem{}, err
	}
	return e.Extract(d.Doc, sourceURL), nil
}
