package extractor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/dtnitsch/llm-web-harvester/models"
)

// Strategy is one way of locating candidate content nodes in a page.
// A node matches when it matches Selector and, if MinDirectText > 0, the text
// of its own text-node children is longer than MinDirectText runes.
type Strategy struct {
	Label         string
	Kind          models.ExtractionStrategy
	Selector      string
	MinDirectText int
}

func (s Strategy) String() string {
	if s.MinDirectText > 0 {
		return fmt.Sprintf("%s:%s:%s:%d", s.Label, s.Kind, s.Selector, s.MinDirectText)
	}
	return fmt.Sprintf("%s:%s:%s", s.Label, s.Kind, s.Selector)
}

// DefaultStrategies returns the built-in strategy list, in evaluation order.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Label: "article", Kind: models.StrategyStructural, Selector: `[role="article"], article`},
		{Label: "user_content", Kind: models.StrategyStructural, Selector: `[class*="userContent"], [data-ad-preview="message"]`},
		{Label: "post", Kind: models.StrategyStructural, Selector: ".post, .post-content, .entry-content, .testimonial"},
		{Label: "text_rich", Kind: models.StrategyFreeText, Selector: "div, p, blockquote", MinDirectText: 100},
	}
}

// ParseStrategies parses records of the form label:kind:selector[:min]
// separated by ';'. An empty string yields DefaultStrategies.
//
//	article:structural:article;long_divs:free_text:div:100
func ParseStrategies(records string) ([]Strategy, error) {
	if strings.TrimSpace(records) == "" {
		return DefaultStrategies(), nil
	}

	var strategies []Strategy
	for _, record := range strings.Split(records, ";") {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}
		s, err := parseStrategy(record)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, s)
	}
	if len(strategies) == 0 {
		return nil, fmt.Errorf("no strategies in %q", records)
	}
	return strategies, nil
}

func parseStrategy(record string) (Strategy, error) {
	parts := strings.SplitN(record, ":", 3)
	if len(parts) != 3 {
		return Strategy{}, fmt.Errorf("invalid strategy %q: want label:kind:selector[:min]", record)
	}

	s := Strategy{
		Label:    strings.TrimSpace(parts[0]),
		Kind:     models.ExtractionStrategy(strings.TrimSpace(parts[1])),
		Selector: strings.TrimSpace(parts[2]),
	}
	if s.Label == "" {
		return Strategy{}, fmt.Errorf("invalid strategy %q: empty label", record)
	}
	switch s.Kind {
	case models.StrategyStructural, models.StrategyFreeText:
	default:
		return Strategy{}, fmt.Errorf("invalid strategy %q: unknown kind %q", record, s.Kind)
	}

	// Selectors may contain ':' themselves (pseudo-classes), so the minimum
	// is only taken from a trailing all-digit segment.
	if i := strings.LastIndex(s.Selector, ":"); i >= 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(s.Selector[i+1:])); err == nil {
			if n < 0 {
				return Strategy{}, fmt.Errorf("invalid strategy %q: negative minimum", record)
			}
			s.MinDirectText = n
			s.Selector = strings.TrimSpace(s.Selector[:i])
		}
	}

	if s.Selector == "" {
		return Strategy{}, fmt.Errorf("invalid strategy %q: empty selector", record)
	}
	if _, err := cascadia.ParseGroup(s.Selector); err != nil {
		return Strategy{}, fmt.Errorf("invalid strategy %q: bad selector: %w", record, err)
	}
	return s, nil
}
