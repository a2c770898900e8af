// Package validator decides whether a block of extracted text is real content
// or navigation/UI chrome.
package validator

import (
	"strings"
	"unicode/utf8"

	"github.com/dtnitsch/llm-web-harvester/models"
)

// Rules configures the post checks.
type Rules struct {
	MinChars int
	MinWords int
	Denylist []string
}

// DefaultRules mirrors models.DefaultConfig().Validator.
func DefaultRules() Rules {
	return FromConfig(models.DefaultConfig().Validator)
}

// FromConfig converts the YAML section into Rules.
func FromConfig(cfg models.ValidatorConfig) Rules {
	return Rules{
		MinChars: cfg.MinChars,
		MinWords: cfg.MinWords,
		Denylist: cfg.Denylist,
	}
}

type Validator struct {
	rules    Rules
	denylist []string
}

func New(rules Rules) *Validator {
	deny := make([]string, 0, len(rules.Denylist))
	for _, term := range rules.Denylist {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			deny = append(deny, term)
		}
	}
	return &Validator{rules: rules, denylist: deny}
}

// IsValidPost reports whether text looks like a genuine content item.
// Checks run in order: length, denylisted terms, word count.
func (v *Validator) IsValidPost(text string) bool {
	if text == "" || utf8.RuneCountInString(text) < v.rules.MinChars {
		return false
	}

	lower := strings.ToLower(text)
	for _, term := range v.denylist {
		if strings.Contains(lower, term) {
			return false
		}
	}

	return len(strings.Fields(text)) >= v.rules.MinWords
}
