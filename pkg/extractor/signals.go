package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dtnitsch/llm-web-harvester/models"
	"github.com/dtnitsch/llm-web-harvester/pkg/parser"
)

// freeTextCommentWindow is how many leading characters of a free-text item
// are searched for a comment marker.
const freeTextCommentWindow = 200

var reactionPattern = regexp.MustCompile(`(\d+)\s*(like|reaction)`)

// HasComments reports whether text mentions comments. Structural items are
// searched in full; free-text items only near the start, where a post
// header would carry its counters.
func HasComments(text string, kind models.ExtractionStrategy) bool {
	if kind == models.StrategyFreeText {
		text = parser.Truncate(text, freeTextCommentWindow)
	}
	return strings.Contains(strings.ToLower(text), "comment")
}

// Reactions returns the first "<n> like(s)" or "<n> reaction(s)" count in
// text, or 0 when there is none.
func Reactions(text string) int {
	m := reactionPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
