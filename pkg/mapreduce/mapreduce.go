package mapreduce

import (
	"github.com/dtnitsch/llm-web-harvester/models"
	"github.com/dtnitsch/llm-web-harvester/pkg/analytics"
)

// Map generates a word frequency map for a single document's content.
func Map(content string, a *analytics.Analytics) map[string]int {
	return a.WordFrequency(content)
}

// MapPages runs Map over the plain text of every successful page.
func MapPages(pages map[string]models.PageResult, a *analytics.Analytics) []map[string]int {
	intermediate := make([]map[string]int, 0, len(pages))
	for _, page := range pages {
		if page.Failed() {
			continue
		}
		intermediate = append(intermediate, Map(page.ToPlainText(), a))
	}
	return intermediate
}

// Reduce aggregates a slice of word frequency maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for word, count := range counts {
			finalResults[word] += count
		}
	}

	return finalResults
}
