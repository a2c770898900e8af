package mapreduce

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// isValidKeyword drops tokens that are obviously broken: unmatched
// delimiters or quotes, or a trailing ':' or '='.
func isValidKeyword(word string) bool {
	if strings.HasSuffix(word, ":") || strings.HasSuffix(word, "=") {
		return false
	}

	for _, pair := range [][2]string{{"(", ")"}, {"[", "]"}, {"{", "}"}} {
		if strings.Contains(word, pair[0]) && !strings.Contains(word, pair[1]) {
			return false
		}
	}

	if strings.Count(word, "\"")%2 != 0 || strings.Count(word, "'")%2 != 0 {
		return false
	}

	return true
}

type keywordCount struct {
	Word  string
	Count int
}

func rank(wordCounts map[string]int, n int) []keywordCount {
	var ranked []keywordCount
	for k, v := range wordCounts {
		if isValidKeyword(k) {
			ranked = append(ranked, keywordCount{k, v})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})

	if n < 0 {
		n = 0
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// TopKeywords returns the top n keywords formatted as "word:count"
// (e.g. "garden:12"), highest count first.
func TopKeywords(wordCounts map[string]int, n int) []string {
	ranked := rank(wordCounts, n)
	keywords := make([]string, len(ranked))
	for i, kc := range ranked {
		keywords[i] = fmt.Sprintf("%s:%d", kc.Word, kc.Count)
	}
	return keywords
}

// PrintTopKeywords writes the top n keywords as a numbered list.
func PrintTopKeywords(w io.Writer, wordCounts map[string]int, n int) {
	for i, kc := range rank(wordCounts, n) {
		fmt.Fprintf(w, "%d. %s: %d\n", i+1, kc.Word, kc.Count)
	}
}
