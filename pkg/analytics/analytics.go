package analytics

import (
	"sort"
	"strings"
	"unicode"
)

type Analytics struct{}

// commonWords are ignored in frequency analysis: English function words plus
// the UI vocabulary that leaks into scraped pages.
var commonWords = func() map[string]struct{} {
	lists := []string{
		`a about above across after again against all almost alone along already also
		although always am among an and another any anyone anything anywhere are aren't
		around as at`,
		`back be became because become been before behind being below beside besides
		between beyond both but by`,
		`can can't cannot could couldn't did didn't do does doesn't doing don't done down during`,
		`each either else elsewhere enough especially etc even ever every everyone everything
		everywhere few for from further`,
		`had hadn't has hasn't have haven't having he he'd he'll he's her here here's hers
		herself him himself his how however`,
		`i i'd i'll i'm i've if in indeed into is isn't it it's its itself just keep`,
		`last least less let let's like likely made make many may maybe me might mine more
		moreover most mostly much must mustn't my myself`,
		`neither never nevertheless next no nobody none nor not nothing now nowhere`,
		`of off often on once one only onto or other others otherwise our ours ourselves out
		over own part per perhaps please put`,
		`rather re same see seem seemed seems several she she'd she'll she's should shouldn't
		since so some somehow someone something sometime sometimes somewhere still such`,
		`take than that that's the their theirs them themselves then there there's therefore
		these they they'd they'll they're they've this those through throughout thus to
		together too toward towards`,
		`under until up upon us use very via`,
		`was wasn't we we'd we'll we're we've well were weren't what whatever what's when
		whenever where where's whereas wherever whether which while who who'd whoever who'll
		who's whose why will with within without won't would wouldn't`,
		`yet you you'd you'll you're you've your yours yourself yourselves`,
		// scraped-page chrome
		`click clicked clicking button link menu redirect redirected redirecting page pages
		website site home homepage search searching searched loading loaded load loads
		read share shares comment comments reply`,
	}
	words := make(map[string]struct{})
	for _, list := range lists {
		for _, w := range strings.Fields(list) {
			words[w] = struct{}{}
		}
	}
	return words
}()

// IsStopword checks if a word is a common stopword that should be filtered out.
func IsStopword(word string) bool {
	_, exists := commonWords[strings.ToLower(word)]
	return exists
}

// WordFrequency counts the non-stopword tokens of text.
// Tokens are lower-cased and stripped of leading and trailing punctuation.
func (a *Analytics) WordFrequency(text string) map[string]int {
	frequencies := make(map[string]int)

	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if len([]rune(word)) < 2 {
			continue
		}
		if _, exists := commonWords[word]; exists {
			continue
		}
		frequencies[word]++
	}

	return frequencies
}

type wordCount struct {
	Word  string
	Count int
}

// TopNWords returns the n most frequent words, ties broken alphabetically.
func (a *Analytics) TopNWords(text string, n int) []string {
	frequencies := a.WordFrequency(text)

	counts := make([]wordCount, 0, len(frequencies))
	for k, v := range frequencies {
		counts = append(counts, wordCount{k, v})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Word < counts[j].Word
	})

	limit := min(n, len(counts))
	if limit < 0 {
		limit = 0
	}

	topN := make([]string, limit)
	for i := 0; i < limit; i++ {
		topN[i] = counts[i].Word
	}

	return topN
}
