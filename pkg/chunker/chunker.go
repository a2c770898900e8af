// Package chunker splits harvested text into overlapping pieces sized for an
// embedding model.
package chunker

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dtnitsch/llm-web-harvester/models"
	"github.com/dtnitsch/llm-web-harvester/pkg/parser"
)

// Chunk is one piece of a page's text.
type Chunk struct {
	SourceURL string `json:"source_url" yaml:"source_url"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Index     int    `json:"index" yaml:"index"`
	Text      string `json:"text" yaml:"text"`
}

type Splitter struct {
	Size      int
	Overlap   int
	Separator string
}

func FromConfig(cfg models.ChunkerConfig) *Splitter {
	return &Splitter{Size: cfg.Size, Overlap: cfg.Overlap, Separator: cfg.Sep}
}

// piece is a span of text and the separator that joined it to the span
// before it in the source.
type piece struct {
	text string
	sep  string
}

// Split cuts text on Separator and greedily merges the pieces into chunks of
// at most Size runes. Consecutive chunks share trailing pieces totalling at
// most Overlap runes. Pieces longer than Size are cut on spaces, and words
// longer than Size are cut between runes, so no chunk exceeds Size.
func (s *Splitter) Split(text string) []string {
	var (
		chunks  []string
		current []piece
		total   int
	)
	joinLen := func(p piece) int {
		if len(current) > 0 {
			return utf8.RuneCountInString(p.sep)
		}
		return 0
	}

	for _, p := range s.pieces(text) {
		n := utf8.RuneCountInString(p.text)
		if total+n+joinLen(p) > s.Size && len(current) > 0 {
			chunks = append(chunks, join(current))
			for total > s.Overlap || (total > 0 && total+n+joinLen(p) > s.Size) {
				total -= utf8.RuneCountInString(current[0].text)
				if len(current) > 1 {
					total -= utf8.RuneCountInString(current[1].sep)
				}
				current = current[1:]
			}
		}
		total += n + joinLen(p)
		current = append(current, p)
	}
	if len(current) > 0 {
		chunks = append(chunks, join(current))
	}
	return chunks
}

// pieces splits text on Separator, falling back to spaces and then to
// single runes for any piece that would not fit in one chunk.
func (s *Splitter) pieces(text string) []piece {
	levels := []string{" "}
	if s.Separator != "" && s.Separator != " " {
		levels = []string{s.Separator, " "}
	}

	var out []piece
	var add func(text, sep string, levels []string)
	add = func(text, sep string, levels []string) {
		if utf8.RuneCountInString(text) <= s.Size {
			out = append(out, piece{text: text, sep: sep})
			return
		}
		if len(levels) == 0 {
			for i, part := range splitRunes(text, s.Size) {
				if i > 0 {
					sep = ""
				}
				out = append(out, piece{text: part, sep: sep})
			}
			return
		}
		for i, part := range splitOn(text, levels[0]) {
			if i > 0 {
				sep = levels[0]
			}
			add(part, sep, levels[1:])
		}
	}

	for _, part := range splitOn(text, levels[0]) {
		add(part, levels[0], levels[1:])
	}
	return out
}

func splitOn(text, sep string) []string {
	if sep == " " {
		return strings.Fields(text)
	}
	var out []string
	for _, p := range strings.Split(text, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitRunes(text string, size int) []string {
	var out []string
	runes := []rune(text)
	for len(runes) > size {
		out = append(out, string(runes[:size]))
		runes = runes[size:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}

func join(pieces []piece) string {
	var b strings.Builder
	for i, p := range pieces {
		if i > 0 {
			b.WriteString(p.sep)
		}
		b.WriteString(p.text)
	}
	return b.String()
}

// SplitSite chunks the plain text of every successful page, ordered by URL.
func (s *Splitter) SplitSite(site *models.SiteContent) []Chunk {
	urls := make([]string, 0, len(site.Pages))
	for u := range site.Pages {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	var out []Chunk
	for _, u := range urls {
		page := site.Pages[u]
		if page.Failed() {
			continue
		}
		for i, text := range s.Split(parser.NormalizeParagraphs(page.ToPlainText())) {
			out = append(out, Chunk{SourceURL: u, Title: page.Title, Index: i, Text: text})
		}
	}
	return out
}
