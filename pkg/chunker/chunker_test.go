package chunker

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dtnitsch/llm-web-harvester/models"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		splitter Splitter
		text     string
		want     []string
	}{
		{
			name:     "overlapping lines",
			splitter: Splitter{Size: 10, Overlap: 4, Separator: "\n"},
			text:     "aaaa\nbbbb\ncccc\ndddd",
			want:     []string{"aaaa\nbbbb", "bbbb\ncccc", "cccc\ndddd"},
		},
		{
			name:     "fits in one chunk",
			splitter: Splitter{Size: 100, Overlap: 10, Separator: "\n"},
			text:     "one\n\n  two  \nthree",
			want:     []string{"one\ntwo\nthree"},
		},
		{
			name:     "oversized word cut between runes",
			splitter: Splitter{Size: 5, Overlap: 0, Separator: "\n"},
			text:     "abcdefgh\nxy",
			want:     []string{"abcde", "fgh", "xy"},
		},
		{
			name:     "oversized line cut on spaces",
			splitter: Splitter{Size: 9, Overlap: 0, Separator: "\n"},
			text:     "title\naa bb cc dd ee",
			want:     []string{"title\naa", "bb cc dd", "ee"},
		},
		{
			name:     "empty separator splits on whitespace",
			splitter: Splitter{Size: 7, Overlap: 0, Separator: ""},
			text:     "ab cd ef gh",
			want:     []string{"ab cd", "ef gh"},
		},
		{
			name:     "empty text",
			splitter: Splitter{Size: 10, Overlap: 2, Separator: "\n"},
			text:     "  \n ",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.splitter.Split(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplit_RespectsSize(t *testing.T) {
	s := FromConfig(models.DefaultConfig().Chunker)

	var lines []string
	for i := 0; i < 200; i++ {
		lines = append(lines, strings.Repeat("word ", 10))
	}
	chunks := s.Split(strings.Join(lines, "\n"))

	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > s.Size {
			t.Errorf("chunk %d has %d runes, want <= %d", i, n, s.Size)
		}
	}
}

func TestSplit_SingleLineContent(t *testing.T) {
	s := &Splitter{Size: 1000, Overlap: 200, Separator: "\n"}

	var words []string
	for i := 0; i < 900; i++ {
		words = append(words, fmt.Sprintf("w%03d", i))
	}
	content := strings.Join(words, " ")
	chunks := s.Split("Page title\n" + content)

	if len(chunks) < 5 {
		t.Fatalf("got %d chunks, want the long line split into several", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > s.Size {
			t.Errorf("chunk %d has %d runes, want <= %d", i, n, s.Size)
		}
	}
	if !strings.HasPrefix(chunks[0], "Page title\nw000 w001") || utf8.RuneCountInString(chunks[0]) < 900 {
		t.Errorf("title should share the first chunk with content, got %d runes: %.40q",
			utf8.RuneCountInString(chunks[0]), chunks[0])
	}
	if !strings.HasSuffix(chunks[len(chunks)-1], "w899") {
		t.Errorf("last chunk = %.40q..., want it to end with the last word", chunks[len(chunks)-1])
	}
	if !strings.HasPrefix(chunks[1], "w1") || !strings.Contains(chunks[0], strings.Fields(chunks[1])[0]) {
		t.Errorf("consecutive chunks should overlap: %.30q", chunks[1])
	}
}

func TestSplitSite(t *testing.T) {
	site := &models.SiteContent{
		Pages: map[string]models.PageResult{
			"https://example.com/b": {Title: "B", Content: "second page", Status: models.StatusSuccess},
			"https://example.com/a": {Title: "A", Content: "first page", Status: models.StatusSuccess},
			"https://example.com/x": {Status: models.StatusError, Error: "boom"},
		},
	}
	s := &Splitter{Size: 1000, Overlap: 200, Separator: "\n"}
	chunks := s.SplitSite(site)

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2: %+v", len(chunks), chunks)
	}
	if chunks[0].SourceURL != "https://example.com/a" || chunks[0].Text != "A\nfirst page" {
		t.Errorf("chunks[0] = %+v", chunks[0])
	}
	if chunks[1].SourceURL != "https://example.com/b" || chunks[1].Index != 0 {
		t.Errorf("chunks[1] = %+v", chunks[1])
	}
}
