package parser

import (
	"strings"
	"unicode/utf8"
)

// Normalize collapses every whitespace run, newlines included, into a single
// space and trims the result. Normalize(Normalize(s)) == Normalize(s).
func Normalize(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

// NormalizeParagraphs keeps the line structure of the input: whitespace inside
// each line is collapsed, lines are trimmed, and any run of blank lines becomes
// exactly one blank line.
func NormalizeParagraphs(input string) string {
	lines := strings.Split(strings.ReplaceAll(input, "\r\n", "\n"), "\n")

	var b strings.Builder
	b.Grow(len(input))
	pendingBreak := false
	for _, line := range lines {
		line = Normalize(line)
		if line == "" {
			pendingBreak = b.Len() > 0
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
			if pendingBreak {
				b.WriteString("\n")
			}
		}
		b.WriteString(line)
		pendingBreak = false
	}
	return b.String()
}

// RuneLen is the length of s in characters, not bytes.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate returns the first n characters of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
