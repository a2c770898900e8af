package validator

import (
	"strings"
	"testing"
)

func TestIsValidPost(t *testing.T) {
	v := New(DefaultRules())

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"too short", "Short text here ok", false},
		{"exactly at length but few words", "abcdefghijklmnopqrstuvwxyz0123", false},
		{"denylisted login", "Please login to continue reading this wonderful community story", false},
		{"denylisted case insensitive", "Accept all COOKIE settings before reading this long post here", false},
		{"denylisted phrase", "Sign Up today and join thousands of people sharing their stories", false},
		{"too few words", "Supercalifragilistic expialidocious antidisestablishmentarianism", false},
		{"valid post", "We organised a neighbourhood clean-up last weekend and twenty people came along", true},
		{"valid at thresholds", "one two three four fivesixseveneightnine", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.IsValidPost(tt.text); got != tt.want {
				t.Errorf("IsValidPost(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsValidPost_ShorterThanMinimumAlwaysRejected(t *testing.T) {
	for _, minChars := range []int{30, 50} {
		v := New(Rules{MinChars: minChars, MinWords: 1})
		for n := 0; n < minChars; n++ {
			text := strings.Repeat("x", n)
			if v.IsValidPost(text) {
				t.Errorf("MinChars=%d: IsValidPost(len %d) = true, want false", minChars, n)
			}
		}
	}
}

func TestIsValidPost_CustomDenylist(t *testing.T) {
	v := New(Rules{MinChars: 10, MinWords: 2, Denylist: []string{"  Sponsored ", ""}})

	if v.IsValidPost("This post is sponsored by a local bakery downtown") {
		t.Error("expected sponsored text to be rejected")
	}
	if !v.IsValidPost("Fresh bread every morning from the local bakery downtown") {
		t.Error("expected regular text to be accepted")
	}
}
