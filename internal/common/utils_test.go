package common

import (
	"testing"
)

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "https://example.com", "https://example.com"},
		{"whitespace", "  https://example.com/a \n", "https://example.com/a"},
		{"markdown link", "[home](https://example.com/about)", "https://example.com/about"},
		{"trailing comma", "https://example.com,", "https://example.com"},
		{"wrapped in parens", "(https://example.com)", "https://example.com"},
		{"angle brackets", "<https://example.com>", "https://example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeURL(tt.in); got != tt.want {
				t.Errorf("SanitizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/", true},
		{"http://localhost:8080/page", true},
		{"example.com", false},
		{"ftp://example.com/file", false},
		{"https://exa mple.com", false},
		{"https://example.com{}", false},
		{"", false},
	}
	for _, tt := range tests {
		if _, ok := ValidateURL(tt.in); ok != tt.want {
			t.Errorf("ValidateURL(%q) ok = %v, want %v", tt.in, ok, tt.want)
		}
	}
}

func TestFilterFields(t *testing.T) {
	v := struct {
		URL    string `json:"url"`
		Status string `json:"status"`
		Pages  int    `json:"pages"`
	}{"https://example.com/", "success", 3}

	all := FilterFields(v, "")
	if len(all) != 3 {
		t.Errorf("FilterFields() with no fields = %v", all)
	}

	got := FilterFields(v, "url, pages ,unknown")
	if len(got) != 2 || got["url"] != "https://example.com/" || got["pages"] != float64(3) {
		t.Errorf("FilterFields() = %v", got)
	}
}

func TestContentHash(t *testing.T) {
	const emptySHA = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := ContentHash(""); got != emptySHA {
		t.Errorf("ContentHash(\"\") = %s", got)
	}
	if ContentHash("a") == ContentHash("b") {
		t.Error("different content produced the same hash")
	}
}

func TestMarshal(t *testing.T) {
	v := map[string]int{"pages": 2}

	y, err := Marshal(v, "YAML")
	if err != nil || string(y) != "pages: 2\n" {
		t.Errorf("Marshal(yaml) = %q, %v", y, err)
	}
	j, err := Marshal(v, "json")
	if err != nil || string(j) != "{\n  \"pages\": 2\n}" {
		t.Errorf("Marshal(json) = %q, %v", j, err)
	}
}
