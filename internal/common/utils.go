package common

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// [text](https://example.com) -> https://example.com
	markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\((https?://[^\)]+)\)$`)
	urlPattern          = regexp.MustCompile(`^https?://[a-zA-Z0-9][-a-zA-Z0-9.]*[a-zA-Z0-9](:[0-9]+)?(/[^\s]*)?$`)
)

// FilterFields keeps only the comma-separated top-level JSON keys of v.
// An empty list keeps every key.
func FilterFields(v any, fieldsStr string) map[string]any {
	full := structToMap(v)
	if strings.TrimSpace(fieldsStr) == "" {
		return full
	}

	include := make(map[string]bool)
	for _, field := range strings.Split(fieldsStr, ",") {
		if field = strings.TrimSpace(field); field != "" {
			include[field] = true
		}
	}

	filtered := make(map[string]any)
	for key, value := range full {
		if include[key] {
			filtered[key] = value
		}
	}
	return filtered
}

// structToMap converts a struct to map[string]any using JSON marshaling.
func structToMap(obj any) map[string]any {
	data, _ := json.Marshal(obj)
	var result map[string]any
	_ = json.Unmarshal(data, &result)
	return result
}

// ContentHash returns the hex SHA256 of content.
func ContentHash(content string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(content)))
}

// SanitizeURL cleans common copy-paste damage: surrounding whitespace,
// markdown link syntax, and stray leading or trailing punctuation.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	// "https://example.com," -> "https://example.com"
	for _, char := range []string{",", ".", ")", "}", "]", "\"", "'", ">", ";"} {
		cleaned = strings.TrimSuffix(cleaned, char)
	}
	// "(https://example.com" -> "https://example.com"
	for _, char := range []string{"(", "[", "<", "\"", "'"} {
		cleaned = strings.TrimPrefix(cleaned, char)
	}

	return strings.TrimSpace(cleaned)
}

// ValidateURL sanitizes rawURL and reports whether the result is a usable
// http(s) URL.
func ValidateURL(rawURL string) (string, bool) {
	cleaned := SanitizeURL(rawURL)
	if cleaned == "" || strings.Contains(cleaned, " ") {
		return "", false
	}
	if !urlPattern.MatchString(cleaned) {
		return "", false
	}

	parsed, err := url.Parse(cleaned)
	if err != nil {
		return "", false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" || parsed.Host == "" {
		return "", false
	}
	// "https://example.com{}" is malformed
	if strings.ContainsAny(parsed.Host, "{}[]<>\"'") {
		return "", false
	}
	return cleaned, true
}

// Marshal encodes v as "yaml" or, for any other format, indented JSON.
func Marshal(v any, format string) ([]byte, error) {
	if strings.EqualFold(format, "yaml") {
		return yaml.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}
