package analytics

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// minDetectRunes is the shortest text worth running detection on.
const minDetectRunes = 20

// DefaultLanguages keeps the lingua models that get loaded small.
var DefaultLanguages = []lingua.Language{
	lingua.English,
	lingua.Spanish,
	lingua.French,
	lingua.German,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
}

// LanguageDetector wraps a lingua detector that is built on first use.
// It is safe for concurrent use.
type LanguageDetector struct {
	languages []lingua.Language
	once      sync.Once
	detector  lingua.LanguageDetector
}

func NewLanguageDetector(languages ...lingua.Language) *LanguageDetector {
	if len(languages) < 2 {
		languages = DefaultLanguages
	}
	return &LanguageDetector{languages: languages}
}

// Detect returns the lower-cased ISO 639-1 code of text's language, or ""
// when the text is too short or no language is reliable enough.
func (d *LanguageDetector) Detect(text string) string {
	if len([]rune(strings.TrimSpace(text))) < minDetectRunes {
		return ""
	}

	d.once.Do(func() {
		d.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(d.languages...).
			WithLowAccuracyMode().
			Build()
	})

	language, exists := d.detector.DetectLanguageOf(text)
	if !exists {
		return ""
	}
	return strings.ToLower(language.IsoCode639_1().String())
}
