package analytics

import (
	"reflect"
	"testing"
)

func TestWordFrequency(t *testing.T) {
	a := &Analytics{}
	got := a.WordFrequency("The garden, the GARDEN! Gardens grow; click here. Café café x")

	want := map[string]int{
		"garden":  2,
		"gardens": 1,
		"grow":    1,
		"café":    2,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("WordFrequency() = %v, want %v", got, want)
	}
}

func TestTopNWords(t *testing.T) {
	a := &Analytics{}
	text := "bees honey bees flowers honey bees orchard"

	tests := []struct {
		n    int
		want []string
	}{
		{0, []string{}},
		{1, []string{"bees"}},
		{3, []string{"bees", "honey", "flowers"}},
		{10, []string{"bees", "honey", "flowers", "orchard"}},
	}
	for _, tt := range tests {
		if got := a.TopNWords(text, tt.n); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("TopNWords(n=%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestIsStopword(t *testing.T) {
	for _, w := range []string{"the", "The", "menu", "you're"} {
		if !IsStopword(w) {
			t.Errorf("IsStopword(%q) = false, want true", w)
		}
	}
	if IsStopword("orchard") {
		t.Error("IsStopword(orchard) = true, want false")
	}
}

func TestDetect_ShortText(t *testing.T) {
	d := NewLanguageDetector()
	if got := d.Detect("too short"); got != "" {
		t.Errorf("Detect(short) = %q, want empty", got)
	}
}

func TestDetect(t *testing.T) {
	if testing.Short() {
		t.Skip("loads language models")
	}
	d := NewLanguageDetector()

	tests := []struct {
		text string
		want string
	}{
		{"The community garden opened this spring with raised beds and a greenhouse for seedlings.", "en"},
		{"El jardín comunitario abrió esta primavera con camas elevadas y un invernadero para plántulas.", "es"},
	}
	for _, tt := range tests {
		if got := d.Detect(tt.text); got != tt.want {
			t.Errorf("Detect(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
