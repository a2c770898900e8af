package mapreduce

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/dtnitsch/llm-web-harvester/models"
	"github.com/dtnitsch/llm-web-harvester/pkg/analytics"
)

func TestReduce(t *testing.T) {
	got := Reduce([]map[string]int{
		{"garden": 2, "bees": 1},
		{"garden": 1, "honey": 4},
		{},
	})
	want := map[string]int{"garden": 3, "bees": 1, "honey": 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Reduce() = %v, want %v", got, want)
	}
}

func TestMapPages_SkipsFailedPages(t *testing.T) {
	pages := map[string]models.PageResult{
		"https://example.com/":  {Status: models.StatusSuccess, Content: "orchard orchard apples"},
		"https://example.com/x": {Status: models.StatusError, Content: "broken broken"},
	}
	counts := Reduce(MapPages(pages, &analytics.Analytics{}))

	if counts["orchard"] != 2 || counts["apples"] != 1 {
		t.Errorf("counts = %v", counts)
	}
	if _, ok := counts["broken"]; ok {
		t.Error("failed pages must not contribute keywords")
	}
}

func TestTopKeywords(t *testing.T) {
	counts := map[string]int{
		"garden":  5,
		"bees":    3,
		"apples":  3,
		"broken(": 10,
		"key:":    9,
		`quote"`:  8,
	}

	tests := []struct {
		n    int
		want []string
	}{
		{0, []string{}},
		{2, []string{"garden:5", "apples:3"}},
		{10, []string{"garden:5", "apples:3", "bees:3"}},
	}
	for _, tt := range tests {
		if got := TopKeywords(counts, tt.n); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("TopKeywords(n=%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestPrintTopKeywords(t *testing.T) {
	var buf bytes.Buffer
	PrintTopKeywords(&buf, map[string]int{"garden": 2, "bees": 1}, 5)

	want := "1. garden: 2\n2. bees: 1\n"
	if buf.String() != want {
		t.Errorf("PrintTopKeywords() = %q, want %q", buf.String(), want)
	}
}
