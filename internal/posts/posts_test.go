package posts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dtnitsch/llm-web-harvester/pkg/extractor"
)

const feed = `<html><body>
<div class="feed">
  <article>Our new community garden opened this weekend with over forty neighbours planting herbs together.</article>
  <article>Our new community garden opened this weekend with over forty neighbors planting herbs together!</article>
  <article>Log in to see more posts from your friends and family today.</article>
  <div class="post">The winter market moves indoors next month, bring your own bags and say hello to the growers. 12 likes · 3 Comments</div>
</div>
</body></html>`

func TestExtract(t *testing.T) {
	out, err := Extract(extractor.New(nil, nil, nil), feed, "https://example.com/feed")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if out.Count != 2 || len(out.Items) != 2 {
		t.Fatalf("Extract() returned %d items, want 2: %+v", out.Count, out.Items)
	}
	if !strings.HasPrefix(out.Items[0].Text, "Our new community garden") {
		t.Errorf("first item = %q", out.Items[0].Text)
	}
	if !strings.HasPrefix(out.Items[1].Text, "The winter market") {
		t.Errorf("second item = %q", out.Items[1].Text)
	}
	if first := out.Items[0]; first.HasComments || first.Reactions != 0 {
		t.Errorf("first item HasComments/Reactions = %v/%d, want false/0", first.HasComments, first.Reactions)
	}
	if second := out.Items[1]; !second.HasComments || second.Reactions != 12 {
		t.Errorf("second item HasComments/Reactions = %v/%d, want true/12", second.HasComments, second.Reactions)
	}
	for _, item := range out.Items {
		if item.SourceURL != "https://example.com/feed" {
			t.Errorf("SourceURL = %q", item.SourceURL)
		}
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	out := &Output{SourceURL: "https://example.com/"}
	if err := Print(&buf, out, "yaml"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "source_url: https://example.com/") {
		t.Errorf("Print() = %q", buf.String())
	}
}
