package parser

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// noiseSelector matches elements whose text never counts as page content.
const noiseSelector = "script, style, noscript, template, svg, iframe"

// chromeSelector matches navigation and layout chrome dropped before the
// main-content cascade reads body text.
const chromeSelector = "nav, header, footer, aside, .sidebar, .navigation"

// contentSelectors are tried in order; the first element with enough text wins.
var contentSelectors = []string{
	"main", "article", ".content", "#content", ".main-content",
	"#main-content", ".post-content", ".entry-content",
	".article-content", ".blog-content", ".page-content",
	`[role="main"]`, ".main", ".body",
}

const (
	minContentAreaChars = 200
	minBodyChars        = 100
)

type Parser struct {
	// SkipReadability disables the go-readability enrichment pass.
	SkipReadability bool
}

// Document is a parsed HTML page ready for the extraction passes.
type Document struct {
	URL  *url.URL
	Doc  *goquery.Document
	html []byte
}

// Metadata holds the descriptive fields of a page.
type Metadata struct {
	Title           string
	MetaDescription string
	SiteName        string
	Byline          string
}

// Parse builds a Document from raw markup. Script, style and similar
// non-content elements are removed up front.
func (p *Parser) Parse(rawURL string, body []byte) (*Document, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Url = parsedURL
	doc.Find(noiseSelector).Remove()

	return &Document{URL: parsedURL, Doc: doc, html: body}, nil
}

// ParseHTML is Parse for callers holding a string.
func (p *Parser) ParseHTML(rawURL, markup string) (*Document, error) {
	return p.Parse(rawURL, []byte(markup))
}

// Page is the descriptive fields plus the main text of one document.
type Page struct {
	Metadata
	Content string
}

// ParsePage combines Metadata and MainContent.
func (p *Parser) ParsePage(d *Document) Page {
	return Page{Metadata: p.Metadata(d), Content: p.MainContent(d)}
}

// Metadata reads title and description from the markup, falling back to
// go-readability for whatever the markup does not declare.
func (p *Parser) Metadata(d *Document) Metadata {
	meta := Metadata{
		Title: Normalize(d.Doc.Find("title").First().Text()),
	}
	if desc, ok := d.Doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		meta.MetaDescription = Normalize(desc)
	}
	if desc, ok := d.Doc.Find(`meta[property="og:description"]`).First().Attr("content"); ok && meta.MetaDescription == "" {
		meta.MetaDescription = Normalize(desc)
	}

	if p.SkipReadability {
		return meta
	}

	readabilityParser := readability.NewParser()
	article, err := readabilityParser.Parse(bytes.NewReader(d.html), d.URL)
	if err != nil {
		return meta
	}
	if meta.Title == "" {
		meta.Title = Normalize(article.Title)
	}
	if meta.MetaDescription == "" {
		meta.MetaDescription = Normalize(article.Excerpt)
	}
	meta.SiteName = Normalize(article.SiteName)
	meta.Byline = Normalize(article.Byline)

	return meta
}

// MainContent returns the page's primary text: the first content area with
// more than 200 characters, else the body without navigation chrome when it
// has more than 100 characters, else all document text.
// The Document is not modified.
func (p *Parser) MainContent(d *Document) string {
	root := d.Doc.Find("html").First().Clone()
	root.Find(chromeSelector).Remove()

	for _, selector := range contentSelectors {
		var found string
		root.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := Normalize(Text(s))
			if RuneLen(text) > minContentAreaChars {
				found = text
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}

	if body := root.Find("body").First(); body.Length() > 0 {
		text := Normalize(Text(body))
		if RuneLen(text) > minBodyChars {
			return text
		}
	}

	return Normalize(Text(d.Doc.Selection))
}

// blockElements start a new run of text; their content never joins the
// words around them.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"body": true, "br": true, "caption": true, "dd": true, "details": true,
	"div": true, "dl": true, "dt": true, "fieldset": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "head": true,
	"header": true, "hr": true, "html": true, "li": true, "main": true,
	"nav": true, "ol": true, "option": true, "p": true, "pre": true,
	"section": true, "summary": true, "table": true, "tbody": true,
	"td": true, "tfoot": true, "th": true, "thead": true, "title": true,
	"tr": true, "ul": true,
}

// Text returns the visible text under a selection. Inline elements join
// their neighbours as written; block elements are separated by a space.
func Text(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		block := false
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
			block = blockElements[n.Data]
		case html.CommentNode:
			return
		}
		if block {
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteString(" ")
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return b.String()
}

// DirectText returns the text held by the selection's own text-node children,
// ignoring descendants nested in child elements.
func DirectText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
				b.WriteString(" ")
			}
		}
	}
	return Normalize(b.String())
}
