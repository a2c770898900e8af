// Package links extracts same-site links from a page and scores them for
// crawl priority.
package links

import (
	"net"
	"net/url"
	"path"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/llm-web-harvester/models"
	"github.com/dtnitsch/llm-web-harvester/pkg/parser"
	"golang.org/x/net/publicsuffix"
)

var skippedSchemes = []string{"javascript:", "mailto:", "tel:", "data:"}

// Scorer computes a heuristic priority for a link. All weights are additive.
type Scorer struct {
	QueryPenalty       float64
	LongURLPenalty     float64
	LongURLLength      int
	KeywordBonus       float64
	Keywords           []string
	AnchorBonus        float64
	AnchorMinLength    int
	AnchorMaxLength    int
	ExcludedExtensions []string
}

// DefaultScorer mirrors models.DefaultConfig().Links.
func DefaultScorer() *Scorer {
	return FromConfig(models.DefaultConfig().Links)
}

func FromConfig(cfg models.LinksConfig) *Scorer {
	return &Scorer{
		QueryPenalty:       cfg.QueryPenalty,
		LongURLPenalty:     cfg.LongURLPenalty,
		LongURLLength:      cfg.LongURLLength,
		KeywordBonus:       cfg.KeywordBonus,
		Keywords:           cfg.Keywords,
		AnchorBonus:        cfg.AnchorBonus,
		AnchorMinLength:    cfg.AnchorMinLength,
		AnchorMaxLength:    cfg.AnchorMaxLength,
		ExcludedExtensions: cfg.ExcludedExtensions,
	}
}

// Score rates rawURL and its anchor text. Typical values fall in [-1, +1].
func (s *Scorer) Score(rawURL, anchorText string) float64 {
	score := 0.0

	u, err := url.Parse(rawURL)
	if err != nil {
		return score
	}

	if u.RawQuery != "" || u.ForceQuery {
		score -= s.QueryPenalty
	}
	if len(rawURL) > s.LongURLLength {
		score -= s.LongURLPenalty
	}

	lowerPath := strings.ToLower(u.Path)
	for _, kw := range s.Keywords {
		if kw != "" && strings.Contains(lowerPath, strings.ToLower(kw)) {
			score += s.KeywordBonus
			break
		}
	}

	anchorLen := utf8.RuneCountInString(strings.TrimSpace(anchorText))
	if anchorLen > s.AnchorMinLength && anchorLen < s.AnchorMaxLength {
		score += s.AnchorBonus
	}

	return score
}

// ExtractLinks returns the scored, normalized same-site links of a page.
// Each URL appears once (first anchor wins); the slice is ordered by score,
// highest first, then by URL.
func (s *Scorer) ExtractLinks(doc *goquery.Document, baseURL string) []models.ScoredLink {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var out []models.ScoredLink

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		normalized, ok := s.resolve(base, href)
		if !ok {
			return
		}
		if _, dup := seen[normalized]; dup {
			return
		}
		seen[normalized] = struct{}{}

		anchor := parser.Normalize(parser.Text(a))
		out = append(out, models.ScoredLink{
			URL:        normalized,
			Score:      s.Score(normalized, anchor),
			AnchorText: anchor,
		})
	})

	SortByScore(out)
	return out
}

// resolve turns an href into a normalized absolute URL on base's site.
func (s *Scorer) resolve(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	lower := strings.ToLower(href)
	for _, scheme := range skippedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return "", false
		}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	if !SameSite(base, abs) {
		return "", false
	}
	if s.excludedExtension(abs.Path) {
		return "", false
	}

	return Normalize(abs), true
}

func (s *Scorer) excludedExtension(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return false
	}
	for _, denied := range s.ExcludedExtensions {
		if ext == strings.ToLower(denied) {
			return true
		}
	}
	return false
}

// Normalize renders scheme://host/path[?query] with the fragment stripped.
// Scheme and host are lower-cased; an empty path becomes "/".
func Normalize(u *url.URL) string {
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	out := strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + p
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	return out
}

// NormalizeString is Normalize for raw strings.
func NormalizeString(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}
	return Normalize(u), nil
}

// SameSite reports whether a and b share a registrable domain (eTLD+1).
// IP addresses and single-label hosts such as localhost must match exactly.
func SameSite(a, b *url.URL) bool {
	ha, hb := strings.ToLower(a.Hostname()), strings.ToLower(b.Hostname())
	if ha == "" || hb == "" {
		return false
	}
	if ha == hb {
		return strings.EqualFold(a.Host, b.Host) || a.Port() == "" || b.Port() == ""
	}
	if net.ParseIP(ha) != nil || net.ParseIP(hb) != nil {
		return false
	}
	if !strings.Contains(ha, ".") || !strings.Contains(hb, ".") {
		return false
	}

	da, errA := publicsuffix.EffectiveTLDPlusOne(ha)
	db, errB := publicsuffix.EffectiveTLDPlusOne(hb)
	if errA != nil || errB != nil {
		return false
	}
	return da == db
}

// SameSiteString is SameSite for raw strings.
func SameSiteString(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	return SameSite(ua, ub)
}

// SortByScore orders links highest score first, ties broken by URL.
func SortByScore(links []models.ScoredLink) {
	sort.SliceStable(links, func(i, j int) bool {
		if links[i].Score != links[j].Score {
			return links[i].Score > links[j].Score
		}
		return links[i].URL < links[j].URL
	})
}
