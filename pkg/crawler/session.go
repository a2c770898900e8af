package crawler

import (
	"net/url"
	"sync"

	"github.com/dtnitsch/llm-web-harvester/models"
	"github.com/dtnitsch/llm-web-harvester/pkg/caching"
	"github.com/dtnitsch/llm-web-harvester/pkg/links"
)

// Session is the state of one crawl: the visited set, the frontier and the
// pages recorded so far. It lives for a single Crawl call.
type Session struct {
	mu       sync.Mutex
	seed     *url.URL
	visited  map[string]struct{}
	frontier *Frontier
	pages    *caching.Cache[models.PageResult]
	order    []string

	pageBudget  int
	depthBudget int
}

// NewSession starts a session for a normalized seed URL.
func NewSession(seed *url.URL, pageBudget, depthBudget int) *Session {
	return &Session{
		seed:        seed,
		visited:     make(map[string]struct{}),
		frontier:    NewFrontier(),
		pages:       caching.NewCache[models.PageResult](),
		pageBudget:  pageBudget,
		depthBudget: depthBudget,
	}
}

// TryVisit marks url as visited. It returns false if url was already
// visited, in which case the caller must not fetch it.
func (s *Session) TryVisit(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tryVisitLocked(url)
}

func (s *Session) tryVisitLocked(url string) bool {
	if _, ok := s.visited[url]; ok {
		return false
	}
	s.visited[url] = struct{}{}
	return true
}

// Enqueue adds links discovered at depth to the frontier. Links beyond the
// depth budget, off the seed's site, already visited or already queued are
// skipped. It returns the number of links added.
func (s *Session) Enqueue(found []models.ScoredLink, depth int) int {
	if depth > s.depthBudget {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, l := range found {
		if _, ok := s.visited[l.URL]; ok {
			continue
		}
		u, err := url.Parse(l.URL)
		if err != nil || !links.SameSite(s.seed, u) {
			continue
		}
		l.Depth = depth
		if s.frontier.Push(l) {
			added++
		}
	}
	return added
}

// NextBatch pops up to n links, claiming each through the visited set.
// Links that were visited meanwhile are dropped.
func (s *Session) NextBatch(n int) []models.ScoredLink {
	s.mu.Lock()
	defer s.mu.Unlock()

	var batch []models.ScoredLink
	for len(batch) < n {
		l, ok := s.frontier.Pop()
		if !ok {
			break
		}
		if !s.tryVisitLocked(l.URL) {
			continue
		}
		batch = append(batch, l)
	}
	return batch
}

// Record stores a page result. Results past the page budget, and second
// results for the same URL, are discarded.
func (s *Session) Record(page models.PageResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pages.Len() >= s.pageBudget {
		return false
	}
	if !s.pages.Set(page.URL, page) {
		return false
	}
	s.order = append(s.order, page.URL)
	return true
}

// Remaining is the number of pages that can still be recorded.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageBudget - s.pages.Len()
}

func (s *Session) FrontierLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frontier.Len()
}

// Pages returns a copy of the recorded pages keyed by URL.
func (s *Session) Pages() map[string]models.PageResult {
	return s.pages.Snapshot()
}

// Order returns the URLs in the order their results were recorded.
func (s *Session) Order() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}
