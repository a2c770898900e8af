package crawler

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/dtnitsch/llm-web-harvester/pkg/fetcher"
	"github.com/temoto/robotstxt"
)

// robotsGate caches one robots.txt per scheme+host. A missing or unreadable
// robots.txt allows everything.
type robotsGate struct {
	fetcher   *fetcher.Fetcher
	userAgent string
	timeout   time.Duration

	mu     sync.Mutex
	robots map[string]*robotsEntry
}

type robotsEntry struct {
	once sync.Once
	data *robotstxt.RobotsData
}

func newRobotsGate(f *fetcher.Fetcher, timeout time.Duration) *robotsGate {
	return &robotsGate{
		fetcher:   f,
		userAgent: f.UserAgent(),
		timeout:   timeout,
		robots:    make(map[string]*robotsEntry),
	}
}

// Allowed reports whether rawURL may be fetched.
func (g *robotsGate) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	base := u.Scheme + "://" + u.Host

	g.mu.Lock()
	entry, ok := g.robots[base]
	if !ok {
		entry = &robotsEntry{}
		g.robots[base] = entry
	}
	g.mu.Unlock()

	entry.once.Do(func() {
		fetchCtx := ctx
		if g.timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}
		status, body, err := g.fetcher.GetBytes(fetchCtx, base+"/robots.txt")
		if err != nil {
			return
		}
		data, err := robotstxt.FromStatusAndBytes(status, body)
		if err != nil {
			return
		}
		entry.data = data
	})

	if entry.data == nil {
		return true
	}
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	return entry.data.TestAgent(p, g.userAgent)
}
