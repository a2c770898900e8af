package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/dtnitsch/llm-web-harvester/models"
)

const defaultMaxBodyBytes = 10 << 20

// FetchError describes a failed fetch. Kind is one of the models.ErrorType* values.
type FetchError struct {
	URL        string
	StatusCode int
	Kind       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Kind, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

var (
	ErrStatus  = errors.New("unexpected status code")
	ErrNonHTML = errors.New("content type is not HTML")
)

// Response is a successful HTML fetch.
type Response struct {
	URL         string
	FinalURL    string
	StatusCode  int
	ContentType string
	Body        []byte
	// Truncated is set when the body was cut at the size limit.
	Truncated bool
}

type Fetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
}

type Option func(*Fetcher)

func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodyBytes = n
		}
	}
}

// WithClient replaces the HTTP client, e.g. for tests.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:       &http.Client{},
		userAgent:    models.DefaultConfig().Crawl.UserAgent,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs a single GET. Timeouts come from ctx; there is no retry.
// Non-2xx responses and non-HTML content types are returned as *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Kind: models.ErrorTypeFetch, Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Kind: classify(ctx, err), Err: fmt.Errorf("failed to make HTTP request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Kind: models.ErrorTypeHTTP, Err: ErrStatus}
	}

	contentType := resp.Header.Get("Content-Type")
	if !IsHTML(contentType) {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Kind: models.ErrorTypeNonHTML, Err: fmt.Errorf("%w: %q", ErrNonHTML, contentType)}
	}

	body, truncated, err := f.readBody(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Kind: classify(ctx, err), Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return &Response{
		URL:         url,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
		Truncated:   truncated,
	}, nil
}

// FetchWithTimeout wraps Fetch in a per-call deadline.
func (f *Fetcher) FetchWithTimeout(ctx context.Context, url string, timeout time.Duration) (*Response, error) {
	if timeout <= 0 {
		return f.Fetch(ctx, url)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return f.Fetch(ctx, url)
}

// GetBytes fetches any content type, returning the body only for 2xx responses.
// The status code is returned even on error.
func (f *Fetcher) GetBytes(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	body, _, err := f.readBody(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// readBody reads at most maxBodyBytes and reports whether more was available.
func (f *Fetcher) readBody(r io.Reader) ([]byte, bool, error) {
	body, err := io.ReadAll(io.LimitReader(r, f.maxBodyBytes+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(body)) > f.maxBodyBytes {
		return body[:f.maxBodyBytes], true, nil
	}
	return body, false, nil
}

// UserAgent is the User-Agent header sent with every request.
func (f *Fetcher) UserAgent() string {
	return f.userAgent
}

// IsHTML reports whether a Content-Type header denotes an HTML document.
func IsHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func classify(ctx context.Context, err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return models.ErrorTypeTimeout
	}
	var te interface{ Timeout() bool }
	if errors.As(err, &te) && te.Timeout() {
		return models.ErrorTypeTimeout
	}
	return models.ErrorTypeFetch
}
