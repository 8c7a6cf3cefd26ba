package lyrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/moderato-fm/songscreen/internal/model"
	"github.com/moderato-fm/songscreen/internal/session"
)

// Page is one fetched document
type Page struct {
	Body       string
	StatusCode int
	FinalURL   string
}

// Fetcher is the shared HTTP plumbing for all lyrics sources: user
// agent, redirect cap, body-size limit, per-domain rate limiting, and a
// robots.txt gate. Safe for concurrent use.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	respect   bool

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	robots   map[string]*robotstxt.RobotsData
	rps      rate.Limit
	burst    int

	logger *zap.Logger
}

// NewFetcher creates a fetcher from the HTTP configuration
func NewFetcher(cfg model.HTTPConfig, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after 5 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		respect:   cfg.RespectRobots,
		limiters:  make(map[string]*rate.Limiter),
		robots:    make(map[string]*robotstxt.RobotsData),
		rps:       rate.Limit(cfg.RequestsPerSecond),
		burst:     cfg.Burst,
		logger:    logger,
	}
}

// Get fetches rawURL, attaching the given cookies when non-empty.
// Failures are mapped onto the model error taxonomy.
func (f *Fetcher) Get(ctx context.Context, rawURL string, cookies []session.Cookie) (*Page, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse url: %v", model.ErrParse, err)
	}

	if f.respect {
		if allowed, err := f.allowedByRobots(ctx, parsed); err == nil && !allowed {
			return nil, fmt.Errorf("%w: disallowed by robots.txt: %s", model.ErrNotFound, rawURL)
		}
	}

	if err := f.limiter(parsed.Host).Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate wait: %v", model.ErrNetwork, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", model.ErrInternal, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,pl;q=0.8")
	for _, c := range cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timeout: %v", model.ErrNetwork, err)
		}
		return nil, fmt.Errorf("%w: %v", model.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", model.ErrNotFound, rawURL)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %s", model.ErrRateLimit, rawURL)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d from %s", model.ErrInvalidSession, resp.StatusCode, rawURL)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: unexpected status %d from %s", model.ErrNetwork, resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", model.ErrNetwork, err)
	}

	return &Page{
		Body:       string(body),
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
	}, nil
}

func (f *Fetcher) limiter(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()

	if l, ok := f.limiters[host]; ok {
		return l
	}
	l := rate.NewLimiter(f.rps, f.burst)
	f.limiters[host] = l
	return l
}

// allowedByRobots checks the host's robots.txt, caching the parsed data
// per host. Unreachable robots.txt counts as allowed.
func (f *Fetcher) allowedByRobots(ctx context.Context, u *url.URL) (bool, error) {
	f.mu.Lock()
	data, ok := f.robots[u.Host]
	f.mu.Unlock()

	if !ok {
		robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
		if err != nil {
			return true, err
		}
		req.Header.Set("User-Agent", f.userAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			return true, err
		}
		defer func() { _ = resp.Body.Close() }()

		data, err = robotstxt.FromResponse(resp)
		if err != nil {
			return true, err
		}

		f.mu.Lock()
		f.robots[u.Host] = data
		f.mu.Unlock()
	}

	group := data.FindGroup(f.userAgent)
	if group == nil {
		return true, nil
	}
	return group.Test(u.Path), nil
}
