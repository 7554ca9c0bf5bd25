package letterboxd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"reeldiary/internal/services"
)

const (
	defaultBaseURL     = "https://letterboxd.com"
	defaultUserAgent   = "reeldiary/dev"
	defaultHTTPTimeout = 30 * time.Second
	maxPageBytes       = 8 << 20
)

// Config describes the scraper configuration.
type Config struct {
	BaseURL         string
	UserAgent       string
	RequestInterval time.Duration
	Timeout         time.Duration
	HTTPClient      *http.Client
}

// Client fetches Letterboxd pages.
type Client struct {
	baseURL   *url.URL
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

// DiaryEntry is one row of a monthly diary page.
type DiaryEntry struct {
	Slug  string
	Title string
	Year  string
	// Day is the day of month, or 0 when the page omits it.
	Day int
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("letterboxd: parse base url: %w", err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("letterboxd: base url must be http(s), got %q", base)
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	limit := rate.Inf
	if cfg.RequestInterval > 0 {
		limit = rate.Every(cfg.RequestInterval)
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		http:      client,
		limiter:   rate.NewLimiter(limit, 1),
	}, nil
}

// MonthURL returns the diary page for a member and month.
func (c *Client) MonthURL(username string, year int, month time.Month) string {
	return c.resolve(fmt.Sprintf("/%s/films/diary/for/%04d/%02d/", url.PathEscape(username), year, int(month)))
}

// PosterURL returns the poster endpoint for a film slug.
func (c *Client) PosterURL(slug string) string {
	return c.resolve(fmt.Sprintf("/ajax/poster/film/%s/std/500x750/", url.PathEscape(slug)))
}

// DiaryMonth fetches a member's diary page for one month and returns its
// rows in page order.
func (c *Client) DiaryMonth(ctx context.Context, username string, year int, month time.Month) ([]DiaryEntry, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, services.Wrap(services.ErrConfiguration, "letterboxd", "diary month", "username is required", nil)
	}
	if month < time.January || month > time.December {
		return nil, services.Wrap(services.ErrValidation, "letterboxd", "diary month", fmt.Sprintf("invalid month %d", month), nil)
	}
	doc, err := c.fetch(ctx, c.MonthURL(username, year, month))
	if err != nil {
		return nil, err
	}
	return parseDiaryPage(doc), nil
}

// Poster returns the poster image URL for a film slug.
func (c *Client) Poster(ctx context.Context, slug string) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", services.Wrap(services.ErrLookup, "letterboxd", "poster", "empty film slug", nil)
	}
	doc, err := c.fetch(ctx, c.PosterURL(slug))
	if err != nil {
		return "", err
	}
	src := parsePosterSource(doc)
	if src == "" {
		return "", services.Wrap(services.ErrLookup, "letterboxd", "poster", fmt.Sprintf("no poster image for %q", slug), nil)
	}
	return c.resolve(src), nil
}

func (c *Client) fetch(ctx context.Context, target string) (*html.Node, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("letterboxd: wait for request slot: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("letterboxd: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	requestStart := time.Now()
	resp, err := c.http.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, services.Wrap(services.ErrFetch, "letterboxd", "request", fmt.Sprintf("GET %s (latency=%v)", target, latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, services.Wrap(services.ErrFetch, "letterboxd", "request", fmt.Sprintf("GET %s returned %d (latency=%v)", target, resp.StatusCode, latency), nil)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, services.Wrap(services.ErrFetch, "letterboxd", "parse page", target, err)
	}
	return doc, nil
}

func (c *Client) resolve(ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if parsed.IsAbs() {
		return parsed.String()
	}
	if strings.HasPrefix(ref, "/") && !strings.HasPrefix(ref, "//") {
		joined := *c.baseURL
		joined.Path = strings.TrimRight(c.baseURL.Path, "/") + parsed.Path
		joined.RawPath = ""
		joined.RawQuery = parsed.RawQuery
		return joined.String()
	}
	return c.baseURL.ResolveReference(parsed).String()
}
