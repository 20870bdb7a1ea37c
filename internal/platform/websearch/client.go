package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yungbote/relaybot/internal/pkg/httpx"
	"github.com/yungbote/relaybot/internal/platform/logger"
)

const (
	DefaultBaseURL    = "https://www.google.com/search"
	DefaultUserAgent  = "Mozilla/5.0"
	DefaultSelector   = "div.BNeawe"
	DefaultMaxResults = 3
)

type Config struct {
	BaseURL    string
	UserAgent  string
	Selector   string
	MaxResults int
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client fetches one results page and keeps the text of the first few nodes
// matching Selector. It does not paginate or retry.
type Client struct {
	log        *logger.Logger
	baseURL    string
	userAgent  string
	selector   string
	maxResults int
	httpClient *http.Client
}

func New(log *logger.Logger, cfg Config) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("search base url: %w", err)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Selector == "" {
		cfg.Selector = DefaultSelector
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.HTTPClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		cfg.HTTPClient = &http.Client{Timeout: timeout, Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &Client{
		log:        log.With("client", "WebSearch"),
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		selector:   cfg.Selector,
		maxResults: cfg.MaxResults,
		httpClient: cfg.HTTPClient,
	}, nil
}

// Search returns at most MaxResults snippets in page order. An empty, non-nil
// slice means the page matched nothing. The page is parsed whatever its HTTP
// status; only transport failures are errors.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Rate-limit and captcha pages are parsed like any other page.
		c.log.Warn("Search page returned non-2xx status",
			"status", resp.StatusCode,
			"transient", httpx.IsRetryableHTTPStatus(resp.StatusCode),
		)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("search parse: %w", err)
	}

	snippets := make([]string, 0, c.maxResults)
	doc.Find(c.selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		snippets = append(snippets, s.Text())
		return len(snippets) < c.maxResults
	})
	c.log.Debug("Search page parsed", "query_len", len(query), "snippets", len(snippets))
	return snippets, nil
}
