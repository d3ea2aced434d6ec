package programs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"crm-leads/internal/cache"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/singleflight"
)

const (
	catalogPath     = "/api/programs"
	catalogCacheKey = "programs:catalog"
)

var ErrEmptyCatalog = errors.New("program catalog is empty")

// Client reads the live program catalog and falls back to the fixed set.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
	cache      cache.Cache
	ttl        time.Duration
	// loadTimeout bounds one shared catalog load, retries included.
	loadTimeout time.Duration
	log         *slog.Logger
	group       singleflight.Group
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient.HTTPClient = hc
	}
}

func WithRetry(max int, waitMin, waitMax time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.RetryMax = max
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

func WithCache(store cache.Cache, ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.cache = store
		c.ttl = ttl
	}
}

func WithLoadTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.loadTimeout = d
		}
	}
}

func NewClient(baseURL string, log *slog.Logger, opts ...ClientOption) *Client {
	if log == nil {
		log = slog.Default()
	}
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	rc.Logger = log

	c := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		httpClient:  rc,
		cache:       cache.NewNoop(),
		ttl:         5 * time.Minute,
		loadTimeout: 15 * time.Second,
		log:         log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Catalog never fails: cached copy first, then the live endpoint, then the fallback set.
// Concurrent callers share one load, which is detached from any single caller's
// cancellation and bounded by its own timeout.
func (c *Client) Catalog(ctx context.Context) *Catalog {
	v, _, _ := c.group.Do(catalogCacheKey, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()
		return c.load(loadCtx), nil
	})
	return v.(*Catalog)
}

func (c *Client) load(ctx context.Context) *Catalog {
	var cached []Program
	if ok, err := cache.GetJSON(ctx, c.cache, catalogCacheKey, &cached); err != nil {
		c.log.Warn("programs catalog: cache read failed", slog.String("error", err.Error()))
	} else if ok && len(cached) > 0 {
		return NewCatalog(cached)
	}

	items, err := c.Fetch(ctx)
	if err != nil {
		c.log.Warn("programs catalog: using fallback", slog.String("error", err.Error()))
		return Fallback()
	}

	if err := cache.SetJSON(ctx, c.cache, catalogCacheKey, items, c.ttl); err != nil {
		c.log.Warn("programs catalog: cache write failed", slog.String("error", err.Error()))
	}
	c.log.Info("programs catalog: loaded", slog.Int("count", len(items)))
	return NewCatalog(items)
}

// Fetch calls GET /api/programs on the CRM backend.
func (c *Client) Fetch(ctx context.Context) ([]Program, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+catalogPath, nil)
	if err != nil {
		return nil, fmt.Errorf("programs create request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("programs request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("programs read body: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("programs fetch failed: status=%d body=%s", resp.StatusCode, excerpt(body))
	}

	items, err := decodeCatalog(body)
	if err != nil {
		return nil, fmt.Errorf("programs decode response: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}
	return items, nil
}

// Invalidate drops the cached catalog so the next read goes to the backend.
func (c *Client) Invalidate(ctx context.Context) error {
	return c.cache.Delete(ctx, catalogCacheKey)
}

// The backend answers either with a bare array or with its usual envelope.
func decodeCatalog(body []byte) ([]Program, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var items []Program
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var env struct {
		Success *bool     `json:"success"`
		Object  []Program `json:"object"`
		Error   string    `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	if env.Success != nil && !*env.Success {
		if env.Error == "" {
			env.Error = "backend reported failure"
		}
		return nil, errors.New(env.Error)
	}
	return env.Object, nil
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 256 {
		s = s[:256]
	}
	return s
}
