package validation

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// SchemaCache fetches and decodes schema documents, memoizing results by
// exact URL so a batch run issues at most one request per distinct schema.
// Failures are cached too: a broken URL is reported for every document that
// references it without being re-fetched. A bounded LRU keeps long-lived
// runs from growing without limit.
type SchemaCache struct {
	client *http.Client

	mu      sync.Mutex
	entries map[string]*cacheEntry
	order   []string // least recently used first
	size    int
}

// cacheEntry coalesces concurrent first requesters: whoever creates the
// entry performs the fetch, everyone else waits on ready.
type cacheEntry struct {
	ready  chan struct{}
	schema map[string]any
	err    error
}

// NewSchemaCache returns a cache holding at most size schemas, fetching with
// the given timeout.
func NewSchemaCache(size int, timeout time.Duration) *SchemaCache {
	if size < 1 {
		size = 1
	}
	return &SchemaCache{
		client:  &http.Client{Timeout: timeout},
		entries: make(map[string]*cacheEntry),
		size:    size,
	}
}

// SetHTTPClient replaces the underlying HTTP client. Tests use this to
// control transport behavior; the replacement must carry its own timeout.
func (c *SchemaCache) SetHTTPClient(client *http.Client) {
	c.client = client
}

// Fetch returns the decoded schema at url, fetching it at most once per
// cache lifetime. Concurrent callers for the same uncached URL share one
// request.
func (c *SchemaCache) Fetch(ctx context.Context, url string) (map[string]any, error) {
	c.mu.Lock()
	if e, ok := c.entries[url]; ok {
		c.touch(url)
		c.mu.Unlock()
		<-e.ready
		return e.schema, e.err
	}
	e := &cacheEntry{ready: make(chan struct{})}
	c.entries[url] = e
	c.insert(url)
	c.mu.Unlock()

	e.schema, e.err = c.fetch(ctx, url)
	close(e.ready)
	return e.schema, e.err
}

// touch moves url to the most recently used position. Linear scan is fine at
// the cache's configured scale.
func (c *SchemaCache) touch(url string) {
	for i, u := range c.order {
		if u == url {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, url)
			return
		}
	}
}

// insert records url as most recently used, evicting the least recently used
// entry once the cache is over capacity.
func (c *SchemaCache) insert(url string) {
	c.order = append(c.order, url)
	if len(c.order) > c.size {
		evicted := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, evicted)
	}
}

func (c *SchemaCache) fetch(ctx context.Context, url string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("schema unavailable at %s: %w", url, err)
	}
	req.Header.Set("User-Agent", "featlist")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("schema unavailable at %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("schema unavailable at %s: unexpected status code: %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("schema unavailable at %s: %w", url, err)
	}

	var schema map[string]any
	if err := yaml.Unmarshal(body, &schema); err != nil {
		return nil, fmt.Errorf("schema unavailable at %s: %w", url, err)
	}
	if schema == nil {
		return nil, fmt.Errorf("schema unavailable at %s: document is empty", url)
	}
	return schema, nil
}
