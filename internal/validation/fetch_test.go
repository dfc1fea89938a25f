package validation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalSchema = "type: object\nadditionalProperties: false\n"

func TestSchemaCache_MemoizesFetches(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "featlist", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(minimalSchema))
	}))
	defer server.Close()

	cache := NewSchemaCache(16, 5*time.Second)
	ctx := context.Background()

	first, err := cache.Fetch(ctx, server.URL+"/tool-schema.yaml")
	require.NoError(t, err)
	assert.Equal(t, "object", first["type"])

	second, err := cache.Fetch(ctx, server.URL+"/tool-schema.yaml")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, int32(1), requests.Load(), "same URL must be fetched once")
}

func TestSchemaCache_FetchFailures(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		handler http.HandlerFunc
		wantMsg string
	}{
		"status failure": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantMsg: "unexpected status code: 500",
		},
		"not found": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			wantMsg: "unexpected status code: 404",
		},
		"decode failure": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("just a plain sentence, not a schema"))
			},
			wantMsg: "schema unavailable",
		},
		"empty body": {
			handler: func(w http.ResponseWriter, r *http.Request) {},
			wantMsg: "document is empty",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(tt.handler)
			defer server.Close()

			cache := NewSchemaCache(16, 5*time.Second)
			_, err := cache.Fetch(context.Background(), server.URL)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "schema unavailable")
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Contains(t, err.Error(), server.URL, "error must name the URL")
		})
	}
}

func TestSchemaCache_CachesFailures(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cache := NewSchemaCache(16, 5*time.Second)
	ctx := context.Background()

	_, err := cache.Fetch(ctx, server.URL)
	require.Error(t, err)
	_, err = cache.Fetch(ctx, server.URL)
	require.Error(t, err)

	assert.Equal(t, int32(1), requests.Load(), "failures must be cached, never retried")
}

func TestSchemaCache_Timeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(minimalSchema))
	}))
	defer server.Close()

	cache := NewSchemaCache(16, 20*time.Millisecond)
	_, err := cache.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema unavailable")
}

func TestSchemaCache_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	requests := map[string]int{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests[r.URL.Path]++
		mu.Unlock()
		_, _ = w.Write([]byte(minimalSchema))
	}))
	defer server.Close()

	cache := NewSchemaCache(2, 5*time.Second)
	ctx := context.Background()
	fetch := func(path string) {
		_, err := cache.Fetch(ctx, server.URL+path)
		require.NoError(t, err)
	}

	fetch("/a") // cache: a
	fetch("/b") // cache: a b
	fetch("/a") // cache: b a (a touched)
	fetch("/c") // cache: a c (b evicted)
	fetch("/a") // still cached
	fetch("/b") // re-fetched

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, requests["/a"], "touched entry must survive eviction")
	assert.Equal(t, 2, requests["/b"], "evicted entry must be fetched again")
	assert.Equal(t, 1, requests["/c"])
}

func TestSchemaCache_CoalescesConcurrentFetches(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		time.Sleep(50 * time.Millisecond)
		_, _ = w.Write([]byte(minimalSchema))
	}))
	defer server.Close()

	cache := NewSchemaCache(16, 5*time.Second)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			schema, err := cache.Fetch(ctx, server.URL)
			assert.NoError(t, err)
			assert.Equal(t, "object", schema["type"])
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), requests.Load(), "concurrent requesters must share one fetch")
}

func TestSchemaCache_SetHTTPClient(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(minimalSchema))
	}))
	defer server.Close()

	cache := NewSchemaCache(16, time.Nanosecond)
	cache.SetHTTPClient(&http.Client{Timeout: 5 * time.Second})

	_, err := cache.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
}
