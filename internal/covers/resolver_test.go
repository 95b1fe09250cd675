package covers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamedex/internal/catalog"
	"gamedex/internal/imagecache"
)

func newTestCache(t *testing.T) *imagecache.Store {
	t.Helper()
	return imagecache.Open(filepath.Join(t.TempDir(), "covers.json"), time.Hour)
}

func TestPlatformKind(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{catalog.SourceSteam, "steam"},
		{catalog.SourceEpic, "egs"},
		{catalog.SourceGOG, "gog"},
		{catalog.SourceAmazon, "egs"},
		{catalog.SourceShortcuts, "steam"}, // unmapped, falls through
		{"something-new", "steam"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.expected, PlatformKind(tt.source))
		})
	}
}

func TestResolver_ServiceResultIsCached(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":1,"url":"https://img/cover.png"}]}`))
	}))
	defer srv.Close()

	grid, err := NewGridClient(srv.URL, "key", nil, nil, time.Second)
	require.NoError(t, err)

	r := NewResolver(newTestCache(t), grid, nil, false)

	url := r.Resolve(context.Background(), "steam", "413150")
	assert.Equal(t, "https://img/cover.png", url)

	// Second resolution is served from cache.
	url = r.Resolve(context.Background(), "steam", "413150")
	assert.Equal(t, "https://img/cover.png", url)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestResolver_NegativeCacheIdempotence(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"errors":["Game not found"]}`))
	}))
	defer srv.Close()

	grid, err := NewGridClient(srv.URL, "key", nil, nil, time.Second)
	require.NoError(t, err)

	r := NewResolver(newTestCache(t), grid, nil, false)

	assert.Empty(t, r.Resolve(context.Background(), "egs", "celeste"))
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// Within the TTL window: zero further network calls.
	assert.Empty(t, r.Resolve(context.Background(), "egs", "celeste"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestResolver_ServiceErrorNotCached(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	grid, err := NewGridClient(srv.URL, "key", nil, nil, time.Second)
	require.NoError(t, err)

	r := NewResolver(newTestCache(t), grid, nil, false)

	assert.Empty(t, r.Resolve(context.Background(), "steam", "1"))
	assert.Empty(t, r.Resolve(context.Background(), "steam", "1"))

	// Both attempts hit the network: failures are never memoized.
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestResolver_CDNFallbackForSteamOnly(t *testing.T) {
	cdnSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer cdnSrv.Close()

	cdn := NewCDNProber(cdnSrv.URL, time.Second)
	r := NewResolver(newTestCache(t), nil, cdn, true)

	// Steam records get the CDN convention when the service is disabled.
	url := r.Resolve(context.Background(), "steam", "440")
	assert.Equal(t, cdnSrv.URL+"/440/header.jpg", url)

	// Non-native platforms never use the convention.
	assert.Empty(t, r.Resolve(context.Background(), "egs", "celeste"))
}

func TestResolver_CDNDisallowedByConfig(t *testing.T) {
	cdn := NewCDNProber("http://127.0.0.1:1", 50*time.Millisecond)
	r := NewResolver(newTestCache(t), nil, cdn, false)

	assert.Empty(t, r.Resolve(context.Background(), "steam", "440"))
}

func TestResolver_VerifiedCDNResultIsCached(t *testing.T) {
	var calls int32
	cdnSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer cdnSrv.Close()

	cdn := NewCDNProber(cdnSrv.URL, time.Second)
	r := NewResolver(newTestCache(t), nil, cdn, true)

	first := r.Resolve(context.Background(), "steam", "440")
	second := r.Resolve(context.Background(), "steam", "440")

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "verified probe result must be cached")
}

func TestResolver_UnverifiedCDNResultNotCached(t *testing.T) {
	cache := newTestCache(t)
	cdn := NewCDNProber("http://127.0.0.1:1", 50*time.Millisecond)
	r := NewResolver(cache, nil, cdn, true)

	url := r.Resolve(context.Background(), "steam", "440")

	assert.Contains(t, url, "/440/header.jpg")
	assert.Equal(t, 0, cache.Len(), "last-resort URL must not be memoized")
}

func TestResolver_EmptyIDShortCircuits(t *testing.T) {
	r := NewResolver(newTestCache(t), nil, nil, true)
	assert.Empty(t, r.Resolve(context.Background(), "steam", ""))
}
