package covers

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// DefaultCDNBase is the conventional Steam asset host.
const DefaultCDNBase = "https://cdn.cloudflare.steamstatic.com/steam/apps"

// cdnPatterns is the fixed probe order: banner, portrait, capsule, hero.
var cdnPatterns = []string{
	"header.jpg",
	"library_600x900.jpg",
	"capsule_616x353.jpg",
	"hero_capsule.jpg",
}

// CDNProber checks the conventional per-app asset URLs on the Steam CDN.
// Probes are HEAD requests with a short timeout; no payload is fetched.
type CDNProber struct {
	baseURL string
	client  *http.Client
}

// NewCDNProber creates a prober against baseURL (DefaultCDNBase when "").
func NewCDNProber(baseURL string, timeout time.Duration) *CDNProber {
	if baseURL == "" {
		baseURL = DefaultCDNBase
	}
	return &CDNProber{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Probe tries each conventional pattern in order and returns the first
// URL that answers successfully, with verified=true. When no probe
// succeeds the first pattern is returned unvalidated as a last resort,
// with verified=false.
func (p *CDNProber) Probe(ctx context.Context, appID string) (string, bool) {
	for _, pattern := range cdnPatterns {
		candidate := fmt.Sprintf("%s/%s/%s", p.baseURL, appID, pattern)
		if p.exists(ctx, candidate) {
			return candidate, true
		}
	}

	return fmt.Sprintf("%s/%s/%s", p.baseURL, appID, cdnPatterns[0]), false
}

func (p *CDNProber) exists(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}
