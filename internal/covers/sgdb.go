package covers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoGrids is returned when the service responds definitively that no
// image exists for the requested game. Callers cache this as a negative
// result; any other error means "unknown" and must not be cached.
var ErrNoGrids = errors.New("no grids found")

// GridClient queries the SteamGridDB API for cover images.
type GridClient struct {
	baseURL string
	apiKey  string
	styles  []string
	types   []string
	client  *http.Client
}

// NewGridClient creates a client for the given service endpoint.
// The API key is required; styles and types narrow the result set.
func NewGridClient(baseURL, apiKey string, styles, types []string, timeout time.Duration) (*GridClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("SteamGridDB API key is required")
	}
	if baseURL == "" {
		baseURL = "https://www.steamgriddb.com/api/v2"
	}

	return &GridClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		styles:  styles,
		types:   types,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// gridResponse is the service's JSON envelope.
type gridResponse struct {
	Success bool `json:"success"`
	Data    []struct {
		ID    int64  `json:"id"`
		URL   string `json:"url"`
		Thumb string `json:"thumb"`
		Style string `json:"style"`
	} `json:"data"`
	Errors []string `json:"errors"`
}

// FirstGrid returns the URL of the best grid image for a game, addressed
// by the service's platform vocabulary and the origin-specific id.
// Returns ErrNoGrids when the service confirms there is nothing.
func (c *GridClient) FirstGrid(ctx context.Context, platform, id string) (string, error) {
	endpoint := fmt.Sprintf("%s/grids/%s/%s", c.baseURL, url.PathEscape(platform), url.PathEscape(id))

	query := url.Values{}
	if len(c.styles) > 0 {
		query.Set("styles", strings.Join(c.styles, ","))
	}
	if len(c.types) > 0 {
		query.Set("types", strings.Join(c.types, ","))
	}
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	// The service answers 404 for unknown games.
	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNoGrids
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var result gridResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	// success:false with a populated errors field is a request problem
	// (bad key, rate limit), not a confirmed absence.
	if !result.Success && len(result.Errors) > 0 {
		return "", fmt.Errorf("service error: %s", strings.Join(result.Errors, "; "))
	}
	if !result.Success || len(result.Data) == 0 {
		return "", ErrNoGrids
	}

	return result.Data[0].URL, nil
}
