// Spotify API client for the music-catalog provider.
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arnauudG/ArtistMusicProject/paging"
	"github.com/arnauudG/ArtistMusicProject/rawmap"
	"github.com/arnauudG/ArtistMusicProject/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// errStatusNotFound marks a 404 from the API so callers that tolerate
// missing resources (audio features) can distinguish it.
var errStatusNotFound = fmt.Errorf("resource not found")

// Client is a Spotify Web API client authenticated with the
// client-credentials flow. The [clientcredentials.Config] transport
// fetches and refreshes the app token transparently; timeout, retry
// count, inter-retry delay and request rate are fixed at construction.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	retries    int
	retryDelay time.Duration
	logger     *log.Logger
}

// NewClient creates a Spotify client from the credentials and client
// sections of cfg. Credentials are validated for presence only; use
// [Client.Verify] to confirm they are accepted by the token endpoint.
func NewClient(cfg *shared.Config, logger *log.Logger) (*Client, error) {
	if cfg == nil {
		return nil, shared.ErrMissingConfig
	}
	if cfg.Credentials.Spotify.ClientID == "" || cfg.Credentials.Spotify.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client id/secret not set (CLIENT_ID_SPOTIFY, CLIENT_SECRET_SPOTIFY)", shared.ErrMissingCredentials)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	conf := &clientcredentials.Config{
		ClientID:     cfg.Credentials.Spotify.ClientID,
		ClientSecret: cfg.Credentials.Spotify.ClientSecret,
		TokenURL:     spotifyTokenURL,
	}

	timeout := time.Duration(cfg.Client.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := conf.Client(context.Background())
	httpClient.Timeout = timeout

	limit := rate.Limit(cfg.Client.RateLimit)
	if limit <= 0 {
		limit = rate.Inf
	}

	retryDelay := time.Duration(cfg.Client.RetryDelayMS) * time.Millisecond
	if retryDelay <= 0 {
		retryDelay = 500 * time.Millisecond
	}

	return &Client{
		baseURL:    spotifyBaseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		retries:    cfg.Client.Retries,
		retryDelay: retryDelay,
		logger:     logger,
	}, nil
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "Spotify"
}

// Verify issues a probe search to confirm the credentials are accepted.
func (c *Client) Verify(ctx context.Context) error {
	if _, err := c.Search(ctx, "test", "artist", 1); err != nil {
		return fmt.Errorf("%w: connection check: %v", shared.ErrInvalidCredentials, err)
	}
	c.logger.Info("spotify connection verified")
	return nil
}

// doRequest performs an authenticated GET and decodes the JSON response
// into a raw mapping. endpoint is either an API path or an absolute URL
// (pagination next links are absolute). Transport failures and 429/5xx
// responses are retried up to the configured count with a fixed delay.
func (c *Client) doRequest(ctx context.Context, endpoint string) (map[string]any, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying spotify request", "endpoint", endpoint, "attempt", attempt)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		result, retryable, err := c.do(ctx, endpoint)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, lastErr
}

func (c *Client) do(ctx context.Context, endpoint string) (map[string]any, bool, error) {
	apiURL := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		apiURL = c.baseURL + endpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, fmt.Errorf("%w: %s", errStatusNotFound, apiURL)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, false, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, false, fmt.Errorf("failed to decode response: %w", err)
	}

	return result, false, nil
}

// Search performs a catalog search and returns the raw response.
func (c *Client) Search(ctx context.Context, query, typ string, limit int) (map[string]any, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	endpoint := fmt.Sprintf("/search?q=%s&type=%s&limit=%d", url.QueryEscape(query), typ, limit)
	return c.doRequest(ctx, endpoint)
}

// ArtistAlbums retrieves the first page of an artist's albums for the
// given include groups ("album", "single", ...).
func (c *Client) ArtistAlbums(ctx context.Context, artistID string, groups []string, pageSize int) (*paging.Page, error) {
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 50
	}

	endpoint := fmt.Sprintf("/artists/%s/albums?include_groups=%s&limit=%d",
		artistID, url.QueryEscape(strings.Join(groups, ",")), pageSize)

	raw, err := c.doRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return pageFromRaw(raw), nil
}

// AlbumTracks retrieves the first page of an album's tracks.
func (c *Client) AlbumTracks(ctx context.Context, albumID string, pageSize int) (*paging.Page, error) {
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 50
	}

	endpoint := fmt.Sprintf("/albums/%s/tracks?limit=%d", albumID, pageSize)

	raw, err := c.doRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return pageFromRaw(raw), nil
}

// NextPage follows a page's next link. Returns (nil, nil) on the last
// page, which ends a [paging.Collect] traversal.
func (c *Client) NextPage(ctx context.Context, p *paging.Page) (*paging.Page, error) {
	if p == nil || p.Next == "" {
		return nil, nil
	}

	raw, err := c.doRequest(ctx, p.Next)
	if err != nil {
		return nil, err
	}
	return pageFromRaw(raw), nil
}

// AudioFeatures retrieves the audio-feature analysis for a track.
// Returns (nil, nil) when the API has no features for the track.
func (c *Client) AudioFeatures(ctx context.Context, trackID string) (map[string]any, error) {
	raw, err := c.doRequest(ctx, fmt.Sprintf("/audio-features/%s", trackID))
	if err != nil {
		if errors.Is(err, errStatusNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return raw, nil
}

// RelatedArtists retrieves the artists related to the given artist.
func (c *Client) RelatedArtists(ctx context.Context, artistID string) ([]map[string]any, error) {
	raw, err := c.doRequest(ctx, fmt.Sprintf("/artists/%s/related-artists", artistID))
	if err != nil {
		return nil, err
	}

	items, _ := rawmap.GetOr(raw, "artists", nil).([]any)
	artists := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if entry, ok := item.(map[string]any); ok {
			artists = append(artists, entry)
		}
	}
	return artists, nil
}

// pageFromRaw converts a raw paging object ({"items": [...], "next":
// url-or-null}) into a [paging.Page].
func pageFromRaw(raw map[string]any) *paging.Page {
	items, _ := rawmap.GetOr(raw, "items", nil).([]any)

	page := &paging.Page{Items: make([]map[string]any, 0, len(items))}
	for _, item := range items {
		if entry, ok := item.(map[string]any); ok {
			page.Items = append(page.Items, entry)
		}
	}

	if next, ok := rawmap.Get(raw, "next").(string); ok {
		page.Next = next
	}
	return page
}
