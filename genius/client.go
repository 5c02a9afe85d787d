// Genius API client for the lyrics/metadata provider.
//
// Response shapes based on https://docs.genius.com/
package genius

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arnauudG/ArtistMusicProject/rawmap"
	"github.com/arnauudG/ArtistMusicProject/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.genius.com"

// Client is an authenticated Genius API client. Timeout, retry count,
// inter-retry delay and request rate are fixed at construction; no
// token refresh is performed (Genius access tokens do not expire).
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	retries    int
	retryDelay time.Duration
	logger     *log.Logger
}

// NewClient creates a Genius client from the credentials and client
// sections of cfg. The access token is validated for presence only;
// use [Client.Verify] to confirm it is accepted by the API.
func NewClient(cfg *shared.Config, logger *log.Logger) (*Client, error) {
	if cfg == nil {
		return nil, shared.ErrMissingConfig
	}
	if cfg.Credentials.Genius.AccessToken == "" {
		return nil, fmt.Errorf("%w: genius access token not set (GENIUS_API_TOKEN)", shared.ErrMissingCredentials)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	timeout := time.Duration(cfg.Client.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limit := rate.Limit(cfg.Client.RateLimit)
	if limit <= 0 {
		limit = rate.Inf
	}

	retryDelay := time.Duration(cfg.Client.RetryDelayMS) * time.Millisecond
	if retryDelay <= 0 {
		retryDelay = 500 * time.Millisecond
	}

	return &Client{
		baseURL:    defaultBaseURL,
		token:      cfg.Credentials.Genius.AccessToken,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		retries:    cfg.Client.Retries,
		retryDelay: retryDelay,
		logger:     logger,
	}, nil
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "Genius"
}

// Verify issues a probe search to confirm the access token is valid.
func (c *Client) Verify(ctx context.Context) error {
	if _, err := c.Search(ctx, "test"); err != nil {
		return fmt.Errorf("%w: connection check: %v", shared.ErrInvalidCredentials, err)
	}
	c.logger.Info("genius connection verified")
	return nil
}

// doRequest performs an authenticated GET against the Genius API and
// decodes the JSON envelope into a raw mapping. Transport failures and
// 429/5xx responses are retried up to the configured count with a fixed
// delay between attempts.
func (c *Client) doRequest(ctx context.Context, endpoint string) (map[string]any, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying genius request", "endpoint", endpoint, "attempt", attempt)
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
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, false, fmt.Errorf("failed to decode response: %w", err)
	}

	return result, false, nil
}

// Search performs a song search and returns the response section of the
// envelope ({"hits": [...]}).
func (c *Client) Search(ctx context.Context, query string) (map[string]any, error) {
	endpoint := fmt.Sprintf("/search?q=%s", url.QueryEscape(query))

	res, err := c.doRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	response, _ := rawmap.Get(res, "response").(map[string]any)
	return response, nil
}

// Artist retrieves the full artist object by ID.
func (c *Client) Artist(ctx context.Context, artistID int) (map[string]any, error) {
	endpoint := fmt.Sprintf("/artists/%d?text_format=plain", artistID)

	res, err := c.doRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	artist, _ := rawmap.Extract(res, "response", "artist").(map[string]any)
	return artist, nil
}

// ArtistSongs retrieves one page of an artist's songs. The response
// carries a numeric next_page marker (null on the last page).
func (c *Client) ArtistSongs(ctx context.Context, artistID, page, perPage int) (map[string]any, error) {
	endpoint := fmt.Sprintf("/artists/%d/songs?sort=popularity&page=%d&per_page=%d", artistID, page, perPage)
	res, err := c.doRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	response, _ := rawmap.Get(res, "response").(map[string]any)
	return response, nil
}

// Song retrieves the full song object by ID, including stats, album and
// description fields the per-artist song listing omits.
func (c *Client) Song(ctx context.Context, songID int) (map[string]any, error) {
	endpoint := fmt.Sprintf("/songs/%d?text_format=plain", songID)

	res, err := c.doRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	song, _ := rawmap.Extract(res, "response", "song").(map[string]any)
	return song, nil
}

// SearchArtist searches for an artist by name and assembles the
// artist-like raw mapping the extract layer consumes: the full artist
// object with up to maxSongs full song objects attached under "songs".
//
// The search hit whose primary artist matches name (case-insensitively)
// wins; without a match the first hit's primary artist is used, leaving
// the exact-match check to the caller.
func (c *Client) SearchArtist(ctx context.Context, name string, maxSongs int) (map[string]any, error) {
	response, err := c.Search(ctx, name)
	if err != nil {
		return nil, err
	}

	hits, _ := rawmap.GetOr(response, "hits", nil).([]any)
	if len(hits) == 0 {
		return nil, fmt.Errorf("%w: no search results for %q", shared.ErrArtistNotFound, name)
	}

	artistID, ok := pickArtistID(hits, name)
	if !ok {
		return nil, fmt.Errorf("%w: no artist in search results for %q", shared.ErrArtistNotFound, name)
	}

	artist, err := c.Artist(ctx, artistID)
	if err != nil {
		return nil, err
	}
	if artist == nil {
		return nil, fmt.Errorf("%w: artist %d", shared.ErrArtistNotFound, artistID)
	}

	songs, err := c.collectSongs(ctx, artistID, maxSongs)
	if err != nil {
		return nil, err
	}

	artist["songs"] = songs
	return artist, nil
}

// collectSongs accumulates full song objects across the numeric
// next_page marker until maxSongs are gathered or the marker is absent.
func (c *Client) collectSongs(ctx context.Context, artistID, maxSongs int) ([]any, error) {
	songs := make([]any, 0, maxSongs)
	page := 1

	for page > 0 && len(songs) < maxSongs {
		response, err := c.ArtistSongs(ctx, artistID, page, min(maxSongs-len(songs), 50))
		if err != nil {
			return nil, err
		}

		items, _ := rawmap.GetOr(response, "songs", nil).([]any)
		for _, item := range items {
			if len(songs) >= maxSongs {
				break
			}

			entry, _ := item.(map[string]any)
			songID, ok := numericID(rawmap.Get(entry, "id"))
			if !ok {
				songs = append(songs, item)
				continue
			}

			full, err := c.Song(ctx, songID)
			if err != nil {
				return nil, err
			}
			songs = append(songs, full)
		}

		next, ok := numericID(rawmap.Get(response, "next_page"))
		if !ok {
			break
		}
		page = next
	}

	return songs, nil
}

// pickArtistID scans search hits for a primary artist whose name
// matches, falling back to the first hit.
func pickArtistID(hits []any, name string) (int, bool) {
	var fallback int
	var haveFallback bool

	for _, hit := range hits {
		entry, _ := hit.(map[string]any)
		artist, _ := rawmap.Extract(entry, "result", "primary_artist").(map[string]any)

		id, ok := numericID(rawmap.Get(artist, "id"))
		if !ok {
			continue
		}
		if !haveFallback {
			fallback, haveFallback = id, true
		}

		if hitName, _ := rawmap.Get(artist, "name").(string); strings.EqualFold(hitName, name) {
			return id, true
		}
	}

	return fallback, haveFallback
}

// numericID converts the number types encoding/json may produce for an
// identifier field.
func numericID(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	default:
		return 0, false
	}
}
