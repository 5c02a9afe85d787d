package spotify

import (
	"context"
	"errors"
	"fmt"

	"github.com/arnauudG/ArtistMusicProject/models"
	"github.com/arnauudG/ArtistMusicProject/paging"
	"github.com/arnauudG/ArtistMusicProject/rawmap"
	"github.com/arnauudG/ArtistMusicProject/shared"
	"github.com/charmbracelet/log"
)

// searchArtist resolves an artist by name and returns the first match.
func searchArtist(ctx context.Context, c *Client, name string) (map[string]any, error) {
	res, err := c.Search(ctx, name, "artist", 10)
	if err != nil {
		return nil, fmt.Errorf("%w: searching artist %q: %v", shared.ErrSpotifyAPI, name, err)
	}

	items, _ := rawmap.ExtractOr(res, nil, "artists", "items").([]any)
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no artist found with the name %q", shared.ErrArtistNotFound, name)
	}

	first, _ := items[0].(map[string]any)
	if first == nil {
		return nil, fmt.Errorf("%w: no artist found with the name %q", shared.ErrArtistNotFound, name)
	}
	return first, nil
}

// BuildArtistData assembles the flat Spotify artist record from a raw
// search result. Related-artist names require one extra provider call.
func BuildArtistData(ctx context.Context, c *Client, raw map[string]any) (map[string]any, error) {
	related := []any{}
	if artistID, ok := rawmap.Get(raw, "id").(string); ok && artistID != "" {
		artists, err := c.RelatedArtists(ctx, artistID)
		if err != nil {
			return nil, fmt.Errorf("%w: fetching related artists: %v", shared.ErrSpotifyAPI, err)
		}
		for _, artist := range artists {
			related = append(related, rawmap.Get(artist, "name"))
		}
	}

	return map[string]any{
		"spotify_artist_id":          rawmap.Get(raw, "id"),
		"spotify_artist_name":        rawmap.Get(raw, "name"),
		"spotify_artist_uri_path":    rawmap.Get(raw, "uri"),
		"spotify_artist_url":         rawmap.Get(raw, "href"),
		"spotify_artist_image_url":   firstImageURL(raw),
		"spotify_artist_n_followers": rawmap.Extract(raw, "followers", "total"),
		"spotify_popularity":         rawmap.Get(raw, "popularity"),
		"spotify_artist_genres":      rawmap.Get(raw, "genres"),
		"spotify_related_artists":    related,
	}, nil
}

// ArtistAlbums retrieves every album and single of an artist across all
// pages, deduplicated by album ID.
func ArtistAlbums(ctx context.Context, c *Client, artistID string) ([]map[string]any, error) {
	first, err := c.ArtistAlbums(ctx, artistID, []string{"album", "single"}, 50)
	if err != nil {
		return nil, err
	}
	return paging.Collect(ctx, first, c.NextPage, "id")
}

// AlbumTracks retrieves every track of an album across all pages,
// deduplicated by track ID.
func AlbumTracks(ctx context.Context, c *Client, albumID string) ([]map[string]any, error) {
	first, err := c.AlbumTracks(ctx, albumID, 50)
	if err != nil {
		return nil, err
	}
	return paging.Collect(ctx, first, c.NextPage, "id")
}

// AllArtistTracks gathers every track of an artist by walking its
// albums, tagging each track with the spotify_album_id it came from.
func AllArtistTracks(ctx context.Context, c *Client, artistID string, logger *log.Logger) ([]map[string]any, error) {
	albums, err := ArtistAlbums(ctx, c, artistID)
	if err != nil {
		return nil, err
	}

	var all []map[string]any
	for i, album := range albums {
		albumID, _ := rawmap.Get(album, "id").(string)
		logger.Debug("fetching album tracks", "album_id", albumID, "album", i+1, "albums", len(albums))

		tracks, err := AlbumTracks(ctx, c, albumID)
		if err != nil {
			return nil, err
		}

		for _, track := range tracks {
			track["spotify_album_id"] = albumID
			all = append(all, track)
		}
	}

	return all, nil
}

// BuildArtistTracks builds one flat record per artist track, enriched
// with the track's audio-feature scalars flattened into the top level.
// Tracks with an unknown ID skip the feature lookup.
func BuildArtistTracks(ctx context.Context, c *Client, artistID string, logger *log.Logger) ([]map[string]any, error) {
	tracks, err := AllArtistTracks(ctx, c, artistID, logger)
	if err != nil {
		return nil, err
	}

	records := make([]map[string]any, 0, len(tracks))
	for i, track := range tracks {
		record := map[string]any{
			"spotify_artist_id":  artistID,
			"spotify_track_id":   rawmap.Get(track, "id"),
			"spotify_track_name": rawmap.Get(track, "name"),
			"spotify_track_uri":  rawmap.Get(track, "uri"),
			"spotify_track_url":  rawmap.Get(track, "href"),
			"track_number":       rawmap.Get(track, "track_number"),
			"spotify_album_id":   rawmap.Get(track, "spotify_album_id"),
		}

		var features map[string]any
		if trackID, ok := rawmap.Get(track, "id").(string); ok && trackID != "" {
			if features, err = c.AudioFeatures(ctx, trackID); err != nil {
				return nil, fmt.Errorf("%w: fetching audio features for %s: %v", shared.ErrSpotifyAPI, trackID, err)
			}
		}

		record["track_audio_features_spotify"] = features
		records = append(records, rawmap.Flatten(record, "track_audio_features_spotify"))

		if (i+1)%50 == 0 {
			logger.Debug("processing tracks", "done", i+1, "total", len(tracks))
		}
	}

	return records, nil
}

// FetchArtistData fetches and normalizes everything Spotify knows about
// an artist: search, build the artist record, walk albums and tracks
// with audio-feature enrichment, return the combined dump.
//
// ErrArtistNotFound propagates unchanged; any other failure is wrapped
// once as ErrSpotifyAPI.
func FetchArtistData(ctx context.Context, c *Client, name string) (*models.ArtistDump, error) {
	logger := shared.WithLogger(c.logger, "fetch_id", shared.GenerateID(), "artist", name)
	logger.Info("fetching artist from spotify")

	raw, err := searchArtist(ctx, c, name)
	if err != nil {
		return nil, wrapSpotify(err)
	}

	data, err := BuildArtistData(ctx, c, raw)
	if err != nil {
		return nil, wrapSpotify(err)
	}

	artistID, ok := data["spotify_artist_id"].(string)
	if !ok || artistID == "" {
		return nil, fmt.Errorf("%w: search result for %q has no artist id", shared.ErrSpotifyAPI, name)
	}

	tracks, err := BuildArtistTracks(ctx, c, artistID, logger)
	if err != nil {
		return nil, wrapSpotify(err)
	}

	logger.Info("spotify fetch complete", "tracks", len(tracks))

	return &models.ArtistDump{
		ArtistData:   data,
		ArtistTracks: tracks,
	}, nil
}

// firstImageURL extracts the URL of the first image in a raw object's
// images list, degrading to the sentinel when the list is absent or
// empty.
func firstImageURL(raw map[string]any) any {
	images, _ := rawmap.GetOr(raw, "images", nil).([]any)
	if len(images) == 0 {
		return rawmap.Unknown
	}

	entry, _ := images[0].(map[string]any)
	return rawmap.Get(entry, "url")
}

// wrapSpotify converts unexpected failures to the provider sentinel
// while letting known domain errors through unchanged.
func wrapSpotify(err error) error {
	if errors.Is(err, shared.ErrArtistNotFound) ||
		errors.Is(err, shared.ErrTrackData) ||
		errors.Is(err, shared.ErrSpotifyAPI) {
		return err
	}
	return fmt.Errorf("%w: %v", shared.ErrSpotifyAPI, err)
}
