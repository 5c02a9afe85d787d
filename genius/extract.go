package genius

import (
	"context"
	"errors"
	"fmt"

	"github.com/arnauudG/ArtistMusicProject/models"
	"github.com/arnauudG/ArtistMusicProject/rawmap"
	"github.com/arnauudG/ArtistMusicProject/shared"
)

// searchArtist resolves an artist by name and enforces the exact-match
// rule: the returned artist name must equal the query name.
func searchArtist(ctx context.Context, c *Client, name string, maxSongs int) (map[string]any, error) {
	raw, err := c.SearchArtist(ctx, name, maxSongs)
	if err != nil {
		if errors.Is(err, shared.ErrArtistNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: fetching artist %q: %v", shared.ErrGeniusAPI, name, err)
	}

	if got, _ := rawmap.Get(raw, "name").(string); got != name {
		return nil, fmt.Errorf("%w: %q not found on Genius", shared.ErrArtistNotFound, name)
	}

	return raw, nil
}

// BuildArtistData assembles the flat Genius artist record from a raw
// artist response, including the built track records under
// "genius_tracks". Field extraction goes through rawmap exclusively so
// missing upstream fields degrade to the sentinel instead of failing.
func BuildArtistData(raw map[string]any) (_ map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: building artist record: %v", shared.ErrTrackData, r)
		}
	}()

	songs, ok := rawmap.GetOr(raw, "songs", []any{}).([]any)
	if !ok {
		return nil, fmt.Errorf("%w: songs field is not a list", shared.ErrTrackData)
	}

	tracks := make([]map[string]any, 0, len(songs))
	for _, song := range songs {
		entry, ok := song.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: song entry is %T, expected object", shared.ErrTrackData, song)
		}

		track, err := BuildArtistTrack(entry)
		if err != nil {
			return nil, err
		}
		if track != nil {
			tracks = append(tracks, track)
		}
	}

	return map[string]any{
		"genius_artist_id":          rawmap.Get(raw, "id"),
		"genius_artist_name":        rawmap.Get(raw, "name"),
		"genius_alternate_names":    rawmap.GetOr(raw, "alternate_names", []any{}),
		"genius_artist_api_path":    rawmap.Get(raw, "api_path"),
		"genius_artist_url":         rawmap.Get(raw, "url"),
		"genius_artist_image_url":   rawmap.Get(raw, "image_url"),
		"genius_artist_description": rawmap.Extract(raw, "description", "plain"),
		"genius_twitter_name":       rawmap.Get(raw, "twitter_name"),
		"genius_facebook_name":      rawmap.Get(raw, "facebook_name"),
		"genius_instagram_name":     rawmap.Get(raw, "instagram_name"),
		"genius_is_verified":        rawmap.Get(raw, "is_verified"),
		"genius_tracks":             tracks,
	}, nil
}

// BuildArtistTrack assembles one flat track record from a raw Genius
// song object. Empty raw input yields a nil record, which callers skip.
//
// primary_artist is the name of the first listed primary artist (via
// nested path extraction); primary_artists lists the names of all
// primary artists except those equal to primary_artist.
func BuildArtistTrack(raw map[string]any) (_ map[string]any, err error) {
	if len(raw) == 0 {
		return nil, nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: building track record: %v", shared.ErrTrackData, r)
		}
	}()

	primary := rawmap.Extract(raw, "primary_artist", "name")

	primaryList, ok := rawmap.GetOr(raw, "primary_artists", []any{}).([]any)
	if !ok {
		return nil, fmt.Errorf("%w: primary_artists field is not a list", shared.ErrTrackData)
	}

	secondary := make([]any, 0, len(primaryList))
	for _, artist := range primaryList {
		entry, _ := artist.(map[string]any)
		if name := rawmap.Get(entry, "name"); name != primary {
			secondary = append(secondary, name)
		}
	}

	return map[string]any{
		"genius_track_id":           rawmap.Get(raw, "id"),
		"genius_title":              rawmap.Get(raw, "title"),
		"genius_release_date":       rawmap.Get(raw, "release_date"),
		"genius_album":              rawmap.Get(raw, "album"),
		"genius_track_api_path":     rawmap.Get(raw, "api_path"),
		"genius_pageviews":          rawmap.Extract(raw, "stats", "pageviews"),
		"genius_track_url":          rawmap.Get(raw, "url"),
		"genius_track_image_url":    rawmap.Get(raw, "song_art_image_url"),
		"genius_track_language":     rawmap.Get(raw, "language"),
		"genius_track_description":  rawmap.Extract(raw, "description", "plain"),
		"genius_lyrics":             rawmap.Get(raw, "lyrics"),
		"genius_lyrics_is_complete": rawmap.Get(raw, "lyrics_state"),
		"primary_artist":            primary,
		"primary_artists":           secondary,
		"genius_featured_artists":   rawmap.GetOr(raw, "featured_artists", []any{}),
	}, nil
}

// FetchArtistData fetches and normalizes everything Genius knows about
// an artist: search (exact-name match), build the artist record, build
// the track records, return the combined dump. maxSongs defaults to 10.
//
// ErrArtistNotFound and ErrTrackData propagate unchanged; any other
// failure is wrapped once as ErrGeniusAPI.
func FetchArtistData(ctx context.Context, c *Client, name string, maxSongs int) (*models.ArtistDump, error) {
	if maxSongs <= 0 {
		maxSongs = 10
	}

	logger := shared.WithLogger(c.logger, "fetch_id", shared.GenerateID(), "artist", name)
	logger.Info("fetching artist from genius", "max_songs", maxSongs)

	raw, err := searchArtist(ctx, c, name, maxSongs)
	if err != nil {
		return nil, wrapGenius(err)
	}

	data, err := BuildArtistData(raw)
	if err != nil {
		return nil, wrapGenius(err)
	}

	tracks, _ := data["genius_tracks"].([]map[string]any)
	delete(data, "genius_tracks")

	logger.Info("genius fetch complete", "tracks", len(tracks))

	return &models.ArtistDump{
		ArtistData:   data,
		ArtistTracks: tracks,
	}, nil
}

// wrapGenius converts unexpected failures to the provider sentinel
// while letting known domain errors through unchanged.
func wrapGenius(err error) error {
	if errors.Is(err, shared.ErrArtistNotFound) ||
		errors.Is(err, shared.ErrTrackData) ||
		errors.Is(err, shared.ErrGeniusAPI) {
		return err
	}
	return fmt.Errorf("%w: %v", shared.ErrGeniusAPI, err)
}
