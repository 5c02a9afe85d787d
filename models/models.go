// package models defines the data model for the artist metadata fetchers
package models

// ArtistDump is the combined output of a provider fetch: one flat
// artist record plus the flat records of that artist's tracks.
//
// Records stay map-shaped because the per-provider field sets differ
// and no shared schema is enforced across providers. Persisting or
// serializing a dump is the caller's responsibility; the JSON tags only
// fix the two top-level key names.
type ArtistDump struct {
	ArtistData   map[string]any   `json:"artist_data"`
	ArtistTracks []map[string]any `json:"artist_tracks"`
}
