package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// API and transport errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Domain errors. ErrArtistNotFound and ErrTrackData propagate
	// unchanged through every layer; anything else is wrapped once
	// into the provider's generic sentinel.
	ErrArtistNotFound = fmt.Errorf("artist not found")
	ErrTrackData      = fmt.Errorf("track data error")
	ErrGeniusAPI      = fmt.Errorf("genius API error")
	ErrSpotifyAPI     = fmt.Errorf("spotify API error")
)
