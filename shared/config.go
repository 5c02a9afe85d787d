package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Client      ClientConfig      `toml:"client"`
}

// CredentialsConfig contains provider-specific credentials.
type CredentialsConfig struct {
	Genius  GeniusConfig  `toml:"genius"`
	Spotify SpotifyConfig `toml:"spotify"`
}

// GeniusConfig contains the Genius API access token.
type GeniusConfig struct {
	AccessToken string `toml:"access_token"`
}

// SpotifyConfig contains Spotify client-credentials settings.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// ClientConfig contains the fixed resilience settings applied once at
// client construction: connection timeout, retry count, inter-retry
// delay and request rate. Retry and backoff strategy beyond these
// settings is out of scope for this library.
type ClientConfig struct {
	TimeoutSeconds int     `toml:"timeout_seconds"`
	Retries        int     `toml:"retries"`
	RetryDelayMS   int     `toml:"retry_delay_ms"`
	RateLimit      float64 `toml:"rate_limit"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ApplyEnv overrides credentials with the GENIUS_API_TOKEN,
// CLIENT_ID_SPOTIFY and CLIENT_SECRET_SPOTIFY environment variables
// when they are set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("GENIUS_API_TOKEN"); v != "" {
		c.Credentials.Genius.AccessToken = v
	}
	if v := os.Getenv("CLIENT_ID_SPOTIFY"); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := os.Getenv("CLIENT_SECRET_SPOTIFY"); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
