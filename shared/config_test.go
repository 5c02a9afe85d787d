package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Valid File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[credentials.genius]
access_token = "gtoken"

[credentials.spotify]
client_id = "cid"
client_secret = "csecret"

[client]
timeout_seconds = 7
retries = 2
retry_delay_ms = 250
rate_limit = 3.5
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if cfg.Credentials.Genius.AccessToken != "gtoken" {
			t.Errorf("expected genius token, got %s", cfg.Credentials.Genius.AccessToken)
		}
		if cfg.Credentials.Spotify.ClientID != "cid" || cfg.Credentials.Spotify.ClientSecret != "csecret" {
			t.Error("expected spotify credentials to be parsed")
		}
		if cfg.Client.TimeoutSeconds != 7 || cfg.Client.Retries != 2 {
			t.Error("expected client settings to be parsed")
		}
		if cfg.Client.RateLimit != 3.5 {
			t.Errorf("expected rate limit 3.5, got %v", cfg.Client.RateLimit)
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("Invalid TOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("not [valid"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Client.TimeoutSeconds != 10 {
		t.Errorf("expected default timeout 10, got %d", cfg.Client.TimeoutSeconds)
	}
	if cfg.Client.Retries != 5 {
		t.Errorf("expected default retries 5, got %d", cfg.Client.Retries)
	}
	if cfg.Client.RetryDelayMS != 500 {
		t.Errorf("expected default retry delay 500, got %d", cfg.Client.RetryDelayMS)
	}
	if cfg.Credentials.Genius.AccessToken != "" {
		t.Error("default config must not carry credentials")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Run("Overrides From Environment", func(t *testing.T) {
		t.Setenv("GENIUS_API_TOKEN", "env-token")
		t.Setenv("CLIENT_ID_SPOTIFY", "env-id")
		t.Setenv("CLIENT_SECRET_SPOTIFY", "env-secret")

		cfg := DefaultConfig()
		cfg.ApplyEnv()

		if cfg.Credentials.Genius.AccessToken != "env-token" {
			t.Errorf("expected env token, got %s", cfg.Credentials.Genius.AccessToken)
		}
		if cfg.Credentials.Spotify.ClientID != "env-id" || cfg.Credentials.Spotify.ClientSecret != "env-secret" {
			t.Error("expected spotify credentials from environment")
		}
	})

	t.Run("Keeps File Values When Unset", func(t *testing.T) {
		t.Setenv("GENIUS_API_TOKEN", "")
		t.Setenv("CLIENT_ID_SPOTIFY", "")
		t.Setenv("CLIENT_SECRET_SPOTIFY", "")

		cfg := DefaultConfig()
		cfg.Credentials.Genius.AccessToken = "file-token"
		cfg.ApplyEnv()

		if cfg.Credentials.Genius.AccessToken != "file-token" {
			t.Errorf("expected file token to survive, got %s", cfg.Credentials.Genius.AccessToken)
		}
	})
}

func TestCreateConfigFile(t *testing.T) {
	t.Run("Creates File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected config file to exist: %v", err)
		}
	})

	t.Run("Refuses To Overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("existing"), 0644); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}

		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error for existing file")
		}
	})
}
