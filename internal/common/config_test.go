package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("OCR_PROVIDER", "")
	t.Setenv("EXTRACT_LANGUAGES", "")

	cfg := LoadConfig()
	assert.Equal(t, "./cardscan.db", cfg.Database.DSN)
	assert.Equal(t, ":8080", cfg.Server.GRPCAddr)
	assert.Equal(t, "tesseract", cfg.OCR.Provider)
	assert.Equal(t, 64<<10, cfg.Extract.MaxInputBytes)
	assert.Nil(t, cfg.Extract.Languages)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("DB_URL", "postgres://u:p@localhost/cards")
	t.Setenv("EXTRACT_LANGUAGES", "ms, en,,")
	t.Setenv("QUEUE_WORKERS", "8")
	t.Setenv("QUEUE_TIMEOUT", "45s")
	t.Setenv("OCR_MAX_IMAGE_DIM", "not-a-number")
	t.Setenv("WATCH_DIRS", "/srv/cards/inbox,/srv/cards/scanner")

	cfg := LoadConfig()
	assert.Equal(t, "postgres://u:p@localhost/cards", cfg.Database.DSN)
	assert.Equal(t, []string{"ms", "en"}, cfg.Extract.Languages)
	assert.Equal(t, []string{"/srv/cards/inbox", "/srv/cards/scanner"}, cfg.Server.WatchDirs)
	assert.Equal(t, 8, cfg.Queue.Workers)
	assert.Equal(t, 45*time.Second, cfg.Queue.ProcessTimeout)
	assert.Equal(t, 2400, cfg.OCR.MaxImageDim, "unparsable values fall back to the default")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.OCR.Provider = "vision" }},
		{"remote without key", func(c *Config) { c.OCR.Provider = "remote"; c.OCR.RemoteAPIKey = "" }},
		{"remote bad url", func(c *Config) {
			c.OCR.Provider = "remote"
			c.OCR.RemoteAPIKey = "k"
			c.OCR.RemoteEndpoint = "not a url"
		}},
		{"empty dsn", func(c *Config) { c.Database.DSN = "" }},
		{"zero workers", func(c *Config) { c.Queue.Workers = 0 }},
		{"min above max", func(c *Config) { c.Database.MinConns = 50 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var appErr *AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, "CONFIG_ERROR", appErr.Code)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestConfigValidate_RemoteOK(t *testing.T) {
	cfg := LoadConfig()
	cfg.OCR.Provider = "remote"
	cfg.OCR.RemoteAPIKey = "secret"
	assert.NoError(t, cfg.Validate())
}
