package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("SECRET_KEY_ACCESS_TOKEN", "access")
	t.Setenv("SECRET_KEY_REFRESH_TOKEN", "refresh")
	t.Setenv("FRONTEND_URL", "http://shop.local/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, "cop", cfg.StripeCurrency)
	assert.Equal(t, "http://shop.local", cfg.FrontendURL)
	assert.Equal(t, cfg, AppEnv)
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("SECRET_KEY_ACCESS_TOKEN", "access")
	t.Setenv("SECRET_KEY_REFRESH_TOKEN", "refresh")
	t.Setenv("ACCESS_TOKEN_TTL_HOURS", "1")
	t.Setenv("STRIPE_CURRENCY", "USD")
	t.Setenv("COOKIE_SECURE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, "usd", cfg.StripeCurrency)
	assert.False(t, cfg.CookieSecure)
}

func TestValidateListsMissingKeys(t *testing.T) {
	err := Config{MongoURI: "mongodb://localhost"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY_ACCESS_TOKEN")
	assert.Contains(t, err.Error(), "SECRET_KEY_REFRESH_TOKEN")
	assert.NotContains(t, err.Error(), "MONGO_URI")
}
