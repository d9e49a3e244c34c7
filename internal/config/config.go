package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var AppEnv Config

type Config struct {
	Env      string
	LogLevel string
	Port     string

	MongoURI string
	DBName   string

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	CookieSecure       bool

	StripeSecretKey     string
	StripeWebhookSecret string
	StripeCurrency      string

	FrontendURL   string
	UploadDir     string
	PublicBaseURL string

	SentryDSN string
}

// Load reads .env (when present) and the process environment. Environment
// variables win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg(".env not loaded")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := Config{
		Env:                 getString(v, "APP_ENV"),
		LogLevel:            getString(v, "LOG_LEVEL"),
		Port:                getString(v, "PORT"),
		MongoURI:            getString(v, "MONGO_URI"),
		DBName:              getString(v, "DB_NAME"),
		AccessTokenSecret:   getString(v, "SECRET_KEY_ACCESS_TOKEN"),
		RefreshTokenSecret:  getString(v, "SECRET_KEY_REFRESH_TOKEN"),
		AccessTokenTTL:      getDuration(v, "ACCESS_TOKEN_TTL_HOURS", 5, time.Hour),
		RefreshTokenTTL:     getDuration(v, "REFRESH_TOKEN_TTL_DAYS", 7, 24*time.Hour),
		CookieSecure:        v.GetBool("COOKIE_SECURE"),
		StripeSecretKey:     getString(v, "STRIPE_SECRET_KEY"),
		StripeWebhookSecret: getString(v, "STRIPE_ENDPOINT_WEBHOOK_SECRET_KEY"),
		StripeCurrency:      strings.ToLower(getString(v, "STRIPE_CURRENCY")),
		FrontendURL:         strings.TrimRight(getString(v, "FRONTEND_URL"), "/"),
		UploadDir:           getString(v, "UPLOAD_DIR"),
		PublicBaseURL:       strings.TrimRight(getString(v, "PUBLIC_BASE_URL"), "/"),
		SentryDSN:           getString(v, "SENTRY_DSN"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	AppEnv = cfg
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_NAME", "petstore")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("STRIPE_CURRENCY", "cop")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("UPLOAD_DIR", "./public/uploads")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
}

// Validate reports every required key that is missing.
func (c Config) Validate() error {
	var errs []error
	required := []struct{ key, value string }{
		{"MONGO_URI", c.MongoURI},
		{"SECRET_KEY_ACCESS_TOKEN", c.AccessTokenSecret},
		{"SECRET_KEY_REFRESH_TOKEN", c.RefreshTokenSecret},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("ENV %s is required", r.key))
		}
	}
	return errors.Join(errs...)
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getString(v *viper.Viper, key string) string {
	return strings.TrimSpace(v.GetString(key))
}

func getDuration(v *viper.Viper, key string, fallback int, unit time.Duration) time.Duration {
	parsed := v.GetInt(key)
	if parsed <= 0 {
		parsed = fallback
	}
	return time.Duration(parsed) * unit
}
