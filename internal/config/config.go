package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	DatabaseURL        string
	RedisURL           string
	NATSURL            string
	JWTSecret          string
	CORSOrigins        string
	ListCacheTTL       time.Duration
	SubmissionRateMax  int
	SubmissionRateSpan time.Duration
	UpvoteRateMax      int
	UpvoteRateSpan     time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("STREETBARS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "StreetBars API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cors.origins", "*")
	v.SetDefault("cache.list_ttl", "5m")
	v.SetDefault("ratelimit.submission_max", 10)
	v.SetDefault("ratelimit.submission_window", "1m")
	v.SetDefault("ratelimit.upvote_max", 30)
	v.SetDefault("ratelimit.upvote_window", "1m")

	ttl, err := time.ParseDuration(v.GetString("cache.list_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid list cache ttl: %w", err)
	}

	submissionWindow, err := time.ParseDuration(v.GetString("ratelimit.submission_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid submission rate window: %w", err)
	}

	upvoteWindow, err := time.ParseDuration(v.GetString("ratelimit.upvote_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid upvote rate window: %w", err)
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		DatabaseURL:        v.GetString("database.url"),
		RedisURL:           v.GetString("redis.url"),
		NATSURL:            v.GetString("nats.url"),
		JWTSecret:          v.GetString("jwt.secret"),
		CORSOrigins:        v.GetString("cors.origins"),
		ListCacheTTL:       ttl,
		SubmissionRateMax:  v.GetInt("ratelimit.submission_max"),
		SubmissionRateSpan: submissionWindow,
		UpvoteRateMax:      v.GetInt("ratelimit.upvote_max"),
		UpvoteRateSpan:     upvoteWindow,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}
