// Package config loads runtime configuration from defaults, an optional YAML
// file, a .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvAPIKey            = "TWITTER_API_KEY"
	EnvAPISecret         = "TWITTER_API_SECRET"
	EnvAccessToken       = "TWITTER_ACCESS_TOKEN"
	EnvAccessTokenSecret = "TWITTER_ACCESS_TOKEN_SECRET"
	EnvLogLevel          = "LOG_LEVEL"
	EnvLogFormat         = "LOG_FORMAT"
	EnvMetricsAddr       = "METRICS_ADDR"
	EnvAPIBaseURL        = "TWITTER_API_BASE_URL"
	EnvUploadURL         = "TWITTER_UPLOAD_BASE_URL"
	EnvHTTPTimeout       = "HTTP_TIMEOUT"
)

// Config is the complete runtime configuration.
type Config struct {
	Twitter TwitterConfig `yaml:"twitter"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// TwitterConfig holds API credentials and endpoints.
type TwitterConfig struct {
	APIKey            string        `yaml:"api_key"`
	APISecret         string        `yaml:"api_secret"`
	AccessToken       string        `yaml:"access_token"`
	AccessTokenSecret string        `yaml:"access_token_secret"`
	BaseURL           string        `yaml:"base_url"`
	UploadURL         string        `yaml:"upload_url"`
	Timeout           time.Duration `yaml:"timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus listener. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Options tell Load where to look.
type Options struct {
	// File is an optional YAML file. Missing is an error when set.
	File string
	// EnvFile is an optional dotenv file. Missing is ignored.
	EnvFile string
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Twitter: TwitterConfig{
			BaseURL:   "https://api.twitter.com/2",
			UploadURL: "https://upload.twitter.com/1.1/media/upload.json",
			Timeout:   30 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load builds the configuration. Later sources override earlier ones.
func Load(opts Options) (Config, error) {
	cfg := Default()

	if opts.File != "" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", opts.File, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", opts.File, err)
		}
	}

	dotenv := map[string]string{}
	if opts.EnvFile != "" {
		m, err := godotenv.Read(opts.EnvFile)
		switch {
		case err == nil:
			dotenv = m
		case !errors.Is(err, os.ErrNotExist):
			return cfg, fmt.Errorf("read env file %s: %w", opts.EnvFile, err)
		}
	}

	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	lookup := func(key string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(dotenv[key])
	}

	override(&cfg.Twitter.APIKey, lookup(EnvAPIKey))
	override(&cfg.Twitter.APISecret, lookup(EnvAPISecret))
	override(&cfg.Twitter.AccessToken, lookup(EnvAccessToken))
	override(&cfg.Twitter.AccessTokenSecret, lookup(EnvAccessTokenSecret))
	override(&cfg.Twitter.BaseURL, lookup(EnvAPIBaseURL))
	override(&cfg.Twitter.UploadURL, lookup(EnvUploadURL))
	override(&cfg.Log.Level, lookup(EnvLogLevel))
	override(&cfg.Log.Format, lookup(EnvLogFormat))
	override(&cfg.Metrics.Addr, lookup(EnvMetricsAddr))

	if v := lookup(EnvHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvHTTPTimeout, err)
		}
		cfg.Twitter.Timeout = d
	}
	return cfg, nil
}

// Validate reports every missing credential by its environment variable name.
func (c Config) Validate() error {
	var missing []string
	for _, f := range []struct{ env, value string }{
		{EnvAPIKey, c.Twitter.APIKey},
		{EnvAPISecret, c.Twitter.APISecret},
		{EnvAccessToken, c.Twitter.AccessToken},
		{EnvAccessTokenSecret, c.Twitter.AccessTokenSecret},
	} {
		if f.value == "" {
			missing = append(missing, f.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required Twitter credentials: %s", strings.Join(missing, ", "))
	}
	if c.Twitter.Timeout <= 0 {
		return errors.New("twitter timeout must be positive")
	}
	return nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
