// Package config loads discovery-bridge settings.
//
// Values are resolved by viper in this order: DISCOVERY_* environment variables
// (a .env file in the working directory is loaded into the environment first),
// then an optional config.yaml in the XDG config dir, then defaults. Only
// non-secret settings live here; the refresh credential goes to the OS keychain.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"discoverybridge/cli/internal/xdg"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "DISCOVERY"

// FileName is the optional config file inside the XDG config dir.
const FileName = "config.yaml"

// Config holds non-sensitive settings.
type Config struct {
	APIURL       string
	DatasetLimit int
	Concurrency  int
	HTTPTimeout  time.Duration
	LogLevel     string
	Listen       string

	Auth AuthConfig
	DB   DBConfig
}

// AuthConfig describes the identity provider.
type AuthConfig struct {
	AuthorizeURL string
	TokenURL     string
	ClientID     string
	RedirectURL  string
	Audience     string
}

// DBConfig holds export sink settings.
type DBConfig struct {
	URL    string
	Schema string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_URL", "http://localhost:4000")
	v.SetDefault("DATASET_LIMIT", 1000000)
	v.SetDefault("CONCURRENCY", 8)
	v.SetDefault("HTTP_TIMEOUT", "0s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LISTEN", ":9001")
	v.SetDefault("AUTH_AUTHORIZE_URL", "https://smartcolumbusos-demo.auth0.com/authorize")
	v.SetDefault("AUTH_TOKEN_URL", "https://smartcolumbusos-demo.auth0.com/oauth/token")
	v.SetDefault("AUTH_CLIENT_ID", "sfe5fZzFXsv5gIRXz8V3zkR7iaZBMvL0")
	v.SetDefault("AUTH_REDIRECT_URL", "http://localhost:9001/callback")
	v.SetDefault("AUTH_AUDIENCE", "")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATABASE_SCHEMA", "public")
}

// Load reads .env, the XDG config file and the environment.
func Load() (Config, error) {
	_ = godotenv.Overload()
	dir, err := xdg.ConfigDir()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(dir)
}

// LoadFrom resolves settings using dir as the config file location.
// A missing config file is not an error.
func LoadFrom(dir string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if dir != "" {
		p := filepath.Join(dir, FileName)
		if _, err := os.Stat(p); err == nil {
			v.SetConfigFile(p)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read %s: %w", p, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	c := Config{
		APIURL:       strings.TrimRight(v.GetString("API_URL"), "/"),
		DatasetLimit: v.GetInt("DATASET_LIMIT"),
		Concurrency:  v.GetInt("CONCURRENCY"),
		HTTPTimeout:  v.GetDuration("HTTP_TIMEOUT"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		Listen:       v.GetString("LISTEN"),
		Auth: AuthConfig{
			AuthorizeURL: v.GetString("AUTH_AUTHORIZE_URL"),
			TokenURL:     v.GetString("AUTH_TOKEN_URL"),
			ClientID:     v.GetString("AUTH_CLIENT_ID"),
			RedirectURL:  v.GetString("AUTH_REDIRECT_URL"),
			Audience:     v.GetString("AUTH_AUDIENCE"),
		},
		DB: DBConfig{
			URL:    v.GetString("DATABASE_URL"),
			Schema: v.GetString("DATABASE_SCHEMA"),
		},
	}
	return c, c.Validate()
}

// Validate rejects settings the adapter cannot run with.
func (c Config) Validate() error {
	switch {
	case c.APIURL == "":
		return errors.New("DISCOVERY_API_URL must not be empty")
	case c.DatasetLimit <= 0:
		return fmt.Errorf("DISCOVERY_DATASET_LIMIT must be positive, got %d", c.DatasetLimit)
	case c.Concurrency <= 0:
		return fmt.Errorf("DISCOVERY_CONCURRENCY must be positive, got %d", c.Concurrency)
	case c.HTTPTimeout < 0:
		return fmt.Errorf("DISCOVERY_HTTP_TIMEOUT must not be negative, got %s", c.HTTPTimeout)
	}
	return nil
}
