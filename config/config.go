package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type ServerConfig struct {
	Port int `toml:"port"`
}

type AuthConfig struct {
	JWTSecret     string `toml:"jwt_secret"`
	TokenTTLHours int    `toml:"token_ttl_hours"`
}

type StorageConfig struct {
	DataDir string `toml:"data_dir"`
}

type RateLimitConfig struct {
	Requests      int `toml:"requests"`
	WindowSeconds int `toml:"window_seconds"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Auth      AuthConfig      `toml:"auth"`
	Storage   StorageConfig   `toml:"storage"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
	Log       LogConfig       `toml:"log"`
}

// LoadConfig reads the TOML config file. A missing file yields the
// defaults, so the server runs out of the box in development.
func LoadConfig(filepath string) (*Config, error) {
	var config Config

	// Defaults applied before decode
	config.Server.Port = 3000
	config.Auth.TokenTTLHours = 168 // 7 days
	config.Storage.DataDir = "./data"
	config.RateLimit.Requests = 100
	config.RateLimit.WindowSeconds = 60
	config.Log.Level = "info"

	if _, err := os.Stat(filepath); err == nil {
		if _, err := toml.DecodeFile(filepath, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", filepath, err)
		}
	}

	if config.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required")
	}

	return &config, nil
}

// TokenTTL returns the configured credential lifetime.
func (c *AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// Window returns the rate-limit window.
func (c *RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}
