package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// insecure default, only acceptable in development
const devSecret = "supersecretkey"

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	DatabasePath  string        `yaml:"database_path"`
	TokenDuration time.Duration `yaml:"token_duration"`
	Seed          bool          `yaml:"seed"`
}

func LoadConfig(path string) (*Config, error) {
	apiTimeout := 15 * time.Second
	tokenDuration := 24 * time.Hour

	cfg := &Config{
		Addr:          getEnv("UZMAN_ADDR", ":8080"),
		JWTSecret:     getEnv("UZMAN_JWT_SECRET", devSecret),
		APITimeout:    apiTimeout,
		DatabasePath:  getEnv("UZMAN_DATABASE_PATH", "uzman.db"),
		TokenDuration: tokenDuration,
		Seed:          getEnv("UZMAN_SEED", "") == "true",
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate rejects configurations that must not reach a deployed instance.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.TokenDuration <= 0 {
		return fmt.Errorf("token_duration must be positive")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if c.JWTSecret == devSecret && os.Getenv("UZMAN_ENV") != "development" {
		return fmt.Errorf("refusing to run with the default jwt_secret outside development")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
