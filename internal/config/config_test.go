package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/garnizeh/uzman/internal/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	os.Unsetenv("UZMAN_ADDR")
	os.Unsetenv("UZMAN_JWT_SECRET")
	os.Unsetenv("UZMAN_DATABASE_PATH")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected default addr: %s", cfg.Addr)
	}
	if cfg.DatabasePath != "uzman.db" {
		t.Fatalf("unexpected default database path: %s", cfg.DatabasePath)
	}
	if cfg.TokenDuration <= 0 {
		t.Fatalf("unexpected token duration: %v", cfg.TokenDuration)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	os.Setenv("UZMAN_ADDR", ":9999")
	os.Setenv("UZMAN_SEED", "true")
	defer os.Unsetenv("UZMAN_ADDR")
	defer os.Unsetenv("UZMAN_SEED")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Addr != ":9999" {
		t.Fatalf("env override lost: %s", cfg.Addr)
	}
	if !cfg.Seed {
		t.Fatalf("expected seed enabled from env")
	}
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "addr: \":7070\"\njwt_secret: \"filesecret\"\ntoken_duration: 2h\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Addr != ":7070" || cfg.JWTSecret != "filesecret" {
		t.Fatalf("yaml values not applied: %+v", cfg)
	}
	if cfg.TokenDuration != 2*time.Hour {
		t.Fatalf("unexpected token duration: %v", cfg.TokenDuration)
	}
}

func TestValidate_InsecureJWT_FailsWhenNotDevelopment(t *testing.T) {
	os.Setenv("UZMAN_ENV", "production")
	defer os.Unsetenv("UZMAN_ENV")

	cfg := &config.Config{
		Addr:          ":8080",
		JWTSecret:     "supersecretkey",
		APITimeout:    5 * time.Second,
		DatabasePath:  "uzman.db",
		TokenDuration: 1 * time.Hour,
	}

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for insecure JWT in non-development env")
	}
}

func TestValidate_InsecureJWT_AllowsDevelopment(t *testing.T) {
	os.Setenv("UZMAN_ENV", "development")
	defer os.Unsetenv("UZMAN_ENV")

	cfg := &config.Config{
		Addr:          ":8080",
		JWTSecret:     "supersecretkey",
		APITimeout:    5 * time.Second,
		DatabasePath:  "uzman.db",
		TokenDuration: 1 * time.Hour,
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected Validate to succeed in development env, got: %v", err)
	}
}

func TestValidate_MissingAddr(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:     "strongsecret",
		TokenDuration: 1 * time.Hour,
	}

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for missing addr")
	}
}
