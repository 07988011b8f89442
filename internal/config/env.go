package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override file values.
const (
	EnvDomain   = "BUSTER_DOMAIN"
	EnvDir      = "BUSTER_DIR"
	EnvWebURL   = "BUSTER_WEB_URL"
	EnvLogLevel = "BUSTER_LOG_LEVEL"
	EnvGitToken = "BUSTER_GIT_TOKEN"
)

// envFiles are loaded in order; earlier files win since godotenv never
// overrides a variable that is already set.
var envFiles = []string{".env.local", ".env"}

// loadEnvFiles loads the env files that exist and returns their names.
func loadEnvFiles() ([]string, error) {
	var found []string
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			found = append(found, f)
		}
	}
	if len(found) == 0 {
		return nil, nil
	}
	return found, godotenv.Load(found...)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDomain); v != "" {
		cfg.Domain = v
	}
	if v := os.Getenv(EnvDir); v != "" {
		cfg.Dir = v
	}
	if v := os.Getenv(EnvWebURL); v != "" {
		cfg.WebURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = LogLevel(v)
	}
	if v := os.Getenv(EnvGitToken); v != "" {
		cfg.Git.Auth.Token = v
		if cfg.Git.Auth.Type == "" {
			cfg.Git.Auth.Type = AuthTypeToken
		}
	}
}
