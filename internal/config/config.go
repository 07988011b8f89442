package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/buster/internal/foundation/errors"
)

// DefaultFile is read when no config path is given and it exists.
const DefaultFile = "buster.yaml"

// Config represents the application configuration.
type Config struct {
	Domain     string         `yaml:"domain"`
	Dir        string         `yaml:"dir"`
	WebURL     string         `yaml:"web_url"`
	SelfOrigin string         `yaml:"self_origin,omitempty"`
	NotFound   NotFoundConfig `yaml:"not_found"`
	Mirror     MirrorConfig   `yaml:"mirror"`
	Preview    PreviewConfig  `yaml:"preview"`
	Git        GitConfig      `yaml:"git"`
	Logging    LoggingConfig  `yaml:"logging"`
	Metrics    MetricsConfig  `yaml:"metrics"`
}

// NotFoundConfig controls the synthesized 404 page.
type NotFoundConfig struct {
	StylesheetPath string `yaml:"stylesheet_path"`
	// StylesheetURL defaults to WebURL joined with StylesheetPath.
	StylesheetURL string `yaml:"stylesheet_url,omitempty"`
}

// MirrorConfig controls the wget invocations.
type MirrorConfig struct {
	Command    string   `yaml:"command"`
	ExtraPaths []string `yaml:"extra_paths"`
}

// PreviewConfig controls the static preview server.
type PreviewConfig struct {
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port"`
}

// GitConfig holds publishing settings.
type GitConfig struct {
	Remote      string     `yaml:"remote,omitempty"`
	AuthorName  string     `yaml:"author_name"`
	AuthorEmail string     `yaml:"author_email"`
	Auth        AuthConfig `yaml:"auth"`
}

// AuthConfig represents push authentication.
type AuthConfig struct {
	Type     AuthType `yaml:"type"`
	Username string   `yaml:"username,omitempty"`
	Password string   `yaml:"password,omitempty"`
	Token    string   `yaml:"token,omitempty"`
	KeyPath  string   `yaml:"key_path,omitempty"`
}

// LoggingConfig selects log verbosity and output format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig enables the Prometheus textfile written after each run.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Load reads configuration from path, then applies environment overrides
// and defaults. An empty path falls back to DefaultFile when present and to
// built-in defaults otherwise. Values from .env files never override the
// process environment.
func Load(path string) (*Config, error) {
	if _, err := loadEnvFiles(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to load .env file").Build()
	}

	cfg := &Config{}
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.ConfigError("failed to read configuration file").
				WithCause(err).
				WithContext("path", path).
				Build()
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, errors.ConfigError("failed to parse configuration file").
				WithCause(err).
				WithContext("path", path).
				Build()
		}
	}

	applyEnv(cfg)
	ApplyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LocalOrigin is the origin the mirrored pages reference, e.g.
// "http://localhost:2368".
func (c *Config) LocalOrigin() string {
	if strings.Contains(c.Domain, "://") {
		return strings.TrimRight(c.Domain, "/")
	}
	return "http://" + strings.TrimRight(c.Domain, "/")
}

// StylesheetURL is the absolute URL the 404 page uses for its stylesheet.
func (c *Config) StylesheetURL() string {
	if c.NotFound.StylesheetURL != "" {
		return c.NotFound.StylesheetURL
	}
	if c.WebURL == "" {
		return ""
	}
	return strings.TrimRight(c.WebURL, "/") + "/" + strings.TrimLeft(c.NotFound.StylesheetPath, "/")
}
