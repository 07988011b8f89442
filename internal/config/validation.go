package config

import (
	"net/url"
	"strings"

	"git.home.luguber.info/inful/buster/internal/foundation/errors"
)

// Validate checks the loaded configuration. web_url is optional here since
// only generate needs it; see RequireWebURL.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Domain) == "" {
		return errors.ValidationError("domain must not be empty").Build()
	}
	if strings.TrimSpace(cfg.Dir) == "" {
		return errors.ValidationError("dir must not be empty").Build()
	}
	if cfg.WebURL != "" {
		if err := validateAbsoluteURL("web_url", cfg.WebURL); err != nil {
			return err
		}
	}
	if cfg.SelfOrigin != "" {
		if err := validateAbsoluteURL("self_origin", cfg.SelfOrigin); err != nil {
			return err
		}
	}
	if cfg.Preview.Port < 1 || cfg.Preview.Port > 65535 {
		return errors.ValidationError("preview.port must be between 1 and 65535").
			WithContext("port", cfg.Preview.Port).
			Build()
	}
	for _, p := range cfg.Mirror.ExtraPaths {
		if strings.Contains(p, "://") {
			return errors.ValidationError("mirror.extra_paths entries must be paths, not URLs").
				WithContext("path", p).
				Build()
		}
	}
	authType, err := ParseAuthType(string(cfg.Git.Auth.Type))
	if err != nil {
		return errors.ValidationError("invalid git.auth.type").WithCause(err).Build()
	}
	switch authType {
	case AuthTypeToken:
		if cfg.Git.Auth.Token == "" {
			return errors.ValidationError("git.auth.token is required for token auth").Build()
		}
	case AuthTypeBasic:
		if cfg.Git.Auth.Username == "" || cfg.Git.Auth.Password == "" {
			return errors.ValidationError("git.auth.username and git.auth.password are required for basic auth").Build()
		}
	}
	return nil
}

// RequireWebURL fails when no public URL is configured.
func (c *Config) RequireWebURL() error {
	if c.WebURL == "" {
		return errors.ValidationError("web_url is required; pass --web-url or set " + EnvWebURL).Build()
	}
	return nil
}

func validateAbsoluteURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		b := errors.ValidationError(field+" must be an absolute URL").WithContext("value", raw)
		if err != nil {
			b = b.WithCause(err)
		}
		return b.Build()
	}
	return nil
}
