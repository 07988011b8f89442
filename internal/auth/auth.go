// Package auth turns configured credentials into go-git transport auth.
package auth

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"git.home.luguber.info/inful/buster/internal/config"
)

type provider func(cfg config.AuthConfig) (transport.AuthMethod, error)

var providers = map[config.AuthType]provider{
	config.AuthTypeNone:  noneAuth,
	config.AuthTypeToken: tokenAuth,
	config.AuthTypeBasic: basicAuth,
	config.AuthTypeSSH:   sshAuth,
}

// CreateAuth returns the auth method for cfg. A nil method with a nil error
// means the remote is used anonymously or through the system credential setup.
func CreateAuth(cfg config.AuthConfig) (transport.AuthMethod, error) {
	t := cfg.Type
	if t == "" {
		t = config.AuthTypeNone
	}
	p, ok := providers[t]
	if !ok {
		return nil, fmt.Errorf("unsupported auth type: %s", t)
	}
	return p(cfg)
}

func noneAuth(config.AuthConfig) (transport.AuthMethod, error) { return nil, nil }

func tokenAuth(cfg config.AuthConfig) (transport.AuthMethod, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("token authentication requires a token")
	}
	// Most Git hosting services accept any username with a token; "token" is conventional.
	return &http.BasicAuth{Username: "token", Password: cfg.Token}, nil
}

func basicAuth(cfg config.AuthConfig) (transport.AuthMethod, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("basic authentication requires username and password")
	}
	return &http.BasicAuth{Username: cfg.Username, Password: cfg.Password}, nil
}

func sshAuth(cfg config.AuthConfig) (transport.AuthMethod, error) {
	keyPath := cfg.KeyPath
	if keyPath == "" {
		keyPath = filepath.Join(os.Getenv("HOME"), ".ssh", "id_rsa")
	}
	keys, err := ssh.NewPublicKeysFromFile("git", keyPath, cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to load SSH key from %s: %w", keyPath, err)
	}
	return keys, nil
}
