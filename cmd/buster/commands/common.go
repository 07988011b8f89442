package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/buster/internal/config"
	"git.home.luguber.info/inful/buster/internal/observability"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (buster.yaml is used when present)" type:"path"`
	Dir     string           `short:"d" help:"Static site directory (default ./static)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate  GenerateCmd  `cmd:"" help:"Mirror the Ghost blog and rewrite it into a static site"`
	Setup     SetupCmd     `cmd:"" help:"Initialise the static directory as a git repository with a remote"`
	Preview   PreviewCmd   `cmd:"" help:"Serve the static directory locally"`
	Deploy    DeployCmd    `cmd:"" help:"Commit the static directory and push it to the remote"`
	AddDomain AddDomainCmd `cmd:"" name:"add-domain" help:"Write a CNAME file for a custom domain"`
	Watch     WatchCmd     `cmd:"" help:"Regenerate (and optionally deploy) on an interval"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := observability.ParseLevel(os.Getenv(config.EnvLogLevel))
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(observability.NewLogger(os.Stderr, level, "text"))
	return nil
}

// SiteFlags are the per-run overrides shared by generate and watch.
type SiteFlags struct {
	Domain     string `help:"Address of the local Ghost blog (default localhost:2368)"`
	WebURL     string `name:"web-url" help:"Public URL the static site is served from"`
	SkipMirror bool   `name:"skip-mirror" help:"Rewrite the existing directory without downloading"`
}

// overrides carries flag values that win over file and environment settings.
type overrides struct {
	Domain string
	WebURL string
	Host   string
	Port   int
}

// loadConfig loads configuration, applies flag overrides and re-validates.
// The logger is rebuilt from the logging section unless --verbose was given.
func (c *CLI) loadConfig(o overrides) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if c.Dir != "" {
		cfg.Dir = c.Dir
	}
	if o.Domain != "" {
		cfg.Domain = o.Domain
	}
	if o.WebURL != "" {
		cfg.WebURL = o.WebURL
	}
	if o.Host != "" {
		cfg.Preview.Host = o.Host
	}
	if o.Port != 0 {
		cfg.Preview.Port = o.Port
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	if !c.Verbose {
		level := observability.ParseLevel(string(cfg.Logging.Level))
		slog.SetDefault(observability.NewLogger(os.Stderr, level, string(cfg.Logging.Format)))
	}
	return cfg, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
