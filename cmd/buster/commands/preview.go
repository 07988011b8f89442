package commands

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/buster/internal/preview"
)

// PreviewCmd implements the 'preview' command.
type PreviewCmd struct {
	Host string `help:"Interface to bind (default all)"`
	Port int    `short:"p" help:"Port to listen on (default 9001)"`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig(overrides{Host: p.Host, Port: p.Port})
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	host := cfg.Preview.Host
	if host == "" {
		host = "localhost"
	}
	fmt.Printf("Serving %s at http://%s:%d (Ctrl+C to stop)\n", cfg.Dir, host, cfg.Preview.Port)
	return preview.New(cfg.Dir, cfg.Preview.Host, cfg.Preview.Port).
		WithLogger(slog.Default()).
		ListenAndServe(ctx)
}
