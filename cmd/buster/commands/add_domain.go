package commands

import (
	"fmt"

	"git.home.luguber.info/inful/buster/internal/publish"
)

// AddDomainCmd implements the 'add-domain' command.
type AddDomainCmd struct {
	Domain string `arg:"" name:"domain" help:"Custom domain, e.g. blog.example.com"`
}

func (a *AddDomainCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig(overrides{})
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	if err := publish.New(cfg.Dir, cfg.Git).AddDomain(ctx, a.Domain); err != nil {
		return err
	}
	fmt.Printf("Added CNAME for %s; run deploy to publish it\n", a.Domain)
	return nil
}
