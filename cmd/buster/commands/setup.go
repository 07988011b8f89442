package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/buster/internal/publish"
)

// SetupCmd implements the 'setup' command.
type SetupCmd struct {
	GhRepo string `name:"gh-repo" help:"Remote repository URL (prompted for when omitted)"`
	Force  bool   `short:"f" help:"Replace a non-empty directory without asking"`
}

func (s *SetupCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig(overrides{})
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	remote := s.GhRepo
	if remote == "" {
		remote = cfg.Git.Remote
	}
	res, err := publish.New(cfg.Dir, cfg.Git).
		WithPrompter(publish.NewLinePrompter(os.Stdin, os.Stdout)).
		Setup(ctx, publish.SetupOptions{RemoteURL: remote, Force: s.Force})
	if err != nil {
		return err
	}
	fmt.Printf("Initialised %s with origin %s (branch %s)\n", cfg.Dir, res.RemoteURL, res.Branch)
	return nil
}
