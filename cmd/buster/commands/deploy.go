package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/buster/internal/config"
	"git.home.luguber.info/inful/buster/internal/publish"
)

// DeployCmd implements the 'deploy' command.
type DeployCmd struct{}

func (d *DeployCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig(overrides{})
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	res, err := deploy(ctx, cfg)
	if err != nil {
		return err
	}
	switch {
	case res.Commit == "" && res.UpToDate:
		fmt.Println("Nothing to deploy")
	case res.UpToDate:
		fmt.Printf("Committed %s; remote already up to date\n", res.Commit)
	case res.Commit == "":
		fmt.Printf("Pushed earlier commits to %s\n", res.Branch)
	default:
		fmt.Printf("Deployed %s to %s\n", res.Commit, res.Branch)
	}
	return nil
}

func deploy(ctx context.Context, cfg *config.Config) (*publish.DeployResult, error) {
	return publish.New(cfg.Dir, cfg.Git).Deploy(ctx)
}
