package commands

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/buster/internal/foundation/errors"
	"git.home.luguber.info/inful/buster/internal/observability"
	"git.home.luguber.info/inful/buster/internal/schedule"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	SiteFlags
	Interval time.Duration `help:"Time between runs" default:"1h"`
	Deploy   bool          `help:"Deploy after each successful generate"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	if w.Interval <= 0 {
		return errors.ValidationError("interval must be positive").
			WithContext("interval", w.Interval.String()).
			Build()
	}
	cfg, err := root.loadConfig(overrides{Domain: w.Domain, WebURL: w.WebURL})
	if err != nil {
		return err
	}
	if err := cfg.RequireWebURL(); err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	sched, err := schedule.New()
	if err != nil {
		return err
	}
	_, err = sched.Every(w.Interval, "generate", func(ctx context.Context) error {
		report, err := generate(ctx, cfg, w.SkipMirror)
		if err != nil {
			return err
		}
		observability.InfoContext(ctx, "Site regenerated",
			slog.Int("events", len(report.Events())),
			slog.Duration("duration", report.Duration))
		if !w.Deploy {
			return nil
		}
		res, err := deploy(ctx, cfg)
		if err != nil {
			return err
		}
		observability.InfoContext(ctx, "Site deployed",
			slog.String("commit", res.Commit),
			slog.Bool("up_to_date", res.UpToDate))
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Watching", slog.Duration("interval", w.Interval), slog.Bool("deploy", w.Deploy))
	return sched.Run(ctx)
}
