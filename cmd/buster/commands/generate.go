package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/buster/internal/config"
	"git.home.luguber.info/inful/buster/internal/metrics"
	"git.home.luguber.info/inful/buster/internal/mirror"
	"git.home.luguber.info/inful/buster/internal/observability"
	"git.home.luguber.info/inful/buster/internal/rewrite"
	"git.home.luguber.info/inful/buster/internal/site"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	SiteFlags
}

func (g *GenerateCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig(overrides{Domain: g.Domain, WebURL: g.WebURL})
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	report, err := generate(ctx, cfg, g.SkipMirror)
	if err != nil {
		return err
	}
	printReport(os.Stdout, cfg.Dir, report)
	return nil
}

// generate mirrors the blog into cfg.Dir and rewrites the tree. When a
// metrics textfile is configured the run's metrics are written to it, even
// if the run failed.
func generate(ctx context.Context, cfg *config.Config, skipMirror bool) (*site.Report, error) {
	if err := cfg.RequireWebURL(); err != nil {
		return nil, err
	}
	ctx = observability.WithRunID(ctx, uuid.NewString())
	ctx = observability.WithCommand(ctx, "generate")

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	reg := prom.NewRegistry()
	if cfg.Metrics.Textfile != "" {
		recorder = metrics.NewPrometheusRecorder(reg)
	}
	defer func() {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile, reg); err != nil {
			observability.WarnContext(ctx, "Failed to write metrics textfile", slog.String("error", err.Error()))
		}
	}()

	if skipMirror {
		observability.InfoContext(ctx, "Skipping mirror", slog.String("dir", cfg.Dir))
	} else {
		m := mirror.New(mirror.Options{
			Command:    cfg.Mirror.Command,
			Domain:     cfg.LocalOrigin(),
			Dir:        cfg.Dir,
			ExtraPaths: cfg.Mirror.ExtraPaths,
		})
		if err := m.Run(ctx); err != nil {
			return nil, err
		}
	}

	pipeline := site.NewPipeline(site.Options{
		Root: cfg.Dir,
		NotFound: site.NotFoundPage{
			StylesheetPath: cfg.NotFound.StylesheetPath,
			StylesheetURL:  cfg.StylesheetURL(),
		},
		Domain: rewrite.Domain{
			LocalOrigin: cfg.LocalOrigin(),
			WebURL:      strings.TrimRight(cfg.WebURL, "/"),
			SelfOrigin:  cfg.SelfOrigin,
		},
	}).WithRecorder(recorder)

	return pipeline.Run(ctx)
}

func printReport(w io.Writer, dir string, report *site.Report) {
	_, _ = fmt.Fprintf(w, "Generated %s in %s\n", dir, report.Duration.Round(time.Millisecond))
	for _, s := range report.Stages {
		_, _ = fmt.Fprintf(w, "  %-10s visited=%d created=%d renamed=%d deleted=%d links=%d rewritten=%d failures=%d\n",
			s.Stage, s.Visited,
			s.Count(site.KindCreate), s.Count(site.KindRename), s.Count(site.KindDelete),
			s.Count(site.KindHref), s.Count(site.KindContent), s.Failures)
	}
}
