// Package mirror downloads a Ghost blog into a local directory by shelling
// out to wget.
package mirror

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/buster/internal/foundation/errors"
	"git.home.luguber.info/inful/buster/internal/logfields"
	"git.home.luguber.info/inful/buster/internal/observability"
)

// exitServerError is wget's exit status when the server answered some
// requests with an error, typically a 404 for a missing page requisite.
const exitServerError = 8

// Runner executes an external command.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stderr string, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	// #nosec G204 -- command and arguments come from configuration, not request input
	cmd := exec.CommandContext(ctx, name, args...)
	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf
	err := cmd.Run()
	return errBuf.String(), err
}

// Options configures a mirror run.
type Options struct {
	Command    string
	Domain     string
	Dir        string
	ExtraPaths []string
}

// Mirror fetches the blog root and any extra paths into Dir.
type Mirror struct {
	opts   Options
	runner Runner
}

// New returns a Mirror backed by ExecRunner.
func New(opts Options) *Mirror {
	if opts.Command == "" {
		opts.Command = "wget"
	}
	return &Mirror{opts: opts, runner: ExecRunner{}}
}

// WithRunner replaces the command runner (for testing).
func (m *Mirror) WithRunner(r Runner) *Mirror {
	m.runner = r
	return m
}

// Targets lists the URLs fetched, root first.
func (m *Mirror) Targets() []string {
	base := strings.TrimRight(m.opts.Domain, "/")
	targets := []string{base}
	for _, p := range m.opts.ExtraPaths {
		targets = append(targets, base+"/"+strings.TrimLeft(p, "/"))
	}
	return targets
}

// Args returns the wget arguments for one target.
func (m *Mirror) Args(target string) []string {
	return []string{
		"--level=0",
		"--recursive",
		"--convert-links",
		"--page-requisites",
		"--no-parent",
		"--directory-prefix", m.opts.Dir,
		"--no-host-directories",
		"--restrict-file-name=unix",
		target,
	}
}

// Run mirrors every target in order. A partial download caused by server
// errors is logged and tolerated; any other failure stops the run.
func (m *Mirror) Run(ctx context.Context) error {
	for _, target := range m.Targets() {
		start := time.Now()
		observability.InfoContext(ctx, "Mirroring", logfields.URL(target), logfields.Path(m.opts.Dir))

		stderr, err := m.runner.Run(ctx, m.opts.Command, m.Args(target)...)
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) && exitErr.ExitCode() == exitServerError {
				observability.WarnContext(ctx, "Some pages could not be fetched", logfields.URL(target), logfields.Status(exitServerError))
				continue
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = ctxErr
			}
			return ferrors.NetworkError("mirror failed").
				WithCause(err).
				WithContext("url", target).
				WithContext("stderr", lastLine(stderr)).
				Build()
		}
		observability.DebugContext(ctx, "Mirrored", logfields.URL(target),
			logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	}
	return nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
