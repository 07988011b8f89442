// Package preview serves the generated site over HTTP for local review.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	ferrors "git.home.luguber.info/inful/buster/internal/foundation/errors"
	"git.home.luguber.info/inful/buster/internal/logfields"
)

const shutdownTimeout = 5 * time.Second

// Server serves a site directory.
type Server struct {
	dir    string
	addr   string
	logger *slog.Logger
}

// New returns a server for dir listening on host:port.
func New(dir, host string, port int) *Server {
	return &Server{
		dir:    dir,
		addr:   net.JoinHostPort(host, fmt.Sprint(port)),
		logger: slog.Default(),
	}
}

// WithLogger sets the access logger.
func (s *Server) WithLogger(l *slog.Logger) *Server {
	if l != nil {
		s.logger = l
	}
	return s
}

// Handler serves the site, answering unknown paths with the site's 404.html
// when it exists.
func (s *Server) Handler() http.Handler {
	files := http.FileServer(http.Dir(s.dir))
	notFound := filepath.Join(s.dir, "404.html")
	return chain(s.logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clean := filepath.Join(s.dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if _, err := os.Stat(clean); errors.Is(err, os.ErrNotExist) {
			if page, readErr := os.ReadFile(notFound); readErr == nil {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write(page)
				return
			}
		}
		files.ServeHTTP(w, r)
	}))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if info, err := os.Stat(s.dir); err != nil || !info.IsDir() {
		return ferrors.FileSystemError("site directory does not exist; run generate first").
			WithCause(err).
			WithContext("path", s.dir).
			UserAction().
			Build()
	}

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return ferrors.NetworkError("failed to bind preview port").
			WithCause(err).
			WithContext("addr", s.addr).
			Build()
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("Preview server started", logfields.URL("http://"+ln.Addr().String()), logfields.Path(s.dir))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return ferrors.NetworkError("preview server failed").WithCause(err).Build()
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("preview server shutdown: %w", err)
	}
	s.logger.Info("Preview server stopped")
	return nil
}
