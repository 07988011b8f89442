package publish

import (
	"strings"

	"git.home.luguber.info/inful/buster/internal/foundation/errors"
)

// classifyGitError translates go-git errors into classified errors.
func classifyGitError(err error, op, url string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	l := strings.ToLower(err.Error())
	category := errors.CategoryGit
	retryable := false
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "authorization") ||
		strings.Contains(l, "not authorized") || strings.Contains(l, "invalid credentials"):
		category = errors.CategoryAuth
	case strings.Contains(l, "connection reset") || strings.Contains(l, "remote hung up") ||
		strings.Contains(l, "timeout") || strings.Contains(l, "no route to host") ||
		strings.Contains(l, "connection refused"):
		category = errors.CategoryNetwork
		retryable = true
	}

	b := errors.NewError(category, "git "+op+" failed").
		WithCause(err).
		WithContext("op", op)
	if url != "" {
		b = b.WithContext("url", url)
	}
	if strings.Contains(l, "non-fast-forward") {
		b = b.WithContext("diverged", true).UserAction()
	}
	if retryable {
		b = b.Retryable()
	}
	return b.Build()
}

// isTransient reports whether a push may succeed when retried.
func isTransient(err error) bool {
	ce, ok := errors.AsClassified(err)
	return ok && ce.CanRetry()
}
