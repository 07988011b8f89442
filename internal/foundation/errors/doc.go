// Package errors provides the classified error type used across buster.
//
// Errors carry a category (config, filesystem, git, ...), a severity and a
// retry hint, plus a small context map. The CLI adapter turns them into
// exit codes and user-facing messages.
//
//	err := errors.NewError(errors.CategoryFileSystem, "index.html missing").
//		Fatal().
//		WithContext("path", root).
//		Build()
package errors
