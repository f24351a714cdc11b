// Package errors defines the error kinds shared by the bulb protocol client,
// the bulb repository and the HTTP API. Every error produced by those layers wraps
// exactly one of the sentinels below; Kind recovers it.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrNotFound: no bulb matches the id or name
	ErrNotFound = errors.New("bulb not found")

	// ErrInvalidInput: empty host, bad IP address or empty name. Out-of-range
	// numbers are clamped, never reported.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnreachable: socket failure, read timeout or a reply that does not decode.
	// Callers cannot tell these apart.
	ErrUnreachable = errors.New("device unreachable")

	ErrInternal = errors.New("internal error")
)

// kinds is checked in order by Kind
var kinds = []error{ErrNotFound, ErrInvalidInput, ErrUnreachable, ErrInternal}

// Kind returns the sentinel err wraps, or nil when it wraps none of them
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }
func IsUnreachable(err error) bool  { return errors.Is(err, ErrUnreachable) }

// kindf formats a message and wraps kind after it. A %w in format is kept, so a
// network cause stays reachable through errors.As.
func kindf(kind error, format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, kind)...)
}

func NotFoundf(format string, args ...any) error     { return kindf(ErrNotFound, format, args...) }
func InvalidInputf(format string, args ...any) error { return kindf(ErrInvalidInput, format, args...) }
func Unreachablef(format string, args ...any) error  { return kindf(ErrUnreachable, format, args...) }
func Internalf(format string, args ...any) error     { return kindf(ErrInternal, format, args...) }

// WrapErrorf adds context to err, keeping its kind. A nil err stays nil.
func WrapErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// LogErrorAndReturn logs err at error level and returns it unchanged. A nil logger
// means slog.Default.
func LogErrorAndReturn(logger *slog.Logger, err error, message string, args ...any) error {
	if err == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error(message, append([]any{"error", err}, args...)...)
	return err
}
