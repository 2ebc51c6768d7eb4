package comments

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/example/social-platform/services/social/internal/store"
)

// Error kinds. Callers branch with errors.Is and map kinds to transport
// status codes; messages stay human-readable.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// wrapStore classifies a store failure. Deadline expiry and connection
// loss both mean the store is unreachable, not that a record is missing.
func wrapStore(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNoComment), errors.Is(err, store.ErrNoPost):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case isStoreOutage(err):
		return fmt.Errorf("%s: %v: %w", what, err, ErrStoreUnavailable)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

// isStoreOutage reports whether err signals an unreachable or timed-out
// backend. pgx connect failures wrap the underlying net error, so the
// net.Error check covers refused dials and reset connections alike.
func isStoreOutage(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}
