package ports

import (
	"context"

	"github.com/moklab/auth-service/internal/core/domain"
)

// LoginThrottle bounds repeated failed login attempts per username.
type LoginThrottle interface {
	// Allow reports whether another attempt may proceed for username.
	Allow(ctx context.Context, username string) (bool, error)
	// RecordFailure counts one failed attempt against username.
	RecordFailure(ctx context.Context, username string) error
	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, username string) error
}

// AuditSink accepts authentication audit entries for asynchronous recording.
// Record must not block the calling request path.
type AuditSink interface {
	Record(entry domain.AuditEntry)
}
