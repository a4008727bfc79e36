package contract

import "context"

// SessionRepository owns the "session:<id>" key namespace. A session is
// valid exactly while its key lives; there is no separate status field.
type SessionRepository interface {
	// Create issues a fresh session id with the configured TTL.
	Create(ctx context.Context) (string, error)

	// IsValid reports whether the session key exists and has not expired.
	IsValid(ctx context.Context, sessionId string) (bool, error)

	// Touch renews the session TTL to the full expiry horizon.
	Touch(ctx context.Context, sessionId string) error

	// Delete removes the session immediately.
	Delete(ctx context.Context, sessionId string) error
}
