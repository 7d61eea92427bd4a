package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrHashConflict means a session with the same token hash already
	// exists. With 256 bits of token entropy this should never happen in
	// practice; it is treated as fatal to the operation, never as an
	// overwrite.
	ErrHashConflict = errors.New("session token hash already exists")

	// ErrNoActiveSession means no session matched the hash, or the matching
	// session was revoked or expired. The three cases are deliberately
	// indistinguishable.
	ErrNoActiveSession = errors.New("no active session")
)

// Repo persists refresh sessions. Every operation is atomic with respect to
// the records it touches; in particular the hash + not-revoked + not-expired
// predicate is evaluated inside a single atomicity boundary so a
// revoked-in-flight token can never be read as active.
type Repo interface {
	// Create inserts a new session. Fails with ErrHashConflict if the token
	// hash already exists.
	Create(ctx context.Context, session *RefreshSession) error

	// FindActiveByHash returns the session with the given token hash, only
	// if it is neither revoked nor expired at now.
	FindActiveByHash(ctx context.Context, tokenHash string, now time.Time) (*RefreshSession, error)

	// FindActiveByUserID returns all active sessions for a user, most recent
	// first.
	FindActiveByUserID(ctx context.Context, userID uuid.UUID, now time.Time) ([]*RefreshSession, error)

	// ConsumeByHash atomically revokes the active session with the given
	// hash and returns it. Exactly one caller can consume a given session;
	// everyone else gets ErrNoActiveSession.
	ConsumeByHash(ctx context.Context, tokenHash string, now time.Time) (*RefreshSession, error)

	// RevokeAllForUser revokes every non-revoked session for the user in one
	// bulk operation, effective immediately for subsequent reads.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID, now time.Time) error

	// PurgeReclaimable permanently deletes every session that is both
	// revoked and expired, returning the number deleted. Sessions still
	// inside their validity window are never touched, revoked or not.
	PurgeReclaimable(ctx context.Context, now time.Time) (int64, error)
}
