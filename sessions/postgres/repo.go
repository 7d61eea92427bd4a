package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hospitalmgmt/auth-service/sessions"
)

const uniqueViolation = "23505"

var _ sessions.Repo = (*Repo)(nil)

// Repo is the Postgres-backed sessions.Repo. Each method is a single
// statement, so the database's row-level atomicity carries the store's
// contract: unique-hash insertion, the three-predicate active read, the
// consume compare-and-set, and the bulk revoke.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const sessionColumns = `id, user_id, token_hash, device_info, ip_address, expires_at, revoked, revoked_at, created_at`

func (r *Repo) Create(ctx context.Context, session *sessions.RefreshSession) error {
	query := `
		INSERT INTO refresh_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		session.ID, session.UserID, session.TokenHash, session.DeviceInfo,
		session.IPAddress, session.ExpiresAt, session.Revoked, session.RevokedAt, session.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sessions.ErrHashConflict
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *Repo) FindActiveByHash(ctx context.Context, tokenHash string, now time.Time) (*sessions.RefreshSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM refresh_sessions
		WHERE token_hash = $1 AND revoked = FALSE AND expires_at > $2`
	session, err := scanSession(r.db.QueryRow(ctx, query, tokenHash, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sessions.ErrNoActiveSession
		}
		return nil, fmt.Errorf("find session by hash: %w", err)
	}
	return session, nil
}

func (r *Repo) FindActiveByUserID(ctx context.Context, userID uuid.UUID, now time.Time) ([]*sessions.RefreshSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM refresh_sessions
		WHERE user_id = $1 AND revoked = FALSE AND expires_at > $2
		ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID, now)
	if err != nil {
		return nil, fmt.Errorf("find sessions by user: %w", err)
	}
	defer rows.Close()

	var result []*sessions.RefreshSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("find sessions by user: %w", err)
		}
		result = append(result, session)
	}
	return result, rows.Err()
}

func (r *Repo) ConsumeByHash(ctx context.Context, tokenHash string, now time.Time) (*sessions.RefreshSession, error) {
	// Single UPDATE ... RETURNING: the revoked check and the revocation are
	// one atomic step, so two concurrent consumers of the same hash cannot
	// both succeed.
	query := `
		UPDATE refresh_sessions
		SET revoked = TRUE, revoked_at = $2
		WHERE token_hash = $1 AND revoked = FALSE AND expires_at > $2
		RETURNING ` + sessionColumns
	session, err := scanSession(r.db.QueryRow(ctx, query, tokenHash, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sessions.ErrNoActiveSession
		}
		return nil, fmt.Errorf("consume session: %w", err)
	}
	return session, nil
}

func (r *Repo) RevokeAllForUser(ctx context.Context, userID uuid.UUID, now time.Time) error {
	query := `
		UPDATE refresh_sessions
		SET revoked = TRUE, revoked_at = $2
		WHERE user_id = $1 AND revoked = FALSE`
	if _, err := r.db.Exec(ctx, query, userID, now); err != nil {
		return fmt.Errorf("revoke sessions for user: %w", err)
	}
	return nil
}

func (r *Repo) PurgeReclaimable(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM refresh_sessions WHERE revoked = TRUE AND expires_at < $1`
	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*sessions.RefreshSession, error) {
	session := &sessions.RefreshSession{}
	err := row.Scan(
		&session.ID, &session.UserID, &session.TokenHash, &session.DeviceInfo,
		&session.IPAddress, &session.ExpiresAt, &session.Revoked, &session.RevokedAt, &session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return session, nil
}
