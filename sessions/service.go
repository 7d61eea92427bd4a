package sessions

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrInvalidSession is returned for any refresh token that cannot be used:
// unknown, already revoked, or expired. Callers never learn which.
var ErrInvalidSession = errors.New("invalid or expired session")

const rawTokenBytes = 32 // 256 bits of entropy per refresh token

// Service owns the refresh session lifecycle: issuance, single-use rotation,
// and revocation. Raw tokens leave this package exactly once, at issuance;
// only their SHA-256 hash is ever persisted or compared.
type Service struct {
	repo       Repo
	refreshTTL time.Duration
	nowFunc    func() time.Time
}

type ServiceOption func(*Service)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = now
	}
}

func NewService(repo Repo, refreshTTL time.Duration, options ...ServiceOption) *Service {
	s := &Service{
		repo:       repo,
		refreshTTL: refreshTTL,
		nowFunc:    time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Issue creates a new refresh session for the user and returns the raw token.
// This is the only time the raw value exists server-side; it is discarded
// immediately after hashing.
func (s *Service) Issue(ctx context.Context, userID uuid.UUID, deviceInfo, ipAddress string) (string, error) {
	raw, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("issue session: %w", err)
	}

	now := s.nowFunc()
	session := &RefreshSession{
		ID:         uuid.New(),
		UserID:     userID,
		TokenHash:  hashToken(raw),
		DeviceInfo: deviceInfo,
		IPAddress:  ipAddress,
		ExpiresAt:  now.Add(s.refreshTTL),
		CreatedAt:  now,
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return "", fmt.Errorf("issue session: %w", err)
	}
	return raw, nil
}

// Rotate consumes a raw refresh token and issues a replacement for the same
// user. A refresh token is single-use: the consumption is an atomic
// compare-and-rotate, so of any number of concurrent calls with the same raw
// token exactly one succeeds and the rest fail with ErrInvalidSession.
func (s *Service) Rotate(ctx context.Context, rawToken, deviceInfo, ipAddress string) (string, error) {
	consumed, err := s.repo.ConsumeByHash(ctx, hashToken(rawToken), s.nowFunc())
	if err != nil {
		if errors.Is(err, ErrNoActiveSession) {
			// Replay of an already-rotated token, or an unknown/expired one.
			// Worth a log line: repeated hits here are how a stolen token
			// shows up.
			log.Warn().
				Str("ip_address", ipAddress).
				Msg("refresh token presented with no active session")
			return "", ErrInvalidSession
		}
		return "", fmt.Errorf("rotate session: %w", err)
	}

	newToken, err := s.Issue(ctx, consumed.UserID, deviceInfo, ipAddress)
	if err != nil {
		// The old session is already consumed and revocation is monotonic.
		// Surface the failure loudly; the caller has to authenticate again.
		log.Error().
			Err(err).
			Stringer("user_id", consumed.UserID).
			Msg("failed to issue replacement session after rotation")
		return "", fmt.Errorf("rotate session: %w", err)
	}
	return newToken, nil
}

// RevokeAll revokes every active session for the user. Idempotent: a user
// with no active sessions is a no-op, not an error.
func (s *Service) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.RevokeAllForUser(ctx, userID, s.nowFunc()); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

// ResolveUserID returns the owning user of an active refresh token.
func (s *Service) ResolveUserID(ctx context.Context, rawToken string) (uuid.UUID, error) {
	session, err := s.repo.FindActiveByHash(ctx, hashToken(rawToken), s.nowFunc())
	if err != nil {
		if errors.Is(err, ErrNoActiveSession) {
			return uuid.Nil, ErrInvalidSession
		}
		return uuid.Nil, fmt.Errorf("resolve session: %w", err)
	}
	return session.UserID, nil
}

// ListForUser returns the user's active sessions, most recent first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*RefreshSession, error) {
	list, err := s.repo.FindActiveByUserID(ctx, userID, s.nowFunc())
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return list, nil
}

func generateToken() (string, error) {
	buf := make([]byte, rawTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
