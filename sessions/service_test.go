package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/hospitalmgmt/auth-service/sessions"
	"github.com/hospitalmgmt/auth-service/sessions/repofakes"
)

const testRefreshTTL = 7 * 24 * time.Hour

type sessionFixture struct {
	repo    *repofakes.FakeSessionRepo
	service *sessions.Service
	now     time.Time
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		repo: repofakes.NewFakeSessionRepo(),
		now:  time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	f.service = sessions.NewService(f.repo, testRefreshTTL,
		sessions.WithNowFunc(func() time.Time { return f.now }))
	return f
}

func TestIssueReturnsResolvableToken(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	raw, err := f.service.Issue(ctx, userID, "ward-tablet-3", "10.0.0.7")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	resolved, err := f.service.ResolveUserID(ctx, raw)
	require.NoError(t, err)
	require.Equal(t, userID, resolved)
}

func TestIssuePersistsHashNotRawToken(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	raw, err := f.service.Issue(ctx, userID, "", "")
	require.NoError(t, err)

	list, err := f.repo.FindActiveByUserID(ctx, userID, f.now)
	require.NoError(t, err)
	require.Len(t, list, 1)

	stored := list[0]
	require.NotEqual(t, raw, stored.TokenHash)
	require.NotContains(t, stored.TokenHash, raw)
	require.Len(t, stored.TokenHash, 64) // SHA-256 hex
	require.Equal(t, f.now.Add(testRefreshTTL), stored.ExpiresAt)
	require.False(t, stored.Revoked)
}

func TestRotateIsSingleUse(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := f.service.Issue(ctx, userID, "", "")
	require.NoError(t, err)

	second, err := f.service.Rotate(ctx, first, "", "")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// Replay of the consumed token always fails.
	_, err = f.service.Rotate(ctx, first, "", "")
	require.ErrorIs(t, err, sessions.ErrInvalidSession)
	_, err = f.service.ResolveUserID(ctx, first)
	require.ErrorIs(t, err, sessions.ErrInvalidSession)

	// The replacement stays bound to the same user.
	resolved, err := f.service.ResolveUserID(ctx, second)
	require.NoError(t, err)
	require.Equal(t, userID, resolved)
}

func TestRotateUnknownTokenFails(t *testing.T) {
	f := newSessionFixture(t)

	_, err := f.service.Rotate(context.Background(), "never-issued", "", "")
	require.ErrorIs(t, err, sessions.ErrInvalidSession)
}

func TestExpiredTokenFails(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	raw, err := f.service.Issue(ctx, uuid.New(), "", "")
	require.NoError(t, err)

	f.now = f.now.Add(testRefreshTTL + time.Second)

	_, err = f.service.ResolveUserID(ctx, raw)
	require.ErrorIs(t, err, sessions.ErrInvalidSession)
	_, err = f.service.Rotate(ctx, raw, "", "")
	require.ErrorIs(t, err, sessions.ErrInvalidSession)
}

func TestRevokeAllIsImmediateAndIdempotent(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := f.service.Issue(ctx, userID, "", "")
	require.NoError(t, err)
	second, err := f.service.Issue(ctx, userID, "", "")
	require.NoError(t, err)

	require.NoError(t, f.service.RevokeAll(ctx, userID))

	_, err = f.service.ResolveUserID(ctx, first)
	require.ErrorIs(t, err, sessions.ErrInvalidSession)
	_, err = f.service.Rotate(ctx, second, "", "")
	require.ErrorIs(t, err, sessions.ErrInvalidSession)

	// No active sessions left is a no-op, not an error.
	require.NoError(t, f.service.RevokeAll(ctx, userID))
}

func TestRevokeAllDoesNotTouchOtherUsers(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	victim := uuid.New()
	other := uuid.New()

	victimToken, err := f.service.Issue(ctx, victim, "", "")
	require.NoError(t, err)
	otherToken, err := f.service.Issue(ctx, other, "", "")
	require.NoError(t, err)

	require.NoError(t, f.service.RevokeAll(ctx, victim))

	_, err = f.service.ResolveUserID(ctx, victimToken)
	require.ErrorIs(t, err, sessions.ErrInvalidSession)

	resolved, err := f.service.ResolveUserID(ctx, otherToken)
	require.NoError(t, err)
	require.Equal(t, other, resolved)
}

func TestListForUserNewestFirst(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := f.service.Issue(ctx, userID, "desktop", "10.0.0.1")
	require.NoError(t, err)
	f.now = f.now.Add(time.Minute)
	_, err = f.service.Issue(ctx, userID, "tablet", "10.0.0.2")
	require.NoError(t, err)
	f.now = f.now.Add(time.Minute)
	_, err = f.service.Issue(ctx, userID, "phone", "10.0.0.3")
	require.NoError(t, err)

	list, err := f.service.ListForUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "phone", list[0].DeviceInfo)
	require.Equal(t, "tablet", list[1].DeviceInfo)
	require.Equal(t, "desktop", list[2].DeviceInfo)
}
