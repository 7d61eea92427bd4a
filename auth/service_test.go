package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hospitalmgmt/auth-service/auth"
	"github.com/hospitalmgmt/auth-service/sessions"
	sessionfakes "github.com/hospitalmgmt/auth-service/sessions/repofakes"
	"github.com/hospitalmgmt/auth-service/token"
	"github.com/hospitalmgmt/auth-service/users"
	userfakes "github.com/hospitalmgmt/auth-service/users/repofakes"
)

const (
	testPassword = "Sup3r-Secret-Pw!"
	accessTTL    = 15 * time.Minute
	refreshTTL   = 7 * 24 * time.Hour
)

type authFixture struct {
	users    *userfakes.FakeUserRepo
	service  *auth.Service
	sessions *sessions.Service
	now      time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	nowFunc := func() time.Time { return f.now }

	f.users = userfakes.NewFakeUserRepo()
	codec := token.NewCodec(
		token.NewHMACSigner("0123456789abcdef0123456789abcdef"),
		"hospital-auth-test",
		accessTTL,
		token.WithNowFunc(nowFunc),
	)
	f.sessions = sessions.NewService(sessionfakes.NewFakeSessionRepo(), refreshTTL,
		sessions.WithNowFunc(nowFunc))

	service, err := auth.NewService(f.users, codec, f.sessions)
	require.NoError(t, err)
	f.service = service
	return f
}

func (f *authFixture) createUser(t *testing.T, email string, role users.RoleType) *users.User {
	t.Helper()
	hash, err := users.HashPassword(testPassword)
	require.NoError(t, err)

	user := &users.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Nina",
		LastName:     "Okafor",
		Role:         role,
		Active:       true,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func TestLoginIssuesUsableTokenPair(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "nina.nurse@hospital.test", users.RoleNurse)

	pair, err := f.service.Login(ctx, user.Email, testPassword, "ward-tablet-3", "10.0.0.7")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, int64(accessTTL.Seconds()), pair.ExpiresIn)
	require.Equal(t, users.RoleNurse, pair.Role)
	require.Equal(t, "Nina", pair.FirstName)

	identity, err := f.service.ResolveCurrentIdentity(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, identity.UserID)
	require.Equal(t, user.Email, identity.Email)
	require.Equal(t, users.RoleNurse, identity.Role)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "nina.nurse@hospital.test", users.RoleNurse)

	_, err := f.service.Login(ctx, user.Email, "wrong-password", "", "")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.service.Login(ctx, "nobody@hospital.test", testPassword, "", "")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	require.NoError(t, f.users.SetActive(ctx, user.ID, false))
	_, err = f.service.Login(ctx, user.Email, testPassword, "", "")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRefreshRotatesTheToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "dan.doctor@hospital.test", users.RoleDoctor)

	pair, err := f.service.Login(ctx, user.Email, testPassword, "", "")
	require.NoError(t, err)

	refreshed, err := f.service.Refresh(ctx, pair.RefreshToken, "", "")
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, refreshed.RefreshToken)

	// The consumed token cannot be replayed.
	_, err = f.service.Refresh(ctx, pair.RefreshToken, "", "")
	require.ErrorIs(t, err, sessions.ErrInvalidSession)

	// The replacement keeps working.
	_, err = f.service.Refresh(ctx, refreshed.RefreshToken, "", "")
	require.NoError(t, err)
}

func TestRefreshFailsAfterDeactivation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "dan.doctor@hospital.test", users.RoleDoctor)

	pair, err := f.service.Login(ctx, user.Email, testPassword, "", "")
	require.NoError(t, err)

	require.NoError(t, f.users.SetActive(ctx, user.ID, false))

	_, err = f.service.Refresh(ctx, pair.RefreshToken, "", "")
	require.ErrorIs(t, err, auth.ErrAccountInactive)
}

func TestRefreshPicksUpRoleChange(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "rita.reception@hospital.test", users.RoleReceptionist)

	pair, err := f.service.Login(ctx, user.Email, testPassword, "", "")
	require.NoError(t, err)

	user.Role = users.RoleAdmin
	require.NoError(t, f.users.Update(ctx, user))

	refreshed, err := f.service.Refresh(ctx, pair.RefreshToken, "", "")
	require.NoError(t, err)
	require.Equal(t, users.RoleAdmin, refreshed.Role)

	identity, err := f.service.ResolveCurrentIdentity(refreshed.AccessToken)
	require.NoError(t, err)
	require.Equal(t, users.RoleAdmin, identity.Role)

	// The access token from before the role change stays valid as issued
	// until it expires on its own.
	identity, err = f.service.ResolveCurrentIdentity(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, users.RoleReceptionist, identity.Role)
}

func TestLogoutInvalidatesEverySession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "nina.nurse@hospital.test", users.RoleNurse)

	first, err := f.service.Login(ctx, user.Email, testPassword, "desktop", "10.0.0.1")
	require.NoError(t, err)
	second, err := f.service.Login(ctx, user.Email, testPassword, "tablet", "10.0.0.2")
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, user.ID))

	_, err = f.service.Refresh(ctx, first.RefreshToken, "", "")
	require.ErrorIs(t, err, sessions.ErrInvalidSession)
	_, err = f.service.Refresh(ctx, second.RefreshToken, "", "")
	require.ErrorIs(t, err, sessions.ErrInvalidSession)

	// Logout with nothing left to revoke still succeeds.
	require.NoError(t, f.service.Logout(ctx, user.ID))
}

func TestAccessTokenExpires(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "nina.nurse@hospital.test", users.RoleNurse)

	pair, err := f.service.Login(ctx, user.Email, testPassword, "", "")
	require.NoError(t, err)

	f.now = f.now.Add(accessTTL + time.Minute)

	_, err = f.service.ResolveCurrentIdentity(pair.AccessToken)
	require.ErrorIs(t, err, token.ErrInvalidToken)

	// The refresh token outlives the access token.
	_, err = f.service.Refresh(ctx, pair.RefreshToken, "", "")
	require.NoError(t, err)
}

func TestRefreshFailsAfterRefreshTokenExpires(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "nina.nurse@hospital.test", users.RoleNurse)

	pair, err := f.service.Login(ctx, user.Email, testPassword, "", "")
	require.NoError(t, err)

	f.now = f.now.Add(refreshTTL + time.Minute)

	_, err = f.service.Refresh(ctx, pair.RefreshToken, "", "")
	require.ErrorIs(t, err, sessions.ErrInvalidSession)
}

func TestResolveCurrentIdentityRejectsTamperedToken(t *testing.T) {
	f := newAuthFixture(t)
	user := f.createUser(t, "ava.admin@hospital.test", users.RoleAdmin)

	pair, err := f.service.Login(context.Background(), user.Email, testPassword, "", "")
	require.NoError(t, err)

	mutated := []byte(pair.AccessToken)
	last := len(mutated) - 1
	if mutated[last] == 'A' {
		mutated[last] = 'B'
	} else {
		mutated[last] = 'A'
	}

	_, err = f.service.ResolveCurrentIdentity(string(mutated))
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestLoginSessionsAreIndependentPerUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	nurse := f.createUser(t, "nina.nurse@hospital.test", users.RoleNurse)
	doctor := f.createUser(t, "dan.doctor@hospital.test", users.RoleDoctor)

	nursePair, err := f.service.Login(ctx, nurse.Email, testPassword, "", "")
	require.NoError(t, err)
	doctorPair, err := f.service.Login(ctx, doctor.Email, testPassword, "", "")
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, nurse.ID))

	_, err = f.service.Refresh(ctx, nursePair.RefreshToken, "", "")
	require.ErrorIs(t, err, sessions.ErrInvalidSession)
	_, err = f.service.Refresh(ctx, doctorPair.RefreshToken, "", "")
	require.NoError(t, err)

	sessionsList, err := f.sessions.ListForUser(ctx, nurse.ID)
	require.NoError(t, err)
	require.Empty(t, sessionsList)
}
