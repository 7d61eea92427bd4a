package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/hospitalmgmt/auth-service/sessions"
	"github.com/hospitalmgmt/auth-service/token"
	"github.com/hospitalmgmt/auth-service/users"
)

// dummyPasswordHash is compared against when the account lookup fails, so
// response timing does not reveal whether the email exists.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresIn    int64          `json:"expires_in"` // Access token lifetime in seconds
	Role         users.RoleType `json:"role"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
}

// Identity is the verified subject of an access token, consumed by the
// authorisation layer on every protected request.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   users.RoleType
}

// Service orchestrates authentication: credential validation, token pair
// issuance, refresh exchange, and logout. Storage and crypto failures never
// cross this boundary — callers only see the typed errors declared in this
// package and in the token and sessions packages.
type Service struct {
	users    users.Repo
	codec    *token.Codec
	sessions *sessions.Service
}

func NewService(userRepo users.Repo, codec *token.Codec, sessionService *sessions.Service) (*Service, error) {
	if userRepo == nil {
		return nil, errors.New("[NewService] user repo is required")
	}
	if codec == nil {
		return nil, errors.New("[NewService] token codec is required")
	}
	if sessionService == nil {
		return nil, errors.New("[NewService] session service is required")
	}
	return &Service{
		users:    userRepo,
		codec:    codec,
		sessions: sessionService,
	}, nil
}

// Login authenticates a user by email and password and issues a token pair.
// Unknown account, inactive account and wrong password all return the same
// ErrInvalidCredentials; the bcrypt comparison runs in every branch.
func (s *Service) Login(ctx context.Context, email, password, deviceInfo, ipAddress string) (*TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !users.CheckPasswordHash(password, user.PasswordHash) || !user.Active {
		log.Warn().
			Str("email", email).
			Str("ip_address", ipAddress).
			Msg("failed login attempt")
		return nil, ErrInvalidCredentials
	}

	return s.issueTokenPair(ctx, user, deviceInfo, ipAddress)
}

// Refresh exchanges a valid refresh token for a new token pair. The user
// record is re-fetched so a deactivation or role change since the original
// login takes effect now, even though outstanding access tokens stay valid
// until their own expiry.
func (s *Service) Refresh(ctx context.Context, rawRefreshToken, deviceInfo, ipAddress string) (*TokenPair, error) {
	userID, err := s.sessions.ResolveUserID(ctx, rawRefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrAccountInactive
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}
	if !user.Active {
		return nil, ErrAccountInactive
	}

	newRefreshToken, err := s.sessions.Rotate(ctx, rawRefreshToken, deviceInfo, ipAddress)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.codec.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    int64(s.codec.TTL().Seconds()),
		Role:         user.Role,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
	}, nil
}

// Logout revokes every session for the user. Always succeeds: a user with no
// active sessions is already logged out.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessions.RevokeAll(ctx, userID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	log.Info().Stringer("user_id", userID).Msg("all sessions revoked")
	return nil
}

// ResolveCurrentIdentity verifies an access token and returns the identity it
// carries. Purely computational — no storage lookup.
func (s *Service) ResolveCurrentIdentity(accessToken string) (*Identity, error) {
	claims, err := s.codec.Verify(accessToken)
	if err != nil {
		return nil, err
	}
	return &Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

func (s *Service) issueTokenPair(ctx context.Context, user *users.User, deviceInfo, ipAddress string) (*TokenPair, error) {
	accessToken, err := s.codec.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token pair: %w", err)
	}

	refreshToken, err := s.sessions.Issue(ctx, user.ID, deviceInfo, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("issue token pair: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.codec.TTL().Seconds()),
		Role:         user.Role,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
	}, nil
}
