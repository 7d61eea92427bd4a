package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hospitalmgmt/auth-service/users"
)

// ErrInvalidToken covers every access token failure: bad signature, malformed
// structure, or expiry in the past. Callers never learn which one applied.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the verified content of an access token.
type Claims struct {
	UserID    uuid.UUID
	Email     string
	Role      users.RoleType
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec creates and verifies signed access tokens. It is stateless and does
// no I/O: validity is purely computational, so Verify is safe under arbitrary
// concurrent load. There is no server-side access token blocklist — a token
// stays valid until its own expiry, which is why the access TTL is short and
// role or status changes only take effect on the next refresh.
type Codec struct {
	signer  Signer
	issuer  string
	ttl     time.Duration
	nowFunc func() time.Time
}

type CodecOption func(*Codec)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowFunc = now
	}
}

func NewCodec(signer Signer, issuer string, ttl time.Duration, options ...CodecOption) *Codec {
	c := &Codec{
		signer:  signer,
		issuer:  issuer,
		ttl:     ttl,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// TTL returns the configured access token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue builds and signs an access token for the given user.
func (c *Codec) Issue(userID uuid.UUID, email string, role users.RoleType) (string, error) {
	now := c.nowFunc()
	claims := jwt.MapClaims{
		"iss":    c.issuer,              // The issuer of the token
		"sub":    email,                 // The subject, the user's login email
		"userId": userID.String(),       // Explicit user ID for downstream authorisation
		"role":   string(role),          // Staff role, checked by the authorisation layer
		"iat":    now.Unix(),            // Issued At: the time at which the token was issued
		"exp":    now.Add(c.ttl).Unix(), // Expiry: when the token will expire
		"jti":    uuid.New().String(),   // Unique token ID
	}

	signed, err := c.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a compact token string and returns its claims.
// Any failure — signature, structure, issuer, expiry — comes back as
// ErrInvalidToken.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.Parse(tokenString, c.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{c.signer.GetSigningMethod().Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithTimeFunc(c.nowFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := mapClaims["sub"].(string)
	rawUserID, _ := mapClaims["userId"].(string)
	rawRole, _ := mapClaims["role"].(string)
	iat, _ := mapClaims["iat"].(float64)
	exp, _ := mapClaims["exp"].(float64)

	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	role := users.RoleType(rawRole)
	if !role.Valid() {
		return nil, ErrInvalidToken
	}

	return &Claims{
		UserID:    userID,
		Email:     sub,
		Role:      role,
		IssuedAt:  time.Unix(int64(iat), 0),
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
