package sessions

import (
	"time"

	"github.com/google/uuid"
)

// RefreshSession is one issued refresh token session. The raw token value is
// never stored — only its SHA-256 hash. A revoked session never becomes
// active again; it is physically deleted only once it is both revoked and
// past its expiry, so recently revoked sessions remain auditable.
type RefreshSession struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	TokenHash  string     `json:"-"` // SHA-256 hex of the raw token, unique across all sessions
	DeviceInfo string     `json:"device_info,omitempty"`
	IPAddress  string     `json:"ip_address,omitempty"`
	ExpiresAt  time.Time  `json:"expires_at"`
	Revoked    bool       `json:"revoked"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Active reports whether the session can still be exchanged at the given time.
func (s *RefreshSession) Active(now time.Time) bool {
	return !s.Revoked && s.ExpiresAt.After(now)
}

// Reclaimable reports whether the session is eligible for permanent deletion.
func (s *RefreshSession) Reclaimable(now time.Time) bool {
	return s.Revoked && s.ExpiresAt.Before(now)
}
