package auth

import "errors"

var (
	// ErrInvalidCredentials is returned for a bad password, an unknown email
	// and a deactivated account alike. The three cases are deliberately
	// indistinguishable to prevent account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountInactive means the refresh token was valid but the account
	// has been deactivated since it was issued.
	ErrAccountInactive = errors.New("account inactive")
)
