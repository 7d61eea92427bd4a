package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

// Repo provides access to user records. Authentication only ever reads
// (GetByEmail, GetByID); the management endpoints use the rest.
type Repo interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	List(ctx context.Context, offset, limit int) ([]*User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}
