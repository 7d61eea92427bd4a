package departments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("department not found")
	ErrNameTaken = errors.New("department name already in use")
)

// Department is an organisational unit staff are assigned to.
type Department struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"` // Unique
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Repo interface {
	Create(ctx context.Context, department *Department) error
	Update(ctx context.Context, department *Department) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Department, error)
	List(ctx context.Context, offset, limit int) ([]*Department, error)
}
