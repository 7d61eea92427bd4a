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

	"github.com/hospitalmgmt/auth-service/departments"
)

const uniqueViolation = "23505"

var _ departments.Repo = (*Repo)(nil)

// Repo is the Postgres-backed departments.Repo.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, department *departments.Department) error {
	if department.ID == uuid.Nil {
		department.ID = uuid.New()
	}
	now := time.Now()
	department.CreatedAt = now
	department.UpdatedAt = now

	query := `
		INSERT INTO departments (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Exec(ctx, query,
		department.ID, department.Name, department.Description, department.CreatedAt, department.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return departments.ErrNameTaken
		}
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, department *departments.Department) error {
	department.UpdatedAt = time.Now()

	query := `UPDATE departments SET name = $2, description = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		department.ID, department.Name, department.Description, department.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return departments.ErrNameTaken
		}
		return fmt.Errorf("update department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return departments.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return departments.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*departments.Department, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM departments WHERE id = $1`
	department := &departments.Department{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&department.ID, &department.Name, &department.Description, &department.CreatedAt, &department.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, departments.ErrNotFound
		}
		return nil, fmt.Errorf("get department: %w", err)
	}
	return department, nil
}

func (r *Repo) List(ctx context.Context, offset, limit int) ([]*departments.Department, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, name, description, created_at, updated_at FROM departments ORDER BY name OFFSET $1 LIMIT $2`
	rows, err := r.db.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var result []*departments.Department
	for rows.Next() {
		department := &departments.Department{}
		err := rows.Scan(
			&department.ID, &department.Name, &department.Description, &department.CreatedAt, &department.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list departments: %w", err)
		}
		result = append(result, department)
	}
	return result, rows.Err()
}
