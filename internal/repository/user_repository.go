package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"room-service/internal/model"
)

var ErrDuplicate = errors.New("repository: duplicate")

// uniqueViolation is the Postgres error code for a unique constraint.
const uniqueViolation = "23505"

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Insert stores u and fills in its generated ID and created_at.
func (r *UserRepository) Insert(ctx context.Context, u *model.User) error {
	const insertQuery = `
        INSERT INTO users (name, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	err := r.db.QueryRowxContext(ctx, insertQuery, u.Name, u.Email, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("UserRepository.Insert: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const selectQuery = `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	var u model.User
	err := r.db.GetContext(ctx, &u, selectQuery, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("UserRepository.FindByEmail: %w", err)
	}
	return &u, nil
}
