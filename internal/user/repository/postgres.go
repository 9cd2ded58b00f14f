package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"movie-booking-admin/backend/internal/user/domain"
)

const userColumns = `id, first_name, last_name, email_id, password, phone, email_verified,
	is_active, is_deleted, last_login, created_at, modified_at`

type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the user. The user must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (:id, :first_name, :last_name, :email_id, :password, :phone, :email_verified,
			:is_active, :is_deleted, :last_login, :created_at, :modified_at)`, u)
	return err
}

// GetActiveByEmail returns the active user with the given email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email_id = $1 AND is_active LIMIT 1`, email)
}

// GetActiveByID returns the active user for id, or nil if not found.
func (r *PostgresRepository) GetActiveByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 AND is_active`, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	if err := r.db.GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
	return err
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, hash string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET password = $2, modified_at = $3 WHERE id = $1`, id, hash, at)
	return err
}

func (r *PostgresRepository) Deactivate(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET is_active = FALSE, modified_at = $2 WHERE id = $1`, id, at)
	return err
}

func (r *PostgresRepository) MarkDeleted(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET is_deleted = TRUE, modified_at = $2 WHERE id = $1`, id, at)
	return err
}

// UpdateProfile writes the profile columns and modified_at from u.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	_, err := r.db.NamedExecContext(ctx, `
		UPDATE users
		SET first_name = :first_name, last_name = :last_name, email_id = :email_id,
			phone = :phone, modified_at = :modified_at
		WHERE id = :id`, u)
	return err
}
