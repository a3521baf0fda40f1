// Package repository provides persistence implementations for the account
// lifecycle and record synchronization services using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/avoronin/secretvault/internal/models"
)

// userColumns is the scan list shared by every user query.
const userColumns = `id, google_id, email, name, picture, verified_email, is_active, deleted_at, created_at, updated_at`

// PostgresAccountRepository implements account persistence against PostgreSQL.
type PostgresAccountRepository struct {
	// DB is the database handle for executing queries.
	DB *sqlx.DB
}

// NewPostgresAccountRepository creates a new PostgresAccountRepository with
// the given database connection. db must be a valid *sqlx.DB connected to a
// PostgreSQL instance.
func NewPostgresAccountRepository(db *sqlx.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{DB: db}
}

// FindByEmailOrGoogleID returns any user row, active or tombstoned, matching
// the email or the google id. Used by the signup duplicate check, which is
// deliberately blind to lifecycle state. Returns (nil, nil) when no row matches.
func (r *PostgresAccountRepository) FindByEmailOrGoogleID(ctx context.Context, email, googleID string) (*models.User, error) {
	var u models.User
	err := r.DB.GetContext(ctx, &u, `
		SELECT `+userColumns+` FROM users WHERE email = $1 OR google_id = $2
	`, email, googleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email or google id: %w", err)
	}
	return &u, nil
}

// Insert provisions a new active user and returns the stored row.
func (r *PostgresAccountRepository) Insert(ctx context.Context, nu models.NewUser) (*models.User, error) {
	var u models.User
	err := r.DB.GetContext(ctx, &u, `
		INSERT INTO users (google_id, email, name, picture, verified_email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns+`
	`, nu.GoogleID, nu.Email, nu.Name, nu.Picture, nu.VerifiedEmail)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}

// FindActive returns the active user matching both identity keys, or (nil, nil).
func (r *PostgresAccountRepository) FindActive(ctx context.Context, email, googleID string) (*models.User, error) {
	var u models.User
	err := r.DB.GetContext(ctx, &u, `
		SELECT `+userColumns+` FROM users
		WHERE email = $1 AND google_id = $2 AND is_active = true AND deleted_at IS NULL
	`, email, googleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active user: %w", err)
	}
	return &u, nil
}

// FindDeleted returns the tombstoned user matching both identity keys, or (nil, nil).
func (r *PostgresAccountRepository) FindDeleted(ctx context.Context, email, googleID string) (*models.User, error) {
	var u models.User
	err := r.DB.GetContext(ctx, &u, `
		SELECT `+userColumns+` FROM users
		WHERE email = $1 AND google_id = $2 AND deleted_at IS NOT NULL
	`, email, googleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find deleted user: %w", err)
	}
	return &u, nil
}

// FindActiveByEmail returns the user matching the email with is_active set,
// or (nil, nil). The lifecycle tombstone is intentionally not consulted here;
// this lookup is a coarse pre-flight check.
func (r *PostgresAccountRepository) FindActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.DB.GetContext(ctx, &u, `
		SELECT `+userColumns+` FROM users WHERE email = $1 AND is_active = true
	`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

// Touch bumps updated_at on the user row, recording a successful signin.
func (r *PostgresAccountRepository) Touch(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE users SET updated_at = CURRENT_TIMESTAMP WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("touch user: %w", err)
	}
	return nil
}

// MarkDeleted tombstones the active user matching both identity keys and
// reports whether a row transitioned. A second call for the same identity
// matches nothing and returns false.
func (r *PostgresAccountRepository) MarkDeleted(ctx context.Context, email, googleID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users
		SET deleted_at = CURRENT_TIMESTAMP, is_active = false, updated_at = CURRENT_TIMESTAMP
		WHERE email = $1 AND google_id = $2 AND is_active = true AND deleted_at IS NULL
	`, email, googleID)
	if err != nil {
		return false, fmt.Errorf("mark user deleted: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark user deleted: %w", err)
	}
	return rows > 0, nil
}

// Reactivate clears the tombstone on the user matching the email and returns
// the restored row, or (nil, nil) when no tombstoned row exists. Reactivation
// is email-scoped only; the google id is not required.
func (r *PostgresAccountRepository) Reactivate(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.DB.GetContext(ctx, &u, `
		UPDATE users
		SET deleted_at = NULL, is_active = true, updated_at = CURRENT_TIMESTAMP
		WHERE email = $1 AND deleted_at IS NOT NULL
		RETURNING `+userColumns+`
	`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reactivate user: %w", err)
	}
	return &u, nil
}
