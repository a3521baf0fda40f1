// Package repository provides persistence implementations for the account
// lifecycle and record synchronization services using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/avoronin/secretvault/internal/models"
)

// recordColumns is the scan list shared by every record query.
const recordColumns = `id, user_id, title, username, password, passcode, website, notes, category, mobile_id, deleted_at, created_at, updated_at`

// PostgresRecordRepository implements secret record persistence against PostgreSQL.
type PostgresRecordRepository struct {
	// DB is the database handle for executing queries.
	DB *sqlx.DB
}

// NewPostgresRecordRepository creates a new PostgresRecordRepository using the
// provided *sqlx.DB. db must be a valid connection to a PostgreSQL instance.
func NewPostgresRecordRepository(db *sqlx.DB) *PostgresRecordRepository {
	return &PostgresRecordRepository{DB: db}
}

// Insert stores a new record owned by userID. mobileID stamps the client's
// correlation key and may be nil for records created directly on the server.
// Every call inserts a fresh row; replaying a create produces a duplicate.
func (r *PostgresRecordRepository) Insert(ctx context.Context, userID int64, data models.RecordData, mobileID *int64) (*models.SecretRecord, error) {
	category := data.Category
	if category == "" {
		category = models.DefaultCategory
	}

	var rec models.SecretRecord
	err := r.DB.GetContext(ctx, &rec, `
		INSERT INTO records (user_id, title, username, password, passcode, website, notes, category, mobile_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+recordColumns+`
	`, userID, data.Title, data.Username, data.Password, data.Passcode, data.Website, data.Notes, category, mobileID)
	if err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}
	return &rec, nil
}

// ListByUser returns the user's live records, newest first. Tombstoned rows
// are never listed.
func (r *PostgresRecordRepository) ListByUser(ctx context.Context, userID int64) ([]models.SecretRecord, error) {
	var records []models.SecretRecord
	err := r.DB.SelectContext(ctx, &records, `
		SELECT `+recordColumns+` FROM records
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

// UpdateByID rewrites content fields of the live record with the given id and
// returns the updated row, or (nil, nil) when no live row matched.
func (r *PostgresRecordRepository) UpdateByID(ctx context.Context, id int64, data models.RecordData) (*models.SecretRecord, error) {
	b := updateRecordBuilder(data).
		Where(sq.Eq{"id": id}).
		Where("deleted_at IS NULL")
	return r.runUpdate(ctx, b)
}

// UpdateByMobileID rewrites content fields of the live record correlated to
// the client's mobile id and returns the updated row. A missing match is not
// an error: the result is (nil, nil), which sync reports as a successful no-op.
func (r *PostgresRecordRepository) UpdateByMobileID(ctx context.Context, userID, mobileID int64, data models.RecordData) (*models.SecretRecord, error) {
	b := updateRecordBuilder(data).
		Where(sq.Eq{"mobile_id": mobileID}).
		Where(sq.Eq{"user_id": userID}).
		Where("deleted_at IS NULL")
	return r.runUpdate(ctx, b)
}

// SoftDeleteByID tombstones the live record with the given id and reports
// whether a row changed.
func (r *PostgresRecordRepository) SoftDeleteByID(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE records
		SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return false, fmt.Errorf("soft delete record: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("soft delete record: %w", err)
	}
	return rows > 0, nil
}

// SoftDeleteByMobileID tombstones the record correlated to the client's
// mobile id. No existence check is performed; deleting an absent record is a
// no-op, not an error.
func (r *PostgresRecordRepository) SoftDeleteByMobileID(ctx context.Context, userID, mobileID int64) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE records
		SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE mobile_id = $1 AND user_id = $2
	`, mobileID, userID)
	if err != nil {
		return fmt.Errorf("soft delete record by mobile id: %w", err)
	}
	return nil
}

// updateRecordBuilder assembles the SET clause for a partial content update.
// Unset payload fields are left untouched in the row.
func updateRecordBuilder(data models.RecordData) sq.UpdateBuilder {
	b := sq.Update("records").
		PlaceholderFormat(sq.Dollar).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP"))
	if data.Title != "" {
		b = b.Set("title", data.Title)
	}
	if data.Username != nil {
		b = b.Set("username", data.Username)
	}
	if data.Password != nil {
		b = b.Set("password", data.Password)
	}
	if data.Passcode != nil {
		b = b.Set("passcode", data.Passcode)
	}
	if data.Website != nil {
		b = b.Set("website", data.Website)
	}
	if data.Notes != nil {
		b = b.Set("notes", data.Notes)
	}
	if data.Category != "" {
		b = b.Set("category", data.Category)
	}
	return b
}

// runUpdate executes a RETURNING update and scans the affected row.
func (r *PostgresRecordRepository) runUpdate(ctx context.Context, b sq.UpdateBuilder) (*models.SecretRecord, error) {
	query, args, err := b.Suffix("RETURNING " + recordColumns).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update query: %w", err)
	}

	var rec models.SecretRecord
	err = r.DB.GetContext(ctx, &rec, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update record: %w", err)
	}
	return &rec, nil
}
