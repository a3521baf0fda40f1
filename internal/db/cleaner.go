package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// StartTombstoneGuard repairs is_active drift on tombstoned users with interval.
// The flag must never be true while deleted_at is set; rows are repaired in
// place, never removed.
func StartTombstoneGuard(
	ctx context.Context,
	db *sqlx.DB,
	interval time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				res, err := db.ExecContext(ctx, `
                    UPDATE users
                       SET is_active = false
                     WHERE deleted_at IS NOT NULL
                       AND is_active = true
                `)
				if err != nil {
					log.Error("failed to repair tombstoned users", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Warn("repaired active flags on tombstoned users", zap.Int64("repaired", rows))
				}
			}
		}
	}()
}
