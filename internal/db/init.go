package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    google_id VARCHAR(255) UNIQUE NOT NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    name VARCHAR(255) NOT NULL,
    picture TEXT,
    verified_email BOOLEAN DEFAULT true,
    is_active BOOLEAN DEFAULT true,
    deleted_at TIMESTAMP NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS records (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title VARCHAR(255) NOT NULL,
    username VARCHAR(255),
    password TEXT,
    passcode VARCHAR(255),
    website VARCHAR(500),
    notes TEXT,
    category VARCHAR(100) DEFAULT 'Applications',
    mobile_id INTEGER,
    deleted_at TIMESTAMP NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// migrations are additive column changes for databases created before the
// column existed. Each statement is safe to re-run.
var migrations = []string{
	`ALTER TABLE records ADD COLUMN IF NOT EXISTS passcode VARCHAR(255);`,
	`ALTER TABLE records ADD COLUMN IF NOT EXISTS category VARCHAR(100) DEFAULT 'Applications';`,
	`ALTER TABLE users ADD COLUMN IF NOT EXISTS deleted_at TIMESTAMP NULL;`,
	`ALTER TABLE records ADD COLUMN IF NOT EXISTS deleted_at TIMESTAMP NULL;`,
}

// InitPostgres opens the database, verifies connectivity, and bootstraps the
// schema.
func InitPostgres(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return nil, fmt.Errorf("apply migration: %w", err)
		}
	}

	return db, nil
}
