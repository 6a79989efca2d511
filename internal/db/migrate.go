package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is re-applied on each open.
func Migrate(db *sql.DB, d Dialect) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(d.Rebind(stmt)); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// Durable string key -> JSON value mapping. Roles live under "#<id>",
	// tasks under ":<id>"; any other key belongs to someone else.
	`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}
