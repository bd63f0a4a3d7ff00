package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at the
// end.
var migrations = []string{
	// Migration 1: seed the default item categories. INSERT OR IGNORE keeps
	// this idempotent and preserves any categories added later.
	`INSERT OR IGNORE INTO categories (name) VALUES
	     ('Clothing'), ('Furniture'), ('Electronics'), ('Books'), ('Kitchenware'), ('Other')`,
}

// Migrate creates the schema and runs the migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
