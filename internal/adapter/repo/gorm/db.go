// Package gormrepo backs the repository ports with Postgres through gorm.
// Optimistic concurrency uses a version column: saves are guarded by the
// expected version and report ErrConflict when another writer won.
package gormrepo

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}
