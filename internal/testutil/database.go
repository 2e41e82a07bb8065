// Package testutil provides shared helpers for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	config "corhyn.com/corhyn/internal/configs"
)

// SetupTestDB opens a migrated database in a temp directory with the same
// connection settings the CLI uses.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.NewDatabaseClient(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
