// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"watchlist/config"
	"watchlist/internal/database"
	"watchlist/internal/models"

	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewTestDB returns a migrated in-memory SQLite database private to the test.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := database.NewDB(&config.DatabaseConfig{Driver: "sqlite", DSN: dsn, ConnectAttempts: 1})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// TestConfig returns a config suitable for handler and service tests.
func TestConfig() *config.Config {
	cfg := config.Default()
	cfg.Database.Driver = "sqlite"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiry = config.Duration{Duration: time.Hour}
	cfg.RateLimit.RequestsPerMinute = 10000
	cfg.RateLimit.Burst = 1000
	cfg.Server.CORSOrigin = ""
	return cfg
}

// MustCreateUser inserts a user with a throwaway password hash.
func MustCreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func Ptr[T any](v T) *T {
	return &v
}
