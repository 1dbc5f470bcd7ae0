package database

import (
	"fmt"
	"time"

	"watchlist/config"
	"watchlist/internal/logger"
	"watchlist/internal/models"

	"github.com/avast/retry-go/v4"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		return mysql.Open(cfg.DSN), nil
	case "postgres":
		return postgres.Open(cfg.DSN), nil
	case "sqlite":
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Driver)
	}
}

// NewDB opens the configured database and pings it, retrying while the server comes up.
func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.WithContext("database", "connect")
	attempts := cfg.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}

	var db *gorm.DB
	err = retry.Do(
		func() error {
			conn, err := gorm.Open(d, &gorm.Config{
				Logger:         gormlogger.Default.LogMode(gormlogger.Error),
				TranslateError: true,
			})
			if err != nil {
				return err
			}
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := sqlDB.Ping(); err != nil {
				_ = sqlDB.Close()
				return err
			}
			db = conn
			return nil
		},
		retry.Attempts(attempts),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.WithField("attempt", n+1).WithError(err).Warn("database not reachable, retrying")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == "sqlite" {
		// in-memory databases live per connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime.Duration)
	}
	log.WithField("driver", cfg.Driver).Info("database connected")
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Favorite{},
	)
}

// Ping is used by the readiness probe.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
