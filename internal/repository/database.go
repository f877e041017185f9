package repository

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/glebarez/sqlite"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kipko3ch/link-seav1/internal/config"
	"github.com/kipko3ch/link-seav1/internal/models"
)

// IsPostgres reports whether the URL targets Postgres rather than SQLite.
func IsPostgres(databaseURL string) bool {
	return strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://")
}

func dialector(databaseURL string) (gorm.Dialector, error) {
	switch {
	case IsPostgres(databaseURL):
		return postgres.Open(databaseURL), nil
	case strings.HasPrefix(databaseURL, "sqlite"):
		return sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://")), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", databaseURL)
	}
}

// InitDB opens the store, retrying the initial connect with exponential
// backoff up to cfg.DBConnectRetries extra attempts.
func InitDB(cfg config.Config) (*gorm.DB, error) {
	dialer, err := dialector(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	var db *gorm.DB
	open := func() error {
		var openErr error
		db, openErr = gorm.Open(dialer, &gorm.Config{})
		return openErr
	}

	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), cfg.DBConnectRetries)
	if err := backoff.Retry(open, bo); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows a single writer.
	if !IsPostgres(cfg.DatabaseURL) {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	return db, nil
}

// AutoMigrate creates or updates tables from the gorm models. Used for SQLite
// where the versioned SQL migrations do not apply.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func RunMigrations(databaseURL string, sourcePath string) error {
	if sourcePath == "" {
		sourcePath = "file://migrations"
	}
	m, err := migrate.New(
		sourcePath,
		databaseURL,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run up migrations: %w", err)
	}

	log.Println("Database migrations ran successfully")
	return nil
}
