package db

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/debangshucode/client-management-system/internal/models"
)

// ConnectAndMigrate opens the database named by dsn and brings the schema up
// to date. A postgres:// DSN selects the postgres driver, anything else is
// treated as a sqlite file path. Schema is applied with AutoMigrate unless
// MIGRATIONS=1, which runs the SQL migrations in ./migrations via
// golang-migrate (postgres only).
func ConnectAndMigrate(dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("database DSN is empty")
	}

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	dialector := sqlite.Open(dsn)
	isPostgres := strings.HasPrefix(strings.ToLower(dsn), "postgres://") ||
		strings.HasPrefix(strings.ToLower(dsn), "postgresql://")
	if isPostgres {
		dialector = postgres.Open(dsn)
	}

	var conn *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		conn, err = gorm.Open(dialector, cfg)
		if err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	if isPostgres && parseEnvFlag("MIGRATIONS") {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := AutoMigrate(conn); err != nil {
			return nil, err
		}
	}

	for _, table := range []string{"users", "clients", "quotes"} {
		if !conn.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}

	if parseEnvFlag("DB_SEED") {
		if err := Seed(conn); err != nil {
			return nil, fmt.Errorf("seed failed: %w", err)
		}
	}
	return conn, nil
}

// AutoMigrate applies the gorm-derived schema for every model.
func AutoMigrate(conn *gorm.DB) error {
	for _, m := range []any{
		&models.User{}, &models.Client{}, &models.Project{},
		&models.Feature{}, &models.Quote{}, &models.QuoteItem{},
	} {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// Seed inserts a default admin account and a starter feature catalog for
// development setups. Existing rows are left untouched.
func Seed(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&models.User{}).Where("email = ?", "admin@freelancercms.local").Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := models.User{Name: "Admin", Email: "admin@freelancercms.local", Password: string(hash), Role: models.RoleAdmin}
		if err := conn.Create(&admin).Error; err != nil {
			return err
		}
	}
	baseFeatures := []models.Feature{
		{Title: "Landing page", Description: "Single responsive marketing page", BasePrice: 500, Category: "web", IsActive: true},
		{Title: "Contact form", Description: "Form with validation and email delivery", BasePrice: 150, Category: "web", IsActive: true},
		{Title: "SEO audit", Description: "Technical and content SEO review", BasePrice: 300, Category: "marketing", IsActive: true},
	}
	for _, f := range baseFeatures {
		var existing models.Feature
		if err := conn.Where("title = ?", f.Title).First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			if err := conn.Create(&f).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func parseEnvFlag(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// runSQLMigrations executes migrations in ./migrations using the
// golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
