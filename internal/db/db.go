package db

import (
	"fmt"
	"log"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init opens a GORM connection from a DATABASE_URL-style string. A
// "postgres://" prefix selects the Postgres driver, "sqlite://" the pure-Go
// SQLite driver; an empty URL falls back to a local SQLite file.
func Init(dbURL string) (*gorm.DB, error) {
	if dbURL == "" {
		dbURL = "sqlite://inklet.db"
		log.Println("DATABASE_URL not set, defaulting to 'sqlite://inklet.db'")
	}

	var dialector gorm.Dialector

	switch {
	case strings.HasPrefix(dbURL, "postgres://"):
		dialector = postgres.Open(strings.TrimPrefix(dbURL, "postgres://"))
		log.Println("Connecting to PostgreSQL database...")
	case strings.HasPrefix(dbURL, "sqlite://"):
		dsn := strings.TrimPrefix(dbURL, "sqlite://")
		dialector = sqlite.Open(dsn)
		log.Println("Connecting to SQLite database at", dsn)
	default:
		return nil, fmt.Errorf("invalid DATABASE_URL prefix, must start with 'postgres://' or 'sqlite://'")
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Database connection established.")
	return db, nil
}
