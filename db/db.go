package db

import (
	"database/sql"
	"fmt"
	"go-account-api/config"
	"go-account-api/logger"
	"time"

	_ "github.com/lib/pq"
)

// DSN builds a lib/pq key/value connection string from the database config.
func DSN(withPassword bool) string {
	cfg := config.AppConfig.Database
	dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Name, cfg.SSLMode)
	if withPassword {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}
	return dsn
}

// URL builds the postgres:// form expected by golang-migrate.
func URL() string {
	cfg := config.AppConfig.Database
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode)
}

func Connect() (*sql.DB, error) {
	logger.Log.WithField("connection", DSN(false)).Info("Attempting to connect to the database")

	db, err := sql.Open("postgres", DSN(true))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to open database connection")
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err = db.Ping(); err != nil {
		db.Close()
		logger.Log.WithError(err).Error("Failed to ping database")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Log.Info("Database connection established successfully")
	return db, nil
}
