package database

import (
	"database/sql"
	"time"
	"userhub/internal/platform/config"

	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

var DB *sql.DB

func Connect() {
	var err error
	DB, err = sql.Open("pgx", config.AppConfig.DBConnStr)
	if err != nil {
		zap.L().Fatal("Error opening database", zap.Error(err))
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err = DB.Ping(); err != nil {
		zap.L().Fatal("Error connecting to database", zap.Error(err))
	}

	zap.L().Info("Connected to PostgreSQL", zap.String("db", config.AppConfig.DBName))
}

func Close() {
	if DB != nil {
		DB.Close()
		zap.L().Info("Database connection closed")
	}
}
