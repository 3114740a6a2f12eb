// Package repository contains the storage layer for the NSE gateway
package repository

import (
	"fmt"

	"github.com/nsvirk/nsegateway/internal/config"
	"github.com/nsvirk/nsegateway/internal/models"
	"github.com/nsvirk/nsegateway/pkg/utils/zaplogger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectPostgres connects to a Postgres database and migrates the journal table
func ConnectPostgres(cfg *config.Config) (*gorm.DB, error) {
	zaplogger.Info(config.SingleLine)
	zaplogger.Info("Initializing Postgres")
	zaplogger.Info(config.SingleLine)

	// Set up GORM logger
	var logLevel logger.LogLevel
	switch cfg.PostgresLogLevel {
	case "silent":
		logLevel = logger.Silent
	case "warn":
		logLevel = logger.Warn
	case "info":
		logLevel = logger.Info
	default:
		logLevel = logger.Error
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresDsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %v", err)
	}
	zaplogger.Info("  * connected")

	if err := db.AutoMigrate(&models.DispatchRecord{}); err != nil {
		return nil, fmt.Errorf("failed to auto migrate table %s: %v", models.DispatchJournalTableName, err)
	}
	zaplogger.Info("    - \"" + models.DispatchJournalTableName + "\"")

	return db, nil
}
