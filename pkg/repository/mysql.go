package repository

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hamzaalmahdi/civitai/pkg/config"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the primary gorm DB instance plus an optional read replica.
// When no replica is configured, Read points at Self so callers never need
// to branch on topology.
type Database struct {
	Self *gorm.DB
	Read *gorm.DB
}

// NewDatabase initialises the primary connection and, when configured,
// the read replica.
func NewDatabase(primary, replica *config.DatabaseConfig) (*Database, error) {
	selfDB, err := openDB(primary)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	readDB := selfDB
	if replica != nil && !replica.Empty() {
		readDB, err = openDB(replica)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize read replica: %w", err)
		}
	}

	return &Database{Self: selfDB, Read: readDB}, nil
}

// Close closes the underlying sql.DB handles if possible.
func (db *Database) Close() {
	if db == nil {
		return
	}
	if db.Read != nil && db.Read != db.Self {
		if sqlDB, err := db.Read.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if db.Self != nil {
		if sqlDB, err := db.Self.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func openDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := cfg.GetDSN()

	loggerWriter := log.New(os.Stdout, "\r\n", log.LstdFlags)
	gormLogger := logger.New(
		loggerWriter,
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		DSN: dsn,
	}), &gorm.Config{
		CreateBatchSize:        1000,
		SkipDefaultTransaction: false,
		Logger:                 gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	} else {
		sqlDB.SetMaxOpenConns(100)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	} else {
		sqlDB.SetMaxIdleConns(10)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	} else {
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return gormDB, nil
}
