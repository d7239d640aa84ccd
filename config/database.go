package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSNString returns the MySQL connection string, preferring an explicit database.dsn.
func (d DatabaseSection) DSNString() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Name,
	)
}

// GormConfig is shared by the MySQL connection and the sqlite test databases.
func GormConfig(level string) *gorm.Config {
	// Raise slow-sql threshold to reduce noise; per-statement logs only at debug
	gLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  toGormLogLevel(level),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	return &gorm.Config{
		Logger:                                   gLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	}
}

// InitDatabase opens the MySQL connection, tunes the pool and migrates the given models.
// The returned handle is owned by the caller and passed explicitly to the stores.
func InitDatabase(cfg AppConfig, modelDefs ...interface{}) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.Database.DSNString()), GormConfig(cfg.Log.Level))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	// Ping early so network/auth problems show up at boot instead of on the first query
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping: %w", err)
	}

	if len(modelDefs) > 0 {
		if err := db.AutoMigrate(modelDefs...); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}
	return db, nil
}

// toGormLogLevel maps application LogLevel to GORM's logger level.
func toGormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		// GORM 'Info' shows SQL; use with caution
		return logger.Info
	case "info", "", "warn":
		return logger.Warn
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		return logger.Warn
	}
}
