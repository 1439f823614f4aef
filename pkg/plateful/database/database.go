package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect initializes the database connection.
func Connect(dsn string) error {
	var err error
	DB, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}
	return nil
}

// WaitForConnection polls Connect until the database accepts connections or
// the timeout elapses. Deployments start the server before storage is
// necessarily ready, so startup blocks here rather than crash-looping.
func WaitForConnection(dsn string, timeout time.Duration, log *zap.Logger) error {
	log.Info("Waiting for database connection", zap.String("dsn", dsn))
	deadline := time.Now().Add(timeout)

	for {
		err := Connect(dsn)
		if err == nil {
			log.Info("Database connected")
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("database not available after %s: %w", timeout, err)
		}
		log.Info("Database not available yet, retrying in 1s", zap.Error(err))
		time.Sleep(time.Second)
	}
}

// GetDB returns the database instance.
func GetDB() *gorm.DB {
	return DB
}
