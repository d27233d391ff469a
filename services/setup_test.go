package services

import (
	"path/filepath"
	"testing"

	"housecleaning-backend/config"
	"housecleaning-backend/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func sampleBooking() *models.Booking {
	return &models.Booking{
		Name:    "Siti Rahma",
		Email:   "siti@example.com",
		Phone:   "08123456789",
		Address: "Jl. Melati 5, Bandung",
		Service: "Deep Cleaning",
		Date:    "2025-03-01",
		Time:    "09:00",
	}
}
