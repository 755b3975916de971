package service

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/unidash/unidash-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Batch{},
		&models.StudentProfile{},
		&models.Module{},
		&models.ModuleContentVersion{},
		&models.PastPaperStructure{},
		&models.ContinuousAssessment{},
		&models.EditLog{},
	))

	return db
}

func seedStudent(t *testing.T, db *gorm.DB, userID uint, index string, batchNumber int) {
	t.Helper()

	batch := models.Batch{BatchNumber: batchNumber}
	result := db.Where(models.Batch{BatchNumber: batchNumber}).FirstOrCreate(&batch)
	require.NoError(t, result.Error)

	profile := models.StudentProfile{
		ID:          userID,
		IndexNumber: index,
		FullName:    "Test Student",
		BatchID:     &batch.ID,
	}
	require.NoError(t, db.Create(&profile).Error)
}
