package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wardrobe/backend/internal/infrastructure/persistence/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// :memory: databases are per connection
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.ClothingItemModel{},
		&models.OutfitLookModel{},
		&models.LookItemModel{},
		&models.OutfitAnalysisModel{},
		&models.OutfitPieceModel{},
		&models.RecommendationRecordModel{},
	))
	return db
}
