package repository

import (
	"testing"

	"academy_backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSubscriberUpsertDeduplicates(t *testing.T) {
	repo := NewSubscriberRepository(newRepoTestDB(t))

	require.NoError(t, repo.Upsert("reader@example.com", "gate"))
	require.NoError(t, repo.Upsert("reader@example.com", "banner"))
	require.NoError(t, repo.Upsert("other@example.com", "gate"))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
