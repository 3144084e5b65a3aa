package mysql

import (
	"context"
	"fmt"
	"testing"

	"Sawa_Community/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库只有一个连接能看到数据
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	u := &model.User{Username: name, Password: "x", Email: name + "@test.local"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedUsers(t *testing.T, db *gorm.DB, n int) []uint64 {
	t.Helper()
	ids := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, seedUser(t, db, fmt.Sprintf("user%02d", i)).ID)
	}
	return ids
}

// seedCommunity 建社区，creator 自动成为管理员
func seedCommunity(t *testing.T, db *gorm.DB, creatorID uint64, name string) *model.Community {
	t.Helper()
	c, err := NewCommunityRepository(db).Create(context.Background(), &model.Community{
		Name:      name,
		CreatorID: creatorID,
	})
	require.NoError(t, err)
	return c
}
