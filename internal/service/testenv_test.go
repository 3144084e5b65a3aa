package service

import (
	"context"
	"testing"

	"Sawa_Community/internal/model"
	"Sawa_Community/internal/repository/mysql"
	"Sawa_Community/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
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
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, mysql.Migrate(db))
	return db
}

// newTestRedis 用 miniredis 替换全局客户端
func newTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	require.NoError(t, redis.Init(mr.Addr(), "", 0))
	t.Cleanup(func() { _ = redis.Close() })
	return mr
}

func seedUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	u := &model.User{Username: name, Password: "x", Email: name + "@test.local"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedCommunity(t *testing.T, db *gorm.DB, creatorID uint64, name string) *model.Community {
	t.Helper()
	c, err := mysql.NewCommunityRepository(db).Create(context.Background(), &model.Community{
		Name:      name,
		CreatorID: creatorID,
	})
	require.NoError(t, err)
	return c
}
