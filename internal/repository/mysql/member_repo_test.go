package mysql

import (
	"context"
	"testing"

	"Sawa_Community/internal/model"
	"Sawa_Community/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	alice := seedUser(t, db, "alice")
	c := seedCommunity(t, db, owner.ID, "gophers")
	repo := NewCommunityMemberRepository(db)

	changed, err := repo.Join(ctx, c.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	// 重复加入不报错、不产生第二条记录、计数不再增长
	changed, err = repo.Join(ctx, c.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	var cnt int64
	require.NoError(t, db.Model(&model.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", c.ID, alice.ID).Count(&cnt).Error)
	assert.EqualValues(t, 1, cnt)

	got, err := NewCommunityRepository(db).FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.MemberCount)
}

func TestJoinArchivedCommunity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	alice := seedUser(t, db, "alice")
	c := seedCommunity(t, db, owner.ID, "gophers")
	require.NoError(t, NewCommunityRepository(db).Archive(ctx, c.ID))

	_, err := NewCommunityMemberRepository(db).Join(ctx, c.ID, alice.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestLeaveNotMember(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	stranger := seedUser(t, db, "stranger")
	c := seedCommunity(t, db, owner.ID, "gophers")

	err := NewCommunityMemberRepository(db).Leave(ctx, c.ID, stranger.ID, 0)
	assert.ErrorIs(t, err, pkg.ErrNotMember)
}

func TestLeaveLastAdminNeedsSuccessor(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	alice := seedUser(t, db, "alice")
	c := seedCommunity(t, db, owner.ID, "gophers")
	repo := NewCommunityMemberRepository(db)

	_, err := repo.Join(ctx, c.ID, alice.ID)
	require.NoError(t, err)

	// 唯一管理员不指定继任者就不能走
	err = repo.Leave(ctx, c.ID, owner.ID, 0)
	assert.ErrorIs(t, err, pkg.ErrAdminRequired)

	// 指定继任者：提升与退出在同一事务里完成
	require.NoError(t, repo.Leave(ctx, c.ID, owner.ID, alice.ID))

	isAdmin, err := repo.IsAdmin(ctx, c.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isMember, err := repo.IsMember(ctx, c.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, isMember)

	got, err := NewCommunityRepository(db).FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.MemberCount)
}

func TestLeaveLastAdminBadSuccessor(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	stranger := seedUser(t, db, "stranger")
	c := seedCommunity(t, db, owner.ID, "gophers")

	// 继任者必须已经是成员，整个操作回滚
	err := NewCommunityMemberRepository(db).Leave(ctx, c.ID, owner.ID, stranger.ID)
	assert.ErrorIs(t, err, pkg.ErrNotMember)

	isAdmin, err := NewCommunityMemberRepository(db).IsAdmin(ctx, c.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestLeaveAdminWithOtherAdmin(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	alice := seedUser(t, db, "alice")
	c := seedCommunity(t, db, owner.ID, "gophers")
	repo := NewCommunityMemberRepository(db)

	_, err := repo.Join(ctx, c.ID, alice.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", c.ID, alice.ID).
		UpdateColumn("role", model.RoleAdmin).Error)

	// 还有别的管理员时不需要继任者
	require.NoError(t, repo.Leave(ctx, c.ID, owner.ID, 0))
}
