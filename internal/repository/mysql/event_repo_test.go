package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"Sawa_Community/internal/model"
	"Sawa_Community/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedEvent(t *testing.T, db *gorm.DB, communityID, creatorID uint64, capacity int) *model.Event {
	t.Helper()
	e := &model.Event{
		CommunityID: communityID,
		Title:       "meetup",
		StartsAt:    time.Now().Add(24 * time.Hour),
		Capacity:    capacity,
		CreatedBy:   creatorID,
	}
	require.NoError(t, NewEventRepository(db).Create(context.Background(), e))
	return e
}

func TestEventJoinCapacity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	c := seedCommunity(t, db, owner.ID, "gophers")
	e := seedEvent(t, db, c.ID, owner.ID, 10)
	repo := NewEventRepository(db)

	users := seedUsers(t, db, 12)
	joined, full := 0, 0
	for _, uid := range users {
		changed, err := repo.Join(ctx, e.ID, uid)
		switch {
		case err == nil && changed:
			joined++
		case errors.Is(err, pkg.ErrEventFull):
			full++
		default:
			t.Fatalf("join: changed=%v err=%v", changed, err)
		}
	}
	// 名额写死在提交点上，超员的请求一个都进不来
	assert.Equal(t, 10, joined)
	assert.Equal(t, 2, full)

	got, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 10, got.JoinedCount)
}

func TestEventJoinIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	c := seedCommunity(t, db, owner.ID, "gophers")
	e := seedEvent(t, db, c.ID, owner.ID, 1)
	repo := NewEventRepository(db)

	changed, err := repo.Join(ctx, e.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	// 已报名的人重复报名不吃 ErrEventFull，也不重复计数
	changed, err = repo.Join(ctx, e.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.JoinedCount)
}

func TestEventLeaveFreesSlot(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	alice := seedUser(t, db, "alice")
	c := seedCommunity(t, db, owner.ID, "gophers")
	e := seedEvent(t, db, c.ID, owner.ID, 1)
	repo := NewEventRepository(db)

	_, err := repo.Join(ctx, e.ID, owner.ID)
	require.NoError(t, err)
	_, err = repo.Join(ctx, e.ID, alice.ID)
	assert.ErrorIs(t, err, pkg.ErrEventFull)

	changed, err := repo.Leave(ctx, e.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.Join(ctx, e.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestEventExpired(t *testing.T) {
	start := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	e := &model.Event{StartsAt: start}

	// 开始后一小时内仍可加入，过了宽限期才算过期
	assert.False(t, e.Expired(start.Add(-time.Minute)))
	assert.False(t, e.Expired(start.Add(30*time.Minute)))
	assert.False(t, e.Expired(start.Add(model.EventGrace)))
	assert.True(t, e.Expired(start.Add(model.EventGrace+time.Second)))
}

func TestClaimUpcoming(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	c := seedCommunity(t, db, owner.ID, "gophers")
	repo := NewEventRepository(db)

	now := time.Now()
	soon := &model.Event{CommunityID: c.ID, Title: "soon", StartsAt: now.Add(30 * time.Minute), Capacity: 5, CreatedBy: owner.ID}
	later := &model.Event{CommunityID: c.ID, Title: "later", StartsAt: now.Add(3 * time.Hour), Capacity: 5, CreatedBy: owner.ID}
	require.NoError(t, repo.Create(ctx, soon))
	require.NoError(t, repo.Create(ctx, later))

	claimed, err := repo.ClaimUpcoming(ctx, now, now.Add(time.Hour), 50)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, "soon", claimed[0].Title)

	// 已打过提醒戳的不会被再次领取
	claimed, err = repo.ClaimUpcoming(ctx, now, now.Add(time.Hour), 50)
	require.NoError(t, err)
	assert.Empty(t, claimed)
}
