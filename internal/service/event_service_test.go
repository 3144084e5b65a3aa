package service

import (
	"context"
	"testing"
	"time"

	"Sawa_Community/internal/model"
	"Sawa_Community/internal/pkg"
	"Sawa_Community/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEventValidation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	outsider := seedUser(t, db, "outsider")
	c := seedCommunity(t, db, owner.ID, "gophers")
	svc := NewEventService(db)

	starts := time.Now().Add(2 * time.Hour)

	_, err := svc.CreateEvent(ctx, owner.ID, CreateEventInput{CommunityID: c.ID, Title: "x", StartsAt: starts, Capacity: 0})
	assert.ErrorIs(t, err, pkg.ErrInvalidCapacity)

	_, err = svc.CreateEvent(ctx, owner.ID, CreateEventInput{CommunityID: c.ID, StartsAt: starts, Capacity: 5})
	assert.ErrorIs(t, err, pkg.ErrInvalidParam)

	// 非成员不能在社区里建活动
	_, err = svc.CreateEvent(ctx, outsider.ID, CreateEventInput{CommunityID: c.ID, Title: "x", StartsAt: starts, Capacity: 5})
	assert.ErrorIs(t, err, pkg.ErrNotMember)

	e, err := svc.CreateEvent(ctx, owner.ID, CreateEventInput{CommunityID: c.ID, Title: "meetup", StartsAt: starts, Capacity: 5})
	require.NoError(t, err)
	assert.NotZero(t, e.ID)
}

func TestJoinExpiredEvent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	c := seedCommunity(t, db, owner.ID, "gophers")
	svc := NewEventService(db)

	// 开始时间在宽限期之外，直接落库造一个过期活动
	e := &model.Event{
		CommunityID: c.ID,
		Title:       "yesterday",
		StartsAt:    time.Now().Add(-2 * time.Hour),
		Capacity:    5,
		CreatedBy:   owner.ID,
	}
	require.NoError(t, mysql.NewEventRepository(db).Create(ctx, e))

	_, err := svc.JoinEvent(ctx, e.ID, owner.ID)
	assert.ErrorIs(t, err, pkg.ErrEventExpired)
}

func TestDeleteEventPermission(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	admin := seedUser(t, db, "admin")
	creator := seedUser(t, db, "creator")
	member := seedUser(t, db, "member")
	c := seedCommunity(t, db, admin.ID, "gophers")
	memberRepo := mysql.NewCommunityMemberRepository(db)
	for _, uid := range []uint64{creator.ID, member.ID} {
		_, err := memberRepo.Join(ctx, c.ID, uid)
		require.NoError(t, err)
	}
	svc := NewEventService(db)

	e, err := svc.CreateEvent(ctx, creator.ID, CreateEventInput{
		CommunityID: c.ID, Title: "meetup", StartsAt: time.Now().Add(time.Hour), Capacity: 5,
	})
	require.NoError(t, err)

	// 普通成员删不了别人的活动
	err = svc.DeleteEvent(ctx, e.ID, member.ID)
	assert.ErrorIs(t, err, pkg.ErrNotAuthorized)

	// 社区管理员可以
	require.NoError(t, svc.DeleteEvent(ctx, e.ID, admin.ID))
	_, err = svc.ListByCommunity(ctx, c.ID, 1, 10)
	require.NoError(t, err)
}
