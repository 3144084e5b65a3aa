package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"Sawa_Community/internal/model"
	"Sawa_Community/internal/pkg"
	"Sawa_Community/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcherCreatesNotification(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	outbox := mysql.NewOutboxRepository(db)
	require.NoError(t, outbox.Insert(ctx, model.EventPostLiked, 7, 3, 42, nil))

	d := NewDispatcher(db, nil, pkg.SMTPConfig{}, zap.NewNop())
	r := NewOutboxRelayer(db, d.Sender(), zap.NewNop())
	r.drainOnce(ctx)

	list, err := mysql.NewNotificationRepository(db).ListByUser(ctx, 7, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Someone liked your post!", list[0].Message)
	assert.False(t, list[0].IsRead)

	// 投递成功后事件出队
	pending, err := outbox.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRelayerRetriesThenDrops(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	outbox := mysql.NewOutboxRepository(db)
	require.NoError(t, outbox.Insert(ctx, model.EventPostLiked, 7, 3, 42, nil))

	attempts := 0
	failing := func(ctx context.Context, ob *model.EventOutbox) error {
		attempts++
		return errors.New("broker down")
	}
	r := NewOutboxRelayer(db, failing, zap.NewNop())

	// 失败的事件最多重试到上限，然后丢弃，不会无限轮询
	for i := 0; i < mysql.MaxOutboxRetry+2; i++ {
		r.drainOnce(ctx)
	}
	assert.Equal(t, mysql.MaxOutboxRetry, attempts)

	var ob model.EventOutbox
	require.NoError(t, db.First(&ob).Error)
	assert.EqualValues(t, 2, ob.Status)

	// 丢弃后没有通知产生
	has, err := mysql.NewNotificationRepository(db).HasUnread(ctx, 7)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestDispatcherSwallowsUnknownEvent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	outbox := mysql.NewOutboxRepository(db)
	require.NoError(t, outbox.Insert(ctx, "something.else", 7, 3, 42, nil))

	d := NewDispatcher(db, nil, pkg.SMTPConfig{}, zap.NewNop())
	r := NewOutboxRelayer(db, d.Sender(), zap.NewNop())
	r.drainOnce(ctx)

	// 未知类型按成功处理，避免卡住队列
	pending, err := outbox.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	has, err := mysql.NewNotificationRepository(db).HasUnread(ctx, 7)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestEventReminderEnqueues(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	alice := seedUser(t, db, "alice")
	c := seedCommunity(t, db, owner.ID, "gophers")
	_, err := mysql.NewCommunityMemberRepository(db).Join(ctx, c.ID, alice.ID)
	require.NoError(t, err)

	evSvc := NewEventService(db)
	e, err := evSvc.CreateEvent(ctx, owner.ID, CreateEventInput{
		CommunityID: c.ID,
		Title:       "standup",
		StartsAt:    time.Now().Add(30 * time.Minute),
		Capacity:    10,
	})
	require.NoError(t, err)
	_, err = mysql.NewEventRepository(db).Join(ctx, e.ID, alice.ID)
	require.NoError(t, err)

	rem := NewEventReminder(db, zap.NewNop())
	rem.scanOnce(ctx)

	pending, err := mysql.NewOutboxRepository(db).ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, model.EventEventReminder, pending[0].EventType)
	assert.Equal(t, alice.ID, pending[0].TargetUserID)

	// 再扫一遍不会重复提醒
	rem.scanOnce(ctx)
	pending, err = mysql.NewOutboxRepository(db).ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
