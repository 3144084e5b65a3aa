package service

import (
	"context"
	"testing"

	"Sawa_Community/internal/pkg"
	"Sawa_Community/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostMessageRequiresMembership(t *testing.T) {
	db := newTestDB(t)
	newTestRedis(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	stranger := seedUser(t, db, "stranger")
	c := seedCommunity(t, db, owner.ID, "gophers")
	svc := NewChatService(db, NewRoomHub())

	_, err := svc.PostMessage(ctx, c.ID, stranger.ID, "hi", "")
	assert.ErrorIs(t, err, pkg.ErrNotMember)

	_, err = svc.PostMessage(ctx, c.ID, owner.ID, "", "")
	assert.ErrorIs(t, err, pkg.ErrInvalidParam)
}

func TestPostMessagePersistsBeforePublish(t *testing.T) {
	db := newTestDB(t)
	newTestRedis(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	c := seedCommunity(t, db, owner.ID, "gophers")
	hub := NewRoomHub()
	svc := NewChatService(db, hub)

	sub, err := svc.Subscribe(ctx, c.ID, owner.ID)
	require.NoError(t, err)
	defer sub.Close()

	msg, err := svc.PostMessage(ctx, c.ID, owner.ID, "hello", "")
	require.NoError(t, err)
	require.EqualValues(t, 1, msg.Seq)

	// 应答返回时消息必然已落库
	rows, err := mysql.NewMessageRepository(db).ListAfter(ctx, c.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	got := <-sub.C
	assert.Equal(t, msg.Seq, got.Seq)
	assert.Equal(t, "hello", got.Content)
}

func TestSubscribeFromNow(t *testing.T) {
	db := newTestDB(t)
	newTestRedis(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	c := seedCommunity(t, db, owner.ID, "gophers")
	svc := NewChatService(db, NewRoomHub())

	_, err := svc.PostMessage(ctx, c.ID, owner.ID, "early", "")
	require.NoError(t, err)

	sub, err := svc.Subscribe(ctx, c.ID, owner.ID)
	require.NoError(t, err)
	defer sub.Close()

	// 早于订阅的消息不推流，靠 History 拉
	select {
	case m := <-sub.C:
		t.Fatalf("unexpected replay: %+v", m)
	default:
	}

	hist, err := svc.History(ctx, c.ID, owner.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "early", hist[0].Content)
}

func TestSubscribeCancelReleases(t *testing.T) {
	db := newTestDB(t)
	newTestRedis(t)
	owner := seedUser(t, db, "owner")
	c := seedCommunity(t, db, owner.ID, "gophers")
	hub := NewRoomHub()
	svc := NewChatService(db, hub)

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := svc.Subscribe(ctx, c.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, 1, hub.SubscriberCount(c.ID))

	cancel()
	// 通道关闭即退订完成
	for range sub.C {
	}
	assert.Equal(t, 0, hub.SubscriberCount(c.ID))
}

func TestUnreadCountCacheAside(t *testing.T) {
	db := newTestDB(t)
	newTestRedis(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	alice := seedUser(t, db, "alice")
	c := seedCommunity(t, db, owner.ID, "gophers")
	memberRepo := mysql.NewCommunityMemberRepository(db)
	_, err := memberRepo.Join(ctx, c.ID, alice.ID)
	require.NoError(t, err)
	svc := NewChatService(db, NewRoomHub())

	msg, err := svc.PostMessage(ctx, c.ID, owner.ID, "hi", "")
	require.NoError(t, err)

	n, err := svc.UnreadCount(ctx, c.ID, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// 已回填的缓存被新消息立即作废，不会读到旧值
	_, err = svc.PostMessage(ctx, c.ID, owner.ID, "hi again", "")
	require.NoError(t, err)
	n, err = svc.UnreadCount(ctx, c.ID, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	// 标读一条就少一条
	require.NoError(t, svc.MarkRead(ctx, c.ID, alice.ID, msg.ID))

	n, err = svc.UnreadCount(ctx, c.ID, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
