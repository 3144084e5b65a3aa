package service

import (
	"testing"

	"Sawa_Community/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubLateSubscriberGetsNothing(t *testing.T) {
	hub := NewRoomHub()

	hub.Publish(1, model.Message{Seq: 1, Content: "before"})

	sub := hub.Subscribe(1)
	defer sub.Close()

	// 订阅之前的消息不回放
	select {
	case msg := <-sub.C:
		t.Fatalf("unexpected message: %+v", msg)
	default:
	}

	hub.Publish(1, model.Message{Seq: 2, Content: "after"})
	msg := <-sub.C
	assert.EqualValues(t, 2, msg.Seq)
}

func TestHubRoomIsolation(t *testing.T) {
	hub := NewRoomHub()
	sub1 := hub.Subscribe(1)
	defer sub1.Close()
	sub2 := hub.Subscribe(2)
	defer sub2.Close()

	hub.Publish(1, model.Message{Seq: 1})

	msg := <-sub1.C
	assert.EqualValues(t, 1, msg.Seq)
	select {
	case <-sub2.C:
		t.Fatal("message leaked across rooms")
	default:
	}
}

func TestHubDeliveryOrder(t *testing.T) {
	hub := NewRoomHub()
	sub := hub.Subscribe(1)
	defer sub.Close()

	for i := 1; i <= 10; i++ {
		hub.Publish(1, model.Message{Seq: uint64(i)})
	}
	for i := 1; i <= 10; i++ {
		msg := <-sub.C
		assert.EqualValues(t, i, msg.Seq)
	}
}

func TestHubCloseIdempotent(t *testing.T) {
	hub := NewRoomHub()
	sub := hub.Subscribe(1)

	sub.Close()
	sub.Close() // 不 panic

	assert.Equal(t, 0, hub.SubscriberCount(1))
	hub.Publish(1, model.Message{Seq: 1}) // 没有订阅者也不 panic
}

func TestHubEvictsSlowSubscriber(t *testing.T) {
	hub := NewRoomHub()
	slow := hub.Subscribe(1)

	// 从不消费的订阅者在缓冲写满后被踢出，不会阻塞发布
	for i := 0; i <= subscriberBuffer; i++ {
		hub.Publish(1, model.Message{Seq: uint64(i + 1)})
	}

	require.Equal(t, 0, hub.SubscriberCount(1))
	// 通道被关闭，已缓冲的消息仍可读完
	n := 0
	for range slow.C {
		n++
	}
	assert.Equal(t, subscriberBuffer, n)
}
