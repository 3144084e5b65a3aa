package service

import (
	"sync"

	"Sawa_Community/internal/model"
)

// subscriberBuffer 订阅者通道缓冲：写满说明消费太慢，直接丢弃该订阅者，
// 绝不让单个慢订阅者阻塞整个房间的扇出
const subscriberBuffer = 64

// Subscriber 一条订阅流。C 上的消息严格按 seq 递增。
type Subscriber struct {
	C      chan model.Message
	roomID uint64
	hub    *RoomHub
	once   sync.Once
}

// Close 退订并关闭通道，幂等
func (s *Subscriber) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.C)
	})
}

// RoomHub 按房间维护订阅表。锁只保护订阅表本身，
// 各房间的推送互不阻塞，没有跨房间的全局锁。
// 订阅从"现在"开始，不回放历史消息。
type RoomHub struct {
	mu    sync.RWMutex
	rooms map[uint64]map[*Subscriber]struct{}
}

func NewRoomHub() *RoomHub {
	return &RoomHub{rooms: make(map[uint64]map[*Subscriber]struct{})}
}

func (h *RoomHub) Subscribe(roomID uint64) *Subscriber {
	sub := &Subscriber{
		C:      make(chan model.Message, subscriberBuffer),
		roomID: roomID,
		hub:    h,
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Subscriber]struct{})
	}
	h.rooms[roomID][sub] = struct{}{}
	return sub
}

func (h *RoomHub) remove(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.rooms[sub.roomID]
	if subs == nil {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.rooms, sub.roomID)
	}
}

// Publish 推给当前在场的订阅者；迟到的订阅者收不到之前的消息。
// 发送不阻塞：缓冲写满的订阅者被记下，推完后踢出。
func (h *RoomHub) Publish(roomID uint64, msg model.Message) {
	var stale []*Subscriber
	h.mu.RLock()
	for sub := range h.rooms[roomID] {
		select {
		case sub.C <- msg:
		default:
			stale = append(stale, sub)
		}
	}
	h.mu.RUnlock()
	for _, sub := range stale {
		sub.Close()
	}
}

func (h *RoomHub) SubscriberCount(roomID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
