package service

import (
	"context"
	"sync"

	"Sawa_Community/internal/model"
	"Sawa_Community/internal/pkg"
	"Sawa_Community/internal/repository/mysql"
	"Sawa_Community/internal/repository/redis"

	"gorm.io/gorm"
)

// roomLockCount 房间写锁分片数
const roomLockCount = 64

type ChatService struct {
	msgRepo    *mysql.MessageRepository
	memberRepo *mysql.CommunityMemberRepository
	unread     *redis.UnreadCacheRepository
	hub        *RoomHub

	// 分片的房间写锁：同一房间的发消息串行，不同房间并行
	locks [roomLockCount]sync.Mutex
}

func NewChatService(db *gorm.DB, hub *RoomHub) *ChatService {
	return &ChatService{
		msgRepo:    mysql.NewMessageRepository(db),
		memberRepo: mysql.NewCommunityMemberRepository(db),
		unread:     redis.NewUnreadCacheRepository(),
		hub:        hub,
	}
}

func (s *ChatService) roomLock(roomID uint64) *sync.Mutex {
	return &s.locks[roomID%roomLockCount]
}

// PostMessage 发消息：先持久化拿到 seq，提交后才向订阅者推送、给发送方应答。
// 房间锁保证同房间的 seq 分配和推送顺序一致。
func (s *ChatService) PostMessage(ctx context.Context, roomID, senderID uint64, content, imageURL string) (*model.Message, error) {
	if content == "" && imageURL == "" {
		return nil, pkg.ErrInvalidParam
	}
	ok, err := s.memberRepo.IsMember(ctx, roomID, senderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkg.ErrNotMember
	}

	lock := s.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	msg := &model.Message{
		CommunityID: roomID,
		SenderID:    senderID,
		Content:     content,
		ImageURL:    imageURL,
	}
	if err = s.msgRepo.Append(ctx, msg); err != nil {
		return nil, err
	}
	s.hub.Publish(roomID, *msg)

	// 推进房间代次，一次调用作废全房间的未读缓存；尽力而为，不影响发送结果
	_ = s.unread.Bump(ctx, roomID)
	return msg, nil
}

// Subscribe 订阅房间消息流，从"现在"开始。ctx 取消即退订并释放通道。
func (s *ChatService) Subscribe(ctx context.Context, roomID, userID uint64) (*Subscriber, error) {
	ok, err := s.memberRepo.IsMember(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkg.ErrNotMember
	}
	sub := s.hub.Subscribe(roomID)
	go func() {
		<-ctx.Done()
		sub.Close()
	}()
	return sub, nil
}

// History 按 seq 游标读历史消息
func (s *ChatService) History(ctx context.Context, roomID, userID, afterSeq uint64, limit int) ([]model.Message, error) {
	ok, err := s.memberRepo.IsMember(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkg.ErrNotMember
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.msgRepo.ListAfter(ctx, roomID, afterSeq, limit)
}

// MarkRead 单调标记已读，随后失效未读缓存
func (s *ChatService) MarkRead(ctx context.Context, roomID, userID, messageID uint64) error {
	ok, err := s.memberRepo.IsMember(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return pkg.ErrNotMember
	}
	if err = s.msgRepo.MarkRead(ctx, roomID, userID, messageID); err != nil {
		return err
	}
	_ = s.unread.Delete(ctx, roomID, userID)
	return nil
}

// UnreadCount 缓存命中直接返回，miss 回源后回填
func (s *ChatService) UnreadCount(ctx context.Context, roomID, userID uint64) (int64, error) {
	if v, hit, err := s.unread.GetCached(ctx, roomID, userID); err == nil && hit {
		return v, nil
	}
	n, err := s.msgRepo.UnreadCount(ctx, roomID, userID)
	if err != nil {
		return 0, err
	}
	_ = s.unread.Set(ctx, roomID, userID, n)
	return n, nil
}
