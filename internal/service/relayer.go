package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"Sawa_Community/internal/model"
	"Sawa_Community/internal/pkg"
	"Sawa_Community/internal/repository/mysql"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Sender 单条事件的投递函数。返回错误会触发重试，最多3次，之后丢弃。
type Sender func(ctx context.Context, ob *model.EventOutbox) error

// OutboxRelayer 轮询 outbox 表，把待投递事件交给 sender。
// 事件在业务事务里落表，所以对业务调用方来说投递是 fire-and-forget：
// 这里的任何失败都不会反馈给触发事件的请求。
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
	logger    *zap.Logger
}

func NewOutboxRelayer(db *gorm.DB, sender Sender, logger *zap.Logger) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      mysql.NewOutboxRepository(db),
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
		logger:    logger,
	}
}

// Run 启动轮询，ctx 取消即退出
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		r.logger.Warn("outbox query failed", zap.Error(err))
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			r.logger.Warn("outbox send failed",
				zap.Uint64("id", ob.ID),
				zap.String("type", ob.EventType),
				zap.Int("retry", ob.Retry),
				zap.Error(err))
			_ = r.repo.MarkRetry(ctx, ob.ID)
			continue
		}
		_ = r.repo.MarkSent(ctx, ob.ID)
	}
}

// Dispatcher 把领域事件落成站内通知，并尽力外发 kafka / 邮件。
// 通知行写失败才算投递失败（交给 relayer 重试）；
// kafka 和邮件失败只记日志，不算失败。
type Dispatcher struct {
	notifRepo *mysql.NotificationRepository
	userRepo  *mysql.UserRepository
	producer  *pkg.KafkaProducer
	smtp      pkg.SMTPConfig
	logger    *zap.Logger
}

func NewDispatcher(db *gorm.DB, producer *pkg.KafkaProducer, smtp pkg.SMTPConfig, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		notifRepo: mysql.NewNotificationRepository(db),
		userRepo:  mysql.NewUserRepository(db),
		producer:  producer,
		smtp:      smtp,
		logger:    logger,
	}
}

// Sender 返回给 relayer 用的投递函数
func (d *Dispatcher) Sender() Sender {
	return func(ctx context.Context, ob *model.EventOutbox) error {
		text := d.renderMessage(ob)
		if text == "" {
			// 不认识的事件类型直接吞掉，避免反复重试
			d.logger.Warn("unknown outbox event type", zap.String("type", ob.EventType))
			return nil
		}
		if err := d.notifRepo.Create(ctx, &model.Notification{
			UserID:  ob.TargetUserID,
			Message: text,
		}); err != nil {
			return err
		}
		if d.producer != nil {
			if err := d.producer.Send(ctx, pkg.MakeKeyFromID(ob.TargetUserID), []byte(ob.Payload)); err != nil {
				d.logger.Warn("kafka publish failed", zap.Uint64("outbox", ob.ID), zap.Error(err))
			}
		}
		if ob.EventType == model.EventEventReminder && d.smtp.Enabled() {
			d.sendReminderEmail(ctx, ob)
		}
		return nil
	}
}

func (d *Dispatcher) renderMessage(ob *model.EventOutbox) string {
	switch ob.EventType {
	case model.EventPostLiked:
		return "Someone liked your post!"
	case model.EventProfileUpdated:
		return "Your profile has been updated!"
	case model.EventEventReminder:
		return fmt.Sprintf("Event \"%s\" starts within an hour.", d.payloadTitle(ob))
	default:
		return ""
	}
}

func (d *Dispatcher) payloadTitle(ob *model.EventOutbox) string {
	var p struct {
		Title string `json:"title"`
	}
	_ = json.Unmarshal([]byte(ob.Payload), &p)
	return p.Title
}

func (d *Dispatcher) sendReminderEmail(ctx context.Context, ob *model.EventOutbox) {
	user, err := d.userRepo.FindByID(ctx, ob.TargetUserID)
	if err != nil {
		d.logger.Warn("reminder email lookup failed", zap.Uint64("user", ob.TargetUserID), zap.Error(err))
		return
	}
	title := d.payloadTitle(ob)
	if err = pkg.SendEmail(d.smtp, user.Email, "Event reminder", pkg.EventReminderHTML(title)); err != nil {
		d.logger.Warn("reminder email send failed", zap.Uint64("user", ob.TargetUserID), zap.Error(err))
	}
}

// EventReminder 定时扫描一小时内开始的活动，为每个报名者生成提醒事件。
// 领取时先打 reminded_at 戳占住，多实例下不会重复提醒。
type EventReminder struct {
	eventRepo  *mysql.EventRepository
	outboxRepo *mysql.OutboxRepository
	interval   time.Duration
	horizon    time.Duration
	logger     *zap.Logger
}

func NewEventReminder(db *gorm.DB, logger *zap.Logger) *EventReminder {
	return &EventReminder{
		eventRepo:  mysql.NewEventRepository(db),
		outboxRepo: mysql.NewOutboxRepository(db),
		interval:   time.Minute,
		horizon:    time.Hour,
		logger:     logger,
	}
}

func (r *EventReminder) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.scanOnce(ctx)
		}
	}
}

func (r *EventReminder) scanOnce(ctx context.Context) {
	now := time.Now()
	events, err := r.eventRepo.ClaimUpcoming(ctx, now, now.Add(r.horizon), 50)
	if err != nil {
		r.logger.Warn("reminder scan failed", zap.Error(err))
		return
	}
	for i := range events {
		e := events[i]
		members, err := r.eventRepo.Participants(ctx, e.ID)
		if err != nil {
			r.logger.Warn("reminder participants failed", zap.Uint64("event", e.ID), zap.Error(err))
			continue
		}
		for _, m := range members {
			if err = r.outboxRepo.Insert(ctx, model.EventEventReminder, m.UserID, e.CreatedBy, e.ID,
				map[string]any{"title": e.Title}); err != nil {
				r.logger.Warn("reminder enqueue failed", zap.Uint64("event", e.ID), zap.Uint64("user", m.UserID), zap.Error(err))
			}
		}
	}
}
