// Package messaging 订单事件的 Outbox 发布与 Kafka 中继
package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/shopsystem/pkg/logger"
	"github.com/wyfcoding/shopsystem/pkg/metrics"
	"github.com/wyfcoding/shopsystem/pkg/mq"
	"gorm.io/gorm"
)

// 出站消息状态
const (
	StatusPending = "pending"
	StatusSent    = "sent"
)

// OutboxMessage 出站消息。
// 与业务写入同一事务，由中继异步投递到 Kafka。
type OutboxMessage struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey"`
	EventType string    `gorm:"column:event_type;type:varchar(100);index"`
	Topic     string    `gorm:"column:topic;type:varchar(100)"`
	Key       string    `gorm:"column:message_key;type:varchar(100)"`
	Payload   string    `gorm:"column:payload;type:text"`
	Status    string    `gorm:"column:status;type:varchar(20);index;default:'pending'"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (OutboxMessage) TableName() string { return "order_outbox_messages" }

// AppendToTx 在给定事务内写入一条出站消息
func AppendToTx(tx *gorm.DB, eventType, topic, key string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := OutboxMessage{
		ID:        uuid.NewString(),
		EventType: eventType,
		Topic:     topic,
		Key:       key,
		Payload:   string(payload),
		Status:    StatusPending,
	}
	return tx.Create(&msg).Error
}

// Relay 轮询出站表并把待投递消息发往 Kafka
type Relay struct {
	db        *gorm.DB
	producer  *mq.KafkaProducer
	metrics   *metrics.Metrics
	interval  time.Duration
	batchSize int
}

// NewRelay 构造函数。metrics 可为 nil。
func NewRelay(db *gorm.DB, producer *mq.KafkaProducer, m *metrics.Metrics, interval time.Duration, batchSize int) *Relay {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Relay{db: db, producer: producer, metrics: m, interval: interval, batchSize: batchSize}
}

// Run 启动中继循环，直到 ctx 取消
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	logger.Info(ctx, "Outbox relay started", "interval", r.interval.String(), "batch_size", r.batchSize)
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Outbox relay stopped")
			return
		case <-ticker.C:
			if err := r.processBatch(ctx); err != nil {
				logger.Error(ctx, "Outbox relay batch failed", "error", err)
			}
		}
	}
}

// processBatch 投递一批待处理消息。
// 单条失败不会中断整批，留在 pending 等下一轮重试。
func (r *Relay) processBatch(ctx context.Context) error {
	var messages []OutboxMessage
	if err := r.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Limit(r.batchSize).
		Find(&messages).Error; err != nil {
		return err
	}

	for _, msg := range messages {
		if err := r.producer.SendRaw(ctx, msg.Topic, msg.Key, []byte(msg.Payload)); err != nil {
			logger.Error(ctx, "Failed to relay outbox message",
				"message_id", msg.ID, "event_type", msg.EventType, "error", err)
			continue
		}
		if err := r.db.WithContext(ctx).Model(&OutboxMessage{}).
			Where("id = ?", msg.ID).
			Update("status", StatusSent).Error; err != nil {
			return err
		}
	}

	if r.metrics != nil {
		var pending int64
		if err := r.db.WithContext(ctx).Model(&OutboxMessage{}).
			Where("status = ?", StatusPending).
			Count(&pending).Error; err == nil {
			r.metrics.OutboxPending.Set(float64(pending))
		}
	}
	return nil
}

// Cleanup 清理指定时间之前已投递的消息
func (r *Relay) Cleanup(ctx context.Context, before time.Time) error {
	return r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", StatusSent, before).
		Delete(&OutboxMessage{}).Error
}
