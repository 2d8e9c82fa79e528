package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Bigstool/group-management-system/config"
	"github.com/Bigstool/group-management-system/internal/model"
)

// Publisher 通知消息投递接口
// 在数据库事务提交后调用，投递失败不影响业务结果
type Publisher interface {
	Publish(ctx context.Context, notifications []model.Notification) error
	Close() error
}

// NotificationEvent 投递到 Kafka 的通知消息体
type NotificationEvent struct {
	NotificationID string  `json:"notification_id"`
	UserID         string  `json:"user_id"`
	Type           string  `json:"type"`
	Title          string  `json:"title"`
	Content        string  `json:"content"`
	RelatedID      *string `json:"related_id,omitempty"`
	CreatedAt      int64   `json:"created_at"`
}

// NewNotificationEvent 由通知记录构造消息体
func NewNotificationEvent(n model.Notification) NotificationEvent {
	return NotificationEvent{
		NotificationID: n.NotificationID,
		UserID:         n.UserID,
		Type:           n.Type,
		Title:          n.Title,
		Content:        n.Content,
		RelatedID:      n.RelatedID,
		CreatedAt:      n.CreatedAt.Unix(),
	}
}

// messageWriter kafka.Writer 的最小子集，便于测试替换
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer messageWriter
	logger *zap.Logger
}

// NewKafkaPublisher 创建基于 kafka-go 的通知投递器
// 以接收者 user_id 作为消息 key，同一用户的通知落在同一分区内保持有序
func NewKafkaPublisher(cfg *config.KafkaConfig, logger *zap.Logger) Publisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           timeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &kafkaPublisher{writer: writer, logger: logger}
}

func (p *kafkaPublisher) Publish(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(notifications))
	for _, n := range notifications {
		value, err := json.Marshal(NewNotificationEvent(n))
		if err != nil {
			return fmt.Errorf("序列化通知失败: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(n.UserID),
			Value: value,
			Time:  n.CreatedAt,
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("投递通知到 Kafka 失败: %w", err)
	}
	p.logger.Debug("通知已投递", zap.Int("count", len(msgs)))
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher 未启用 Kafka 时使用，丢弃所有消息
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, []model.Notification) error { return nil }

func (NopPublisher) Close() error { return nil }
