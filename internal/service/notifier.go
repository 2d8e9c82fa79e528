package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Bigstool/group-management-system/internal/model"
	"github.com/Bigstool/group-management-system/internal/repository"
	"github.com/Bigstool/group-management-system/pkg/mq"
)

// notifier 通知发送：事务内落库，提交后投递到消息队列
type notifier struct {
	publisher mq.Publisher
	clock     Clock
	logger    *zap.Logger
}

func newNotifier(publisher mq.Publisher, clock Clock, logger *zap.Logger) *notifier {
	return &notifier{publisher: publisher, clock: clock, logger: logger}
}

// build 为每个接收者构造一条通知
func (n *notifier) build(userIDs []string, typ, title, content string, relatedID string, now time.Time) []model.Notification {
	notes := make([]model.Notification, 0, len(userIDs))
	seen := make(map[string]bool, len(userIDs))
	for _, uid := range userIDs {
		if uid == "" || seen[uid] {
			continue
		}
		seen[uid] = true
		note := model.Notification{
			UserID:  uid,
			Type:    typ,
			Title:   title,
			Content: content,
		}
		if relatedID != "" {
			rid := relatedID
			note.RelatedID = &rid
		}
		note.CreatedAt = now
		notes = append(notes, note)
	}
	return notes
}

// save 在事务内写入通知
func (n *notifier) save(ctx context.Context, txRepo *repository.Repository, notes []model.Notification) error {
	if len(notes) == 0 {
		return nil
	}
	return txRepo.Notification.CreateBatch(ctx, notes)
}

// publish 事务提交后投递，失败仅记录日志
func (n *notifier) publish(ctx context.Context, notes []model.Notification) {
	if len(notes) == 0 {
		return
	}
	if err := n.publisher.Publish(ctx, notes); err != nil {
		n.logger.Warn("通知投递失败", zap.Int("count", len(notes)), zap.Error(err))
	}
}
