package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Bigstool/group-management-system/internal/model"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaPublisher_Publish_KeyedByUser(t *testing.T) {
	w := &fakeWriter{}
	p := &kafkaPublisher{writer: w, logger: zap.NewNop()}

	groupID := "g-1"
	now := time.Unix(1700000000, 0).UTC()
	notes := []model.Notification{
		{NotificationID: "n-1", UserID: "u-1", Type: model.NotifyApplicationApproved, Title: "申请已通过", RelatedID: &groupID},
		{NotificationID: "n-2", UserID: "u-2", Type: model.NotifyGroupDismissed, Title: "小组已解散"},
	}
	notes[0].CreatedAt = now
	notes[1].CreatedAt = now

	if err := p.Publish(context.Background(), notes); err != nil {
		t.Fatalf("Publish 应成功: %v", err)
	}
	if len(w.msgs) != 2 {
		t.Fatalf("期望 2 条消息，实际: %d", len(w.msgs))
	}
	if string(w.msgs[0].Key) != "u-1" {
		t.Errorf("消息 key 应为接收者 user_id，实际: %s", w.msgs[0].Key)
	}

	var evt NotificationEvent
	if err := json.Unmarshal(w.msgs[0].Value, &evt); err != nil {
		t.Fatalf("消息体应为 JSON: %v", err)
	}
	if evt.Type != model.NotifyApplicationApproved || evt.RelatedID == nil || *evt.RelatedID != "g-1" {
		t.Errorf("消息体内容不符: %+v", evt)
	}
	if evt.CreatedAt != now.Unix() {
		t.Errorf("期望 created_at=%d，实际: %d", now.Unix(), evt.CreatedAt)
	}
}

func TestKafkaPublisher_Publish_Empty(t *testing.T) {
	w := &fakeWriter{err: errors.New("不应被调用")}
	p := &kafkaPublisher{writer: w, logger: zap.NewNop()}

	if err := p.Publish(context.Background(), nil); err != nil {
		t.Errorf("空通知列表不应投递: %v", err)
	}
}

func TestKafkaPublisher_Publish_WriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := &kafkaPublisher{writer: w, logger: zap.NewNop()}

	err := p.Publish(context.Background(), []model.Notification{{UserID: "u-1"}})
	if err == nil {
		t.Fatal("写入失败时应返回错误")
	}
}
