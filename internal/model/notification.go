package model

import "gorm.io/gorm"

// ── 通知类型 ──

const (
	NotifyApplicationApproved = "application_approved"
	NotifyApplicationRejected = "application_rejected"
	NotifyOwnerTransferred    = "owner_transferred"
	NotifyMemberLeft          = "member_left"
	NotifyMemberRemoved       = "member_removed"
	NotifyGroupDismissed      = "group_dismissed"
	NotifyGroupAssigned       = "group_assigned"
)

// Notification 通知消息表 — 对应 notifications（只追加，接收者只读）
type Notification struct {
	NotificationID string  `gorm:"type:uuid;primaryKey"       json:"notification_id"`
	UserID         string  `gorm:"type:uuid;not null;index"   json:"user_id"`
	Type           string  `gorm:"type:varchar(50);not null"  json:"type"`
	Title          string  `gorm:"type:varchar(200);not null" json:"title"`
	Content        string  `gorm:"type:text;not null"         json:"content"`
	RelatedID      *string `gorm:"type:uuid"                  json:"related_id,omitempty"` // 关联小组
	BaseModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

// BeforeCreate 生成主键
func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.NotificationID == "" {
		n.NotificationID = newID()
	}
	return nil
}
