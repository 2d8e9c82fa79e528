package model

import (
	"time"

	"gorm.io/gorm"
)

// ── 开题报告状态 ──

const (
	ProposalPending   = "PENDING"
	ProposalSubmitted = "SUBMITTED"
	ProposalApproved  = "APPROVED"
	ProposalRejected  = "REJECT"
)

// Group 小组表 — 对应 groups
// 成员集合 = joined_group_id 指向本组的用户，组长不在其中
type Group struct {
	GroupID            string     `gorm:"type:uuid;primaryKey"                   json:"group_id"`
	Name               string     `gorm:"type:varchar(256);not null"             json:"name"`
	Title              string     `gorm:"type:varchar(256);not null"             json:"title"`
	Description        string     `gorm:"type:text;not null"                     json:"description"`
	OwnerID            string     `gorm:"type:uuid;not null;uniqueIndex"         json:"owner_id"`
	Proposal           *string    `gorm:"type:text"                              json:"proposal,omitempty"`
	ProposalState      string     `gorm:"type:varchar(16);not null"              json:"proposal_state"`
	ProposalUpdateTime *time.Time `json:"proposal_update_time,omitempty"`
	ProposalLate       *int64     `json:"proposal_late,omitempty"` // 秒，负数表示提前
	ApplicationEnabled bool       `gorm:"not null"                               json:"application_enabled"`
	VersionedModel
}

// TableName 指定表名
func (Group) TableName() string { return "groups" }

// BeforeCreate 生成主键并初始化版本号
func (g *Group) BeforeCreate(_ *gorm.DB) error {
	if g.GroupID == "" {
		g.GroupID = newID()
	}
	if g.Version == 0 {
		g.Version = 1
	}
	return nil
}
