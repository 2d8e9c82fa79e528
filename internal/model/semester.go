package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CurrentSemesterName 当前学期的固定名称，任意时刻有且仅有一条
const CurrentSemesterName = "CURRENT"

// SystemState 学期截止时间（Unix 秒）
type SystemState struct {
	GroupingDDL int64 `json:"grouping_ddl"`
	ProposalDDL int64 `json:"proposal_ddl"`
}

// SemesterConfig 学期配置，以 JSON 存储于 semesters.config
type SemesterConfig struct {
	SystemState       SystemState `json:"system_state"`
	GroupMemberNumber [2]int      `json:"group_member_number"` // [min, max]，含组长
}

// MinMembers 小组人数下限
func (c SemesterConfig) MinMembers() int { return c.GroupMemberNumber[0] }

// MaxMembers 小组人数上限
func (c SemesterConfig) MaxMembers() int { return c.GroupMemberNumber[1] }

// Semester 学期表 — 对应 semesters
type Semester struct {
	SemesterID string                               `gorm:"type:uuid;primaryKey"                   json:"semester_id"`
	Name       string                               `gorm:"type:varchar(256);not null;uniqueIndex" json:"name"`
	StartTime  time.Time                            `gorm:"not null"                               json:"start_time"`
	EndTime    *time.Time                           `json:"end_time,omitempty"`
	Config     datatypes.JSONType[SemesterConfig] `gorm:"not null"                               json:"config"`
	BaseModel
}

// TableName 指定表名
func (Semester) TableName() string { return "semesters" }

// BeforeCreate 生成主键
func (s *Semester) BeforeCreate(_ *gorm.DB) error {
	if s.SemesterID == "" {
		s.SemesterID = newID()
	}
	return nil
}

// IsCurrent 是否为当前学期
func (s *Semester) IsCurrent() bool { return s.Name == CurrentSemesterName }
