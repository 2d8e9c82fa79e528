package model

import "gorm.io/gorm"

// GroupApplication 入组申请表 — 对应 group_applications
// 同一 (applicant, group) 至多一条；通过、拒绝、撤回均直接删除
type GroupApplication struct {
	ApplicationID string `gorm:"type:uuid;primaryKey"                                          json:"application_id"`
	ApplicantID   string `gorm:"type:uuid;not null;uniqueIndex:uk_application_applicant_group" json:"applicant_id"`
	GroupID       string `gorm:"type:uuid;not null;uniqueIndex:uk_application_applicant_group;index" json:"group_id"`
	Comment       string `gorm:"type:text;not null"                                            json:"comment"`
	BaseModel
}

// TableName 指定表名
func (GroupApplication) TableName() string { return "group_applications" }

// BeforeCreate 生成主键
func (a *GroupApplication) BeforeCreate(_ *gorm.DB) error {
	if a.ApplicationID == "" {
		a.ApplicationID = newID()
	}
	return nil
}
