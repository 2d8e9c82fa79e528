package model

import "gorm.io/gorm"

// GroupComment 小组评论表 — 对应 group_comments（只追加）
type GroupComment struct {
	CommentID string `gorm:"type:uuid;primaryKey"     json:"comment_id"`
	AuthorID  string `gorm:"type:uuid;not null;index" json:"author_id"`
	GroupID   string `gorm:"type:uuid;not null;index" json:"group_id"`
	Content   string `gorm:"type:text;not null"       json:"content"`
	BaseModel
}

// TableName 指定表名
func (GroupComment) TableName() string { return "group_comments" }

// BeforeCreate 生成主键
func (c *GroupComment) BeforeCreate(_ *gorm.DB) error {
	if c.CommentID == "" {
		c.CommentID = newID()
	}
	return nil
}
