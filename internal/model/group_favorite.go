package model

import "gorm.io/gorm"

// GroupFavorite 小组收藏表 — 对应 group_favorites
type GroupFavorite struct {
	FavoriteID string `gorm:"type:uuid;primaryKey"                                   json:"favorite_id"`
	UserID     string `gorm:"type:uuid;not null;uniqueIndex:uk_favorite_user_group" json:"user_id"`
	GroupID    string `gorm:"type:uuid;not null;uniqueIndex:uk_favorite_user_group;index" json:"group_id"`
	BaseModel
}

// TableName 指定表名
func (GroupFavorite) TableName() string { return "group_favorites" }

// BeforeCreate 生成主键
func (f *GroupFavorite) BeforeCreate(_ *gorm.DB) error {
	if f.FavoriteID == "" {
		f.FavoriteID = newID()
	}
	return nil
}
