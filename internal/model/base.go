package model

import (
	"time"

	"github.com/google/uuid"
)

// ── 角色 ──

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// BaseModel 通用时间字段（所有业务模型嵌入）
// CreatedAt 由 Service 层按注入的时钟显式赋值，学期删除按该字段划定时间窗口
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null"       json:"updated_at"`
}

// VersionedModel 支持乐观锁的模型
type VersionedModel struct {
	BaseModel
	Version int `gorm:"not null" json:"version"`
}

func newID() string {
	return uuid.New().String()
}

// All 返回需要建表的全部模型（SQLite AutoMigrate 与测试使用）
func All() []interface{} {
	return []interface{}{
		&User{},
		&Group{},
		&GroupApplication{},
		&GroupFavorite{},
		&GroupComment{},
		&Notification{},
		&Semester{},
	}
}
