package model

import "gorm.io/gorm"

// User 用户表 — 对应 users
// 拥有的小组通过 groups.owner_id 反查；加入的小组由 JoinedGroupID 记录
type User struct {
	UserID        string  `gorm:"type:uuid;primaryKey"                   json:"user_id"`
	Email         string  `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Alias         string  `gorm:"type:varchar(100);not null"             json:"alias"`
	Bio           string  `gorm:"type:text;not null"                     json:"bio"`
	PasswordHash  string  `gorm:"type:varchar(255);not null"             json:"-"`
	Role          string  `gorm:"type:varchar(10);not null"              json:"role"` // ADMIN | USER
	JoinedGroupID *string `gorm:"type:uuid;index"                        json:"joined_group_id,omitempty"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// BeforeCreate 生成主键
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = newID()
	}
	return nil
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
