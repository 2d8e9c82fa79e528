package dto

// ── 用户模块 DTO ──

// CreateUserRequest 管理员创建账号请求
type CreateUserRequest struct {
	Email    string `json:"email"    binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Alias    string `json:"alias"    binding:"omitempty,max=100"`
	Bio      string `json:"bio"      binding:"omitempty,max=4096"`
	Role     string `json:"role"     binding:"omitempty,oneof=ADMIN USER"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Role      string `form:"role"      binding:"omitempty,oneof=ADMIN USER"`
	Ungrouped bool   `form:"ungrouped"`
	Keyword   string `form:"keyword"   binding:"omitempty,max=50"`
}

// UpdateUserRequest 更新个人资料请求
type UpdateUserRequest struct {
	Alias *string `json:"alias" binding:"omitempty,max=100"`
	Bio   *string `json:"bio"   binding:"omitempty,max=4096"`
	Email *string `json:"email" binding:"omitempty,email,max=255"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Alias     string `json:"alias"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"creation_time"`
}

// UserBrief 嵌入在小组/申请中的用户摘要
type UserBrief struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Alias string `json:"alias"`
}

// UserProfileResponse 用户主页（含所属小组）
type UserProfileResponse struct {
	UserResponse
	OwnedGroup  *GroupBrief `json:"owned_group"`
	JoinedGroup *GroupBrief `json:"joined_group"`
}
