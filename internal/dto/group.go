package dto

// ── 小组模块 DTO ──

// CreateGroupRequest 创建小组请求
type CreateGroupRequest struct {
	Name        string  `json:"name"        binding:"required,max=256"`
	Title       string  `json:"title"       binding:"omitempty,max=256"`
	Description string  `json:"description" binding:"required,max=4096"`
	Proposal    *string `json:"proposal"    binding:"omitempty,max=4096"`
}

// UpdateGroupRequest 部分更新小组（含提案状态变更）
type UpdateGroupRequest struct {
	Name               *string `json:"name"                binding:"omitempty,max=256"`
	Title              *string `json:"title"               binding:"omitempty,max=256"`
	Description        *string `json:"description"         binding:"omitempty,max=4096"`
	Proposal           *string `json:"proposal"            binding:"omitempty,max=4096"`
	ProposalState      *string `json:"proposal_state"      binding:"omitempty,oneof=PENDING SUBMITTED APPROVED REJECT"`
	ApplicationEnabled *bool   `json:"application_enabled"`
}

// TransferOwnerRequest 转让组长请求
type TransferOwnerRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// AssignGroupRequest 管理员直接分配小组请求
type AssignGroupRequest struct {
	Name        string   `json:"name"        binding:"required,max=256"`
	Title       string   `json:"title"       binding:"omitempty,max=256"`
	Description string   `json:"description" binding:"omitempty,max=4096"`
	OwnerID     string   `json:"owner_id"    binding:"required,uuid"`
	MemberIDs   []string `json:"member_ids"  binding:"omitempty,dive,uuid"`
}

// MergeGroupRequest 合并小组请求
type MergeGroupRequest struct {
	GroupIDs []string `json:"group_ids" binding:"required,min=2,dive,uuid"`
}

// CreateCommentRequest 发表评论请求
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,max=4096"`
}

// GroupBrief 小组摘要
type GroupBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GroupListItem 小组列表项
type GroupListItem struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Owner              UserBrief `json:"owner"`
	CreatedAt          int64     `json:"creation_time"`
	MemberCount        int64     `json:"member_count"` // 不含组长
	ApplicationEnabled bool      `json:"application_enabled"`
	ProposalState      string    `json:"proposal_state"`
	Favorite           bool      `json:"favorite"`
}

// GroupDetailResponse 小组详情
type GroupDetailResponse struct {
	GroupListItem
	Proposal           *string           `json:"proposal"`
	ProposalUpdateTime *int64            `json:"proposal_update_time"`
	ProposalLate       *int64            `json:"proposal_late"`
	Members            []UserBrief       `json:"members"`
	Comments           []CommentResponse `json:"comments"`
}

// CommentResponse 评论响应
type CommentResponse struct {
	ID        string    `json:"id"`
	Author    UserBrief `json:"author"`
	Content   string    `json:"content"`
	CreatedAt int64     `json:"creation_time"`
}
