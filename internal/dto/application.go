package dto

// ── 申请模块 DTO ──

// CreateApplicationRequest 提交入组申请
type CreateApplicationRequest struct {
	GroupID string `json:"group_id" binding:"required,uuid"`
	Comment string `json:"comment"  binding:"omitempty,max=4096"`
}

// ApplicationResponse 申请响应
type ApplicationResponse struct {
	ID        string     `json:"id"`
	Applicant UserBrief  `json:"applicant"`
	Group     GroupBrief `json:"group"`
	Comment   string     `json:"comment"`
	CreatedAt int64      `json:"creation_time"`
}
