package dto

// ── 学期与系统配置 DTO ──

// SysConfigResponse 当前学期配置
type SysConfigResponse struct {
	SystemState       SystemState `json:"system_state"`
	GroupMemberNumber [2]int      `json:"group_member_number"`
}

// SystemState 截止时间（Unix 秒）
type SystemState struct {
	GroupingDDL int64 `json:"grouping_ddl"`
	ProposalDDL int64 `json:"proposal_ddl"`
}

// UpdateSysConfigRequest 部分更新当前学期配置
type UpdateSysConfigRequest struct {
	GroupingDDL       *int64  `json:"grouping_ddl"        binding:"omitempty,min=0"`
	ProposalDDL       *int64  `json:"proposal_ddl"        binding:"omitempty,min=0"`
	GroupMemberNumber *[2]int `json:"group_member_number"`
}

// ArchiveSemesterRequest 归档当前学期请求
type ArchiveSemesterRequest struct {
	Name   string             `json:"name"   binding:"required,max=256"`
	Config *SysConfigResponse `json:"config"` // 为空时继承当前配置
}

// RenameSemesterRequest 重命名学期
type RenameSemesterRequest struct {
	Name string `json:"name" binding:"required,max=256"`
}

// SemesterResponse 学期响应
type SemesterResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	StartTime int64             `json:"start_time"`
	EndTime   *int64            `json:"end_time"`
	Config    SysConfigResponse `json:"config"`
}
