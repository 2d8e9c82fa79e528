package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Bigstool/group-management-system/internal/dto"
	"github.com/Bigstool/group-management-system/internal/service"
	"github.com/Bigstool/group-management-system/pkg/response"
)

// GroupHandler 小组模块 HTTP 处理器
type GroupHandler struct {
	groupSvc       service.GroupService
	applicationSvc service.ApplicationService
}

// NewGroupHandler 创建 GroupHandler
func NewGroupHandler(groupSvc service.GroupService, applicationSvc service.ApplicationService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc, applicationSvc: applicationSvc}
}

// ────────────────────── 小组 ──────────────────────

// CreateGroup 创建小组
// POST /api/v1/group
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	group, err := h.groupSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, group)
}

// ListGroups 小组列表
// GET /api/v1/group
func (h *GroupHandler) ListGroups(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	groups, err := h.groupSvc.List(c.Request.Context(), actor)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": groups})
}

// GetGroup 小组详情
// GET /api/v1/group/:id
func (h *GroupHandler) GetGroup(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	group, err := h.groupSvc.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, group)
}

// UpdateGroup 修改小组信息或提案状态
// PATCH /api/v1/group/:id
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	group, err := h.groupSvc.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, group)
}

// DeleteGroup 解散小组
// DELETE /api/v1/group/:id
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.groupSvc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 成员 ──────────────────────

// TransferOwner 转让组长
// PUT /api/v1/group/:id/owner
func (h *GroupHandler) TransferOwner(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.TransferOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.groupSvc.TransferOwner(c.Request.Context(), actor, c.Param("id"), req.UserID); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// RemoveMember 移除成员或退出小组
// DELETE /api/v1/group/:id/member/:user_id
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.groupSvc.RemoveMember(c.Request.Context(), actor, c.Param("id"), c.Param("user_id")); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// ListApplications 小组收到的入组申请（组长或管理员）
// GET /api/v1/group/:id/application
func (h *GroupHandler) ListApplications(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	apps, err := h.applicationSvc.ListByGroup(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": apps})
}

// ────────────────────── 收藏与评论 ──────────────────────

// AddFavorite 收藏小组
// POST /api/v1/group/:id/favorite
func (h *GroupHandler) AddFavorite(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.groupSvc.AddFavorite(c.Request.Context(), actor, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// RemoveFavorite 取消收藏
// DELETE /api/v1/group/:id/favorite
func (h *GroupHandler) RemoveFavorite(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.groupSvc.RemoveFavorite(c.Request.Context(), actor, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// AddComment 发表评论
// POST /api/v1/group/:id/comment
func (h *GroupHandler) AddComment(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	comment, err := h.groupSvc.AddComment(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, comment)
}

// ────────────────────── 管理员 ──────────────────────

// AssignGroup 管理员分配小组
// POST /api/v1/group/assigned
func (h *GroupHandler) AssignGroup(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.AssignGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	group, err := h.groupSvc.Assign(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, group)
}

// MergeGroups 合并小组（暂未实现，固定返回 501）
// POST /api/v1/group/merged
func (h *GroupHandler) MergeGroups(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.MergeGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.groupSvc.Merge(c.Request.Context(), actor, &req); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}
