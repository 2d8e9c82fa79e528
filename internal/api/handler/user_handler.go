package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Bigstool/group-management-system/internal/dto"
	"github.com/Bigstool/group-management-system/internal/service"
	"github.com/Bigstool/group-management-system/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc         service.UserService
	applicationSvc  service.ApplicationService
	notificationSvc service.NotificationService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(
	userSvc service.UserService,
	applicationSvc service.ApplicationService,
	notificationSvc service.NotificationService,
) *UserHandler {
	return &UserHandler{
		userSvc:         userSvc,
		applicationSvc:  applicationSvc,
		notificationSvc: notificationSvc,
	}
}

// CreateUser 创建账号（管理员）
// POST /api/v1/user
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, user)
}

// ListUsers 用户列表（管理员），ungrouped=true 时仅返回未组队用户
// GET /api/v1/user
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// GetUser 用户资料，含所建及所在小组
// GET /api/v1/user/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	profile, err := h.userSvc.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, profile)
}

// UpdateUser 修改资料（本人或管理员）
// PATCH /api/v1/user/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, user)
}

// ListApplications 用户提交的入组申请（本人或管理员）
// GET /api/v1/user/:id/application
func (h *UserHandler) ListApplications(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	apps, err := h.applicationSvc.ListByUser(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": apps})
}

// ListNotifications 用户通知（仅本人），按时间倒序分页
// GET /api/v1/user/:id/notification
func (h *UserHandler) ListNotifications(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}

	notes, total, err := h.notificationSvc.ListByUser(c.Request.Context(), actor, c.Param("id"), &page)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKPage(c, notes, total, page.GetPage(), page.GetPageSize())
}
