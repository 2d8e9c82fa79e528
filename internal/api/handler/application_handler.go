package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Bigstool/group-management-system/internal/dto"
	"github.com/Bigstool/group-management-system/internal/service"
	"github.com/Bigstool/group-management-system/pkg/response"
)

// ApplicationHandler 入组申请 HTTP 处理器
type ApplicationHandler struct {
	applicationSvc service.ApplicationService
}

// NewApplicationHandler 创建 ApplicationHandler
func NewApplicationHandler(applicationSvc service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationSvc: applicationSvc}
}

// CreateApplication 提交入组申请
// POST /api/v1/application
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	app, err := h.applicationSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, app)
}

// AcceptApplication 组长通过申请
// POST /api/v1/application/:id/accept
func (h *ApplicationHandler) AcceptApplication(c *gin.Context) {
	h.act(c, h.applicationSvc.Accept)
}

// RejectApplication 组长拒绝申请
// POST /api/v1/application/:id/reject
func (h *ApplicationHandler) RejectApplication(c *gin.Context) {
	h.act(c, h.applicationSvc.Reject)
}

// WithdrawApplication 申请人撤回申请
// DELETE /api/v1/application/:id
func (h *ApplicationHandler) WithdrawApplication(c *gin.Context) {
	h.act(c, h.applicationSvc.Withdraw)
}

func (h *ApplicationHandler) act(c *gin.Context, fn func(ctx context.Context, actor service.Actor, id string) error) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := fn(c.Request.Context(), actor, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}
