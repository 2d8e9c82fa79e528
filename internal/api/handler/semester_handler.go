package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Bigstool/group-management-system/internal/dto"
	"github.com/Bigstool/group-management-system/internal/service"
	"github.com/Bigstool/group-management-system/pkg/response"
)

// SemesterHandler 学期与系统配置 HTTP 处理器
type SemesterHandler struct {
	semesterSvc service.SemesterService
}

// NewSemesterHandler 创建 SemesterHandler
func NewSemesterHandler(semesterSvc service.SemesterService) *SemesterHandler {
	return &SemesterHandler{semesterSvc: semesterSvc}
}

// ────────────────────── 系统配置 ──────────────────────

// GetSysConfig 当前学期的截止时间与小组人数范围
// GET /api/v1/sysconfig
func (h *SemesterHandler) GetSysConfig(c *gin.Context) {
	conf, err := h.semesterSvc.GetSysConfig(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, conf)
}

// UpdateSysConfig 部分更新系统配置（管理员）
// PATCH /api/v1/sysconfig
func (h *SemesterHandler) UpdateSysConfig(c *gin.Context) {
	var req dto.UpdateSysConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	conf, err := h.semesterSvc.UpdateSysConfig(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, conf)
}

// Calendar 截止时间日历订阅
// GET /api/v1/sysconfig/calendar.ics
func (h *SemesterHandler) Calendar(c *gin.Context) {
	data, err := h.semesterSvc.Calendar(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "inline; filename=gms-deadlines.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

// ────────────────────── 学期 ──────────────────────

// ArchiveSemester 归档当前学期并开启新学期
// POST /api/v1/semester/archived
func (h *SemesterHandler) ArchiveSemester(c *gin.Context) {
	var req dto.ArchiveSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	semester, err := h.semesterSvc.Archive(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, semester)
}

// ListSemesters 学期列表
// GET /api/v1/semester
func (h *SemesterHandler) ListSemesters(c *gin.Context) {
	semesters, err := h.semesterSvc.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": semesters})
}

// RenameSemester 重命名归档学期
// PATCH /api/v1/semester/:id
func (h *SemesterHandler) RenameSemester(c *gin.Context) {
	var req dto.RenameSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	semester, err := h.semesterSvc.Rename(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, semester)
}

// DeleteSemester 删除归档学期及其数据
// DELETE /api/v1/semester/:id
func (h *SemesterHandler) DeleteSemester(c *gin.Context) {
	if err := h.semesterSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}
