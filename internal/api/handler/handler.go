package handler

import (
	"github.com/Bigstool/group-management-system/config"
	"github.com/Bigstool/group-management-system/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Group       *GroupHandler
	Application *ApplicationHandler
	Semester    *SemesterHandler
	Export      *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth, svc.User, &cfg.Auth),
		User:        NewUserHandler(svc.User, svc.Application, svc.Notification),
		Group:       NewGroupHandler(svc.Group, svc.Application),
		Application: NewApplicationHandler(svc.Application),
		Semester:    NewSemesterHandler(svc.Semester),
		Export:      NewExportHandler(svc.Export),
	}
}
