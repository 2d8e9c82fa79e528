package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Bigstool/group-management-system/config"
	"github.com/Bigstool/group-management-system/internal/api/handler"
	"github.com/Bigstool/group-management-system/internal/api/middleware"
	"github.com/Bigstool/group-management-system/internal/model"
	"github.com/Bigstool/group-management-system/pkg/jwt"
	"github.com/Bigstool/group-management-system/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	if err := handler.InitTrans(); err != nil {
		logger.Warn("初始化校验翻译失败，使用默认错误信息", zap.Error(err))
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders(cfg.Server.Mode != gin.ReleaseMode, logger))
	if cfg.Server.BodyLimit > 0 {
		r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	}

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	admin := middleware.RoleAuth(model.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, cfg.Server.LoginRateMax, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 用户模块
			users := authorized.Group("/user")
			{
				users.POST("", admin, h.User.CreateUser)
				users.GET("", admin, h.User.ListUsers)
				users.GET("/:id", h.User.GetUser)
				users.PATCH("/:id", h.User.UpdateUser) // 本人或管理员（Service 层鉴权）
				users.GET("/:id/application", h.User.ListApplications)
				users.GET("/:id/notification", h.User.ListNotifications)
			}

			// 小组模块
			groups := authorized.Group("/group")
			{
				groups.POST("", h.Group.CreateGroup)
				groups.GET("", h.Group.ListGroups)
				groups.POST("/assigned", admin, h.Group.AssignGroup)
				groups.POST("/merged", h.Group.MergeGroups) // 暂未实现，任何已登录用户均返回 501
				groups.GET("/:id", h.Group.GetGroup)
				groups.PATCH("/:id", h.Group.UpdateGroup)
				groups.DELETE("/:id", h.Group.DeleteGroup)
				groups.PUT("/:id/owner", h.Group.TransferOwner)
				groups.DELETE("/:id/member/:user_id", h.Group.RemoveMember)
				groups.GET("/:id/application", h.Group.ListApplications)
				groups.POST("/:id/favorite", h.Group.AddFavorite)
				groups.DELETE("/:id/favorite", h.Group.RemoveFavorite)
				groups.POST("/:id/comment", h.Group.AddComment)
			}

			// 入组申请
			applications := authorized.Group("/application")
			{
				applications.POST("", h.Application.CreateApplication)
				applications.POST("/:id/accept", h.Application.AcceptApplication)
				applications.POST("/:id/reject", h.Application.RejectApplication)
				applications.DELETE("/:id", h.Application.WithdrawApplication)
			}

			// 系统配置
			sysconfig := authorized.Group("/sysconfig")
			{
				sysconfig.GET("", h.Semester.GetSysConfig)
				sysconfig.PATCH("", admin, h.Semester.UpdateSysConfig)
				sysconfig.GET("/calendar.ics", h.Semester.Calendar)
			}

			// 学期模块（管理员）
			semesters := authorized.Group("/semester", admin)
			{
				semesters.POST("/archived", h.Semester.ArchiveSemester)
				semesters.GET("", h.Semester.ListSemesters)
				semesters.PATCH("/:id", h.Semester.RenameSemester)
				semesters.DELETE("/:id", h.Semester.DeleteSemester)
			}

			// 导出模块
			export := authorized.Group("/export", admin)
			{
				export.GET("/groups", h.Export.ExportGroups)
			}
		}
	}

	return r
}
