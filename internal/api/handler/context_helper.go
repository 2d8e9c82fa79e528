package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Bigstool/group-management-system/internal/service"
	"github.com/Bigstool/group-management-system/pkg/response"
)

// MustGetActor 从 Gin 上下文中提取 JWT 中间件注入的 user_id 与 role。
// 缺失时写入 401 响应并返回 false，调用方应直接 return。
func MustGetActor(c *gin.Context) (service.Actor, bool) {
	userID := c.GetString("user_id")
	role := c.GetString("role")
	if userID == "" || role == "" {
		response.Unauthorized(c, 10002, "未认证")
		return service.Actor{}, false
	}
	return service.Actor{UserID: userID, Role: role}, true
}

// tokenInfo 返回当前 access token 的 jti 与过期时间，供登出加入黑名单
func tokenInfo(c *gin.Context) (string, time.Time) {
	jti := c.GetString("token_jti")
	exp, _ := c.Get("token_exp")
	expiresAt, _ := exp.(time.Time)
	return jti, expiresAt
}
