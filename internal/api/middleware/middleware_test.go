package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Bigstool/group-management-system/config"
	"github.com/Bigstool/group-management-system/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "middleware-test-secret-0123456789",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
}

func authEngine(m *jwt.Manager, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuth(m, nil, zap.NewNop())}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		if c.GetString("token_jti") == "" {
			c.String(http.StatusInternalServerError, "missing jti")
			return
		}
		if _, ok := c.Get("token_exp"); !ok {
			c.String(http.StatusInternalServerError, "missing exp")
			return
		}
		c.String(http.StatusOK, c.GetString("user_id")+"|"+c.GetString("role"))
	})
	r.GET("/p", handlers...)
	return r
}

func doGet(r *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	m := newJWT()
	access, _ := m.GenerateAccessToken("u-1", "USER")
	refresh, _ := m.GenerateRefreshToken("u-1", "USER")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"缺少认证头", "", http.StatusUnauthorized},
		{"格式错误", "Token " + access, http.StatusUnauthorized},
		{"无效 token", "Bearer not-a-token", http.StatusUnauthorized},
		{"refresh token 不能访问接口", "Bearer " + refresh, http.StatusUnauthorized},
		{"有效 access token", "Bearer " + access, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(authEngine(m), tt.header)
			if w.Code != tt.want {
				t.Fatalf("期望 %d，实际 %d: %s", tt.want, w.Code, w.Body.String())
			}
			if tt.want == http.StatusOK && w.Body.String() != "u-1|USER" {
				t.Errorf("上下文注入错误: %s", w.Body.String())
			}
		})
	}
}

func TestRoleAuth(t *testing.T) {
	m := newJWT()
	userToken, _ := m.GenerateAccessToken("u-1", "USER")
	adminToken, _ := m.GenerateAccessToken("a-1", "ADMIN")
	r := authEngine(m, RoleAuth("ADMIN"))

	if w := doGet(r, "Bearer "+userToken); w.Code != http.StatusForbidden {
		t.Errorf("学生访问管理员接口应返回 403，实际 %d", w.Code)
	}
	if w := doGet(r, "Bearer "+adminToken); w.Code != http.StatusOK {
		t.Errorf("管理员应放行，实际 %d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173/"}))
	r.GET("/p", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/p", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("期望放行配置的来源，实际 %q", got)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("应允许携带 Cookie")
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("未配置的来源不应放行")
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(true, zap.NewNop()))
	r.GET("/p", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p", nil))

	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("期望 X-Frame-Options=DENY，实际 %q", w.Header().Get("X-Frame-Options"))
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("缺少 X-Content-Type-Options")
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/p", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("X-Request-ID", "abc")
	r.ServeHTTP(w, req)
	if w.Body.String() != "abc" || w.Header().Get("X-Request-ID") != "abc" {
		t.Errorf("应沿用请求方传入的 Request-ID，实际 %q", w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 100))
	r.ServeHTTP(w, req)
	if len(w.Body.String()) != 36 {
		t.Errorf("超长 Request-ID 应被替换为 UUID，实际 %q", w.Body.String())
	}
}

func TestRateLimit_NilRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.GET("/p", RateLimit(nil, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Redis 不可用时应放行，第 %d 次返回 %d", i+1, w.Code)
		}
	}
}
