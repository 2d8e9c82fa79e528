package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bigstool/group-management-system/internal/dto"
	"github.com/Bigstool/group-management-system/internal/model"
	"github.com/Bigstool/group-management-system/pkg/jwt"
)

func createLoginUser(t *testing.T, env *testEnv) *dto.UserResponse {
	t.Helper()
	u, err := env.svc.User.Create(context.Background(), &dto.CreateUserRequest{
		Email:    "login@example.com",
		Password: "password123",
		Alias:    "login",
	})
	require.NoError(t, err)
	return u
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	ctx := context.Background()
	u := createLoginUser(t, env)

	tokens, err := env.svc.Auth.Login(ctx, &dto.LoginRequest{Email: "LOGIN@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, 900, tokens.ExpiresIn)
	assert.Equal(t, u.ID, tokens.User.ID)

	claims, err := jwt.NewManager(&env.cfg.Auth).ParseToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.Equal(t, jwt.TokenTypeAccess, claims.TokenType)

	_, err = env.svc.Auth.Login(ctx, &dto.LoginRequest{Email: "login@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.svc.Auth.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials, "邮箱不存在与密码错误返回相同错误")
}

func TestAuthService_Refresh(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	ctx := context.Background()
	createLoginUser(t, env)

	tokens, err := env.svc.Auth.Login(ctx, &dto.LoginRequest{Email: "login@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = env.svc.Auth.Refresh(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh, "access token 不能用于刷新")

	_, err = env.svc.Auth.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidRefresh)

	_, err = env.svc.Auth.Refresh(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidRefresh)

	refreshed, err := env.svc.Auth.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, tokens.User.ID, refreshed.User.ID)
}

func TestAuthService_Refresh_DeletedUser(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	ctx := context.Background()

	token, err := jwt.NewManager(&env.cfg.Auth).GenerateRefreshToken("00000000-0000-0000-0000-000000000000", model.RoleUser)
	require.NoError(t, err)

	_, err = env.svc.Auth.Refresh(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestAuthService_Logout_WithoutRedis(t *testing.T) {
	env := newTestEnv(t, defaultConfig())
	assert.NoError(t, env.svc.Auth.Logout(context.Background(), "jti", time.Now().Add(time.Minute)))
}
