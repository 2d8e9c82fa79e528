package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Bigstool/group-management-system/internal/dto"
	"github.com/Bigstool/group-management-system/internal/model"
	"github.com/Bigstool/group-management-system/internal/repository"
	apperrors "github.com/Bigstool/group-management-system/pkg/errors"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound     = apperrors.New(apperrors.ErrNotFound, "用户不存在")
	ErrEmailTaken       = apperrors.New(apperrors.ErrDuplicate, "邮箱已被注册")
	ErrCannotEditOthers = apperrors.New(apperrors.ErrPermissionDenied, "只能修改自己的资料")
)

// UserService 用户业务接口
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	// EnsureAdmin 邮箱不存在时创建管理员账号，用于首次启动
	EnsureAdmin(ctx context.Context, email, password string) error
	GetProfile(ctx context.Context, id string) (*dto.UserProfileResponse, error)
	Update(ctx context.Context, actor Actor, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
	clock  Clock
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger, clock Clock) UserService {
	return &userService{repo: repo, logger: logger, clock: clock}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询邮箱失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	user := &model.User{
		Email:        email,
		Alias:        req.Alias,
		Bio:          req.Bio,
		PasswordHash: string(hash),
		Role:         role,
	}
	user.CreatedAt = s.clock()

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.Create(ctx, &dto.CreateUserRequest{
		Email:    email,
		Password: password,
		Alias:    "admin",
		Role:     model.RoleAdmin,
	})
	if errors.Is(err, ErrEmailTaken) {
		return nil
	}
	if err == nil {
		s.logger.Info("已创建初始管理员账号", zap.String("email", email))
	}
	return err
}

// ────────────────────── GetProfile ──────────────────────

func (s *userService) GetProfile(ctx context.Context, id string) (*dto.UserProfileResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := &dto.UserProfileResponse{UserResponse: toUserResponse(user)}

	owned, err := s.repo.Group.GetByOwner(ctx, id)
	switch {
	case err == nil:
		resp.OwnedGroup = &dto.GroupBrief{ID: owned.GroupID, Name: owned.Name}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("查询所建小组失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if user.JoinedGroupID != nil {
		joined, err := s.repo.Group.GetByID(ctx, *user.JoinedGroupID)
		if err != nil {
			s.logger.Error("查询所在小组失败", zap.String("id", id), zap.Error(err))
			return nil, err
		}
		resp.JoinedGroup = &dto.GroupBrief{ID: joined.GroupID, Name: joined.Name}
	}

	return resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, actor Actor, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !actor.IsAdmin() && actor.UserID != id {
		return nil, ErrCannotEditOthers
	}

	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
				return nil, ErrEmailTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Error("查询邮箱失败", zap.Error(err))
				return nil, err
			}
			user.Email = email
		}
	}
	if req.Alias != nil {
		user.Alias = *req.Alias
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if err := s.repo.User.UpdateProfile(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, repository.UserListFilter{
		Role:      req.Role,
		Ungrouped: req.Ungrouped,
		Keyword:   req.Keyword,
		Offset:    req.GetOffset(),
		Limit:     req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, total, nil
}

// ── 转换函数 ──

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.UserID,
		Email:     u.Email,
		Alias:     u.Alias,
		Bio:       u.Bio,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Unix(),
	}
}

func toUserBrief(u *model.User) dto.UserBrief {
	return dto.UserBrief{ID: u.UserID, Email: u.Email, Alias: u.Alias}
}
