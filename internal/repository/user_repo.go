package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Bigstool/group-management-system/internal/model"
)

// UserListFilter 用户列表筛选条件
type UserListFilter struct {
	Role      string
	Ungrouped bool // 仅返回既未拥有也未加入小组的用户
	Keyword   string
	Offset    int
	Limit     int
}

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	// GetByIDForUpdate 使用 SELECT ... FOR UPDATE 锁定用户行，防止同一用户被并发加入多个小组
	GetByIDForUpdate(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.User, error)
	List(ctx context.Context, filter UserListFilter) ([]model.User, int64, error)
	ListByJoinedGroup(ctx context.Context, groupID string) ([]model.User, error)
	CountByJoinedGroup(ctx context.Context, groupID string) (int64, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	SetJoinedGroup(ctx context.Context, userID string, groupID *string) error
	ClearJoinedGroup(ctx context.Context, groupIDs []string) error
	// ListIDsCreatedBetween 创建时间落在 [from, to) 内的用户；归档时刻创建的账号属于新学期
	ListIDsCreatedBetween(ctx context.Context, role string, from, to time.Time) ([]string, error)
	DeleteByIDs(ctx context.Context, ids []string) error
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) ListByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", ids).
		Find(&users).Error
	return users, err
}

func (r *userRepo) List(ctx context.Context, filter UserListFilter) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	query := r.db.WithContext(ctx).Model(&model.User{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Ungrouped {
		query = query.
			Where("joined_group_id IS NULL").
			Where("NOT EXISTS (SELECT 1 FROM groups g WHERE g.owner_id = users.user_id)")
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("email LIKE ? OR alias LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at ASC").Offset(filter.Offset)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	err := query.Find(&users).Error
	return users, total, err
}

func (r *userRepo) ListByJoinedGroup(ctx context.Context, groupID string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("joined_group_id = ?", groupID).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepo) CountByJoinedGroup(ctx context.Context, groupID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("joined_group_id = ?", groupID).
		Count(&count).Error
	return count, err
}

func (r *userRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", user.UserID).
		Updates(map[string]interface{}{
			"email": user.Email,
			"alias": user.Alias,
			"bio":   user.Bio,
		}).Error
}

func (r *userRepo) SetJoinedGroup(ctx context.Context, userID string, groupID *string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", userID).
		Update("joined_group_id", groupID).Error
}

// ClearJoinedGroup 将加入了指定小组的所有用户的 joined_group_id 置空
func (r *userRepo) ClearJoinedGroup(ctx context.Context, groupIDs []string) error {
	if len(groupIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("joined_group_id IN ?", groupIDs).
		Update("joined_group_id", nil).Error
}

func (r *userRepo) ListIDsCreatedBetween(ctx context.Context, role string, from, to time.Time) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("role = ? AND created_at >= ? AND created_at < ?", role, from, to).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *userRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("user_id IN ?", ids).
		Delete(&model.User{}).Error
}
