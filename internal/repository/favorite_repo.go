package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Bigstool/group-management-system/internal/model"
)

// FavoriteRepository 小组收藏数据访问接口
type FavoriteRepository interface {
	// Add 幂等添加收藏，已存在时不做任何修改
	Add(ctx context.Context, fav *model.GroupFavorite) error
	// Remove 幂等取消收藏，不存在时不报错
	Remove(ctx context.Context, userID, groupID string) error
	Count(ctx context.Context, userID, groupID string) (int64, error)
	ListGroupIDsByUser(ctx context.Context, userID string) ([]string, error)
	DeleteByUsers(ctx context.Context, userIDs []string) error
	DeleteByGroups(ctx context.Context, groupIDs []string) error
}

type favoriteRepo struct {
	db *gorm.DB
}

// NewFavoriteRepo 创建 FavoriteRepository 实例
func NewFavoriteRepo(db *gorm.DB) FavoriteRepository {
	return &favoriteRepo{db: db}
}

func (r *favoriteRepo) Add(ctx context.Context, fav *model.GroupFavorite) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "group_id"}},
			DoNothing: true,
		}).
		Create(fav).Error
}

func (r *favoriteRepo) Remove(ctx context.Context, userID, groupID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Delete(&model.GroupFavorite{}).Error
}

func (r *favoriteRepo) Count(ctx context.Context, userID, groupID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.GroupFavorite{}).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Count(&count).Error
	return count, err
}

func (r *favoriteRepo) ListGroupIDsByUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.GroupFavorite{}).
		Where("user_id = ?", userID).
		Pluck("group_id", &ids).Error
	return ids, err
}

func (r *favoriteRepo) DeleteByUsers(ctx context.Context, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Delete(&model.GroupFavorite{}).Error
}

func (r *favoriteRepo) DeleteByGroups(ctx context.Context, groupIDs []string) error {
	if len(groupIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("group_id IN ?", groupIDs).
		Delete(&model.GroupFavorite{}).Error
}
