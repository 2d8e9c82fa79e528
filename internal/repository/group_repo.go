package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Bigstool/group-management-system/internal/model"
	pkgerrors "github.com/Bigstool/group-management-system/pkg/errors"
)

// GroupRepository 小组数据访问接口
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetByID(ctx context.Context, id string) (*model.Group, error)
	// GetByIDForUpdate 使用 SELECT ... FOR UPDATE 行级锁查询小组，串行化同一小组上的成员变更
	GetByIDForUpdate(ctx context.Context, id string) (*model.Group, error)
	GetByOwner(ctx context.Context, ownerID string) (*model.Group, error)
	List(ctx context.Context) ([]model.Group, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Group, error)
	// Update 基于 version 的乐观锁更新，版本不匹配返回 ErrOptimisticLock
	Update(ctx context.Context, group *model.Group) error
	CountMembers(ctx context.Context, groupIDs []string) (map[string]int64, error)
	ListIDsCreatedBetween(ctx context.Context, from, to time.Time) ([]string, error)
	ListIDsByOwners(ctx context.Context, ownerIDs []string) ([]string, error)
	DeleteByIDs(ctx context.Context, ids []string) error
}

type groupRepo struct {
	db *gorm.DB
}

// NewGroupRepo 创建 GroupRepository 实例
func NewGroupRepo(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) Create(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepo) GetByID(ctx context.Context, id string) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).
		Where("group_id = ?", id).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("group_id = ?", id).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepo) GetByOwner(ctx context.Context, ownerID string) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepo) List(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Group, error) {
	var groups []model.Group
	if len(ids) == 0 {
		return groups, nil
	}
	err := r.db.WithContext(ctx).
		Where("group_id IN ?", ids).
		Find(&groups).Error
	return groups, err
}

func (r *groupRepo) Update(ctx context.Context, group *model.Group) error {
	oldVersion := group.Version
	result := r.db.WithContext(ctx).
		Model(&model.Group{}).
		Where("group_id = ? AND version = ?", group.GroupID, oldVersion).
		Updates(map[string]interface{}{
			"name":                 group.Name,
			"title":                group.Title,
			"description":          group.Description,
			"owner_id":             group.OwnerID,
			"proposal":             group.Proposal,
			"proposal_state":       group.ProposalState,
			"proposal_update_time": group.ProposalUpdateTime,
			"proposal_late":        group.ProposalLate,
			"application_enabled":  group.ApplicationEnabled,
			"version":              oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	group.Version = oldVersion + 1
	return nil
}

// CountMembers 批量统计小组成员数（不含组长）
func (r *groupRepo) CountMembers(ctx context.Context, groupIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(groupIDs))
	if len(groupIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		JoinedGroupID string
		Count         int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Select("joined_group_id, COUNT(*) AS count").
		Where("joined_group_id IN ?", groupIDs).
		Group("joined_group_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.JoinedGroupID] = row.Count
	}
	return counts, nil
}

func (r *groupRepo) ListIDsCreatedBetween(ctx context.Context, from, to time.Time) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Group{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Pluck("group_id", &ids).Error
	return ids, err
}

func (r *groupRepo) ListIDsByOwners(ctx context.Context, ownerIDs []string) ([]string, error) {
	var ids []string
	if len(ownerIDs) == 0 {
		return ids, nil
	}
	err := r.db.WithContext(ctx).
		Model(&model.Group{}).
		Where("owner_id IN ?", ownerIDs).
		Pluck("group_id", &ids).Error
	return ids, err
}

func (r *groupRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("group_id IN ?", ids).
		Delete(&model.Group{}).Error
}
