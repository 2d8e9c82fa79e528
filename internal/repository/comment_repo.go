package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Bigstool/group-management-system/internal/model"
)

// CommentRepository 小组评论数据访问接口
type CommentRepository interface {
	Create(ctx context.Context, comment *model.GroupComment) error
	ListByGroup(ctx context.Context, groupID string) ([]model.GroupComment, error)
	DeleteByGroups(ctx context.Context, groupIDs []string) error
	DeleteByAuthors(ctx context.Context, authorIDs []string) error
}

type commentRepo struct {
	db *gorm.DB
}

// NewCommentRepo 创建 CommentRepository 实例
func NewCommentRepo(db *gorm.DB) CommentRepository {
	return &commentRepo{db: db}
}

func (r *commentRepo) Create(ctx context.Context, comment *model.GroupComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepo) ListByGroup(ctx context.Context, groupID string) ([]model.GroupComment, error) {
	var comments []model.GroupComment
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepo) DeleteByGroups(ctx context.Context, groupIDs []string) error {
	if len(groupIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("group_id IN ?", groupIDs).
		Delete(&model.GroupComment{}).Error
}

func (r *commentRepo) DeleteByAuthors(ctx context.Context, authorIDs []string) error {
	if len(authorIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Delete(&model.GroupComment{}).Error
}
