package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Bigstool/group-management-system/internal/model"
)

// ApplicationRepository 入组申请数据访问接口
type ApplicationRepository interface {
	Create(ctx context.Context, app *model.GroupApplication) error
	GetByID(ctx context.Context, id string) (*model.GroupApplication, error)
	Exists(ctx context.Context, applicantID, groupID string) (bool, error)
	ListByGroup(ctx context.Context, groupID string) ([]model.GroupApplication, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]model.GroupApplication, error)
	Delete(ctx context.Context, id string) error
	DeleteByApplicants(ctx context.Context, applicantIDs []string) error
	DeleteByGroups(ctx context.Context, groupIDs []string) error
	DeleteCreatedBetween(ctx context.Context, from, to time.Time) error
}

type applicationRepo struct {
	db *gorm.DB
}

// NewApplicationRepo 创建 ApplicationRepository 实例
func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, app *model.GroupApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*model.GroupApplication, error) {
	var app model.GroupApplication
	err := r.db.WithContext(ctx).
		Where("application_id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) Exists(ctx context.Context, applicantID, groupID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.GroupApplication{}).
		Where("applicant_id = ? AND group_id = ?", applicantID, groupID).
		Count(&count).Error
	return count > 0, err
}

func (r *applicationRepo) ListByGroup(ctx context.Context, groupID string) ([]model.GroupApplication, error) {
	var apps []model.GroupApplication
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&apps).Error
	return apps, err
}

func (r *applicationRepo) ListByApplicant(ctx context.Context, applicantID string) ([]model.GroupApplication, error) {
	var apps []model.GroupApplication
	err := r.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("created_at ASC").
		Find(&apps).Error
	return apps, err
}

func (r *applicationRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("application_id = ?", id).
		Delete(&model.GroupApplication{}).Error
}

func (r *applicationRepo) DeleteByApplicants(ctx context.Context, applicantIDs []string) error {
	if len(applicantIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("applicant_id IN ?", applicantIDs).
		Delete(&model.GroupApplication{}).Error
}

func (r *applicationRepo) DeleteByGroups(ctx context.Context, groupIDs []string) error {
	if len(groupIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("group_id IN ?", groupIDs).
		Delete(&model.GroupApplication{}).Error
}

func (r *applicationRepo) DeleteCreatedBetween(ctx context.Context, from, to time.Time) error {
	return r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Delete(&model.GroupApplication{}).Error
}
