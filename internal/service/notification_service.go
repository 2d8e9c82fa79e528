package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Bigstool/group-management-system/internal/dto"
	"github.com/Bigstool/group-management-system/internal/repository"
	apperrors "github.com/Bigstool/group-management-system/pkg/errors"
)

var ErrNotificationForbidden = apperrors.New(apperrors.ErrPermissionDenied, "只能查看自己的通知")

// NotificationService 通知查询接口，通知的写入由各业务操作在事务内完成
type NotificationService interface {
	ListByUser(ctx context.Context, actor Actor, userID string, page *dto.PaginationRequest) ([]dto.NotificationResponse, int64, error)
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) ListByUser(ctx context.Context, actor Actor, userID string, page *dto.PaginationRequest) ([]dto.NotificationResponse, int64, error) {
	if actor.UserID != userID {
		return nil, 0, ErrNotificationForbidden
	}

	notes, total, err := s.repo.Notification.ListByUser(ctx, userID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("查询通知失败", zap.String("user_id", userID), zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.NotificationResponse, 0, len(notes))
	for _, n := range notes {
		result = append(result, dto.NotificationResponse{
			ID:        n.NotificationID,
			Type:      n.Type,
			Title:     n.Title,
			Content:   n.Content,
			RelatedID: n.RelatedID,
			CreatedAt: n.CreatedAt.Unix(),
		})
	}
	return result, total, nil
}
