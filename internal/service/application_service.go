package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Bigstool/group-management-system/internal/dto"
	"github.com/Bigstool/group-management-system/internal/model"
	"github.com/Bigstool/group-management-system/internal/repository"
	apperrors "github.com/Bigstool/group-management-system/pkg/errors"
)

// ── 申请模块业务错误 ──

var (
	ErrApplicationNotFound   = apperrors.New(apperrors.ErrNotFound, "申请不存在")
	ErrApplicationDuplicate  = apperrors.New(apperrors.ErrPermissionDenied, "已申请过该小组")
	ErrApplicationDisabled   = apperrors.New(apperrors.ErrPermissionDenied, "该小组暂不接受申请")
	ErrNotApplicant          = apperrors.New(apperrors.ErrPermissionDenied, "只能撤回自己的申请")
	ErrApplicationListDenied = apperrors.New(apperrors.ErrPermissionDenied, "无权查看该申请列表")
)

// ApplicationService 入组申请业务接口
type ApplicationService interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error)
	// ListByGroup 组长或管理员查看小组收到的申请
	ListByGroup(ctx context.Context, actor Actor, groupID string) ([]dto.ApplicationResponse, error)
	// ListByUser 本人或管理员查看用户提交的申请
	ListByUser(ctx context.Context, actor Actor, userID string) ([]dto.ApplicationResponse, error)
	Accept(ctx context.Context, actor Actor, id string) error
	Reject(ctx context.Context, actor Actor, id string) error
	Withdraw(ctx context.Context, actor Actor, id string) error
}

type applicationService struct {
	repo     *repository.Repository
	semester SemesterService
	notifier *notifier
	logger   *zap.Logger
	clock    Clock
}

// NewApplicationService 创建 ApplicationService 实例
func NewApplicationService(
	repo *repository.Repository,
	semester SemesterService,
	n *notifier,
	logger *zap.Logger,
	clock Clock,
) ApplicationService {
	return &applicationService{repo: repo, semester: semester, notifier: n, logger: logger, clock: clock}
}

// ────────────────────── Create ──────────────────────

func (s *applicationService) Create(ctx context.Context, actor Actor, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error) {
	if actor.Role != model.RoleUser {
		return nil, ErrUserRoleRequired
	}
	conf, err := s.semester.CurrentConfig(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	if err := checkGroupingOpen(conf, now); err != nil {
		return nil, err
	}

	app := &model.GroupApplication{
		ApplicantID: actor.UserID,
		GroupID:     req.GroupID,
		Comment:     req.Comment,
	}
	app.CreatedAt = now

	var applicant *model.User
	var group *model.Group
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		// 加锁顺序与 Accept 一致：小组行 → 用户行
		var err error
		group, err = lockGroup(ctx, txRepo, req.GroupID)
		if err != nil {
			return err
		}
		applicant, err = txRepo.User.GetByIDForUpdate(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		owned, err := ownedGroup(ctx, txRepo, actor.UserID)
		if err != nil {
			return err
		}
		if affiliated(applicant, owned) {
			return ErrAlreadyGrouped
		}
		exists, err := txRepo.Application.Exists(ctx, actor.UserID, req.GroupID)
		if err != nil {
			return err
		}
		if exists {
			return ErrApplicationDuplicate
		}
		if !group.ApplicationEnabled {
			return ErrApplicationDisabled
		}
		members, err := txRepo.User.CountByJoinedGroup(ctx, group.GroupID)
		if err != nil {
			return err
		}
		if !hasRoomForMember(conf, members) {
			return ErrGroupFull
		}

		if err := txRepo.Application.Create(ctx, app); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrApplicationDuplicate
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, s.wrapErr("提交申请失败", err)
	}

	resp := toApplicationResponse(app, applicant, group)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *applicationService) ListByGroup(ctx context.Context, actor Actor, groupID string) ([]dto.ApplicationResponse, error) {
	group, err := s.repo.Group.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("查询小组失败", zap.String("id", groupID), zap.Error(err))
		return nil, err
	}
	if !actor.IsAdmin() && actor.UserID != group.OwnerID {
		return nil, ErrApplicationListDenied
	}

	apps, err := s.repo.Application.ListByGroup(ctx, groupID)
	if err != nil {
		s.logger.Error("查询小组申请失败", zap.String("id", groupID), zap.Error(err))
		return nil, err
	}
	return s.toResponses(ctx, apps)
}

func (s *applicationService) ListByUser(ctx context.Context, actor Actor, userID string) ([]dto.ApplicationResponse, error) {
	if !actor.IsAdmin() && actor.UserID != userID {
		return nil, ErrApplicationListDenied
	}
	apps, err := s.repo.Application.ListByApplicant(ctx, userID)
	if err != nil {
		s.logger.Error("查询用户申请失败", zap.String("id", userID), zap.Error(err))
		return nil, err
	}
	return s.toResponses(ctx, apps)
}

// ────────────────────── Accept ──────────────────────

// Accept 组长通过申请：申请人加入小组，其全部待处理申请一并删除
func (s *applicationService) Accept(ctx context.Context, actor Actor, id string) error {
	conf, err := s.semester.CurrentConfig(ctx)
	if err != nil {
		return err
	}
	now := s.clock()
	var notes []model.Notification

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		// 加锁顺序：小组行 → 用户行
		app, group, err := lockApplication(ctx, txRepo, id)
		if err != nil {
			return err
		}
		if actor.UserID != group.OwnerID {
			return ErrNotGroupOwner
		}

		applicant, err := txRepo.User.GetByIDForUpdate(ctx, app.ApplicantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		owned, err := ownedGroup(ctx, txRepo, applicant.UserID)
		if err != nil {
			return err
		}
		if affiliated(applicant, owned) {
			return ErrAlreadyGrouped
		}

		members, err := txRepo.User.CountByJoinedGroup(ctx, group.GroupID)
		if err != nil {
			return err
		}
		if !hasRoomForMember(conf, members) {
			return ErrGroupFull
		}

		gid := group.GroupID
		if err := txRepo.User.SetJoinedGroup(ctx, applicant.UserID, &gid); err != nil {
			return err
		}
		if err := txRepo.Application.DeleteByApplicants(ctx, []string{applicant.UserID}); err != nil {
			return err
		}
		if err := txRepo.Group.Update(ctx, group); err != nil {
			return err
		}

		notes = s.notifier.build([]string{applicant.UserID}, model.NotifyApplicationApproved,
			"入组申请已通过",
			fmt.Sprintf("你加入小组 %s 的申请已通过", group.Name),
			gid, now)
		return s.notifier.save(ctx, txRepo, notes)
	})
	if err != nil {
		return s.wrapErr("通过申请失败", err)
	}

	s.notifier.publish(ctx, notes)
	return nil
}

// ────────────────────── Reject ──────────────────────

func (s *applicationService) Reject(ctx context.Context, actor Actor, id string) error {
	now := s.clock()
	var notes []model.Notification

	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		app, group, err := lockApplication(ctx, txRepo, id)
		if err != nil {
			return err
		}
		if actor.UserID != group.OwnerID {
			return ErrNotGroupOwner
		}

		if err := txRepo.Application.Delete(ctx, app.ApplicationID); err != nil {
			return err
		}

		notes = s.notifier.build([]string{app.ApplicantID}, model.NotifyApplicationRejected,
			"入组申请未通过",
			fmt.Sprintf("你加入小组 %s 的申请未通过", group.Name),
			group.GroupID, now)
		return s.notifier.save(ctx, txRepo, notes)
	})
	if err != nil {
		return s.wrapErr("拒绝申请失败", err)
	}

	s.notifier.publish(ctx, notes)
	return nil
}

// ────────────────────── Withdraw ──────────────────────

func (s *applicationService) Withdraw(ctx context.Context, actor Actor, id string) error {
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		app, _, err := lockApplication(ctx, txRepo, id)
		if err != nil {
			return err
		}
		if actor.UserID != app.ApplicantID {
			return ErrNotApplicant
		}
		return txRepo.Application.Delete(ctx, app.ApplicationID)
	})
	if err != nil {
		return s.wrapErr("撤回申请失败", err)
	}
	return nil
}

// ── 辅助函数 ──

// lockApplication 锁定申请所属小组后重新读取申请
// 并发的通过、拒绝、撤回在小组行上串行，后到者看到申请已删除时返回 ErrApplicationNotFound
func lockApplication(ctx context.Context, txRepo *repository.Repository, id string) (*model.GroupApplication, *model.Group, error) {
	app, err := txRepo.Application.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrApplicationNotFound
		}
		return nil, nil, err
	}
	group, err := lockGroup(ctx, txRepo, app.GroupID)
	if err != nil {
		return nil, nil, err
	}
	app, err = txRepo.Application.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrApplicationNotFound
		}
		return nil, nil, err
	}
	return app, group, nil
}

func (s *applicationService) wrapErr(msg string, err error) error {
	if apperrors.KindOf(err) != nil {
		return err
	}
	s.logger.Error(msg, zap.Error(err))
	return err
}

func (s *applicationService) toResponses(ctx context.Context, apps []model.GroupApplication) ([]dto.ApplicationResponse, error) {
	applicantIDs := make([]string, 0, len(apps))
	groupIDs := make([]string, 0, len(apps))
	for _, a := range apps {
		applicantIDs = append(applicantIDs, a.ApplicantID)
		groupIDs = append(groupIDs, a.GroupID)
	}

	users, err := s.repo.User.ListByIDs(ctx, applicantIDs)
	if err != nil {
		s.logger.Error("查询申请人失败", zap.Error(err))
		return nil, err
	}
	groups, err := s.repo.Group.ListByIDs(ctx, groupIDs)
	if err != nil {
		s.logger.Error("查询申请小组失败", zap.Error(err))
		return nil, err
	}
	userMap := make(map[string]*model.User, len(users))
	for i := range users {
		userMap[users[i].UserID] = &users[i]
	}
	groupMap := make(map[string]*model.Group, len(groups))
	for i := range groups {
		groupMap[groups[i].GroupID] = &groups[i]
	}

	result := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		a := &apps[i]
		result = append(result, toApplicationResponse(a, userMap[a.ApplicantID], groupMap[a.GroupID]))
	}
	return result, nil
}

func toApplicationResponse(a *model.GroupApplication, applicant *model.User, group *model.Group) dto.ApplicationResponse {
	resp := dto.ApplicationResponse{
		ID:        a.ApplicationID,
		Comment:   a.Comment,
		CreatedAt: a.CreatedAt.Unix(),
	}
	if applicant != nil {
		resp.Applicant = toUserBrief(applicant)
	}
	if group != nil {
		resp.Group = dto.GroupBrief{ID: group.GroupID, Name: group.Name}
	}
	return resp
}
