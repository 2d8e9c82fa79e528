package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Bigstool/group-management-system/config"
	"github.com/Bigstool/group-management-system/internal/dto"
	"github.com/Bigstool/group-management-system/internal/model"
	"github.com/Bigstool/group-management-system/internal/repository"
	apperrors "github.com/Bigstool/group-management-system/pkg/errors"
	"github.com/Bigstool/group-management-system/pkg/redis"
)

// ── 学期模块业务错误 ──

var (
	ErrSemesterNotFound         = apperrors.New(apperrors.ErrNotFound, "学期不存在")
	ErrSemesterNameTaken        = apperrors.New(apperrors.ErrDuplicate, "学期名称已存在")
	ErrSemesterNameReserved     = apperrors.New(apperrors.ErrInvalidInput, "学期名称不能为 CURRENT")
	ErrCurrentSemesterImmutable = apperrors.New(apperrors.ErrPermissionDenied, "当前学期不能重命名或删除")
	ErrSysConfigInvalid         = apperrors.New(apperrors.ErrInvalidInput, "小组人数范围或截止时间无效")
)

const (
	sysConfigCacheKey = "gms:sysconfig:current"
	sysConfigCacheTTL = 10 * time.Minute
)

// SemesterService 学期与系统配置业务接口
type SemesterService interface {
	// CurrentConfig 读取 CURRENT 学期配置，供各业务操作开始时读取一次
	CurrentConfig(ctx context.Context) (model.SemesterConfig, error)
	GetSysConfig(ctx context.Context) (*dto.SysConfigResponse, error)
	UpdateSysConfig(ctx context.Context, req *dto.UpdateSysConfigRequest) (*dto.SysConfigResponse, error)
	// Calendar 生成包含两个截止时间的 iCalendar 文本
	Calendar(ctx context.Context) ([]byte, error)
	Archive(ctx context.Context, req *dto.ArchiveSemesterRequest) (*dto.SemesterResponse, error)
	List(ctx context.Context) ([]dto.SemesterResponse, error)
	Rename(ctx context.Context, id string, req *dto.RenameSemesterRequest) (*dto.SemesterResponse, error)
	Delete(ctx context.Context, id string) error
	// EnsureCurrent 启动时确保存在 CURRENT 学期
	EnsureCurrent(ctx context.Context) error
}

type semesterService struct {
	cfg    *config.Config
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
	clock  Clock
}

// NewSemesterService 创建 SemesterService 实例
func NewSemesterService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	logger *zap.Logger,
	clock Clock,
) SemesterService {
	return &semesterService{cfg: cfg, repo: repo, rdb: rdb, logger: logger, clock: clock}
}

// ────────────────────── CurrentConfig ──────────────────────

func (s *semesterService) CurrentConfig(ctx context.Context) (model.SemesterConfig, error) {
	var conf model.SemesterConfig
	if s.rdb != nil {
		err := s.rdb.GetJSON(ctx, sysConfigCacheKey, &conf)
		if err == nil {
			return conf, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Warn("读取配置缓存失败，回退到数据库", zap.Error(err))
		}
	}

	current, err := s.repo.Semester.GetCurrent(ctx)
	if err != nil {
		s.logger.Error("查询当前学期失败", zap.Error(err))
		return conf, fmt.Errorf("查询当前学期失败: %w", err)
	}
	conf = current.Config.Data()

	if s.rdb != nil {
		if err := s.rdb.SetJSON(ctx, sysConfigCacheKey, conf, sysConfigCacheTTL); err != nil {
			s.logger.Warn("写入配置缓存失败", zap.Error(err))
		}
	}
	return conf, nil
}

func (s *semesterService) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Delete(ctx, sysConfigCacheKey); err != nil {
		s.logger.Warn("清除配置缓存失败", zap.Error(err))
	}
}

// ────────────────────── SysConfig ──────────────────────

func (s *semesterService) GetSysConfig(ctx context.Context) (*dto.SysConfigResponse, error) {
	conf, err := s.CurrentConfig(ctx)
	if err != nil {
		return nil, err
	}
	resp := toSysConfigResponse(conf)
	return &resp, nil
}

func (s *semesterService) UpdateSysConfig(ctx context.Context, req *dto.UpdateSysConfigRequest) (*dto.SysConfigResponse, error) {
	var updated model.SemesterConfig
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		current, err := txRepo.Semester.GetCurrent(ctx)
		if err != nil {
			return err
		}

		conf := current.Config.Data()
		if req.GroupingDDL != nil {
			conf.SystemState.GroupingDDL = *req.GroupingDDL
		}
		if req.ProposalDDL != nil {
			conf.SystemState.ProposalDDL = *req.ProposalDDL
		}
		if req.GroupMemberNumber != nil {
			conf.GroupMemberNumber = *req.GroupMemberNumber
		}
		if err := validateSemesterConfig(conf); err != nil {
			return err
		}

		current.Config = datatypes.NewJSONType(conf)
		if err := txRepo.Semester.Update(ctx, current); err != nil {
			return err
		}
		updated = conf
		return nil
	})
	if err != nil {
		return nil, s.wrapErr("更新系统配置失败", err)
	}

	s.invalidateCache(ctx)
	resp := toSysConfigResponse(updated)
	return &resp, nil
}

// ────────────────────── Calendar ──────────────────────

func (s *semesterService) Calendar(ctx context.Context) ([]byte, error) {
	conf, err := s.CurrentConfig(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//GMS//Semester Deadlines//ZH")
	cal.SetName("小组管理系统截止时间")

	addDeadline := func(uid, summary, desc string, ddl int64) {
		if ddl <= 0 {
			return
		}
		at := time.Unix(ddl, 0).UTC()
		evt := cal.AddEvent(uid)
		evt.SetCreatedTime(now)
		evt.SetDtStampTime(now)
		evt.SetStartAt(at)
		evt.SetEndAt(at)
		evt.SetSummary(summary)
		evt.SetDescription(desc)
	}
	addDeadline("grouping-ddl@gms", "组队截止", "截止后不能再创建、解散或申请加入小组", conf.SystemState.GroupingDDL)
	addDeadline("proposal-ddl@gms", "提案截止", "截止后提交的提案将记录逾期时长", conf.SystemState.ProposalDDL)

	return []byte(cal.Serialize()), nil
}

// ────────────────────── Archive ──────────────────────

func (s *semesterService) Archive(ctx context.Context, req *dto.ArchiveSemesterRequest) (*dto.SemesterResponse, error) {
	if req.Name == model.CurrentSemesterName {
		return nil, ErrSemesterNameReserved
	}
	now := s.clock()

	var fresh *model.Semester
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if _, err := txRepo.Semester.GetByName(ctx, req.Name); err == nil {
			return ErrSemesterNameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		current, err := txRepo.Semester.GetCurrent(ctx)
		if err != nil {
			return err
		}

		conf := current.Config.Data()
		if req.Config != nil {
			conf = model.SemesterConfig{
				SystemState: model.SystemState{
					GroupingDDL: req.Config.SystemState.GroupingDDL,
					ProposalDDL: req.Config.SystemState.ProposalDDL,
				},
				GroupMemberNumber: req.Config.GroupMemberNumber,
			}
			if err := validateSemesterConfig(conf); err != nil {
				return err
			}
		}

		current.Name = req.Name
		current.EndTime = &now
		if err := txRepo.Semester.Update(ctx, current); err != nil {
			return err
		}

		fresh = &model.Semester{
			Name:      model.CurrentSemesterName,
			StartTime: now,
			Config:    datatypes.NewJSONType(conf),
		}
		fresh.CreatedAt = now
		return txRepo.Semester.Create(ctx, fresh)
	})
	if err != nil {
		return nil, s.wrapErr("归档学期失败", err)
	}

	s.invalidateCache(ctx)
	s.logger.Info("学期已归档", zap.String("name", req.Name))
	resp := toSemesterResponse(fresh)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *semesterService) List(ctx context.Context) ([]dto.SemesterResponse, error) {
	semesters, err := s.repo.Semester.List(ctx)
	if err != nil {
		s.logger.Error("列出学期失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SemesterResponse, 0, len(semesters))
	for i := range semesters {
		result = append(result, toSemesterResponse(&semesters[i]))
	}
	return result, nil
}

// ────────────────────── Rename ──────────────────────

func (s *semesterService) Rename(ctx context.Context, id string, req *dto.RenameSemesterRequest) (*dto.SemesterResponse, error) {
	if req.Name == model.CurrentSemesterName {
		return nil, ErrSemesterNameReserved
	}

	var semester *model.Semester
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var err error
		semester, err = txRepo.Semester.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSemesterNotFound
			}
			return err
		}
		if semester.IsCurrent() {
			return ErrCurrentSemesterImmutable
		}
		if semester.Name == req.Name {
			return nil
		}
		if other, err := txRepo.Semester.GetByName(ctx, req.Name); err == nil && other.SemesterID != id {
			return ErrSemesterNameTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		semester.Name = req.Name
		return txRepo.Semester.Update(ctx, semester)
	})
	if err != nil {
		return nil, s.wrapErr("重命名学期失败", err)
	}

	resp := toSemesterResponse(semester)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

// Delete 删除归档学期，并级联删除其时间窗口内创建的小组、学生账号及相关数据
func (s *semesterService) Delete(ctx context.Context, id string) error {
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		semester, err := txRepo.Semester.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSemesterNotFound
			}
			return err
		}
		if semester.IsCurrent() || semester.EndTime == nil {
			return ErrCurrentSemesterImmutable
		}
		from, to := semester.StartTime, *semester.EndTime

		userIDs, err := txRepo.User.ListIDsCreatedBetween(ctx, model.RoleUser, from, to)
		if err != nil {
			return err
		}
		groupIDs, err := txRepo.Group.ListIDsCreatedBetween(ctx, from, to)
		if err != nil {
			return err
		}
		ownedIDs, err := txRepo.Group.ListIDsByOwners(ctx, userIDs)
		if err != nil {
			return err
		}
		groupIDs = mergeIDs(groupIDs, ownedIDs)

		// 小组：先解除成员引用，再删除从属数据与小组本身
		if err := txRepo.User.ClearJoinedGroup(ctx, groupIDs); err != nil {
			return err
		}
		if err := txRepo.Application.DeleteByGroups(ctx, groupIDs); err != nil {
			return err
		}
		if err := txRepo.Comment.DeleteByGroups(ctx, groupIDs); err != nil {
			return err
		}
		if err := txRepo.Favorite.DeleteByGroups(ctx, groupIDs); err != nil {
			return err
		}
		if err := txRepo.Group.DeleteByIDs(ctx, groupIDs); err != nil {
			return err
		}

		// 学生账号及其数据
		if err := txRepo.Application.DeleteByApplicants(ctx, userIDs); err != nil {
			return err
		}
		if err := txRepo.Favorite.DeleteByUsers(ctx, userIDs); err != nil {
			return err
		}
		if err := txRepo.Comment.DeleteByAuthors(ctx, userIDs); err != nil {
			return err
		}
		if err := txRepo.Notification.DeleteByUsers(ctx, userIDs); err != nil {
			return err
		}
		if err := txRepo.User.DeleteByIDs(ctx, userIDs); err != nil {
			return err
		}

		// 窗口内其余记录
		if err := txRepo.Application.DeleteCreatedBetween(ctx, from, to); err != nil {
			return err
		}
		if err := txRepo.Notification.DeleteCreatedBetween(ctx, from, to); err != nil {
			return err
		}

		s.logger.Info("删除学期",
			zap.String("semester_id", id),
			zap.Int("groups", len(groupIDs)),
			zap.Int("users", len(userIDs)),
		)
		return txRepo.Semester.Delete(ctx, id)
	})
	if err != nil {
		return s.wrapErr("删除学期失败", err)
	}
	return nil
}

// ────────────────────── EnsureCurrent ──────────────────────

func (s *semesterService) EnsureCurrent(ctx context.Context) error {
	_, err := s.repo.Semester.GetCurrent(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("查询当前学期失败: %w", err)
	}

	conf := model.SemesterConfig{
		SystemState: model.SystemState{
			GroupingDDL: s.cfg.Semester.GroupingDDL,
			ProposalDDL: s.cfg.Semester.ProposalDDL,
		},
		GroupMemberNumber: [2]int{s.cfg.Semester.MinMembers, s.cfg.Semester.MaxMembers},
	}
	if err := validateSemesterConfig(conf); err != nil {
		return err
	}

	now := s.clock()
	current := &model.Semester{
		Name:      model.CurrentSemesterName,
		StartTime: now,
		Config:    datatypes.NewJSONType(conf),
	}
	current.CreatedAt = now
	if err := s.repo.Semester.Create(ctx, current); err != nil {
		return fmt.Errorf("创建当前学期失败: %w", err)
	}
	s.logger.Info("已初始化当前学期", zap.Ints("group_member_number", conf.GroupMemberNumber[:]))
	return nil
}

// ── 辅助函数 ──

// wrapErr 业务错误原样返回，其余错误记录日志
func (s *semesterService) wrapErr(msg string, err error) error {
	if apperrors.KindOf(err) != nil {
		return err
	}
	s.logger.Error(msg, zap.Error(err))
	return err
}

func validateSemesterConfig(conf model.SemesterConfig) error {
	if conf.MinMembers() < 1 || conf.MinMembers() > conf.MaxMembers() {
		return ErrSysConfigInvalid
	}
	if conf.SystemState.GroupingDDL < 0 || conf.SystemState.ProposalDDL < 0 {
		return ErrSysConfigInvalid
	}
	return nil
}

func toSysConfigResponse(conf model.SemesterConfig) dto.SysConfigResponse {
	return dto.SysConfigResponse{
		SystemState: dto.SystemState{
			GroupingDDL: conf.SystemState.GroupingDDL,
			ProposalDDL: conf.SystemState.ProposalDDL,
		},
		GroupMemberNumber: conf.GroupMemberNumber,
	}
}

func toSemesterResponse(s *model.Semester) dto.SemesterResponse {
	resp := dto.SemesterResponse{
		ID:        s.SemesterID,
		Name:      s.Name,
		StartTime: s.StartTime.Unix(),
		Config:    toSysConfigResponse(s.Config.Data()),
	}
	if s.EndTime != nil {
		end := s.EndTime.Unix()
		resp.EndTime = &end
	}
	return resp
}

func mergeIDs(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, id := range append(append([]string{}, a...), b...) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
