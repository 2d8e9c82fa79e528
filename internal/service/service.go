package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/Bigstool/group-management-system/config"
	"github.com/Bigstool/group-management-system/internal/model"
	"github.com/Bigstool/group-management-system/internal/repository"
	"github.com/Bigstool/group-management-system/pkg/jwt"
	"github.com/Bigstool/group-management-system/pkg/mq"
	"github.com/Bigstool/group-management-system/pkg/redis"
)

// Clock 时间源，所有截止时间比较与时间戳均取自同一次调用
type Clock func() time.Time

// SystemClock 默认时间源（UTC）
func SystemClock() time.Time { return time.Now().UTC() }

// Actor 由认证中间件解析出的调用者身份
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin 是否管理员
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	User         UserService
	Group        GroupService
	Application  ApplicationService
	Notification NotificationService
	Semester     SemesterService
	Export       ExportService
}

// NewService 创建 Service 聚合
// rdb 为 nil 时禁用黑名单与配置缓存；publisher 为 nil 时仅落库不投递
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	publisher mq.Publisher,
	logger *zap.Logger,
	clock Clock,
) *Service {
	if clock == nil {
		clock = SystemClock
	}
	if publisher == nil {
		publisher = mq.NopPublisher{}
	}
	n := newNotifier(publisher, clock, logger)
	semester := NewSemesterService(cfg, repo, rdb, logger, clock)

	return &Service{
		Auth:         NewAuthService(repo, jwtMgr, rdb, logger),
		User:         NewUserService(repo, logger, clock),
		Group:        NewGroupService(repo, semester, n, logger, clock),
		Application:  NewApplicationService(repo, semester, n, logger, clock),
		Notification: NewNotificationService(repo, logger),
		Semester:     semester,
		Export:       NewExportService(repo, logger, clock),
	}
}
