package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Bigstool/group-management-system/config"
	"github.com/Bigstool/group-management-system/internal/dto"
	"github.com/Bigstool/group-management-system/internal/model"
	"github.com/Bigstool/group-management-system/internal/repository"
	"github.com/Bigstool/group-management-system/internal/repository/testhelper"
	"github.com/Bigstool/group-management-system/pkg/jwt"
)

// ── 测试环境 ──

var userSeq atomic.Int64

// recordingPublisher 记录事务提交后投递的通知
type recordingPublisher struct {
	mu    sync.Mutex
	notes []model.Notification
}

func (p *recordingPublisher) Publish(_ context.Context, notes []model.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notes = append(p.notes, notes...)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.notes))
	for _, n := range p.notes {
		out = append(out, n.Type)
	}
	return out
}

type testEnv struct {
	repo *repository.Repository
	svc  *Service
	pub  *recordingPublisher
	cfg  *config.Config

	mu  sync.Mutex
	now time.Time
}

var baseTime = time.Unix(1_700_000_000, 0).UTC()

// defaultConfig 组队截止在 1 天后，提案截止在 2 天后，小组人数 [1, 3]
func defaultConfig() model.SemesterConfig {
	return model.SemesterConfig{
		SystemState: model.SystemState{
			GroupingDDL: baseTime.Add(24 * time.Hour).Unix(),
			ProposalDDL: baseTime.Add(48 * time.Hour).Unix(),
		},
		GroupMemberNumber: [2]int{1, 3},
	}
}

func newTestEnv(t *testing.T, conf model.SemesterConfig) *testEnv {
	t.Helper()
	return newTestEnvOn(t, testhelper.NewSQLiteDB(t), conf)
}

// newTestEnvOn 在给定数据库上搭建测试环境，库中不应已有 CURRENT 学期
func newTestEnvOn(t *testing.T, db *gorm.DB, conf model.SemesterConfig) *testEnv {
	t.Helper()

	repo := repository.NewRepository(db)
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "service-test-secret-0123456789",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: time.Hour,
		},
		Semester: config.SemesterConfig{MinMembers: 1, MaxMembers: 5},
	}

	env := &testEnv{repo: repo, pub: &recordingPublisher{}, cfg: cfg, now: baseTime}

	current := &model.Semester{
		Name:      model.CurrentSemesterName,
		StartTime: baseTime.Add(-time.Hour),
		Config:    datatypes.NewJSONType(conf),
	}
	current.CreatedAt = current.StartTime
	require.NoError(t, repo.Semester.Create(context.Background(), current))

	env.svc = NewService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, env.pub, zap.NewNop(), env.clock)
	return env
}

func (e *testEnv) clock() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

func (e *testEnv) setNow(t time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = t
}

func (e *testEnv) createUser(t *testing.T, role string) *model.User {
	t.Helper()
	n := userSeq.Add(1)
	u := &model.User{
		Email:        fmt.Sprintf("user%d@example.com", n),
		Alias:        fmt.Sprintf("user%d", n),
		PasswordHash: "x",
		Role:         role,
	}
	u.CreatedAt = e.clock()
	require.NoError(t, e.repo.User.Create(context.Background(), u))
	return u
}

func actorOf(u *model.User) Actor {
	return Actor{UserID: u.UserID, Role: u.Role}
}

// createGroup 由 owner 创建小组并返回小组 id
func (e *testEnv) createGroup(t *testing.T, owner *model.User, name string) string {
	t.Helper()
	detail, err := e.svc.Group.Create(context.Background(), actorOf(owner), &dto.CreateGroupRequest{Name: name, Description: "desc"})
	require.NoError(t, err)
	return detail.ID
}

// join 通过 申请 → 通过 的正常流程让 member 加入小组
func (e *testEnv) join(t *testing.T, owner, member *model.User, groupID string) {
	t.Helper()
	ctx := context.Background()
	app, err := e.svc.Application.Create(ctx, actorOf(member), applyReq(groupID))
	require.NoError(t, err)
	require.NoError(t, e.svc.Application.Accept(ctx, actorOf(owner), app.ID))
}

func (e *testEnv) reloadUser(t *testing.T, id string) *model.User {
	t.Helper()
	u, err := e.repo.User.GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func (e *testEnv) reloadGroup(t *testing.T, id string) *model.Group {
	t.Helper()
	g, err := e.repo.Group.GetByID(context.Background(), id)
	require.NoError(t, err)
	return g
}

func applyReq(groupID string) *dto.CreateApplicationRequest {
	return &dto.CreateApplicationRequest{GroupID: groupID, Comment: "hi"}
}
