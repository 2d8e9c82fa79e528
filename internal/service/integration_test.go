//go:build integration

package service

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Bigstool/group-management-system/internal/model"
	"github.com/Bigstool/group-management-system/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var pgDB *gorm.DB

// TestMain 启动 PostgreSQL 容器并执行内嵌迁移；
// 设置 TEST_DATABASE_DSN 时直接连接已有数据库（每个用例会清空业务表，需以 -p 1 运行）
func TestMain(m *testing.M) {
	ctx := context.Background()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	var container testcontainers.Container
	if dsn == "" {
		var err error
		container, dsn, err = startPostgres(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "启动 PostgreSQL 容器失败: %v\n", err)
			os.Exit(1)
		}
	}

	var err error
	pgDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	sqlDB, _ := pgDB.DB()
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if container != nil {
		_ = container.Terminate(ctx)
	}
	os.Exit(code)
}

func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "gms",
			"POSTGRES_PASSWORD": "gms",
			"POSTGRES_DB":       "gms_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, "", fmt.Errorf("get mapped port: %w", err)
	}

	dsn := fmt.Sprintf("host=%s port=%s user=gms password=gms dbname=gms_test sslmode=disable TimeZone=UTC", host, port.Port())
	return container, dsn, nil
}

// newPGEnv 清空业务表后在 PostgreSQL 上搭建测试环境
func newPGEnv(t *testing.T) *testEnv {
	t.Helper()
	require.NoError(t, pgDB.Exec(
		"TRUNCATE notifications, group_comments, group_favorites, group_applications, groups, users, semesters CASCADE",
	).Error)
	return newTestEnvOn(t, pgDB, defaultConfig())
}

// race 让所有函数在同一时刻开始执行，返回各自的错误
func race(fns ...func() error) []error {
	errs := make([]error, len(fns))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, fn := range fns {
		wg.Add(1)
		go func(i int, fn func() error) {
			defer wg.Done()
			<-start
			errs[i] = fn()
		}(i, fn)
	}
	close(start)
	wg.Wait()
	return errs
}

const raceRounds = 10

// ═══════════════════════════════════════════════════════════
// Test: Accept
// ═══════════════════════════════════════════════════════════

// 两个并发的通过请求竞争最后一个名额：行锁保证恰好一个成功
func TestPostgres_ConcurrentAcceptAtCeiling(t *testing.T) {
	env := newPGEnv(t) // 上限 3：组长 + 2 名成员
	ctx := context.Background()

	for round := 0; round < raceRounds; round++ {
		owner := env.createUser(t, model.RoleUser)
		first := env.createUser(t, model.RoleUser)
		gid := env.createGroup(t, owner, fmt.Sprintf("ceiling-%d", round))
		env.join(t, owner, first, gid)

		b := env.createUser(t, model.RoleUser)
		c := env.createUser(t, model.RoleUser)
		appB, err := env.svc.Application.Create(ctx, actorOf(b), applyReq(gid))
		require.NoError(t, err)
		appC, err := env.svc.Application.Create(ctx, actorOf(c), applyReq(gid))
		require.NoError(t, err)

		errs := race(
			func() error { return env.svc.Application.Accept(ctx, actorOf(owner), appB.ID) },
			func() error { return env.svc.Application.Accept(ctx, actorOf(owner), appC.ID) },
		)

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, ErrGroupFull)
		}
		assert.Equal(t, 1, succeeded, "round %d", round)

		count, err := env.repo.User.CountByJoinedGroup(ctx, gid)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count, "round %d", round)
	}
	assertSingleAffiliation(t, env)
}

// ═══════════════════════════════════════════════════════════
// Test: Create vs Accept
// ═══════════════════════════════════════════════════════════

// 申请人的另一份申请被通过的同时提交新申请：入组后名下不会残留任何申请
func TestPostgres_CreateRacesAccept(t *testing.T) {
	env := newPGEnv(t)
	ctx := context.Background()

	for round := 0; round < raceRounds; round++ {
		owner1 := env.createUser(t, model.RoleUser)
		owner2 := env.createUser(t, model.RoleUser)
		g1 := env.createGroup(t, owner1, fmt.Sprintf("accept-%d", round))
		g2 := env.createGroup(t, owner2, fmt.Sprintf("apply-%d", round))

		b := env.createUser(t, model.RoleUser)
		app, err := env.svc.Application.Create(ctx, actorOf(b), applyReq(g1))
		require.NoError(t, err)

		errs := race(
			func() error { return env.svc.Application.Accept(ctx, actorOf(owner1), app.ID) },
			func() error {
				_, err := env.svc.Application.Create(ctx, actorOf(b), applyReq(g2))
				return err
			},
		)

		require.NoError(t, errs[0], "round %d", round)
		if errs[1] != nil {
			assert.ErrorIs(t, errs[1], ErrAlreadyGrouped, "round %d", round)
		}

		joined := env.reloadUser(t, b.UserID).JoinedGroupID
		require.NotNil(t, joined)
		assert.Equal(t, g1, *joined)
		apps, err := env.repo.Application.ListByApplicant(ctx, b.UserID)
		require.NoError(t, err)
		assert.Empty(t, apps, "round %d: 已入组的用户不应持有申请", round)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Withdraw / Reject vs Accept
// ═══════════════════════════════════════════════════════════

// 撤回与通过同一份申请：恰好一个生效，结果与通知一致
func TestPostgres_WithdrawRacesAccept(t *testing.T) {
	env := newPGEnv(t)
	ctx := context.Background()

	for round := 0; round < raceRounds; round++ {
		owner := env.createUser(t, model.RoleUser)
		gid := env.createGroup(t, owner, fmt.Sprintf("withdraw-%d", round))
		b := env.createUser(t, model.RoleUser)
		app, err := env.svc.Application.Create(ctx, actorOf(b), applyReq(gid))
		require.NoError(t, err)

		errs := race(
			func() error { return env.svc.Application.Accept(ctx, actorOf(owner), app.ID) },
			func() error { return env.svc.Application.Withdraw(ctx, actorOf(b), app.ID) },
		)

		accepted, withdrawn := errs[0] == nil, errs[1] == nil
		require.True(t, accepted != withdrawn, "round %d: 恰好一个操作成功，实际 %v", round, errs)

		notes, _, err := env.repo.Notification.ListByUser(ctx, b.UserID, 0, 10)
		require.NoError(t, err)
		joined := env.reloadUser(t, b.UserID).JoinedGroupID
		if accepted {
			assert.ErrorIs(t, errs[1], ErrApplicationNotFound)
			require.NotNil(t, joined)
			assert.Len(t, notes, 1)
		} else {
			assert.ErrorIs(t, errs[0], ErrApplicationNotFound)
			assert.Nil(t, joined, "round %d: 撤回成功后不应入组", round)
			assert.Empty(t, notes)
		}
	}
}

// 拒绝与通过同一份申请：申请人只会收到一种结果的通知
func TestPostgres_RejectRacesAccept(t *testing.T) {
	env := newPGEnv(t)
	ctx := context.Background()

	for round := 0; round < raceRounds; round++ {
		owner := env.createUser(t, model.RoleUser)
		gid := env.createGroup(t, owner, fmt.Sprintf("reject-%d", round))
		b := env.createUser(t, model.RoleUser)
		app, err := env.svc.Application.Create(ctx, actorOf(b), applyReq(gid))
		require.NoError(t, err)

		errs := race(
			func() error { return env.svc.Application.Accept(ctx, actorOf(owner), app.ID) },
			func() error { return env.svc.Application.Reject(ctx, actorOf(owner), app.ID) },
		)

		ok := 0
		for _, err := range errs {
			if err == nil {
				ok++
				continue
			}
			assert.ErrorIs(t, err, ErrApplicationNotFound)
		}
		assert.Equal(t, 1, ok, "round %d", round)

		notes, _, err := env.repo.Notification.ListByUser(ctx, b.UserID, 0, 10)
		require.NoError(t, err)
		assert.Len(t, notes, 1, "round %d: 只应收到一条结果通知", round)
	}
}

// 同一用户并发重复申请同一小组：一个成功，另一个返回已申请
func TestPostgres_DuplicateCreateRace(t *testing.T) {
	env := newPGEnv(t)
	ctx := context.Background()

	for round := 0; round < raceRounds; round++ {
		owner := env.createUser(t, model.RoleUser)
		gid := env.createGroup(t, owner, fmt.Sprintf("dup-%d", round))
		b := env.createUser(t, model.RoleUser)

		create := func() error {
			_, err := env.svc.Application.Create(ctx, actorOf(b), applyReq(gid))
			return err
		}
		errs := race(create, create)

		ok := 0
		for _, err := range errs {
			if err == nil {
				ok++
				continue
			}
			assert.ErrorIs(t, err, ErrApplicationDuplicate)
		}
		assert.Equal(t, 1, ok, "round %d", round)
	}
}
