package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Bigstool/group-management-system/internal/model"
	"github.com/Bigstool/group-management-system/internal/repository"
	"github.com/Bigstool/group-management-system/internal/repository/testhelper"
	pkgerrors "github.com/Bigstool/group-management-system/pkg/errors"
)

func newTestRepo(t *testing.T) *repository.Repository {
	t.Helper()
	return repository.NewRepository(testhelper.NewSQLiteDB(t))
}

func createUser(t *testing.T, repo *repository.Repository, email string) *model.User {
	t.Helper()
	u := &model.User{Email: email, Alias: email, PasswordHash: "x", Role: model.RoleUser}
	if err := repo.User.Create(context.Background(), u); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return u
}

func createGroup(t *testing.T, repo *repository.Repository, ownerID string) *model.Group {
	t.Helper()
	g := &model.Group{
		Name:               "g",
		Title:              "t",
		OwnerID:            ownerID,
		ProposalState:      model.ProposalPending,
		ApplicationEnabled: true,
	}
	if err := repo.Group.Create(context.Background(), g); err != nil {
		t.Fatalf("创建小组失败: %v", err)
	}
	return g
}

func TestGroupRepo_Update_OptimisticLock(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := createUser(t, repo, "owner@test.com")
	g := createGroup(t, repo, owner.UserID)

	if g.Version != 1 {
		t.Fatalf("新建小组版本号应为 1，实际: %d", g.Version)
	}

	stale := *g
	g.Title = "新标题"
	if err := repo.Group.Update(ctx, g); err != nil {
		t.Fatalf("第一次更新应成功: %v", err)
	}
	if g.Version != 2 {
		t.Errorf("更新后版本号应为 2，实际: %d", g.Version)
	}

	stale.Title = "过期写入"
	if err := repo.Group.Update(ctx, &stale); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，实际: %v", err)
	}

	got, _ := repo.Group.GetByID(ctx, g.GroupID)
	if got.Title != "新标题" {
		t.Errorf("过期写入不应生效，实际标题: %s", got.Title)
	}
}

func TestFavoriteRepo_Idempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := createUser(t, repo, "u@test.com")
	g := createGroup(t, repo, u.UserID)

	for i := 0; i < 2; i++ {
		if err := repo.Favorite.Add(ctx, &model.GroupFavorite{UserID: u.UserID, GroupID: g.GroupID}); err != nil {
			t.Fatalf("第 %d 次收藏应成功: %v", i+1, err)
		}
	}
	n, _ := repo.Favorite.Count(ctx, u.UserID, g.GroupID)
	if n != 1 {
		t.Errorf("重复收藏后应只有 1 条记录，实际: %d", n)
	}

	for i := 0; i < 2; i++ {
		if err := repo.Favorite.Remove(ctx, u.UserID, g.GroupID); err != nil {
			t.Fatalf("第 %d 次取消收藏应成功: %v", i+1, err)
		}
	}
	n, _ = repo.Favorite.Count(ctx, u.UserID, g.GroupID)
	if n != 0 {
		t.Errorf("取消收藏后应无记录，实际: %d", n)
	}
}

func TestUserRepo_MembershipQueries(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := createUser(t, repo, "owner@test.com")
	m1 := createUser(t, repo, "m1@test.com")
	m2 := createUser(t, repo, "m2@test.com")
	loner := createUser(t, repo, "loner@test.com")
	g := createGroup(t, repo, owner.UserID)

	for _, u := range []*model.User{m1, m2} {
		if err := repo.User.SetJoinedGroup(ctx, u.UserID, &g.GroupID); err != nil {
			t.Fatalf("设置成员失败: %v", err)
		}
	}

	counts, err := repo.Group.CountMembers(ctx, []string{g.GroupID})
	if err != nil {
		t.Fatalf("CountMembers 失败: %v", err)
	}
	if counts[g.GroupID] != 2 {
		t.Errorf("期望成员数 2，实际: %d", counts[g.GroupID])
	}

	ungrouped, total, err := repo.User.List(ctx, repository.UserListFilter{Ungrouped: true})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 1 || len(ungrouped) != 1 || ungrouped[0].UserID != loner.UserID {
		t.Errorf("未分组用户应仅有 loner，实际: %+v", ungrouped)
	}

	if err := repo.User.ClearJoinedGroup(ctx, []string{g.GroupID}); err != nil {
		t.Fatalf("ClearJoinedGroup 失败: %v", err)
	}
	n, _ := repo.User.CountByJoinedGroup(ctx, g.GroupID)
	if n != 0 {
		t.Errorf("清除后成员数应为 0，实际: %d", n)
	}
}

func TestRepository_Transaction_Rollback(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := createUser(t, repo, "owner@test.com")

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		g := &model.Group{Name: "g", OwnerID: owner.UserID, ProposalState: model.ProposalPending}
		if err := txRepo.Group.Create(ctx, g); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("期望事务返回 boom，实际: %v", err)
	}

	if _, err := repo.Group.GetByOwner(ctx, owner.UserID); err == nil {
		t.Error("事务回滚后小组不应存在")
	}
}

func TestRepository_BeginTx_Commit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := createUser(t, repo, "owner@test.com")

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx 失败: %v", err)
	}
	txRepo := repo.WithTx(tx)
	g := createGroup(t, txRepo, owner.UserID)
	if err := txRepo.Comment.Create(ctx, &model.GroupComment{AuthorID: owner.UserID, GroupID: g.GroupID, Content: "hi"}); err != nil {
		tx.Rollback()
		t.Fatalf("事务内创建失败: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("提交失败: %v", err)
	}

	comments, _ := repo.Comment.ListByGroup(ctx, g.GroupID)
	if len(comments) != 1 {
		t.Errorf("提交后应有 1 条评论，实际: %d", len(comments))
	}
}

func TestNotificationRepo_ListByUser_Paged(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := createUser(t, repo, "u@test.com")

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var batch []model.Notification
	for i := 0; i < 3; i++ {
		batch = append(batch, model.Notification{
			UserID:    u.UserID,
			Type:      model.NotifyMemberLeft,
			Title:     "t",
			Content:   "c",
			BaseModel: model.BaseModel{CreatedAt: base.Add(time.Duration(i) * time.Hour)},
		})
	}
	if err := repo.Notification.CreateBatch(ctx, batch); err != nil {
		t.Fatalf("CreateBatch 失败: %v", err)
	}

	list, total, err := repo.Notification.ListByUser(ctx, u.UserID, 0, 2)
	if err != nil {
		t.Fatalf("ListByUser 失败: %v", err)
	}
	if total != 3 || len(list) != 2 {
		t.Fatalf("期望 total=3 len=2，实际 total=%d len=%d", total, len(list))
	}
	if !list[0].CreatedAt.After(list[1].CreatedAt) {
		t.Error("通知应按创建时间倒序")
	}
}

func TestSemesterRepo_CurrentConfig(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cfg := model.SemesterConfig{
		SystemState:       model.SystemState{GroupingDDL: 100, ProposalDDL: 200},
		GroupMemberNumber: [2]int{2, 5},
	}
	s := &model.Semester{Name: model.CurrentSemesterName, StartTime: time.Now().UTC()}
	s.Config = datatypes.NewJSONType(cfg)
	if err := repo.Semester.Create(ctx, s); err != nil {
		t.Fatalf("创建学期失败: %v", err)
	}

	cur, err := repo.Semester.GetCurrent(ctx)
	if err != nil {
		t.Fatalf("GetCurrent 失败: %v", err)
	}
	if got := cur.Config.Data(); got != cfg {
		t.Errorf("配置读回不一致: %+v", got)
	}
}

func TestApplicationRepo_Create_DuplicateTranslated(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := createUser(t, repo, "owner@test.com")
	applicant := createUser(t, repo, "applicant@test.com")
	g := createGroup(t, repo, owner.UserID)

	if err := repo.Application.Create(ctx, &model.GroupApplication{ApplicantID: applicant.UserID, GroupID: g.GroupID}); err != nil {
		t.Fatalf("首次申请应成功: %v", err)
	}
	err := repo.Application.Create(ctx, &model.GroupApplication{ApplicantID: applicant.UserID, GroupID: g.GroupID})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("重复申请应返回 gorm.ErrDuplicatedKey，实际: %v", err)
	}
}

func TestUserRepo_ListIDsCreatedBetween_HalfOpen(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	from := time.Unix(1_700_000_000, 0).UTC()
	to := from.Add(time.Hour)

	ids := make(map[string]string)
	for name, at := range map[string]time.Time{
		"before": from.Add(-time.Second),
		"start":  from,
		"inside": from.Add(time.Minute),
		"end":    to,
	} {
		u := &model.User{Email: name + "@test.com", PasswordHash: "x", Role: model.RoleUser}
		u.CreatedAt = at
		if err := repo.User.Create(ctx, u); err != nil {
			t.Fatalf("创建用户失败: %v", err)
		}
		ids[u.UserID] = name
	}

	got, err := repo.User.ListIDsCreatedBetween(ctx, model.RoleUser, from, to)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	names := make(map[string]bool)
	for _, id := range got {
		names[ids[id]] = true
	}
	if len(got) != 2 || !names["start"] || !names["inside"] {
		t.Errorf("期望只包含 start 与 inside，实际: %v", names)
	}
}
