package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Bigstool/group-management-system/internal/dto"
	"github.com/Bigstool/group-management-system/internal/model"
	"github.com/Bigstool/group-management-system/internal/repository"
	apperrors "github.com/Bigstool/group-management-system/pkg/errors"
)

// ── 小组模块业务错误 ──

var (
	ErrGroupNotFound         = apperrors.New(apperrors.ErrNotFound, "小组不存在")
	ErrGroupNameInvalid      = apperrors.New(apperrors.ErrInvalidInput, "小组名称不能为空")
	ErrNotGroupOwner         = apperrors.New(apperrors.ErrPermissionDenied, "仅组长或管理员可执行该操作")
	ErrNotGroupMember        = apperrors.New(apperrors.ErrNotFound, "该用户不是小组成员")
	ErrNewOwnerNotMember     = apperrors.New(apperrors.ErrPermissionDenied, "新组长必须是本组成员")
	ErrRemoveForbidden       = apperrors.New(apperrors.ErrPermissionDenied, "无权移除该成员")
	ErrGroupApproved         = apperrors.New(apperrors.ErrPermissionDenied, "提案已通过，不能再修改小组信息")
	ErrProposalRequired      = apperrors.New(apperrors.ErrInvalidInput, "提案为空，不能变更提案状态")
	ErrProposalTransition    = apperrors.New(apperrors.ErrPermissionDenied, "不允许的提案状态变更")
	ErrCommentForbidden      = apperrors.New(apperrors.ErrPermissionDenied, "仅组长、组员或管理员可评论")
	ErrAssignTooMany         = apperrors.New(apperrors.ErrInvalidInput, "分配人数超过小组人数上限")
	ErrAssignUserUnavailable = apperrors.New(apperrors.ErrInvalidInput, "被分配的用户必须是未组队的学生")
	ErrMergeUnimplemented    = apperrors.New(apperrors.ErrUnimplemented, "小组合并功能暂未实现")
)

// GroupService 小组业务接口
type GroupService interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateGroupRequest) (*dto.GroupDetailResponse, error)
	List(ctx context.Context, actor Actor) ([]dto.GroupListItem, error)
	Get(ctx context.Context, actor Actor, id string) (*dto.GroupDetailResponse, error)
	// Update 部分更新小组信息，proposal_state 字段驱动提案状态机
	Update(ctx context.Context, actor Actor, id string, req *dto.UpdateGroupRequest) (*dto.GroupDetailResponse, error)
	TransferOwner(ctx context.Context, actor Actor, id, newOwnerID string) error
	// RemoveMember 组长/管理员移除成员，或成员自行退出
	RemoveMember(ctx context.Context, actor Actor, id, userID string) error
	Delete(ctx context.Context, actor Actor, id string) error
	AddFavorite(ctx context.Context, actor Actor, id string) error
	RemoveFavorite(ctx context.Context, actor Actor, id string) error
	AddComment(ctx context.Context, actor Actor, id string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	// Assign 管理员直接创建小组并指定组长与成员
	Assign(ctx context.Context, actor Actor, req *dto.AssignGroupRequest) (*dto.GroupDetailResponse, error)
	Merge(ctx context.Context, actor Actor, req *dto.MergeGroupRequest) error
}

type groupService struct {
	repo     *repository.Repository
	semester SemesterService
	notifier *notifier
	logger   *zap.Logger
	clock    Clock
}

// NewGroupService 创建 GroupService 实例
func NewGroupService(
	repo *repository.Repository,
	semester SemesterService,
	n *notifier,
	logger *zap.Logger,
	clock Clock,
) GroupService {
	return &groupService{repo: repo, semester: semester, notifier: n, logger: logger, clock: clock}
}

// ────────────────────── Create ──────────────────────

func (s *groupService) Create(ctx context.Context, actor Actor, req *dto.CreateGroupRequest) (*dto.GroupDetailResponse, error) {
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
	name := normalizeGroupName(req.Name)
	if name == "" {
		return nil, ErrGroupNameInvalid
	}

	group := &model.Group{
		Name:               name,
		Title:              req.Title,
		Description:        req.Description,
		OwnerID:            actor.UserID,
		ProposalState:      model.ProposalPending,
		ApplicationEnabled: true,
	}
	if req.Proposal != nil {
		proposal := *req.Proposal
		group.Proposal = &proposal
		group.ProposalUpdateTime = &now
	}
	group.CreatedAt = now

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		user, err := txRepo.User.GetByIDForUpdate(ctx, actor.UserID)
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
		if affiliated(user, owned) {
			return ErrAlreadyGrouped
		}

		if err := txRepo.Group.Create(ctx, group); err != nil {
			return err
		}
		// 创建小组即放弃所有待处理的申请
		return txRepo.Application.DeleteByApplicants(ctx, []string{actor.UserID})
	})
	if err != nil {
		return nil, s.wrapErr("创建小组失败", err)
	}

	s.logger.Info("小组已创建", zap.String("group_id", group.GroupID), zap.String("owner_id", actor.UserID))
	return s.Get(ctx, actor, group.GroupID)
}

// ────────────────────── List ──────────────────────

func (s *groupService) List(ctx context.Context, actor Actor) ([]dto.GroupListItem, error) {
	groups, err := s.repo.Group.List(ctx)
	if err != nil {
		s.logger.Error("列出小组失败", zap.Error(err))
		return nil, err
	}

	groupIDs := make([]string, 0, len(groups))
	ownerIDs := make([]string, 0, len(groups))
	for _, g := range groups {
		groupIDs = append(groupIDs, g.GroupID)
		ownerIDs = append(ownerIDs, g.OwnerID)
	}

	owners, err := s.repo.User.ListByIDs(ctx, ownerIDs)
	if err != nil {
		s.logger.Error("查询组长失败", zap.Error(err))
		return nil, err
	}
	ownerMap := make(map[string]*model.User, len(owners))
	for i := range owners {
		ownerMap[owners[i].UserID] = &owners[i]
	}

	counts, err := s.repo.Group.CountMembers(ctx, groupIDs)
	if err != nil {
		s.logger.Error("统计小组成员失败", zap.Error(err))
		return nil, err
	}

	favIDs, err := s.repo.Favorite.ListGroupIDsByUser(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("查询收藏失败", zap.Error(err))
		return nil, err
	}
	favSet := make(map[string]bool, len(favIDs))
	for _, id := range favIDs {
		favSet[id] = true
	}

	result := make([]dto.GroupListItem, 0, len(groups))
	for i := range groups {
		g := &groups[i]
		item := toGroupListItem(g, ownerMap[g.OwnerID])
		item.MemberCount = counts[g.GroupID]
		item.Favorite = favSet[g.GroupID]
		result = append(result, item)
	}
	return result, nil
}

// ────────────────────── Get ──────────────────────

func (s *groupService) Get(ctx context.Context, actor Actor, id string) (*dto.GroupDetailResponse, error) {
	group, err := s.repo.Group.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("查询小组失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.buildDetail(ctx, actor, group)
}

func (s *groupService) buildDetail(ctx context.Context, actor Actor, group *model.Group) (*dto.GroupDetailResponse, error) {
	owner, err := s.repo.User.GetByID(ctx, group.OwnerID)
	if err != nil {
		s.logger.Error("查询组长失败", zap.String("group_id", group.GroupID), zap.Error(err))
		return nil, err
	}
	members, err := s.repo.User.ListByJoinedGroup(ctx, group.GroupID)
	if err != nil {
		s.logger.Error("查询小组成员失败", zap.String("group_id", group.GroupID), zap.Error(err))
		return nil, err
	}
	comments, err := s.repo.Comment.ListByGroup(ctx, group.GroupID)
	if err != nil {
		s.logger.Error("查询评论失败", zap.String("group_id", group.GroupID), zap.Error(err))
		return nil, err
	}
	favCount, err := s.repo.Favorite.Count(ctx, actor.UserID, group.GroupID)
	if err != nil {
		s.logger.Error("查询收藏失败", zap.String("group_id", group.GroupID), zap.Error(err))
		return nil, err
	}

	authorIDs := make([]string, 0, len(comments))
	for _, c := range comments {
		authorIDs = append(authorIDs, c.AuthorID)
	}
	authors, err := s.repo.User.ListByIDs(ctx, authorIDs)
	if err != nil {
		s.logger.Error("查询评论作者失败", zap.Error(err))
		return nil, err
	}
	authorMap := make(map[string]*model.User, len(authors))
	for i := range authors {
		authorMap[authors[i].UserID] = &authors[i]
	}

	resp := &dto.GroupDetailResponse{
		GroupListItem: toGroupListItem(group, owner),
		Proposal:      group.Proposal,
		ProposalLate:  group.ProposalLate,
		Members:       make([]dto.UserBrief, 0, len(members)),
		Comments:      make([]dto.CommentResponse, 0, len(comments)),
	}
	resp.MemberCount = int64(len(members))
	resp.Favorite = favCount > 0
	if group.ProposalUpdateTime != nil {
		ts := group.ProposalUpdateTime.Unix()
		resp.ProposalUpdateTime = &ts
	}
	for i := range members {
		resp.Members = append(resp.Members, toUserBrief(&members[i]))
	}
	for i := range comments {
		resp.Comments = append(resp.Comments, toCommentResponse(&comments[i], authorMap[comments[i].AuthorID]))
	}
	return resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *groupService) Update(ctx context.Context, actor Actor, id string, req *dto.UpdateGroupRequest) (*dto.GroupDetailResponse, error) {
	conf, err := s.semester.CurrentConfig(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock()

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		group, err := lockGroup(ctx, txRepo, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && actor.UserID != group.OwnerID {
			return ErrNotGroupOwner
		}

		editsProfile := req.Name != nil || req.Title != nil || req.Description != nil ||
			req.Proposal != nil || req.ApplicationEnabled != nil
		if editsProfile && group.ProposalState == model.ProposalApproved && !actor.IsAdmin() {
			return ErrGroupApproved
		}

		if req.Name != nil {
			name := normalizeGroupName(*req.Name)
			if name == "" {
				return ErrGroupNameInvalid
			}
			group.Name = name
		}
		if req.Title != nil {
			group.Title = *req.Title
		}
		if req.Description != nil {
			group.Description = *req.Description
		}
		if req.ApplicationEnabled != nil {
			group.ApplicationEnabled = *req.ApplicationEnabled
		}
		if req.Proposal != nil {
			proposal := *req.Proposal
			group.Proposal = &proposal
			group.ProposalUpdateTime = &now
		}

		if req.ProposalState != nil && *req.ProposalState != group.ProposalState {
			from, to := group.ProposalState, *req.ProposalState
			if group.Proposal == nil {
				return ErrProposalRequired
			}
			if !proposalTransitionAllowed(from, to, actor.IsAdmin()) {
				return ErrProposalTransition
			}
			if from == model.ProposalPending && to == model.ProposalSubmitted {
				late := proposalLate(conf, now)
				group.ProposalLate = &late
			}
			group.ProposalState = to
		}

		return txRepo.Group.Update(ctx, group)
	})
	if err != nil {
		return nil, s.wrapErr("更新小组失败", err)
	}

	return s.Get(ctx, actor, id)
}

// ────────────────────── TransferOwner ──────────────────────

func (s *groupService) TransferOwner(ctx context.Context, actor Actor, id, newOwnerID string) error {
	now := s.clock()
	var notes []model.Notification

	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		group, err := lockGroup(ctx, txRepo, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && actor.UserID != group.OwnerID {
			return ErrNotGroupOwner
		}
		if newOwnerID == group.OwnerID {
			return ErrNewOwnerNotMember
		}

		// 加锁顺序：小组行 → 用户行
		newOwner, err := txRepo.User.GetByIDForUpdate(ctx, newOwnerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNewOwnerNotMember
			}
			return err
		}
		if newOwner.JoinedGroupID == nil || *newOwner.JoinedGroupID != group.GroupID {
			return ErrNewOwnerNotMember
		}
		oldOwnerID := group.OwnerID
		if _, err := txRepo.User.GetByIDForUpdate(ctx, oldOwnerID); err != nil {
			return err
		}

		if err := txRepo.User.SetJoinedGroup(ctx, newOwnerID, nil); err != nil {
			return err
		}
		group.OwnerID = newOwnerID
		if err := txRepo.Group.Update(ctx, group); err != nil {
			return err
		}
		gid := group.GroupID
		if err := txRepo.User.SetJoinedGroup(ctx, oldOwnerID, &gid); err != nil {
			return err
		}

		members, err := txRepo.User.ListByJoinedGroup(ctx, gid)
		if err != nil {
			return err
		}
		recipients := append(userIDs(members), newOwnerID)
		notes = s.notifier.build(recipients, model.NotifyOwnerTransferred,
			"组长已变更",
			fmt.Sprintf("小组 %s 的组长已变更为 %s", group.Name, displayName(newOwner)),
			gid, now)
		return s.notifier.save(ctx, txRepo, notes)
	})
	if err != nil {
		return s.wrapErr("转让组长失败", err)
	}

	s.notifier.publish(ctx, notes)
	return nil
}

// ────────────────────── RemoveMember ──────────────────────

func (s *groupService) RemoveMember(ctx context.Context, actor Actor, id, userID string) error {
	now := s.clock()
	var notes []model.Notification

	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		group, err := lockGroup(ctx, txRepo, id)
		if err != nil {
			return err
		}
		selfLeave := actor.UserID == userID
		if !actor.IsAdmin() && actor.UserID != group.OwnerID && !selfLeave {
			return ErrRemoveForbidden
		}

		target, err := txRepo.User.GetByIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotGroupMember
			}
			return err
		}
		if target.JoinedGroupID == nil || *target.JoinedGroupID != group.GroupID {
			return ErrNotGroupMember
		}

		if err := txRepo.User.SetJoinedGroup(ctx, userID, nil); err != nil {
			return err
		}
		if err := txRepo.Group.Update(ctx, group); err != nil {
			return err
		}

		remaining, err := txRepo.User.ListByJoinedGroup(ctx, group.GroupID)
		if err != nil {
			return err
		}
		if selfLeave {
			notes = s.notifier.build(append(userIDs(remaining), group.OwnerID), model.NotifyMemberLeft,
				"成员已退出",
				fmt.Sprintf("%s 已退出小组 %s", displayName(target), group.Name),
				group.GroupID, now)
		} else {
			notes = s.notifier.build(append([]string{userID}, userIDs(remaining)...), model.NotifyMemberRemoved,
				"成员已被移出",
				fmt.Sprintf("%s 已被移出小组 %s", displayName(target), group.Name),
				group.GroupID, now)
		}
		return s.notifier.save(ctx, txRepo, notes)
	})
	if err != nil {
		return s.wrapErr("移除成员失败", err)
	}

	s.notifier.publish(ctx, notes)
	return nil
}

// ────────────────────── Delete ──────────────────────

func (s *groupService) Delete(ctx context.Context, actor Actor, id string) error {
	conf, err := s.semester.CurrentConfig(ctx)
	if err != nil {
		return err
	}
	now := s.clock()
	var notes []model.Notification

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		group, err := lockGroup(ctx, txRepo, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() {
			if actor.UserID != group.OwnerID {
				return ErrNotGroupOwner
			}
			if err := checkGroupingOpen(conf, now); err != nil {
				return err
			}
		}

		members, err := txRepo.User.ListByJoinedGroup(ctx, group.GroupID)
		if err != nil {
			return err
		}
		recipients := userIDs(members)
		if actor.UserID != group.OwnerID {
			recipients = append(recipients, group.OwnerID)
		}
		notes = s.notifier.build(recipients, model.NotifyGroupDismissed,
			"小组已解散",
			fmt.Sprintf("小组 %s 已解散", group.Name),
			group.GroupID, now)
		if err := s.notifier.save(ctx, txRepo, notes); err != nil {
			return err
		}

		ids := []string{group.GroupID}
		if err := txRepo.User.ClearJoinedGroup(ctx, ids); err != nil {
			return err
		}
		if err := txRepo.Application.DeleteByGroups(ctx, ids); err != nil {
			return err
		}
		if err := txRepo.Comment.DeleteByGroups(ctx, ids); err != nil {
			return err
		}
		if err := txRepo.Favorite.DeleteByGroups(ctx, ids); err != nil {
			return err
		}
		return txRepo.Group.DeleteByIDs(ctx, ids)
	})
	if err != nil {
		return s.wrapErr("解散小组失败", err)
	}

	s.logger.Info("小组已解散", zap.String("group_id", id), zap.String("operator", actor.UserID))
	s.notifier.publish(ctx, notes)
	return nil
}

// ────────────────────── Favorite ──────────────────────

func (s *groupService) AddFavorite(ctx context.Context, actor Actor, id string) error {
	if _, err := s.repo.Group.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		s.logger.Error("查询小组失败", zap.String("id", id), zap.Error(err))
		return err
	}

	fav := &model.GroupFavorite{UserID: actor.UserID, GroupID: id}
	fav.CreatedAt = s.clock()
	if err := s.repo.Favorite.Add(ctx, fav); err != nil {
		s.logger.Error("收藏小组失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *groupService) RemoveFavorite(ctx context.Context, actor Actor, id string) error {
	if err := s.repo.Favorite.Remove(ctx, actor.UserID, id); err != nil {
		s.logger.Error("取消收藏失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Comment ──────────────────────

func (s *groupService) AddComment(ctx context.Context, actor Actor, id string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	group, err := s.repo.Group.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("查询小组失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	author, err := s.repo.User.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	isMember := author.JoinedGroupID != nil && *author.JoinedGroupID == group.GroupID
	if !actor.IsAdmin() && actor.UserID != group.OwnerID && !isMember {
		return nil, ErrCommentForbidden
	}

	comment := &model.GroupComment{
		AuthorID: actor.UserID,
		GroupID:  group.GroupID,
		Content:  req.Content,
	}
	comment.CreatedAt = s.clock()
	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		s.logger.Error("发表评论失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toCommentResponse(comment, author)
	return &resp, nil
}

// ────────────────────── Assign ──────────────────────

func (s *groupService) Assign(ctx context.Context, actor Actor, req *dto.AssignGroupRequest) (*dto.GroupDetailResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotGroupOwner
	}
	conf, err := s.semester.CurrentConfig(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock()

	name := normalizeGroupName(req.Name)
	if name == "" {
		return nil, ErrGroupNameInvalid
	}
	memberIDs := make([]string, 0, len(req.MemberIDs))
	seen := map[string]bool{req.OwnerID: true}
	for _, mid := range req.MemberIDs {
		if !seen[mid] {
			seen[mid] = true
			memberIDs = append(memberIDs, mid)
		}
	}
	if len(memberIDs)+1 > conf.MaxMembers() {
		return nil, ErrAssignTooMany
	}

	group := &model.Group{
		Name:               name,
		Title:              req.Title,
		Description:        req.Description,
		OwnerID:            req.OwnerID,
		ProposalState:      model.ProposalPending,
		ApplicationEnabled: true,
	}
	group.CreatedAt = now
	var notes []model.Notification

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		// 按 id 排序加锁，避免并发分配时死锁
		all := append([]string{req.OwnerID}, memberIDs...)
		sorted := append([]string(nil), all...)
		sort.Strings(sorted)
		for _, uid := range sorted {
			user, err := txRepo.User.GetByIDForUpdate(ctx, uid)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUserNotFound
				}
				return err
			}
			owned, err := ownedGroup(ctx, txRepo, uid)
			if err != nil {
				return err
			}
			if user.Role != model.RoleUser || affiliated(user, owned) {
				return ErrAssignUserUnavailable
			}
		}

		if err := txRepo.Group.Create(ctx, group); err != nil {
			return err
		}
		gid := group.GroupID
		for _, uid := range memberIDs {
			if err := txRepo.User.SetJoinedGroup(ctx, uid, &gid); err != nil {
				return err
			}
		}
		if err := txRepo.Application.DeleteByApplicants(ctx, all); err != nil {
			return err
		}

		notes = s.notifier.build(all, model.NotifyGroupAssigned,
			"已被分配到小组",
			fmt.Sprintf("你已被管理员分配到小组 %s", group.Name),
			gid, now)
		return s.notifier.save(ctx, txRepo, notes)
	})
	if err != nil {
		return nil, s.wrapErr("分配小组失败", err)
	}

	s.notifier.publish(ctx, notes)
	return s.Get(ctx, actor, group.GroupID)
}

// ────────────────────── Merge ──────────────────────

func (s *groupService) Merge(_ context.Context, _ Actor, _ *dto.MergeGroupRequest) error {
	return ErrMergeUnimplemented
}

// ── 辅助函数 ──

func (s *groupService) wrapErr(msg string, err error) error {
	if apperrors.KindOf(err) != nil {
		return err
	}
	s.logger.Error(msg, zap.Error(err))
	return err
}

// lockGroup 事务内锁定小组行
func lockGroup(ctx context.Context, txRepo *repository.Repository, id string) (*model.Group, error) {
	group, err := txRepo.Group.GetByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return group, nil
}

// ownedGroup 查询用户创建的小组，没有时返回 nil
func ownedGroup(ctx context.Context, r *repository.Repository, userID string) (*model.Group, error) {
	group, err := r.Group.GetByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return group, nil
}

func userIDs(users []model.User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.UserID)
	}
	return ids
}

func displayName(u *model.User) string {
	if u.Alias != "" {
		return u.Alias
	}
	return u.Email
}

func toGroupListItem(g *model.Group, owner *model.User) dto.GroupListItem {
	item := dto.GroupListItem{
		ID:                 g.GroupID,
		Name:               g.Name,
		Title:              g.Title,
		Description:        g.Description,
		CreatedAt:          g.CreatedAt.Unix(),
		ApplicationEnabled: g.ApplicationEnabled,
		ProposalState:      g.ProposalState,
	}
	if owner != nil {
		item.Owner = toUserBrief(owner)
	}
	return item
}

func toCommentResponse(c *model.GroupComment, author *model.User) dto.CommentResponse {
	resp := dto.CommentResponse{
		ID:        c.CommentID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.Unix(),
	}
	if author != nil {
		resp.Author = toUserBrief(author)
	}
	return resp
}
