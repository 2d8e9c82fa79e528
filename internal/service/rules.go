package service

import (
	"strings"
	"time"

	"github.com/Bigstool/group-management-system/internal/model"
	apperrors "github.com/Bigstool/group-management-system/pkg/errors"
)

// ── 通用业务规则错误 ──

var (
	ErrUserRoleRequired = apperrors.New(apperrors.ErrPermissionDenied, "仅学生账号可执行该操作")
	ErrGroupingClosed   = apperrors.New(apperrors.ErrPermissionDenied, "组队已截止")
	ErrAlreadyGrouped   = apperrors.New(apperrors.ErrPermissionDenied, "你已创建或加入小组")
	ErrGroupFull        = apperrors.New(apperrors.ErrPermissionDenied, "小组人数已满")
)

// 以下函数只依赖入参，当前学期配置与 now 由调用方在操作开始时读取一次后传入

// groupingOpen now < grouping_ddl
func groupingOpen(cfg model.SemesterConfig, now time.Time) bool {
	return now.Unix() < cfg.SystemState.GroupingDDL
}

// checkGroupingOpen 截止后返回 ErrGroupingClosed
func checkGroupingOpen(cfg model.SemesterConfig, now time.Time) error {
	if !groupingOpen(cfg, now) {
		return ErrGroupingClosed
	}
	return nil
}

// hasRoomForMember 现有成员数（不含组长）再加一人后是否仍不超过上限
// 上限含组长：members + 1(组长) < max
func hasRoomForMember(cfg model.SemesterConfig, members int64) bool {
	return members+1 < int64(cfg.MaxMembers())
}

// proposalLate 提交时刻相对 proposal_ddl 的秒数，提前提交为负
func proposalLate(cfg model.SemesterConfig, now time.Time) int64 {
	return now.Unix() - cfg.SystemState.ProposalDDL
}

// proposalTransitionAllowed 提案状态机
//
//	PENDING → SUBMITTED
//	SUBMITTED → APPROVED | REJECT（仅管理员）
//	REJECT → SUBMITTED
//	APPROVED 为终态
func proposalTransitionAllowed(from, to string, isAdmin bool) bool {
	switch {
	case from == model.ProposalPending && to == model.ProposalSubmitted:
		return true
	case from == model.ProposalRejected && to == model.ProposalSubmitted:
		return true
	case from == model.ProposalSubmitted && (to == model.ProposalApproved || to == model.ProposalRejected):
		return isAdmin
	}
	return false
}

// normalizeGroupName 小组名去除首尾空白并转小写
func normalizeGroupName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// affiliated 用户是否已拥有或加入小组
func affiliated(user *model.User, owned *model.Group) bool {
	return user.JoinedGroupID != nil || owned != nil
}
