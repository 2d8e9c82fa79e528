package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Bigstool/group-management-system/internal/service"
	apperrors "github.com/Bigstool/group-management-system/pkg/errors"
	"github.com/Bigstool/group-management-system/pkg/response"
)

// businessCodes 业务错误 → 业务码
// 11xxx 认证 | 12xxx 用户 | 13xxx 小组 | 14xxx 申请 | 15xxx 小组管理 | 16xxx 导出 | 17xxx 学期 | 18xxx 通知
var businessCodes = []struct {
	err  error
	code int
}{
	{service.ErrInvalidCredentials, 11001},
	{service.ErrInvalidRefresh, 11002},

	{service.ErrUserNotFound, 12001},
	{service.ErrEmailTaken, 12002},
	{service.ErrCannotEditOthers, 12003},
	{service.ErrUserRoleRequired, 12004},

	{service.ErrGroupNotFound, 13001},
	{service.ErrGroupNameInvalid, 13002},
	{service.ErrNotGroupOwner, 13003},
	{service.ErrNotGroupMember, 13004},
	{service.ErrNewOwnerNotMember, 13005},
	{service.ErrRemoveForbidden, 13006},
	{service.ErrGroupApproved, 13007},
	{service.ErrProposalRequired, 13008},
	{service.ErrProposalTransition, 13009},
	{service.ErrCommentForbidden, 13010},
	{service.ErrGroupingClosed, 13011},
	{service.ErrAlreadyGrouped, 13012},
	{service.ErrGroupFull, 13013},

	{service.ErrApplicationNotFound, 14001},
	{service.ErrApplicationDuplicate, 14002},
	{service.ErrApplicationDisabled, 14003},
	{service.ErrNotApplicant, 14004},
	{service.ErrApplicationListDenied, 14005},

	{service.ErrAssignTooMany, 15001},
	{service.ErrAssignUserUnavailable, 15002},
	{service.ErrMergeUnimplemented, 15099},

	{service.ErrSemesterNotFound, 17001},
	{service.ErrSemesterNameTaken, 17002},
	{service.ErrSemesterNameReserved, 17003},
	{service.ErrCurrentSemesterImmutable, 17004},
	{service.ErrSysConfigInvalid, 17005},

	{service.ErrNotificationForbidden, 18001},
}

// handleError 将 Service 错误翻译为统一响应
// 已登记的业务错误使用其业务码，其余按错误类别决定状态码；未归类错误一律 500
func handleError(c *gin.Context, err error) {
	code := 0
	for _, bc := range businessCodes {
		if errors.Is(err, bc.err) {
			code = bc.code
			break
		}
	}

	switch kind := apperrors.KindOf(err); {
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidRefresh):
		response.Unauthorized(c, code, err.Error())
	case kind == apperrors.ErrInvalidInput:
		response.BadRequest(c, codeOr(code, 10001), err.Error())
	case kind == apperrors.ErrPermissionDenied:
		response.Forbidden(c, codeOr(code, 10003), err.Error())
	case kind == apperrors.ErrNotFound:
		response.NotFound(c, codeOr(code, 10404), err.Error())
	case kind == apperrors.ErrDuplicate:
		response.Conflict(c, codeOr(code, 10409), err.Error())
	case kind == apperrors.ErrOptimisticLock:
		response.Conflict(c, 10006, err.Error())
	case kind == apperrors.ErrUnimplemented:
		response.NotImplemented(c, codeOr(code, 10501), err.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

func codeOr(code, fallback int) int {
	if code == 0 {
		return fallback
	}
	return code
}
