package errors

import "errors"

// ── 错误类别 ──
// 业务错误均归属以下类别之一，Handler 层据此决定 HTTP 状态码

var (
	ErrInvalidInput     = errors.New("参数不合法")
	ErrPermissionDenied = errors.New("无权执行该操作")
	ErrNotFound         = errors.New("资源不存在")
	ErrDuplicate        = errors.New("资源已存在")
	ErrUnimplemented    = errors.New("功能暂未实现")
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// kindError 携带类别的业务错误，Error() 返回面向用户的消息
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// New 创建归属于 kind 类别的业务错误，errors.Is(err, kind) 为 true
func New(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// KindOf 返回 err 所属的错误类别；未归类时返回 nil
func KindOf(err error) error {
	for _, kind := range []error{
		ErrInvalidInput,
		ErrPermissionDenied,
		ErrNotFound,
		ErrDuplicate,
		ErrUnimplemented,
		ErrOptimisticLock,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
