package xerr

import (
	"errors"
	"fmt"
)

// Kind 错误类别，调用方按类别区分业务失败
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationFailed"
	case KindUnauthorized:
		return "Unauthorized"
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	default:
		return "Internal"
	}
}

// CodeError 自定义错误结构
type CodeError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Kind    Kind   `json:"-"`
}

// Error 实现 error 接口
func (e *CodeError) Error() string {
	return fmt.Sprintf("Code: %d, Message: %s", e.Code, e.Message)
}

// Is 同 Code 视为同一错误，便于 errors.Is 匹配预定义错误
func (e *CodeError) Is(target error) bool {
	t, ok := target.(*CodeError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New 创建新的 CodeError，Kind 由 code 推断
func New(code int, msg string) *CodeError {
	return &CodeError{Code: code, Message: msg, Kind: kindOfCode(code)}
}

// NewKind 创建指定类别的业务错误
func NewKind(kind Kind, code int, msg string) *CodeError {
	return &CodeError{Code: code, Message: msg, Kind: kind}
}

// Validation 参数校验失败，消息原样返回给调用方
func Validation(msg string) *CodeError {
	return NewKind(KindValidation, BadRequest, msg)
}

// KindOf 返回 err 的类别，非 CodeError 一律视为内部错误
func KindOf(err error) Kind {
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}

func kindOfCode(code int) Kind {
	switch code {
	case BadRequest:
		return KindValidation
	case Unauthorized, Forbidden:
		return KindUnauthorized
	case NotFound:
		return KindNotFound
	case Conflict:
		return KindConflict
	default:
		return KindInternal
	}
}

// 常用通用错误码
const (
	OK                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

// 常用预定义错误
var (
	ErrSuccess     = New(OK, "Success")
	ErrServerError = New(InternalServerError, "系统错误，请联系工作人员")
	ErrParam       = New(BadRequest, "参数错误")
)

// 用户
var (
	ErrUserNotExists = NewKind(KindNotFound, 10001, "用户不存在")
)

// 群组
var (
	ErrGroupNotExists   = NewKind(KindNotFound, 50001, "群组不存在")
	ErrGroupDismissed   = NewKind(KindNotFound, 50002, "群组已解散")
	ErrGroupOwnerOnly   = NewKind(KindUnauthorized, 50003, "非管理员禁止操作")
	ErrNotGroupMember   = NewKind(KindUnauthorized, 50004, "非群组成员")
	ErrOwnerCannotQuit  = NewKind(KindConflict, 50005, "群主不能退群，请先解散群组")
	ErrOwnerCannotLeave = NewKind(KindConflict, 50006, "不能移除群主")
	ErrNoticeNotExists  = NewKind(KindNotFound, 50007, "群公告不存在")
)
