// Package apperr 定义业务错误分类，handler 根据 Kind 映射 HTTP 状态码。
package apperr

import (
	"errors"
	"fmt"
)

// Kind 错误类别
type Kind int

const (
	KindUnknown Kind = iota
	KindAuthenticationRequired
	KindNotFound
	KindForbidden
	KindDuplicateReport
	KindSelfReport
	KindConflict
	KindClassifier
	KindPersistence
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindAuthenticationRequired:
		return "AuthenticationRequired"
	case KindNotFound:
		return "NotFound"
	case KindForbidden:
		return "Forbidden"
	case KindDuplicateReport:
		return "DuplicateReport"
	case KindSelfReport:
		return "SelfReport"
	case KindConflict:
		return "Conflict"
	case KindClassifier:
		return "ClassifierError"
	case KindPersistence:
		return "PersistenceError"
	case KindValidation:
		return "ValidationError"
	}
	return "Unknown"
}

// Error 业务错误
type Error struct {
	Kind Kind
	Op   string // 出错的操作，如 "report.submit"
	Msg  string
	Err  error
	// Retry 仅在分类服务超时/不可用时为 true
	Retry bool
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is 按 Kind 比较，使 errors.Is(err, apperr.ErrDuplicateReport) 成立
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Kind == e.Kind
}

// 哨兵错误，只用于 errors.Is 比较
var (
	ErrAuthenticationRequired = &Error{Kind: KindAuthenticationRequired}
	ErrNotFound               = &Error{Kind: KindNotFound}
	ErrForbidden              = &Error{Kind: KindForbidden}
	ErrDuplicateReport        = &Error{Kind: KindDuplicateReport}
	ErrSelfReport             = &Error{Kind: KindSelfReport}
	ErrConflict               = &Error{Kind: KindConflict}
	ErrClassifier             = &Error{Kind: KindClassifier}
	ErrPersistence            = &Error{Kind: KindPersistence}
	ErrValidation             = &Error{Kind: KindValidation}
)

func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func NotFound(op, msg string) *Error   { return New(KindNotFound, op, msg) }
func Validation(op, msg string) *Error { return New(KindValidation, op, msg) }
func Forbidden(op, msg string) *Error  { return New(KindForbidden, op, msg) }
func Conflict(op, msg string) *Error   { return New(KindConflict, op, msg) }

// Persistence 存储层写入/读取失败
func Persistence(op string, err error) *Error {
	return Wrap(KindPersistence, op, err)
}

// Classifier 分类服务失败；retryable 表示超时等瞬时错误
func Classifier(op string, err error, retryable bool) *Error {
	return &Error{Kind: KindClassifier, Op: op, Msg: "content classification failed", Err: err, Retry: retryable}
}

// KindOf 取出错误类别，非 *Error 一律视为 Unknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Retryable 客户端是否可以重试
func Retryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retry
	}
	return false
}
