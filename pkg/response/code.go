package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 用户/档案模块错误 100xx
	ErrAuthRequired    = 10001
	ErrProfileNotFound = 10002
	ErrTokenInvalid    = 10004
	ErrNoPermission    = 10005

	// 内容模块错误 200xx
	ErrPostNotFound     = 20001
	ErrContentRejected  = 20002
	ErrConflict         = 20003
	ErrDuplicateReport  = 20004
	ErrSelfReport       = 20005
	ErrClassifierFailed = 20006

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
	ErrPersistence     = 50004
)
