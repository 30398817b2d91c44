package common

import (
	"errors"
	"net/http"
	"strings"

	"trust_feed/internal/pkg/apperr"
	"trust_feed/pkg/logger"
	"trust_feed/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleError 把业务错误映射为 HTTP 状态码和业务码
func HandleError(c *gin.Context, err error) {
	status, code := statusOf(err)
	msg := err.Error()

	var e *apperr.Error
	if errors.As(err, &e) && e.Msg != "" && status != http.StatusInternalServerError {
		msg = e.Msg
	}
	if status >= 500 {
		logger.Log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("kind", apperr.KindOf(err).String()),
			zap.Error(err),
		)
		if status == http.StatusInternalServerError {
			msg = "internal error"
		}
	}
	_ = c.Error(err)

	response.ErrorRetryable(c, status, code, msg, apperr.Retryable(err))
}

func statusOf(err error) (int, int) {
	switch apperr.KindOf(err) {
	case apperr.KindAuthenticationRequired:
		return http.StatusUnauthorized, response.ErrAuthRequired
	case apperr.KindNotFound:
		return http.StatusNotFound, notFoundCode(err)
	case apperr.KindForbidden:
		return http.StatusForbidden, response.ErrNoPermission
	case apperr.KindDuplicateReport:
		return http.StatusConflict, response.ErrDuplicateReport
	case apperr.KindConflict:
		return http.StatusConflict, response.ErrConflict
	case apperr.KindSelfReport:
		return http.StatusBadRequest, response.ErrSelfReport
	case apperr.KindValidation:
		return http.StatusBadRequest, response.ErrInvalidParam
	case apperr.KindClassifier:
		if apperr.Retryable(err) {
			return http.StatusServiceUnavailable, response.ErrClassifierFailed
		}
		return http.StatusBadGateway, response.ErrClassifierFailed
	case apperr.KindPersistence:
		return http.StatusInternalServerError, response.ErrPersistence
	}
	return http.StatusInternalServerError, response.ErrServerInternal
}

func notFoundCode(err error) int {
	var e *apperr.Error
	if errors.As(err, &e) && strings.HasPrefix(e.Op, "profile") {
		return response.ErrProfileNotFound
	}
	return response.ErrPostNotFound
}
