package handler

import (
	"trust_feed/internal/domain/notification/service"
	"trust_feed/internal/pkg/common"
	"trust_feed/internal/pkg/middleware"
	"trust_feed/pkg/response"
	"trust_feed/pkg/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service service.NotificationService
}

func NewNotificationHandler(s service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: s}
}

// ListQuery 通知列表查询参数
type ListQuery struct {
	utils.Pagination
	UnreadOnly bool `form:"unread"`
}

// List 获取当前用户的通知
// @Summary 通知列表
// @Tags Notification
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Param unread query bool false "只看未读"
// @Success 200 {object} utils.PageResult
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	var q ListQuery
	_ = c.ShouldBindQuery(&q)
	q.Normalize()

	list, total, err := h.service.List(c.Request.Context(), middleware.CurrentUserID(c), q.UnreadOnly, q.Pagination)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	response.Success(c, utils.PageResult{
		List:  list,
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
	})
}

// MarkRead 标记通知为已读
// @Summary 标记已读
// @Tags Notification
// @Param id path string true "通知ID"
// @Success 200 {string} string "success"
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.service.MarkRead(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	response.Success(c, "success")
}
