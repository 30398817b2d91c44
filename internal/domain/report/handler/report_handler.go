package handler

import (
	"trust_feed/internal/domain/report/service"
	"trust_feed/internal/pkg/apperr"
	"trust_feed/internal/pkg/common"
	"trust_feed/internal/pkg/middleware"
	"trust_feed/pkg/response"
	"trust_feed/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// ReportInput 举报输入
type ReportInput struct {
	Reason string `json:"reason" binding:"required"`
}

// SubmitReport 举报动态
// @Summary 举报动态 (自动判定并调整双方信任分)
// @Tags Report
// @Accept json
// @Produce json
// @Param id path string true "动态ID"
// @Param input body ReportInput true "举报理由"
// @Success 201 {object} model.Outcome
// @Failure 409 {object} response.Response "已经举报过"
// @Router /posts/{id}/reports [post]
func (h *ReportHandler) SubmitReport(c *gin.Context) {
	var input ReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		common.HandleError(c, apperr.Validation("report.submit", err.Error()))
		return
	}

	out, err := h.service.SubmitReport(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), input.Reason)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	response.Created(c, out)
}

// ListReports 动态收到的举报
// @Summary 举报记录 (仅作者)
// @Tags Report
// @Produce json
// @Param id path string true "动态ID"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} utils.PageResult
// @Router /posts/{id}/reports [get]
func (h *ReportHandler) ListReports(c *gin.Context) {
	var p utils.Pagination
	_ = c.ShouldBindQuery(&p)
	p.Normalize()

	list, total, err := h.service.ListReports(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), p)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	response.Success(c, utils.PageResult{List: list, Total: total, Page: p.Page, Limit: p.Limit})
}
