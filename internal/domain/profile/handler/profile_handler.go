package handler

import (
	"trust_feed/internal/domain/profile/model"
	"trust_feed/internal/domain/profile/service"
	"trust_feed/internal/pkg/apperr"
	"trust_feed/internal/pkg/common"
	"trust_feed/internal/pkg/middleware"
	"trust_feed/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	service service.ProfileService
}

func NewProfileHandler(s service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: s}
}

// NicknameInput 昵称输入
type NicknameInput struct {
	Nickname string `json:"nickname" binding:"required"`
}

// RankingQuery 排行榜查询参数
type RankingQuery struct {
	Metric string `form:"metric"`
	Limit  int    `form:"limit"`
}

// CreateProfile 注册后创建资料
// @Summary 创建当前用户资料
// @Tags Profile
// @Accept json
// @Produce json
// @Param input body NicknameInput true "昵称"
// @Success 201 {object} model.View
// @Router /profiles [post]
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var input NicknameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		common.HandleError(c, apperr.Validation("profile.create", err.Error()))
		return
	}

	v, err := h.service.CreateProfile(c.Request.Context(), middleware.CurrentUserID(c), input.Nickname)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	response.Created(c, v)
}

// GetMe 当前用户资料，含信任分与等级
// @Summary 当前用户资料
// @Tags Profile
// @Produce json
// @Success 200 {object} model.View
// @Router /profiles/me [get]
func (h *ProfileHandler) GetMe(c *gin.Context) {
	v, err := h.service.GetProfile(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	response.Success(c, v)
}

// GetProfile 获取用户资料
// @Summary 获取用户资料
// @Tags Profile
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} model.View
// @Router /profiles/{id} [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	v, err := h.service.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	response.Success(c, v)
}

// UpdateNickname 修改昵称
// @Summary 修改昵称 (经过内容审核)
// @Tags Profile
// @Accept json
// @Produce json
// @Param input body NicknameInput true "昵称"
// @Success 200 {object} model.View
// @Router /profiles/me/nickname [put]
func (h *ProfileHandler) UpdateNickname(c *gin.Context) {
	var input NicknameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		common.HandleError(c, apperr.Validation("profile.updateNickname", err.Error()))
		return
	}

	v, err := h.service.UpdateNickname(c.Request.Context(), middleware.CurrentUserID(c), input.Nickname)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	response.Success(c, v)
}

// Ranking 排行榜
// @Summary 信任分/发帖/点赞排行榜
// @Tags Profile
// @Produce json
// @Param metric query string false "trust_score | num_posts | total_likes | avg_likes"
// @Param limit query int false "Limit"
// @Success 200 {array} model.RankingRow
// @Router /ranking [get]
func (h *ProfileHandler) Ranking(c *gin.Context) {
	var q RankingQuery
	_ = c.ShouldBindQuery(&q)

	rows, err := h.service.Ranking(c.Request.Context(), model.RankingMetric(q.Metric), q.Limit)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	response.Success(c, rows)
}
