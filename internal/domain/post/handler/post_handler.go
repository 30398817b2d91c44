package handler

import (
	"trust_feed/internal/domain/post/service"
	"trust_feed/internal/pkg/apperr"
	"trust_feed/internal/pkg/common"
	"trust_feed/internal/pkg/middleware"
	"trust_feed/pkg/response"
	"trust_feed/pkg/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	service service.PostService
}

func NewPostHandler(s service.PostService) *PostHandler {
	return &PostHandler{service: s}
}

// SubmitInput 发帖/回复输入，content 原样保存，不做转义
type SubmitInput struct {
	Content  string  `json:"content" binding:"required"`
	ParentID *string `json:"parentId"`
}

// EditInput 编辑输入
type EditInput struct {
	Content string `json:"content" binding:"required"`
}

// SubmitPost 发布动态
// @Summary 发布动态 (经过负面内容分类与改写)
// @Tags Post
// @Accept json
// @Produce json
// @Param input body SubmitInput true "动态内容"
// @Success 201 {object} model.SubmitResult
// @Router /posts [post]
func (h *PostHandler) SubmitPost(c *gin.Context) {
	var input SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		common.HandleError(c, apperr.Validation("post.submit", err.Error()))
		return
	}

	res, err := h.service.SubmitPost(c.Request.Context(), middleware.CurrentUserID(c), input.Content, input.ParentID)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	response.Created(c, res)
}

// EditPost 编辑动态
// @Summary 编辑动态 (仅作者)
// @Tags Post
// @Accept json
// @Produce json
// @Param id path string true "动态ID"
// @Param input body EditInput true "新内容"
// @Success 200 {object} model.SubmitResult
// @Router /posts/{id} [put]
func (h *PostHandler) EditPost(c *gin.Context) {
	var input EditInput
	if err := c.ShouldBindJSON(&input); err != nil {
		common.HandleError(c, apperr.Validation("post.edit", err.Error()))
		return
	}

	res, err := h.service.EditPost(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), input.Content)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	response.Success(c, res)
}

// DeletePost 删除动态
// @Summary 删除动态 (仅作者)
// @Tags Post
// @Param id path string true "动态ID"
// @Success 200 {string} string "success"
// @Router /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.service.DeletePost(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	response.Success(c, nil)
}

// LikePost 点赞
// @Summary 点赞
// @Tags Post
// @Param id path string true "动态ID"
// @Success 200 {object} model.LikeResult
// @Router /posts/{id}/like [post]
func (h *PostHandler) LikePost(c *gin.Context) {
	res, err := h.service.LikePost(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	response.Success(c, res)
}

// UnlikePost 取消点赞
// @Summary 取消点赞
// @Tags Post
// @Param id path string true "动态ID"
// @Success 200 {object} model.LikeResult
// @Router /posts/{id}/like [delete]
func (h *PostHandler) UnlikePost(c *gin.Context) {
	res, err := h.service.UnlikePost(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	response.Success(c, res)
}

// GetPost 获取单条动态，等级不足时返回 404
// @Summary 获取动态
// @Tags Post
// @Produce json
// @Param id path string true "动态ID"
// @Success 200 {object} model.PostView
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	v, err := h.service.GetVisiblePost(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	response.Success(c, v)
}

// Feed 信息流
// @Summary 信息流 (按观看者等级过滤)
// @Tags Post
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} utils.PageResult
// @Router /posts [get]
func (h *PostHandler) Feed(c *gin.Context) {
	var p utils.Pagination
	_ = c.ShouldBindQuery(&p)
	p.Normalize()

	list, total, err := h.service.Feed(c.Request.Context(), middleware.CurrentUserID(c), p)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	response.Success(c, utils.PageResult{List: list, Total: total, Page: p.Page, Limit: p.Limit})
}

// Replies 回复列表
// @Summary 回复列表
// @Tags Post
// @Produce json
// @Param id path string true "动态ID"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} utils.PageResult
// @Router /posts/{id}/replies [get]
func (h *PostHandler) Replies(c *gin.Context) {
	var p utils.Pagination
	_ = c.ShouldBindQuery(&p)
	p.Normalize()

	list, total, err := h.service.Replies(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), p)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	response.Success(c, utils.PageResult{List: list, Total: total, Page: p.Page, Limit: p.Limit})
}
