package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trust_feed/internal/domain/post/model"
	"trust_feed/internal/pkg/apperr"
	"trust_feed/internal/pkg/config"
	"trust_feed/internal/pkg/middleware"
	"trust_feed/pkg/response"
	"trust_feed/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPostService struct {
	mock.Mock
}

func (m *mockPostService) SubmitPost(ctx context.Context, authorID, content string, parentID *string) (model.SubmitResult, error) {
	args := m.Called(authorID, content, parentID)
	return args.Get(0).(model.SubmitResult), args.Error(1)
}

func (m *mockPostService) EditPost(ctx context.Context, userID, postID, content string) (model.SubmitResult, error) {
	args := m.Called(userID, postID, content)
	return args.Get(0).(model.SubmitResult), args.Error(1)
}

func (m *mockPostService) DeletePost(ctx context.Context, userID, postID string) error {
	return m.Called(userID, postID).Error(0)
}

func (m *mockPostService) LikePost(ctx context.Context, userID, postID string) (model.LikeResult, error) {
	args := m.Called(userID, postID)
	return args.Get(0).(model.LikeResult), args.Error(1)
}

func (m *mockPostService) UnlikePost(ctx context.Context, userID, postID string) (model.LikeResult, error) {
	args := m.Called(userID, postID)
	return args.Get(0).(model.LikeResult), args.Error(1)
}

func (m *mockPostService) GetVisiblePost(ctx context.Context, viewerID, postID string) (model.PostView, error) {
	args := m.Called(viewerID, postID)
	return args.Get(0).(model.PostView), args.Error(1)
}

func (m *mockPostService) Feed(ctx context.Context, viewerID string, p utils.Pagination) ([]model.PostView, int64, error) {
	args := m.Called(viewerID, p)
	return args.Get(0).([]model.PostView), args.Get(1).(int64), args.Error(2)
}

func (m *mockPostService) Replies(ctx context.Context, viewerID, postID string, p utils.Pagination) ([]model.PostView, int64, error) {
	args := m.Called(viewerID, postID, p)
	return args.Get(0).([]model.PostView), args.Get(1).(int64), args.Error(2)
}

const viewer = "eeeeeeee-0000-0000-0000-000000000001"

func setup(t *testing.T) (*gin.Engine, *mockPostService, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	prev := config.GlobalConfig
	config.GlobalConfig.JWT = config.JWTConfig{Secret: "post-handler-secret", Expire: 1}
	t.Cleanup(func() { config.GlobalConfig = prev })

	token, _, err := utils.GenerateToken(viewer)
	require.NoError(t, err)

	svc := new(mockPostService)
	h := NewPostHandler(svc)
	r := gin.New()
	g := r.Group("/posts", middleware.AuthMiddleware())
	g.GET("", h.Feed)
	g.POST("", h.SubmitPost)
	g.GET("/:id", h.GetPost)
	g.PUT("/:id", h.EditPost)
	g.DELETE("/:id", h.DeletePost)
	g.GET("/:id/replies", h.Replies)
	g.POST("/:id/like", h.LikePost)
	g.DELETE("/:id/like", h.UnlikePost)
	return r, svc, token
}

func do(r *gin.Engine, token, method, path, body string) (*httptest.ResponseRecorder, response.Response) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestSubmitPostHandler(t *testing.T) {
	r, svc, token := setup(t)

	t.Run("created", func(t *testing.T) {
		svc.On("SubmitPost", viewer, "<b>hi</b>", (*string)(nil)).
			Return(model.SubmitResult{ID: "p1", Content: "<b>hi</b>", VisibilityLevel: 1, AuthorTrust: 50}, nil).Once()

		w, resp := do(r, token, http.MethodPost, "/posts", `{"content":"<b>hi</b>"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, response.CodeSuccess, resp.Code)
		data, ok := resp.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "<b>hi</b>", data["content"])
	})

	t.Run("missing content", func(t *testing.T) {
		w, resp := do(r, token, http.MethodPost, "/posts", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, response.ErrInvalidParam, resp.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		w, _ := do(r, "", http.MethodPost, "/posts", `{"content":"x"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("classifier timeout is retryable", func(t *testing.T) {
		svc.On("SubmitPost", viewer, "slow", (*string)(nil)).
			Return(model.SubmitResult{}, apperr.Classifier("post.submit", context.DeadlineExceeded, true)).Once()

		w, resp := do(r, token, http.MethodPost, "/posts", `{"content":"slow"}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, response.ErrClassifierFailed, resp.Code)
		assert.True(t, resp.Retryable)
	})

	svc.AssertExpectations(t)
}

func TestLikeHandlers(t *testing.T) {
	r, svc, token := setup(t)

	svc.On("LikePost", viewer, "p1").Return(model.LikeResult{Liked: true}, nil).Once()
	w, _ := do(r, token, http.MethodPost, "/posts/p1/like", "")
	assert.Equal(t, http.StatusOK, w.Code)

	svc.On("LikePost", viewer, "p1").Return(model.LikeResult{}, apperr.Conflict("post.like", "post already liked")).Once()
	w, resp := do(r, token, http.MethodPost, "/posts/p1/like", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrConflict, resp.Code)

	svc.On("UnlikePost", viewer, "p1").Return(model.LikeResult{Liked: false}, nil).Once()
	w, _ = do(r, token, http.MethodDelete, "/posts/p1/like", "")
	assert.Equal(t, http.StatusOK, w.Code)

	svc.AssertExpectations(t)
}

func TestGetPostHandler(t *testing.T) {
	r, svc, token := setup(t)

	svc.On("GetVisiblePost", viewer, "hidden").Return(model.PostView{}, apperr.NotFound("post.get", "post not found")).Once()
	w, resp := do(r, token, http.MethodGet, "/posts/hidden", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrPostNotFound, resp.Code)

	svc.On("EditPost", viewer, "p2", "new").Return(model.SubmitResult{}, apperr.Forbidden("post.edit", "only the author can edit this post")).Once()
	w, _ = do(r, token, http.MethodPut, "/posts/p2", `{"content":"new"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	svc.AssertExpectations(t)
}

func TestFeedHandler(t *testing.T) {
	r, svc, token := setup(t)

	views := []model.PostView{{ID: "p1", Content: "hello"}}
	svc.On("Feed", viewer, utils.Pagination{Page: 2, Limit: 5}).Return(views, int64(6), nil).Once()

	w, resp := do(r, token, http.MethodGet, "/posts?page=2&limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(6), data["total"])
	assert.Equal(t, float64(2), data["page"])
	assert.Len(t, data["list"], 1)
	svc.AssertExpectations(t)
}
