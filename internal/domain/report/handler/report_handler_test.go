package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trust_feed/internal/domain/report/model"
	"trust_feed/internal/pkg/apperr"
	"trust_feed/pkg/response"
	"trust_feed/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) SubmitReport(ctx context.Context, reporterID, postID, reason string) (model.Outcome, error) {
	args := m.Called(reporterID, postID, reason)
	return args.Get(0).(model.Outcome), args.Error(1)
}

func (m *mockReportService) ListReports(ctx context.Context, viewerID, postID string, p utils.Pagination) ([]model.Report, int64, error) {
	args := m.Called(viewerID, postID, p)
	return args.Get(0).([]model.Report), args.Get(1).(int64), args.Error(2)
}

// 测试里直接注入身份，跳过 JWT
func newRouter(svc *mockReportService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewReportHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
		}
		c.Next()
	})
	r.POST("/posts/:id/reports", h.SubmitReport)
	r.GET("/posts/:id/reports", h.ListReports)
	return r
}

func post(r *gin.Engine, path, body string) (*httptest.ResponseRecorder, response.Response) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestSubmitReportHandler(t *testing.T) {
	svc := new(mockReportService)
	r := newRouter(svc, "u1")

	svc.On("SubmitReport", "u1", "p1", "rude").Return(model.Outcome{
		ReportID: "r1", Recommendation: "approve", Explanation: "insulting", JudgementScore: 4,
	}, nil).Once()
	w, resp := post(r, "/posts/p1/reports", `{"reason":"rude"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "approve", data["actionRecommendation"])
	assert.Equal(t, float64(4), data["judgementScore"])

	svc.On("SubmitReport", "u1", "p1", "again").Return(model.Outcome{}, apperr.New(apperr.KindDuplicateReport, "report.submit", "post already reported")).Once()
	w, resp = post(r, "/posts/p1/reports", `{"reason":"again"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrDuplicateReport, resp.Code)

	svc.On("SubmitReport", "u1", "p2", "mine").Return(model.Outcome{}, apperr.New(apperr.KindSelfReport, "report.submit", "cannot report your own post")).Once()
	w, resp = post(r, "/posts/p2/reports", `{"reason":"mine"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrSelfReport, resp.Code)

	w, _ = post(r, "/posts/p1/reports", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertExpectations(t)
}

func TestListReportsHandler(t *testing.T) {
	svc := new(mockReportService)
	r := newRouter(svc, "author")

	svc.On("ListReports", "author", "p1", utils.Pagination{Page: 1, Limit: 20}).
		Return([]model.Report{{ID: "r1", Recommendation: "watch"}}, int64(1), nil).Once()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts/p1/reports", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
