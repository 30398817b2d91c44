package common

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"trust_feed/internal/pkg/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)

	r := gin.New()
	r.GET("/healthz", NewHealthHandler(db, nil).Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"database":"ok"}`, w.Body.String())
}
