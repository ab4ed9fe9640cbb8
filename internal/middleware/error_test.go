package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/claimtrack-api/internal/middleware"
	apperrors "github.com/jwalitptl/claimtrack-api/pkg/errors"
)

func TestErrorHandlerTranslatesAppErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.ErrorHandler())
	engine.GET("/missing", func(c *gin.Context) {
		_ = c.Error(apperrors.NotFound("claim", 7))
	})
	engine.GET("/invalid", func(c *gin.Context) {
		_ = c.Error(apperrors.Validation([]apperrors.FieldError{
			{Field: "claim_type", Message: "is required"},
		}))
	})
	engine.GET("/blocked", func(c *gin.Context) {
		_ = c.Error(apperrors.Referenced("claim 7 is referenced as parent by 1 linked claim(s); detach them first"))
	})
	engine.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("disk unreadable"))
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "claim 7 not found")

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invalid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Status string                 `json:"status"`
		Errors []apperrors.FieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "claim_type", resp.Errors[0].Field)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blocked", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestErrorHandlerLeavesWrittenResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.ErrorHandler())
	engine.GET("/partial", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error"})
		_ = c.Error(errors.New("already answered"))
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/partial", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), "already answered")
}
