package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/claimtrack-api/internal/handler"
	apperrors "github.com/jwalitptl/claimtrack-api/pkg/errors"
)

// ErrorHandler translates errors attached by handlers via c.Error into the
// shared response envelope, mapping application error codes to HTTP statuses.
// Validation errors carry the full field list so a caller can display every
// problem at once.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(ContextRequestID)
		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", requestID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("Request error")
		}

		if c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
			return
		}

		resp := handler.NewErrorResponse(appErr.Message)
		resp.Errors = appErr.Fields
		c.JSON(appErr.StatusCode(), resp)
	}
}
