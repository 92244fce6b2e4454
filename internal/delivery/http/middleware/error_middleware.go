package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-workwise-backend/internal/delivery/http/response"
	"go-workwise-backend/pkg/apperror"
	"go-workwise-backend/pkg/logger"
)

// ErrorHandler renders errors appended to the gin context. AppErrors keep
// their status and field map; anything else becomes an opaque 500 so internal
// details never reach the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				if len(appErr.Fields) > 0 {
					response.Violations(c, appErr.Code, appErr.Message, appErr.Fields)
					return
				}
				response.Error(c, appErr.Code, appErr.Message, nil)
				return
			}
			logger.Log.Error("unhandled request error", "error", err, "path", c.FullPath())
			response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
		}
	}
}
