package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "renovo/internal/errors"
	"renovo/internal/logger"
)

// ErrorHandler renders the last error a handler recorded with c.Error as the
// API's JSON error body. Anything that is not an *AppError is logged and
// reported as INTERNAL_ERROR. Responses already written are left alone.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			logger.Get().Errorw("unhandled error",
				"request_id", RequestID(c),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err.Error(),
			)
			appErr = apperrors.ErrInternalServer
		} else if appErr.Internal != nil {
			logger.Get().Errorw("request failed",
				"request_id", RequestID(c),
				"code", appErr.Code,
				"path", c.Request.URL.Path,
				"internal", appErr.Internal.Error(),
			)
		}

		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
	}
}
