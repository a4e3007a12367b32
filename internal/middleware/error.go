package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/meridianpsych/clinic-api/pkg/httputil"
	"github.com/meridianpsych/clinic-api/pkg/logger"
)

// ErrorHandler converts errors attached to the gin context into the
// standard response envelope. Handlers that call RespondWithError
// directly bypass this; it catches the ones that only c.Error().
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last().Err
		l.Error(lastErr, "request error",
			"request_id", c.GetString(ContextRequestID),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)

		httputil.RespondWithError(c, lastErr)
	}
}
