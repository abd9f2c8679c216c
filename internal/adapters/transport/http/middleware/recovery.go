package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const internalMessage = "An unexpected error occurred."

// Recovery is the top-level fault handler: a panic anywhere below it is
// logged with its stack and answered with a sanitized 500.
func Recovery(log *zap.Logger, development bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		log.Error("panic recovered",
			zap.String("request_id", RequestIDFrom(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", rec),
			zap.Stack("stack"),
		)
		msg := internalMessage
		if development {
			if err, ok := rec.(error); ok {
				msg = err.Error()
			} else if s, ok := rec.(string); ok {
				msg = s
			}
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msg})
	})
}
