// api/util/http_util.go
package util

import (
	logger "github.com/lumafin/aegis/api/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, gin.H{"error": message})
}

// GetCallerService returns the identity of the calling service, set by the
// gateway in the X-Caller-Service header. Empty when absent.
func GetCallerService(c *gin.Context) string {
	return c.GetHeader("X-Caller-Service")
}
