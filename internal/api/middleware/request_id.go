package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CtxRequestID 上下文中的请求 ID 键
	CtxRequestID = "request_id"
	headerName   = "X-Request-ID"
)

// RequestID 为每个请求生成/透传请求 ID，便于日志串联
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerName)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(CtxRequestID, requestID)
		c.Header(headerName, requestID)
		c.Next()
	}
}
