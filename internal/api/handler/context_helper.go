package handler

import (
	"github.com/gin-gonic/gin"

	"physioward/backend/internal/api/middleware"
)

// currentWorkerID 当前登录工人 ID（JWTAuth 之后必有值）
func currentWorkerID(c *gin.Context) string {
	return c.GetString(middleware.CtxWorkerID)
}
