package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"physioward/backend/pkg/jwt"
	"physioward/backend/pkg/redis"
	"physioward/backend/pkg/response"
)

// 上下文键
const (
	CtxWorkerID = "worker_id"
	CtxRole     = "role"
	CtxTeamID   = "team_id"
	CtxClaims   = "claims"
)

// JWTAuth 认证中间件：校验 Bearer Token，并检查黑名单。
// rdb 为 nil 时黑名单检查降级跳过。
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10001, "缺少认证信息")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, 10002, "认证格式错误")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				response.Unauthorized(c, 10003, "token 已过期")
			} else {
				response.Unauthorized(c, 10002, "token 无效")
			}
			c.Abort()
			return
		}

		// 只有 access token 能访问接口
		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "token 无效")
			c.Abort()
			return
		}

		// 黑名单检查（登出后的 token 拒绝）
		if rdb != nil {
			revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				// Redis 故障不阻断认证，仅记录
				logger.Warn("黑名单检查失败", zap.Error(err))
			} else if revoked {
				response.Unauthorized(c, 10004, "token 已失效")
				c.Abort()
				return
			}
		}

		c.Set(CtxWorkerID, claims.WorkerID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxTeamID, claims.TeamID)
		c.Set(CtxClaims, claims)
		c.Next()
	}
}

// RoleAuth 角色鉴权中间件，必须挂在 JWTAuth 之后
func RoleAuth(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if !allowed[role] {
			response.Forbidden(c, 10403, "无权访问该资源")
			c.Abort()
			return
		}
		c.Next()
	}
}
