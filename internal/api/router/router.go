package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"physioward/backend/config"
	"physioward/backend/internal/api/handler"
	"physioward/backend/internal/api/middleware"
	"physioward/backend/pkg/jwt"
	"physioward/backend/pkg/redis"
)

const maxBodyBytes = 2 << 20 // 请求体上限 2MB（roster 文件也走这里）

// Setup 组装 gin 引擎：全局中间件 + /api/v1 路由
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.AccessLog(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(&cfg.Server.CORS),
		middleware.BodyLimit(maxBodyBytes),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	// ── 认证（登录与刷新加速率限制）──
	auth := v1.Group("/auth")
	{
		loginLimit := middleware.RateLimit(rdb, 10, time.Minute, logger)
		auth.POST("/login", loginLimit, h.Auth.Login)
		auth.POST("/refresh", loginLimit, h.Auth.Refresh)
	}

	// ── 需要登录的路由 ──
	authed := v1.Group("")
	authed.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
	{
		authed.POST("/auth/logout", h.Auth.Logout)
		authed.GET("/auth/me", h.Auth.Me)
		authed.PUT("/auth/password", h.Auth.ChangePassword)

		// 工人本人视角
		authed.POST("/check-ins", h.CheckIn.Submit)
		authed.GET("/check-ins/my", h.CheckIn.History)
		authed.GET("/check-ins/my/today", h.CheckIn.Today)
		authed.GET("/schedules/my", h.Schedule.ListMine)
		authed.GET("/schedules/my/window", h.Schedule.MyWindow)
		authed.GET("/status/my", h.Status.My)

		// ── 管理视角（leader/supervisor/whs）──
		mgmt := authed.Group("")
		mgmt.Use(middleware.RoleAuth("leader", "supervisor", "whs"))
		{
			mgmt.POST("/workers", h.Worker.Create)
			mgmt.GET("/workers/:id", h.Worker.Get)
			mgmt.PUT("/workers/:id", h.Worker.Update)
			mgmt.DELETE("/workers/:id", h.Worker.Delete)
			mgmt.GET("/workers/:id/memberships", h.Worker.Memberships)
			mgmt.GET("/workers/:id/schedules", h.Schedule.ListByWorker)
			mgmt.GET("/workers/:id/window", h.Schedule.WorkerWindow)
			mgmt.GET("/workers/:id/status", h.Status.ByWorker)
			mgmt.POST("/workers/:id/roster", h.Schedule.ImportRoster)

			mgmt.POST("/schedules", h.Schedule.Create)
			mgmt.PUT("/schedules/:id", h.Schedule.Update)
			mgmt.DELETE("/schedules/:id", h.Schedule.Delete)

			mgmt.POST("/exceptions", h.Exception.Create)
			mgmt.GET("/exceptions/:id", h.Exception.Get)
			mgmt.PATCH("/exceptions/:id", h.Exception.Update)
			mgmt.DELETE("/exceptions/:id", h.Exception.Remove)
			mgmt.GET("/workers/:id/exceptions", h.Exception.ListByWorker)
			mgmt.GET("/workers/:id/exceptions/active", h.Exception.ActiveByWorker)

			mgmt.GET("/teams/:id/schedules", h.Schedule.ListByTeam)
			mgmt.GET("/teams/:id/members", h.Team.Members)
			mgmt.GET("/teams/:id/stats", h.Stats.Team)
			mgmt.GET("/teams/:id/export", h.Export.TeamReadiness)
		}

		// ── WHS 审查员 ──
		whs := authed.Group("")
		whs.Use(middleware.RoleAuth("whs"))
		{
			whs.POST("/exceptions/:id/lock", h.Exception.Lock)
		}

		// ── 主管与 WHS ──
		admin := authed.Group("")
		admin.Use(middleware.RoleAuth("supervisor", "whs"))
		{
			admin.POST("/teams", h.Team.Create)
			admin.GET("/teams", h.Team.List)
			admin.GET("/teams/:id", h.Team.Get)
			admin.PUT("/teams/:id", h.Team.Update)
			admin.DELETE("/teams/:id", h.Team.Delete)

			admin.GET("/stats/supervisor", h.Stats.Supervisor)

			admin.GET("/admin/config", h.Config.Get)
			admin.PUT("/admin/config", h.Config.Update)
		}
	}

	return r
}
