package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"physioward/backend/internal/service"
	"physioward/backend/pkg/response"
)

// StatsHandler 就绪度聚合统计接口
type StatsHandler struct {
	svc    service.StatsService
	logger *zap.Logger
}

// Team GET /api/v1/teams/:id/stats?from=&to=
func (h *StatsHandler) Team(c *gin.Context) {
	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}

	resp, err := h.svc.AggregateTeam(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// Supervisor GET /api/v1/stats/supervisor?from=&to= 当前主管名下所有班组
func (h *StatsHandler) Supervisor(c *gin.Context) {
	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}

	resp, err := h.svc.AggregateSupervisor(c.Request.Context(), currentWorkerID(c), from, to)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}
