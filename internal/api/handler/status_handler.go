package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"physioward/backend/internal/service"
	"physioward/backend/pkg/response"
)

// StatusHandler 工人单日状态接口
type StatusHandler struct {
	svc    service.StatusService
	logger *zap.Logger
}

// My GET /api/v1/status/my?date=
func (h *StatusHandler) My(c *gin.Context) {
	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	resp, err := h.svc.StatusFor(c.Request.Context(), currentWorkerID(c), date)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// ByWorker GET /api/v1/workers/:id/status?date=
func (h *StatusHandler) ByWorker(c *gin.Context) {
	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	resp, err := h.svc.StatusFor(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}
