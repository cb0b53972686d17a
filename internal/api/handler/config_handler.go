package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"physioward/backend/internal/model"
	"physioward/backend/internal/service"
	"physioward/backend/pkg/response"
)

// ConfigHandler 系统配置接口（窗口时段与分级阈值调参）
type ConfigHandler struct {
	svc    service.ConfigService
	logger *zap.Logger
}

// Get GET /api/v1/admin/config
func (h *ConfigHandler) Get(c *gin.Context) {
	cfg, err := h.svc.Get(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, cfg)
}

// Update PUT /api/v1/admin/config（supervisor/whs）
func (h *ConfigHandler) Update(c *gin.Context) {
	var cfg model.SystemConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		response.BadRequest(c, 40001, "请求参数无效: "+err.Error())
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), &cfg, currentWorkerID(c))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, updated)
}
