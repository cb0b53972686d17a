package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"physioward/backend/internal/service"
)

// ExportHandler 就绪度报表导出接口
type ExportHandler struct {
	svc    service.ExportService
	logger *zap.Logger
}

// TeamReadiness GET /api/v1/teams/:id/export?from=&to= 下载 xlsx 报表
func (h *ExportHandler) TeamReadiness(c *gin.Context) {
	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}

	f, err := h.svc.ExportTeamReadiness(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	filename := fmt.Sprintf("readiness_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("报表写出失败", zap.Error(err))
		c.Status(http.StatusInternalServerError)
	}
}
