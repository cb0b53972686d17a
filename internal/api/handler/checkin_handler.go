package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"physioward/backend/internal/dto"
	"physioward/backend/internal/service"
	"physioward/backend/pkg/response"
)

// CheckInHandler 打卡接口
type CheckInHandler struct {
	svc    service.CheckInService
	logger *zap.Logger
}

// Submit POST /api/v1/check-ins 工人本人提交当日打卡
func (h *CheckInHandler) Submit(c *gin.Context) {
	var req dto.SubmitCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数无效: "+err.Error())
		return
	}

	resp, err := h.svc.Submit(c.Request.Context(), currentWorkerID(c), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.Created(c, resp)
}

// Today GET /api/v1/check-ins/my/today 当日打卡（未打卡返回空）
func (h *CheckInHandler) Today(c *gin.Context) {
	resp, err := h.svc.GetByDate(c.Request.Context(), currentWorkerID(c), time.Now())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// History GET /api/v1/check-ins/my?from=&to=
func (h *CheckInHandler) History(c *gin.Context) {
	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}

	resp, err := h.svc.History(c.Request.Context(), currentWorkerID(c), from, to)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}
