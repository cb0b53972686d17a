package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"physioward/backend/internal/dto"
	"physioward/backend/internal/service"
	"physioward/backend/pkg/response"
)

// ScheduleHandler 排班接口
type ScheduleHandler struct {
	svc    service.ScheduleService
	logger *zap.Logger
}

// Create POST /api/v1/schedules（leader/supervisor）
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数无效: "+err.Error())
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), &req, currentWorkerID(c))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.Created(c, resp)
}

// Update PUT /api/v1/schedules/:id
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req dto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数无效: "+err.Error())
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, currentWorkerID(c))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// Delete DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), currentWorkerID(c)); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// ListMine GET /api/v1/schedules/my 当前工人的激活排班
func (h *ScheduleHandler) ListMine(c *gin.Context) {
	resp, err := h.svc.ListByWorker(c.Request.Context(), currentWorkerID(c))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// ListByWorker GET /api/v1/workers/:id/schedules
func (h *ScheduleHandler) ListByWorker(c *gin.Context) {
	resp, err := h.svc.ListByWorker(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// ListByTeam GET /api/v1/teams/:id/schedules
func (h *ScheduleHandler) ListByTeam(c *gin.Context) {
	resp, err := h.svc.ListByTeam(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// MyWindow GET /api/v1/schedules/my/window?date= 当日排班解析与打卡窗口
func (h *ScheduleHandler) MyWindow(c *gin.Context) {
	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	resp, err := h.svc.ResolveWindow(c.Request.Context(), currentWorkerID(c), date)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// WorkerWindow GET /api/v1/workers/:id/window?date=
func (h *ScheduleHandler) WorkerWindow(c *gin.Context) {
	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	resp, err := h.svc.ResolveWindow(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// ImportRoster POST /api/v1/workers/:id/roster 上传 ICS 日历全量替换排班
func (h *ScheduleHandler) ImportRoster(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 40001, "缺少 roster 文件")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 40001, "roster 文件无法读取")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, 40001, "roster 文件无法读取")
		return
	}

	resp, err := h.svc.ImportRoster(c.Request.Context(), c.Param("id"), data, currentWorkerID(c))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}
