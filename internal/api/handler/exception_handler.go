package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"physioward/backend/internal/dto"
	"physioward/backend/internal/service"
	"physioward/backend/pkg/response"
)

// ExceptionHandler 例外接口
type ExceptionHandler struct {
	svc    service.ExceptionService
	logger *zap.Logger
}

// Create POST /api/v1/exceptions（leader/supervisor/whs）
func (h *ExceptionHandler) Create(c *gin.Context) {
	var req dto.CreateExceptionRequest
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

// Get GET /api/v1/exceptions/:id
func (h *ExceptionHandler) Get(c *gin.Context) {
	resp, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// Update PATCH /api/v1/exceptions/:id（锁定后创建者被拒）
func (h *ExceptionHandler) Update(c *gin.Context) {
	var req dto.UpdateExceptionRequest
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

// Remove DELETE /api/v1/exceptions/:id 解除例外并恢复排班
func (h *ExceptionHandler) Remove(c *gin.Context) {
	resp, err := h.svc.Remove(c.Request.Context(), c.Param("id"), currentWorkerID(c))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// Lock POST /api/v1/exceptions/:id/lock（仅 whs）
func (h *ExceptionHandler) Lock(c *gin.Context) {
	resp, err := h.svc.Lock(c.Request.Context(), c.Param("id"), currentWorkerID(c))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// ListByWorker GET /api/v1/workers/:id/exceptions
func (h *ExceptionHandler) ListByWorker(c *gin.Context) {
	resp, err := h.svc.ListByWorker(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// ActiveByWorker GET /api/v1/workers/:id/exceptions/active 当前激活例外（可为空）
func (h *ExceptionHandler) ActiveByWorker(c *gin.Context) {
	resp, err := h.svc.GetActiveByWorker(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}
