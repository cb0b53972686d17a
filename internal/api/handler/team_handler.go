package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"physioward/backend/internal/dto"
	"physioward/backend/internal/service"
	"physioward/backend/pkg/response"
)

// TeamHandler 班组接口
type TeamHandler struct {
	svc     service.TeamService
	workers service.WorkerService
	logger  *zap.Logger
}

// Create POST /api/v1/teams（supervisor）
func (h *TeamHandler) Create(c *gin.Context) {
	var req dto.CreateTeamRequest
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

// List GET /api/v1/teams
func (h *TeamHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	resp, err := h.svc.List(c.Request.Context(), includeInactive)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// Get GET /api/v1/teams/:id
func (h *TeamHandler) Get(c *gin.Context) {
	resp, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// Members GET /api/v1/teams/:id/members
func (h *TeamHandler) Members(c *gin.Context) {
	// 班组存在性先校验，避免空班组与不存在班组混淆
	if _, err := h.svc.GetByID(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	resp, err := h.workers.ListByTeam(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, resp)
}

// Update PUT /api/v1/teams/:id
func (h *TeamHandler) Update(c *gin.Context) {
	var req dto.UpdateTeamRequest
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

// Delete DELETE /api/v1/teams/:id
func (h *TeamHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), currentWorkerID(c)); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}
