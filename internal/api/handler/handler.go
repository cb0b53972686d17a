package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"physioward/backend/internal/service"
	pkgerrors "physioward/backend/pkg/errors"
	"physioward/backend/pkg/response"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth      *AuthHandler
	Worker    *WorkerHandler
	Team      *TeamHandler
	Schedule  *ScheduleHandler
	Exception *ExceptionHandler
	CheckIn   *CheckInHandler
	Status    *StatusHandler
	Stats     *StatsHandler
	Export    *ExportHandler
	Config    *ConfigHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:      &AuthHandler{svc: svc.Auth, logger: logger},
		Worker:    &WorkerHandler{svc: svc.Worker, logger: logger},
		Team:      &TeamHandler{svc: svc.Team, workers: svc.Worker, logger: logger},
		Schedule:  &ScheduleHandler{svc: svc.Schedule, logger: logger},
		Exception: &ExceptionHandler{svc: svc.Exception, logger: logger},
		CheckIn:   &CheckInHandler{svc: svc.CheckIn, logger: logger},
		Status:    &StatusHandler{svc: svc.Status, logger: logger},
		Stats:     &StatsHandler{svc: svc.Stats, logger: logger},
		Export:    &ExportHandler{svc: svc.Export, logger: logger},
		Config:    &ConfigHandler{svc: svc.Config, logger: logger},
	}
}

// serviceErrorMapping 业务错误 → HTTP 状态码与业务码
var serviceErrorMapping = []struct {
	err    error
	status int
	code   int
}{
	// 认证 10xxx
	{service.ErrAuthInvalidCredentials, http.StatusUnauthorized, 10101},
	{service.ErrAuthInvalidRefresh, http.StatusUnauthorized, 10102},
	{service.ErrAuthTokenRevoked, http.StatusUnauthorized, 10103},
	{service.ErrAuthPasswordMismatch, http.StatusBadRequest, 10104},
	{service.ErrAuthWorkerNotFound, http.StatusNotFound, 10105},
	// 工人 11xxx
	{service.ErrWorkerNotFound, http.StatusNotFound, 11001},
	{service.ErrWorkerEmployeeNoTaken, http.StatusConflict, 11002},
	{service.ErrWorkerTeamNotFound, http.StatusNotFound, 11003},
	// 班组 12xxx
	{service.ErrTeamNotFound, http.StatusNotFound, 12001},
	{service.ErrTeamSupervisorNotFound, http.StatusNotFound, 12002},
	{service.ErrTeamSupervisorRole, http.StatusBadRequest, 12003},
	// 排班 13xxx
	{service.ErrScheduleNotFound, http.StatusNotFound, 13001},
	{service.ErrScheduleWorkerNotFound, http.StatusNotFound, 13002},
	{service.ErrScheduleVariantInvalid, http.StatusBadRequest, 13003},
	{service.ErrScheduleTimeInvalid, http.StatusBadRequest, 13004},
	{service.ErrScheduleDateInvalid, http.StatusBadRequest, 13005},
	{service.ErrScheduleRangeInvalid, http.StatusBadRequest, 13006},
	{service.ErrRosterParseFailed, http.StatusBadRequest, 13007},
	{service.ErrRosterEmpty, http.StatusBadRequest, 13008},
	// 例外 14xxx
	{service.ErrExceptionNotFound, http.StatusNotFound, 14001},
	{service.ErrExceptionWorkerNotFound, http.StatusNotFound, 14002},
	{service.ErrExceptionAlreadyActive, http.StatusConflict, 14003},
	{service.ErrExceptionLocked, http.StatusForbidden, 14004},
	{service.ErrExceptionAlreadyLocked, http.StatusConflict, 14005},
	{service.ErrExceptionInactive, http.StatusConflict, 14006},
	{service.ErrExceptionDateInvalid, http.StatusBadRequest, 14007},
	{service.ErrExceptionTargetTeamRequired, http.StatusBadRequest, 14008},
	{service.ErrExceptionTargetTeamNotFound, http.StatusNotFound, 14009},
	// 打卡 15xxx
	{service.ErrCheckInWorkerNotFound, http.StatusNotFound, 15001},
	{service.ErrCheckInDuplicate, http.StatusConflict, 15002},
	{service.ErrCheckInDuringException, http.StatusConflict, 15003},
	{service.ErrCheckInDateInvalid, http.StatusBadRequest, 15004},
	{service.ErrCheckInMetricsInvalid, http.StatusBadRequest, 15005},
	// 状态与统计 16xxx
	{service.ErrStatusWorkerNotFound, http.StatusNotFound, 16001},
	{service.ErrStatsRangeInvalid, http.StatusBadRequest, 16002},
	{service.ErrStatsTeamNotFound, http.StatusNotFound, 16003},
	// 配置 17xxx
	{service.ErrConfigInvalid, http.StatusBadRequest, 17001},
	// 通用
	{pkgerrors.ErrOptimisticLock, http.StatusConflict, 40901},
}

// handleServiceError 统一把业务错误翻译为响应；未识别的错误按 500 处理
func handleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	for _, m := range serviceErrorMapping {
		if errors.Is(err, m.err) {
			response.Error(c, m.status, m.code, m.err.Error())
			return
		}
	}
	logger.Error("未识别的业务错误",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	response.InternalError(c)
}

// parseDateQuery 解析 ?date= 查询参数，缺省取当天
func parseDateQuery(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), true
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		response.BadRequest(c, 40001, "date 参数格式无效，应为 YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}

// parseRangeQuery 解析 ?from=&to= 查询参数，缺省均取当天
func parseRangeQuery(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from, to := today, today

	if raw := c.Query("from"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(c, 40001, "from 参数格式无效，应为 YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		from = d
	}
	if raw := c.Query("to"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(c, 40001, "to 参数格式无效，应为 YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		to = d
	}
	return from, to, true
}
