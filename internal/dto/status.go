package dto

// WorkerStatusResponse 单个工人单日状态及其判定依据
//
// status 优先级：exception > green/amber/red（有打卡）> pending。
// 打卡超窗只体现在 check_in.timeliness，绝不降级 status。
type WorkerStatusResponse struct {
	WorkerID   string `json:"worker_id"`
	WorkerName string `json:"worker_name,omitempty"`
	Date       string `json:"date"`
	Status     string `json:"status"` // green | amber | red | pending | exception

	// 判定依据（按命中情况返回）
	Exception *ExceptionResponse `json:"exception,omitempty"`
	CheckIn   *CheckInResponse   `json:"check_in,omitempty"`
	Schedule  *ScheduleResponse  `json:"schedule,omitempty"`
	Window    *WindowResponse    `json:"window,omitempty"`
}
