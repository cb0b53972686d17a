package dto

// ReadinessStats 就绪度聚合统计
//
// 口径说明：
//   - active_workers = total_workers − 截止日期处于例外中的工人数
//   - expected_check_ins = 范围内"激活工人日"总数（例外工人日不计入分母）
//   - completion_rate = completed / expected_check_ins，分母为 0 时取 0
//   - 例外既不计入 completed 也不计入 pending，单独在 with_exceptions 汇报
type ReadinessStats struct {
	TotalWorkers     int     `json:"total_workers"`
	ActiveWorkers    int     `json:"active_workers"`
	ExpectedCheckIns int     `json:"expected_check_ins"`
	Completed        int     `json:"completed"`
	Pending          int     `json:"pending"`
	Green            int     `json:"green"`
	Amber            int     `json:"amber"`
	Red              int     `json:"red"`
	WithExceptions   int     `json:"with_exceptions"`
	CompletionRate   float64 `json:"completion_rate"` // 0-100
}

// TeamStatsResponse 班组级聚合响应
type TeamStatsResponse struct {
	TeamID   string                 `json:"team_id"`
	TeamName string                 `json:"team_name"`
	From     string                 `json:"from"`
	To       string                 `json:"to"`
	Stats    ReadinessStats         `json:"stats"`
	Workers  []WorkerStatusResponse `json:"workers,omitempty"` // 单日查询时附带明细
}

// SupervisorStatsResponse 主管级聚合响应
// 完成率按预期打卡数加权汇总，而非各班组完成率的简单平均
type SupervisorStatsResponse struct {
	SupervisorID string              `json:"supervisor_id"`
	From         string              `json:"from"`
	To           string              `json:"to"`
	Stats        ReadinessStats      `json:"stats"`
	Teams        []TeamStatsResponse `json:"teams"`
}
