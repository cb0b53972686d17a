package dto

// ── 工人模块请求 ──

// CreateWorkerRequest 创建工人请求（班组长/主管操作）
type CreateWorkerRequest struct {
	Name       string `json:"name"        binding:"required,max=100"`
	EmployeeNo string `json:"employee_no" binding:"required,max=30"`
	Email      string `json:"email"       binding:"required,email"`
	Password   string `json:"password"    binding:"required,min=8"`
	Role       string `json:"role"        binding:"omitempty,oneof=worker leader supervisor whs"`
	TeamID     string `json:"team_id"     binding:"required,uuid"`
}

// UpdateWorkerRequest 更新工人请求（指针字段表示可选）
type UpdateWorkerRequest struct {
	Name  *string `json:"name"  binding:"omitempty,max=100"`
	Email *string `json:"email" binding:"omitempty,email"`
	Role  *string `json:"role"  binding:"omitempty,oneof=worker leader supervisor whs"`
}

// ── 工人模块响应 ──

// WorkerResponse 工人信息响应（脱敏）
type WorkerResponse struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	EmployeeNo         string        `json:"employee_no"`
	Email              string        `json:"email"`
	Role               string        `json:"role"`
	Team               *TeamResponse `json:"team,omitempty"`
	MustChangePassword bool          `json:"must_change_password"`
}
