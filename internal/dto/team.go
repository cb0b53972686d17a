package dto

// TeamResponse 班组简要信息
type TeamResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	SupervisorID *string `json:"supervisor_id,omitempty"`
	IsActive     bool    `json:"is_active"`
}

// CreateTeamRequest 创建班组请求
type CreateTeamRequest struct {
	Name         string  `json:"name"          binding:"required,max=100"`
	Description  string  `json:"description"   binding:"omitempty,max=500"`
	SupervisorID *string `json:"supervisor_id" binding:"omitempty,uuid"`
}

// UpdateTeamRequest 更新班组请求
type UpdateTeamRequest struct {
	Name         *string `json:"name"          binding:"omitempty,max=100"`
	Description  *string `json:"description"   binding:"omitempty,max=500"`
	SupervisorID *string `json:"supervisor_id" binding:"omitempty,uuid"`
	IsActive     *bool   `json:"is_active"`
}
