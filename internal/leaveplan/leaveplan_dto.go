package leaveplan

type CreateLeavePlanRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	DurationDays int    `json:"duration_days" binding:"required,gt=0"`
	IsPaid       *bool  `json:"is_paid"`
	AllowRecall  *bool  `json:"allow_recall"`
}

type UpdateLeavePlanRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	DurationDays int    `json:"duration_days" binding:"required,gt=0"`
	IsPaid       *bool  `json:"is_paid"`
	AllowRecall  *bool  `json:"allow_recall"`
	IsActive     *bool  `json:"is_active"`
}

type LeavePlanResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	DurationDays int    `json:"duration_days"`
	IsPaid       bool   `json:"is_paid"`
	AllowRecall  bool   `json:"allow_recall"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
}
