package leaveapp

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type RecallLeaveRequest struct {
	ResumptionDate string `json:"resumption_date" binding:"required"`
	RecallReason   string `json:"recall_reason" binding:"required"`
}

type EmployeeSummary struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department,omitempty"`
}

type LeavePlanSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DurationDays int    `json:"duration_days"`
	IsPaid       bool   `json:"is_paid"`
	AllowRecall  bool   `json:"allow_recall"`
}

type LeaveApplicationResponse struct {
	ID           string           `json:"id"`
	CompanyID    string           `json:"company_id"`
	Employee     EmployeeSummary  `json:"employee"`
	LeavePlan    LeavePlanSummary `json:"leave_plan"`
	StartDate    string           `json:"start_date"`
	EndDate      string           `json:"end_date"`
	DurationDays int              `json:"duration_days"`
	Reason       string           `json:"reason,omitempty"`
	Status       string           `json:"status"`

	ReviewedBy      *string `json:"reviewed_by,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`

	ResumptionDate *string `json:"resumption_date,omitempty"`
	DaysUsed       *int    `json:"days_used,omitempty"`
	DaysRefunded   *int    `json:"days_refunded,omitempty"`
	RecallReason   *string `json:"recall_reason,omitempty"`
}

type RecallPreviewResponse struct {
	ApplicationID  string `json:"application_id"`
	ResumptionDate string `json:"resumption_date"`
	DaysUsed       int    `json:"days_used"`
	DaysToRefund   int    `json:"days_to_refund"`
	OriginalTotal  int    `json:"original_total"`
}

type RecallLeaveResponse struct {
	Application  LeaveApplicationResponse `json:"application"`
	DaysUsed     int                      `json:"days_used"`
	DaysRefunded int                      `json:"days_refunded"`

	// Warning reports a non-fatal refund failure. The recall itself
	// has already committed when this is set.
	Warning string `json:"warning,omitempty"`
}
