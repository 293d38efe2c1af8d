package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const (
	LeaveApprovedEventType = "leave.approved"
	LeaveRejectedEventType = "leave.rejected"
	LeaveRecalledEventType = "leave.recalled"
)

type LeaveStatusChangedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	ApplicationID string    `json:"application_id"`
	EmployeeID    string    `json:"employee_id"`
	CompanyID     string    `json:"company_id"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type LeaveRecalledEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	ApplicationID  string    `json:"application_id"`
	EmployeeID     string    `json:"employee_id"`
	CompanyID      string    `json:"company_id"`
	ResumptionDate string    `json:"resumption_date"`
	DaysUsed       int       `json:"days_used"`
	DaysRefunded   int       `json:"days_refunded"`
	OccurredAt     time.Time `json:"occurred_at"`
}
