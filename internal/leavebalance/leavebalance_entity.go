package leavebalance

import (
	"time"

	"github.com/google/uuid"
)

// Balance rows are provisioned by the HR core when a plan is assigned
// to an employee. This service only refunds days onto them; it never
// decrements.
type Balance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_balance_employee_plan"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_balance_employee_plan"`
	LeavePlanID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_balance_employee_plan"`

	RemainingDays int `gorm:"type:int;not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Balance) TableName() string {
	return "leave_balances"
}
