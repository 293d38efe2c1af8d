package leaveapp

import (
	"time"

	"go-leave/internal/employee"
	"go-leave/internal/leaveplan"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaveApplication struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_apps_company_status"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_apps_employee_dates"`
	LeavePlanID uuid.UUID `gorm:"type:uuid;not null"`

	StartDate    time.Time `gorm:"type:date;not null;index:idx_leave_apps_employee_dates"`
	EndDate      time.Time `gorm:"type:date;not null;index:idx_leave_apps_employee_dates"`
	DurationDays int       `gorm:"type:int;not null;default:0"`
	Reason       string    `gorm:"type:text"`

	Status     string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_apps_company_status"`
	ReviewedBy *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt *time.Time

	RejectionReason *string `gorm:"type:text"`

	// Populated only when the application is recalled.
	ResumptionDate *time.Time `gorm:"type:date"`
	DaysUsed       *int       `gorm:"type:int"`
	DaysRefunded   *int       `gorm:"type:int"`
	RecallReason   *string    `gorm:"type:text"`

	Employee  employee.Employee   `gorm:"foreignKey:EmployeeID"`
	LeavePlan leaveplan.LeavePlan `gorm:"foreignKey:LeavePlanID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (LeaveApplication) TableName() string {
	return "leave_applications"
}
