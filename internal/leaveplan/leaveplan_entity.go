package leaveplan

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeavePlan struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_plan_company_name"`

	Name         string `gorm:"type:varchar(100);not null;uniqueIndex:uq_leave_plan_company_name"`
	Description  string `gorm:"type:text"`
	DurationDays int    `gorm:"type:int;not null"`
	IsPaid       bool   `gorm:"not null;default:true"`
	AllowRecall  bool   `gorm:"not null;default:false"`
	IsActive     bool   `gorm:"not null;default:true;index"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (LeavePlan) TableName() string {
	return "leave_plans"
}
