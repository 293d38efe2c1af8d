package notification

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_employee_read"`

	Title   string `gorm:"type:varchar(150);not null"`
	Message string `gorm:"type:text;not null"`
	IsRead  bool   `gorm:"not null;default:false;index:idx_notifications_employee_read"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Notification) TableName() string {
	return "notifications"
}
