package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is the read model this service needs. The employees table
// is owned by the HR core service; we only read it for display and
// tenant checks.
type Employee struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	FullName   string    `gorm:"type:varchar(150);not null"`
	Email      string    `gorm:"type:varchar(150);not null"`
	Department string    `gorm:"type:varchar(100)"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
