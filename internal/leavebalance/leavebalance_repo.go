package leavebalance

import (
	"context"
	"errors"

	leavebalanceerrors "go-leave/internal/leavebalance/errors"
	"go-leave/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leavebalance_repo.go -destination=mock/leavebalance_repo_mock.go -package=mock
type Repository interface {
	FindByEmployeeAndPlan(ctx context.Context, companyID, employeeID, planID string) (*Balance, error)
	AddDays(ctx context.Context, companyID, employeeID, planID string, days int) (*Balance, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByEmployeeAndPlan(ctx context.Context, companyID, employeeID, planID string) (*Balance, error) {
	var b Balance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ? AND leave_plan_id = ?", employeeID, planID).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, leavebalanceerrors.ErrBalanceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// AddDays refunds days onto a balance with a read-then-write. Two
// concurrent refunds for the same balance can lose an update; recalls
// are rare and operator-driven, so no version check is applied here.
func (r *repository) AddDays(ctx context.Context, companyID, employeeID, planID string, days int) (*Balance, error) {
	b, err := r.FindByEmployeeAndPlan(ctx, companyID, employeeID, planID)
	if err != nil {
		return nil, err
	}

	b.RemainingDays += days

	if err := r.db.WithContext(ctx).Save(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}
