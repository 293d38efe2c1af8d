package leaveplan

import (
	"context"

	"go-leave/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leaveplan_repo.go -destination=mock/leaveplan_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, p *LeavePlan) error
	FindAllByCompany(ctx context.Context, companyID string) ([]LeavePlan, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeavePlan, error)
	Update(ctx context.Context, p *LeavePlan) error
	SoftDelete(ctx context.Context, companyID, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *LeavePlan) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]LeavePlan, error) {
	var plans []LeavePlan
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("name ASC").
		Find(&plans).Error
	return plans, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeavePlan, error) {
	var p LeavePlan
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Update(ctx context.Context, p *LeavePlan) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// SoftDelete marks the plan inactive and sets the gorm soft-delete
// stamp in one transaction. Historical applications keep referencing
// the row.
func (r *repository) SoftDelete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&LeavePlan{}).
			Scopes(tenant.Scope(companyID)).
			Where("id = ?", id).
			Update("is_active", false).Error
		if err != nil {
			return err
		}

		return tx.Scopes(tenant.Scope(companyID)).
			Delete(&LeavePlan{}, "id = ?", id).Error
	})
}
