package leaveapp

import (
	"context"
	"database/sql"
	"time"

	"go-leave/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leaveapp_repo.go -destination=mock/leaveapp_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindAllByCompany(ctx context.Context, companyID string) ([]LeaveApplication, error)
	FindOngoingRecallable(ctx context.Context, companyID string, asOf time.Time) ([]LeaveApplication, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveApplication, error)
	UpdateReview(ctx context.Context, app *LeaveApplication) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]LeaveApplication, error) {
	var apps []LeaveApplication
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Employee").
		Preload("LeavePlan").
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

// FindOngoingRecallable returns approved applications whose period
// covers asOf and whose plan is active and permits recall.
func (r *repository) FindOngoingRecallable(ctx context.Context, companyID string, asOf time.Time) ([]LeaveApplication, error) {
	var apps []LeaveApplication
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Joins("JOIN leave_plans ON leave_plans.id = leave_applications.leave_plan_id").
		Where("leave_applications.status = ?", StatusApproved).
		Where("leave_applications.start_date <= ? AND leave_applications.end_date >= ?", asOf, asOf).
		Where("leave_plans.allow_recall = ?", true).
		Where("leave_plans.is_active = ?", true).
		Where("leave_plans.deleted_at IS NULL").
		Preload("Employee").
		Preload("LeavePlan").
		Order("leave_applications.end_date ASC").
		Find(&apps).Error
	return apps, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveApplication, error) {
	var app LeaveApplication
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Employee").
		Preload("LeavePlan").
		First(&app, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// UpdateReview persists the review fields of a status transition. It
// goes through the raw connection so it can share a transaction with
// the outbox insert.
func (r *repository) UpdateReview(ctx context.Context, app *LeaveApplication) error {
	query := `
UPDATE leave_applications
SET
	status = $3,
	reviewed_by = $4,
	reviewed_at = $5,
	rejection_reason = $6,
	resumption_date = $7,
	days_used = $8,
	days_refunded = $9,
	recall_reason = $10,
	updated_at = NOW()
WHERE id = $1 AND company_id = $2
`

	args := []any{
		app.ID, app.CompanyID,
		app.Status, app.ReviewedBy, app.ReviewedAt,
		app.RejectionReason,
		app.ResumptionDate, app.DaysUsed, app.DaysRefunded, app.RecallReason,
	}

	if r.tx != nil {
		result, err := r.tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		if rows, err := result.RowsAffected(); err == nil && rows == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}

	result := r.db.WithContext(ctx).Exec(query, args...)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
