package leaveapp_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-leave/internal/leaveapp"
	leaveapperrors "go-leave/internal/leaveapp/errors"
	"go-leave/internal/leavebalance"
	leavebalanceerrors "go-leave/internal/leavebalance/errors"
	"go-leave/internal/leaveplan"
	"go-leave/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeAppRepository struct {
	withTxFn                func(tx *sql.Tx) leaveapp.Repository
	findAllByCompanyFn      func(ctx context.Context, companyID string) ([]leaveapp.LeaveApplication, error)
	findOngoingRecallableFn func(ctx context.Context, companyID string, asOf time.Time) ([]leaveapp.LeaveApplication, error)
	findByIDAndCompanyFn    func(ctx context.Context, companyID, id string) (*leaveapp.LeaveApplication, error)
	updateReviewFn          func(ctx context.Context, app *leaveapp.LeaveApplication) error
}

func (f *fakeAppRepository) WithTx(tx *sql.Tx) leaveapp.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeAppRepository) FindAllByCompany(ctx context.Context, companyID string) ([]leaveapp.LeaveApplication, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeAppRepository) FindOngoingRecallable(ctx context.Context, companyID string, asOf time.Time) ([]leaveapp.LeaveApplication, error) {
	if f.findOngoingRecallableFn != nil {
		return f.findOngoingRecallableFn(ctx, companyID, asOf)
	}
	return nil, nil
}

func (f *fakeAppRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*leaveapp.LeaveApplication, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, nil
}

func (f *fakeAppRepository) UpdateReview(ctx context.Context, app *leaveapp.LeaveApplication) error {
	if f.updateReviewFn != nil {
		return f.updateReviewFn(ctx, app)
	}
	return nil
}

type fakeBalanceRepository struct {
	findFn    func(ctx context.Context, companyID, employeeID, planID string) (*leavebalance.Balance, error)
	addDaysFn func(ctx context.Context, companyID, employeeID, planID string, days int) (*leavebalance.Balance, error)
}

func (f *fakeBalanceRepository) FindByEmployeeAndPlan(ctx context.Context, companyID, employeeID, planID string) (*leavebalance.Balance, error) {
	if f.findFn != nil {
		return f.findFn(ctx, companyID, employeeID, planID)
	}
	return nil, nil
}

func (f *fakeBalanceRepository) AddDays(ctx context.Context, companyID, employeeID, planID string, days int) (*leavebalance.Balance, error) {
	if f.addDaysFn != nil {
		return f.addDaysFn(ctx, companyID, employeeID, planID, days)
	}
	return &leavebalance.Balance{}, nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type fakeNotifier struct {
	notifyFn func(ctx context.Context, companyID, employeeID, title, message string) error
	calls    int
}

func (f *fakeNotifier) NotifyEmployee(ctx context.Context, companyID, employeeID, title, message string) error {
	f.calls++
	if f.notifyFn != nil {
		return f.notifyFn(ctx, companyID, employeeID, title, message)
	}
	return nil
}

type appServiceDeps struct {
	db       *sql.DB
	sqlMock  sqlmock.Sqlmock
	service  leaveapp.Service
	repo     *fakeAppRepository
	balances *fakeBalanceRepository
	outbox   *fakeOutboxRepository
	notifier *fakeNotifier
}

func setupAppServiceTest(t *testing.T) *appServiceDeps {
	t.Helper()

	// Pin the clock inside the fixture leave period so the ongoing
	// checks see Jan 2024 as today.
	restore := leaveapp.SetNow(func() time.Time {
		return time.Date(2024, time.January, 5, 12, 0, 0, 0, time.UTC)
	})
	t.Cleanup(restore)

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeAppRepository{}
	balances := &fakeBalanceRepository{}
	outbox := &fakeOutboxRepository{}
	notifier := &fakeNotifier{}
	svc := leaveapp.NewService(db, repo, balances, outbox, notifier)

	return &appServiceDeps{
		db:       db,
		sqlMock:  sqlMock,
		service:  svc,
		repo:     repo,
		balances: balances,
		outbox:   outbox,
		notifier: notifier,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func approvedApplication(companyID string, allowRecall bool) *leaveapp.LeaveApplication {
	return &leaveapp.LeaveApplication{
		ID:           uuid.New(),
		CompanyID:    uuid.MustParse(companyID),
		EmployeeID:   uuid.New(),
		LeavePlanID:  uuid.New(),
		StartDate:    date(2024, time.January, 1),
		EndDate:      date(2024, time.January, 14),
		DurationDays: 12,
		Status:       leaveapp.StatusApproved,
		LeavePlan: leaveplan.LeavePlan{
			Name:         "Annual Leave",
			DurationDays: 12,
			AllowRecall:  allowRecall,
		},
	}
}

func TestLeaveAppService_Recall(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	req := leaveapp.RecallLeaveRequest{
		ResumptionDate: "2024-01-08",
		RecallReason:   "Critical project staffing",
	}

	t.Run("success", func(t *testing.T) {
		deps := setupAppServiceTest(t)
		defer deps.db.Close()

		app := approvedApplication(companyID, true)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leaveapp.LeaveApplication, error) {
			assert.Equal(t, companyID, cid)
			return app, nil
		}

		var updated *leaveapp.LeaveApplication
		deps.repo.updateReviewFn = func(ctx context.Context, a *leaveapp.LeaveApplication) error {
			updated = a
			return nil
		}

		var event kafka.OutboxEvent
		deps.outbox.createFn = func(ctx context.Context, e kafka.OutboxEvent) error {
			event = e
			return nil
		}

		refunded := 0
		deps.balances.addDaysFn = func(ctx context.Context, cid, eid, pid string, days int) (*leavebalance.Balance, error) {
			refunded = days
			return &leavebalance.Balance{RemainingDays: 10 + days}, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Recall(ctx, companyID, actorID, app.ID.String(), req)

		assert.NoError(t, err)
		assert.Equal(t, 6, resp.DaysUsed)
		assert.Equal(t, 6, resp.DaysRefunded)
		assert.Empty(t, resp.Warning)

		assert.NotNil(t, updated)
		assert.Equal(t, leaveapp.StatusRecalled, updated.Status)
		assert.NotNil(t, updated.ReviewedAt)
		assert.Equal(t, actorID, updated.ReviewedBy.String())
		assert.Equal(t, "2024-01-08", updated.ResumptionDate.Format("2006-01-02"))
		assert.Equal(t, 6, *updated.DaysUsed)
		assert.Equal(t, 6, *updated.DaysRefunded)
		assert.Equal(t, req.RecallReason, *updated.RecallReason)

		assert.Equal(t, "leave.recalled", event.EventType)
		assert.Equal(t, "hr.leave.lifecycle.v1", event.Topic)
		assert.Equal(t, 6, refunded)
		assert.Equal(t, 1, deps.notifier.calls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success with warning when balance row missing", func(t *testing.T) {
		deps := setupAppServiceTest(t)
		defer deps.db.Close()

		app := approvedApplication(companyID, true)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leaveapp.LeaveApplication, error) {
			return app, nil
		}
		deps.balances.addDaysFn = func(ctx context.Context, cid, eid, pid string, days int) (*leavebalance.Balance, error) {
			return nil, leavebalanceerrors.ErrBalanceNotFound
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Recall(ctx, companyID, actorID, app.ID.String(), req)

		// The recall itself committed; the refund failure is a warning.
		assert.NoError(t, err)
		assert.NotEmpty(t, resp.Warning)
		assert.Equal(t, leaveapp.StatusRecalled, resp.Application.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success even when notification fails", func(t *testing.T) {
		deps := setupAppServiceTest(t)
		defer deps.db.Close()

		app := approvedApplication(companyID, true)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leaveapp.LeaveApplication, error) {
			return app, nil
		}
		deps.notifier.notifyFn = func(ctx context.Context, cid, eid, title, message string) error {
			return errors.New("smtp relay down")
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Recall(ctx, companyID, actorID, app.ID.String(), req)

		assert.NoError(t, err)
		assert.Empty(t, resp.Warning)
	})

	t.Run("negative not approved", func(t *testing.T) {
		deps := setupAppServiceTest(t)
		defer deps.db.Close()

		app := approvedApplication(companyID, true)
		app.Status = leaveapp.StatusPending
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leaveapp.LeaveApplication, error) {
			return app, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Recall(ctx, companyID, actorID, app.ID.String(), req)
		assert.ErrorIs(t, err, leaveapperrors.ErrInvalidStatusTransition)
	})

	t.Run("negative leave already finished", func(t *testing.T) {
		deps := setupAppServiceTest(t)
		defer deps.db.Close()

		restore := leaveapp.SetNow(func() time.Time {
			return time.Date(2026, time.August, 30, 9, 0, 0, 0, time.UTC)
		})
		defer restore()

		app := approvedApplication(companyID, true)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leaveapp.LeaveApplication, error) {
			return app, nil
		}
		updateCalled := false
		deps.repo.updateReviewFn = func(ctx context.Context, a *leaveapp.LeaveApplication) error {
			updateCalled = true
			return nil
		}
		refundCalled := false
		deps.balances.addDaysFn = func(ctx context.Context, cid, eid, pid string, days int) (*leavebalance.Balance, error) {
			refundCalled = true
			return nil, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Recall(ctx, companyID, actorID, app.ID.String(), req)

		assert.ErrorIs(t, err, leaveapperrors.ErrLeaveNotOngoing)
		assert.False(t, updateCalled)
		assert.False(t, refundCalled)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative leave has not started", func(t *testing.T) {
		deps := setupAppServiceTest(t)
		defer deps.db.Close()

		restore := leaveapp.SetNow(func() time.Time {
			return time.Date(2023, time.December, 20, 9, 0, 0, 0, time.UTC)
		})
		defer restore()

		app := approvedApplication(companyID, true)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leaveapp.LeaveApplication, error) {
			return app, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Recall(ctx, companyID, actorID, app.ID.String(), req)
		assert.ErrorIs(t, err, leaveapperrors.ErrLeaveNotOngoing)
	})

	t.Run("negative plan does not allow recall", func(t *testing.T) {
		deps := setupAppServiceTest(t)
		defer deps.db.Close()

		app := approvedApplication(companyID, false)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leaveapp.LeaveApplication, error) {
			return app, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Recall(ctx, companyID, actorID, app.ID.String(), req)
		assert.ErrorIs(t, err, leaveapperrors.ErrRecallNotAllowed)
	})

	t.Run("negative resumption outside leave period", func(t *testing.T) {
		deps := setupAppServiceTest(t)
		defer deps.db.Close()

		app := approvedApplication(companyID, true)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leaveapp.LeaveApplication, error) {
			return app, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Recall(ctx, companyID, actorID, app.ID.String(), leaveapp.RecallLeaveRequest{
			ResumptionDate: "2024-02-01",
			RecallReason:   "Critical project staffing",
		})
		assert.ErrorIs(t, err, leaveapperrors.ErrResumptionOutOfRange)
	})

	t.Run("negative recall reason required before any store call", func(t *testing.T) {
		deps := setupAppServiceTest(t)
		defer deps.db.Close()

		fetched := false
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leaveapp.LeaveApplication, error) {
			fetched = true
			return nil, nil
		}

		_, err := deps.service.Recall(ctx, companyID, actorID, uuid.New().String(), leaveapp.RecallLeaveRequest{
			ResumptionDate: "2024-01-08",
			RecallReason:   "   ",
		})
		assert.ErrorIs(t, err, leaveapperrors.ErrRecallReasonRequired)
		assert.False(t, fetched)
	})

	t.Run("negative refund skipped when nothing to refund", func(t *testing.T) {
		deps := setupAppServiceTest(t)
		defer deps.db.Close()

		app := approvedApplication(companyID, true)
		// Resuming on the final Sunday leaves an empty refundable
		// segment.
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leaveapp.LeaveApplication, error) {
			return app, nil
		}
		refundCalled := false
		deps.balances.addDaysFn = func(ctx context.Context, cid, eid, pid string, days int) (*leavebalance.Balance, error) {
			refundCalled = true
			return nil, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Recall(ctx, companyID, actorID, app.ID.String(), leaveapp.RecallLeaveRequest{
			ResumptionDate: "2024-01-14",
			RecallReason:   "Critical project staffing",
		})

		assert.NoError(t, err)
		assert.Equal(t, 0, resp.DaysRefunded)
		assert.False(t, refundCalled)
	})
}

func TestLeaveAppService_Review(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	pendingApplication := func() *leaveapp.LeaveApplication {
		app := approvedApplication(companyID, true)
		app.Status = leaveapp.StatusPending
		return app
	}

	t.Run("success approve", func(t *testing.T) {
		deps := setupAppServiceTest(t)
		defer deps.db.Close()

		app := pendingApplication()
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leaveapp.LeaveApplication, error) {
			return app, nil
		}

		var event kafka.OutboxEvent
		deps.outbox.createFn = func(ctx context.Context, e kafka.OutboxEvent) error {
			event = e
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Approve(ctx, companyID, actorID, app.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, leaveapp.StatusApproved, resp.Status)
		assert.NotNil(t, resp.ReviewedAt)
		assert.Equal(t, "leave.approved", event.EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success reject with reason", func(t *testing.T) {
		deps := setupAppServiceTest(t)
		defer deps.db.Close()

		app := pendingApplication()
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leaveapp.LeaveApplication, error) {
			return app, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Reject(ctx, companyID, actorID, app.ID.String(), "Insufficient coverage")

		assert.NoError(t, err)
		assert.Equal(t, leaveapp.StatusRejected, resp.Status)
		assert.Equal(t, "Insufficient coverage", *resp.RejectionReason)
	})

	t.Run("negative reject without reason", func(t *testing.T) {
		deps := setupAppServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Reject(ctx, companyID, actorID, uuid.New().String(), " ")
		assert.ErrorIs(t, err, leaveapperrors.ErrRejectionReasonRequired)
	})

	t.Run("negative approve already reviewed", func(t *testing.T) {
		deps := setupAppServiceTest(t)
		defer deps.db.Close()

		app := approvedApplication(companyID, true)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leaveapp.LeaveApplication, error) {
			return app, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, companyID, actorID, app.ID.String())
		assert.ErrorIs(t, err, leaveapperrors.ErrInvalidStatusTransition)
	})

	t.Run("negative recalled is terminal", func(t *testing.T) {
		deps := setupAppServiceTest(t)
		defer deps.db.Close()

		app := approvedApplication(companyID, true)
		app.Status = leaveapp.StatusRecalled
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leaveapp.LeaveApplication, error) {
			return app, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, companyID, actorID, app.ID.String())
		assert.ErrorIs(t, err, leaveapperrors.ErrInvalidStatusTransition)
	})
}

func TestLeaveAppService_RecallPreview(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupAppServiceTest(t)
		defer deps.db.Close()

		app := approvedApplication(companyID, true)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leaveapp.LeaveApplication, error) {
			return app, nil
		}

		resp, err := deps.service.RecallPreview(ctx, companyID, app.ID.String(), "2024-01-08")

		assert.NoError(t, err)
		assert.Equal(t, 6, resp.DaysUsed)
		assert.Equal(t, 6, resp.DaysToRefund)
		assert.Equal(t, 12, resp.OriginalTotal)
	})

	t.Run("negative malformed date", func(t *testing.T) {
		deps := setupAppServiceTest(t)
		defer deps.db.Close()

		app := approvedApplication(companyID, true)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leaveapp.LeaveApplication, error) {
			return app, nil
		}

		_, err := deps.service.RecallPreview(ctx, companyID, app.ID.String(), "08/01/2024")
		assert.ErrorIs(t, err, leaveapperrors.ErrInvalidDateFormat)
	})
}

func TestLeaveAppService_GetOngoingRecallable(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("success forwards the as-of date to the repository", func(t *testing.T) {
		deps := setupAppServiceTest(t)
		defer deps.db.Close()

		var gotAsOf time.Time
		app := approvedApplication(companyID, true)
		deps.repo.findOngoingRecallableFn = func(ctx context.Context, cid string, asOf time.Time) ([]leaveapp.LeaveApplication, error) {
			gotAsOf = asOf
			return []leaveapp.LeaveApplication{*app}, nil
		}

		resp, err := deps.service.GetOngoingRecallable(ctx, companyID, "2024-01-05")

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, app.ID.String(), resp[0].ID)
		assert.Equal(t, date(2024, time.January, 5), gotAsOf)
	})

	t.Run("success defaults to today when as-of is empty", func(t *testing.T) {
		deps := setupAppServiceTest(t)
		defer deps.db.Close()

		var gotAsOf time.Time
		deps.repo.findOngoingRecallableFn = func(ctx context.Context, cid string, asOf time.Time) ([]leaveapp.LeaveApplication, error) {
			gotAsOf = asOf
			return nil, nil
		}

		resp, err := deps.service.GetOngoingRecallable(ctx, companyID, "")

		assert.NoError(t, err)
		assert.Empty(t, resp)
		assert.Equal(t, date(2024, time.January, 5), gotAsOf)
	})

	t.Run("success default uses the UTC calendar date", func(t *testing.T) {
		deps := setupAppServiceTest(t)
		defer deps.db.Close()

		// 22:00 local on Jan 5 in UTC-10 is already Jan 6 in UTC.
		restore := leaveapp.SetNow(func() time.Time {
			return time.Date(2024, time.January, 5, 22, 0, 0, 0, time.FixedZone("UTC-10", -10*60*60))
		})
		defer restore()

		var gotAsOf time.Time
		deps.repo.findOngoingRecallableFn = func(ctx context.Context, cid string, asOf time.Time) ([]leaveapp.LeaveApplication, error) {
			gotAsOf = asOf
			return nil, nil
		}

		_, err := deps.service.GetOngoingRecallable(ctx, companyID, "")

		assert.NoError(t, err)
		assert.Equal(t, date(2024, time.January, 6), gotAsOf)
	})

	t.Run("negative malformed as-of date", func(t *testing.T) {
		deps := setupAppServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetOngoingRecallable(ctx, companyID, "05-01-2024")
		assert.ErrorIs(t, err, leaveapperrors.ErrInvalidDateFormat)
	})
}
