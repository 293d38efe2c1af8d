package leaveapp

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-leave/internal/events"
	leaveapperrors "go-leave/internal/leaveapp/errors"
	"go-leave/internal/leavebalance"
	leavebalanceerrors "go-leave/internal/leavebalance/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusRecalled = "RECALLED"
	StatusAbsent   = "ABSENT"
)

const dateLayout = "2006-01-02"

// nowFn is the clock behind every "today" decision. Tests pin it.
var nowFn = time.Now

// Notifier delivers a best-effort message to an employee. Failures
// are logged by the caller, never surfaced.
type Notifier interface {
	NotifyEmployee(ctx context.Context, companyID, employeeID, title, message string) error
}

//go:generate mockgen -source=leaveapp_service.go -destination=mock/leaveapp_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context, companyID string) ([]LeaveApplicationResponse, error)
	GetOngoingRecallable(ctx context.Context, companyID, asOf string) ([]LeaveApplicationResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveApplicationResponse, error)
	RecallPreview(ctx context.Context, companyID, id, resumptionDate string) (RecallPreviewResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (LeaveApplicationResponse, error)
	Reject(ctx context.Context, companyID, actorID, id, rejectionReason string) (LeaveApplicationResponse, error)
	Recall(ctx context.Context, companyID, actorID, id string, req RecallLeaveRequest) (RecallLeaveResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	balances leavebalance.Repository
	outbox   kafka.OutboxRepository
	notifier Notifier
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	balances leavebalance.Repository,
	outbox kafka.OutboxRepository,
	notifier Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaveapp.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaveapp.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		balances: balances,
		outbox:   outbox,
		notifier: notifier,
		logger:   l,
	}
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveapperrors.ErrApplicationNotFound
	}
	return err
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]LeaveApplicationResponse, error) {
	apps, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(apps), nil
}

func (s *service) GetOngoingRecallable(ctx context.Context, companyID, asOf string) ([]LeaveApplicationResponse, error) {
	asOfDate := toDate(nowFn().UTC())
	if asOf != "" {
		parsed, err := time.Parse(dateLayout, asOf)
		if err != nil {
			return nil, leaveapperrors.ErrInvalidDateFormat
		}
		asOfDate = parsed
	}

	apps, err := s.repo.FindOngoingRecallable(ctx, companyID, asOfDate)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(apps), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveApplicationResponse, error) {
	app, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return LeaveApplicationResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*app), nil
}

// RecallPreview computes the used/refund split for a candidate
// resumption date without touching any state.
func (s *service) RecallPreview(ctx context.Context, companyID, id, resumptionDate string) (RecallPreviewResponse, error) {
	app, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return RecallPreviewResponse{}, mapRepositoryError(err)
	}

	resumption, err := time.Parse(dateLayout, resumptionDate)
	if err != nil {
		return RecallPreviewResponse{}, leaveapperrors.ErrInvalidDateFormat
	}

	if err := validateResumptionInRange(app.StartDate, app.EndDate, resumption); err != nil {
		return RecallPreviewResponse{}, err
	}

	calc := DeriveRecallSplit(app.StartDate, app.EndDate, resumption, app.DurationDays)

	return RecallPreviewResponse{
		ApplicationID:  app.ID.String(),
		ResumptionDate: resumption.Format(dateLayout),
		DaysUsed:       calc.DaysUsed,
		DaysToRefund:   calc.DaysToRefund,
		OriginalTotal:  calc.OriginalTotal,
	}, nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (LeaveApplicationResponse, error) {
	return s.review(ctx, companyID, actorID, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id, rejectionReason string) (LeaveApplicationResponse, error) {
	if strings.TrimSpace(rejectionReason) == "" {
		return LeaveApplicationResponse{}, leaveapperrors.ErrRejectionReasonRequired
	}
	return s.review(ctx, companyID, actorID, id, StatusRejected, &rejectionReason)
}

// review handles the pending -> approved/rejected transition. The
// status update and the outbox insert commit atomically.
func (s *service) review(ctx context.Context, companyID, actorID, id, newStatus string, rejectionReason *string) (LeaveApplicationResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveApplicationResponse{}, leaveapperrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("review begin tx failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	app, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return LeaveApplicationResponse{}, mapRepositoryError(err)
	}

	if app.Status != StatusPending {
		s.logger.Warn("review invalid transition",
			zap.String("application_id", id),
			zap.String("from", app.Status),
			zap.String("to", newStatus),
		)
		return LeaveApplicationResponse{}, leaveapperrors.ErrInvalidStatusTransition
	}

	now := time.Now()
	app.Status = newStatus
	app.ReviewedBy = &actorUUID
	app.ReviewedAt = &now
	app.RejectionReason = rejectionReason

	if err := qtx.UpdateReview(ctx, app); err != nil {
		s.logger.Error("review persist failed", zap.Error(err))
		return LeaveApplicationResponse{}, mapRepositoryError(err)
	}

	eventType := events.LeaveApprovedEventType
	if newStatus == StatusRejected {
		eventType = events.LeaveRejectedEventType
	}
	if err := s.createStatusEvent(ctx, tx, app, eventType); err != nil {
		s.logger.Error("review outbox create failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("review commit failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}

	s.logger.Info("leave reviewed",
		zap.String("application_id", id),
		zap.String("status", newStatus),
		zap.String("reviewed_by", actorID),
	)

	return mapToResponse(*app), nil
}

// Recall ends an approved, ongoing leave early. The status transition
// and its outbox event are all-or-nothing; the balance refund and the
// employee notification run after commit and are best-effort.
func (s *service) Recall(ctx context.Context, companyID, actorID, id string, req RecallLeaveRequest) (RecallLeaveResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return RecallLeaveResponse{}, leaveapperrors.ErrInvalidActorID
	}

	if strings.TrimSpace(req.RecallReason) == "" {
		return RecallLeaveResponse{}, leaveapperrors.ErrRecallReasonRequired
	}

	resumption, err := time.Parse(dateLayout, req.ResumptionDate)
	if err != nil {
		return RecallLeaveResponse{}, leaveapperrors.ErrInvalidDateFormat
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("recall begin tx failed", zap.Error(err))
		return RecallLeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	app, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return RecallLeaveResponse{}, mapRepositoryError(err)
	}

	if app.Status != StatusApproved {
		return RecallLeaveResponse{}, leaveapperrors.ErrInvalidStatusTransition
	}

	// Only a leave whose period covers today can be cut short. The
	// ongoing listing already filters on this, but the endpoint is
	// reachable directly.
	today := toDate(nowFn().UTC())
	if today.Before(toDate(app.StartDate)) || today.After(toDate(app.EndDate)) {
		return RecallLeaveResponse{}, leaveapperrors.ErrLeaveNotOngoing
	}

	if !app.LeavePlan.AllowRecall {
		return RecallLeaveResponse{}, leaveapperrors.ErrRecallNotAllowed
	}
	if err := validateResumptionInRange(app.StartDate, app.EndDate, resumption); err != nil {
		return RecallLeaveResponse{}, err
	}

	calc := DeriveRecallSplit(app.StartDate, app.EndDate, resumption, app.DurationDays)

	now := time.Now()
	resumptionDate := toDate(resumption)
	app.Status = StatusRecalled
	app.ReviewedBy = &actorUUID
	app.ReviewedAt = &now
	app.ResumptionDate = &resumptionDate
	app.DaysUsed = &calc.DaysUsed
	app.DaysRefunded = &calc.DaysToRefund
	app.RecallReason = &req.RecallReason

	if err := qtx.UpdateReview(ctx, app); err != nil {
		s.logger.Error("recall persist failed", zap.Error(err))
		return RecallLeaveResponse{}, mapRepositoryError(err)
	}

	if err := s.createRecallEvent(ctx, tx, app, calc); err != nil {
		s.logger.Error("recall outbox create failed", zap.Error(err))
		return RecallLeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("recall commit failed", zap.Error(err))
		return RecallLeaveResponse{}, err
	}

	s.logger.Info("leave recalled",
		zap.String("application_id", id),
		zap.String("employee_id", app.EmployeeID.String()),
		zap.String("resumption_date", req.ResumptionDate),
		zap.Int("days_used", calc.DaysUsed),
		zap.Int("days_to_refund", calc.DaysToRefund),
	)

	resp := RecallLeaveResponse{
		Application:  mapToResponse(*app),
		DaysUsed:     calc.DaysUsed,
		DaysRefunded: calc.DaysToRefund,
	}

	// The recall is committed; everything below must not undo it.
	resp.Warning = s.refundBalance(ctx, app, calc.DaysToRefund)
	s.notifyRecall(ctx, app, calc.DaysToRefund)

	return resp, nil
}

// refundBalance returns a warning message instead of an error: a
// missing balance row means the recall stands but the refund could
// not be applied.
func (s *service) refundBalance(ctx context.Context, app *LeaveApplication, daysToRefund int) string {
	if daysToRefund <= 0 {
		return ""
	}

	_, err := s.balances.AddDays(
		ctx,
		app.CompanyID.String(),
		app.EmployeeID.String(),
		app.LeavePlanID.String(),
		daysToRefund,
	)
	if err == nil {
		return ""
	}

	if errors.Is(err, leavebalanceerrors.ErrBalanceNotFound) {
		s.logger.Warn("recall balance refund skipped, balance not found",
			zap.String("application_id", app.ID.String()),
			zap.String("employee_id", app.EmployeeID.String()),
			zap.String("leave_plan_id", app.LeavePlanID.String()),
		)
		return "leave recalled, but no balance row was found to refund"
	}

	s.logger.Error("recall balance refund failed",
		zap.String("application_id", app.ID.String()),
		zap.Int("days_to_refund", daysToRefund),
		zap.Error(err),
	)
	return "leave recalled, but the balance refund failed"
}

func (s *service) notifyRecall(ctx context.Context, app *LeaveApplication, daysRefunded int) {
	if s.notifier == nil {
		return
	}

	title := "Leave recalled"
	message := fmt.Sprintf("You have been recalled from leave. Expected resumption date: %s.",
		app.ResumptionDate.Format(dateLayout))
	if daysRefunded > 0 {
		message += fmt.Sprintf(" %s balance refunded: %d day(s).", app.LeavePlan.Name, daysRefunded)
	}

	err := s.notifier.NotifyEmployee(ctx, app.CompanyID.String(), app.EmployeeID.String(), title, message)
	if err != nil {
		s.logger.Warn("recall notification failed",
			zap.String("application_id", app.ID.String()),
			zap.String("employee_id", app.EmployeeID.String()),
			zap.Error(err),
		)
	}
}

func (s *service) createStatusEvent(ctx context.Context, tx *sql.Tx, app *LeaveApplication, eventType string) error {
	payload, err := json.Marshal(events.LeaveStatusChangedEvent{
		EventType:     eventType,
		RequestID:     contextutil.GetRequestID(ctx),
		ApplicationID: app.ID.String(),
		EmployeeID:    app.EmployeeID.String(),
		CompanyID:     app.CompanyID.String(),
		Status:        app.Status,
		OccurredAt:    time.Now(),
	})
	if err != nil {
		return err
	}
	return s.createOutboxEvent(ctx, tx, app, eventType, payload)
}

func (s *service) createRecallEvent(ctx context.Context, tx *sql.Tx, app *LeaveApplication, calc RecallCalculation) error {
	payload, err := json.Marshal(events.LeaveRecalledEvent{
		EventType:      events.LeaveRecalledEventType,
		RequestID:      contextutil.GetRequestID(ctx),
		ApplicationID:  app.ID.String(),
		EmployeeID:     app.EmployeeID.String(),
		CompanyID:      app.CompanyID.String(),
		ResumptionDate: app.ResumptionDate.Format(dateLayout),
		DaysUsed:       calc.DaysUsed,
		DaysRefunded:   calc.DaysToRefund,
		OccurredAt:     time.Now(),
	})
	if err != nil {
		return err
	}
	return s.createOutboxEvent(ctx, tx, app, events.LeaveRecalledEventType, payload)
}

func (s *service) createOutboxEvent(ctx context.Context, tx *sql.Tx, app *LeaveApplication, eventType string, payload []byte) error {
	if s.outbox == nil {
		return nil
	}
	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_application",
		AggregateID:   app.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func validateResumptionInRange(start, end, resumption time.Time) error {
	r := toDate(resumption)
	if r.Before(toDate(start)) || r.After(toDate(end)) {
		return leaveapperrors.ErrResumptionOutOfRange
	}
	return nil
}

func mapToResponse(app LeaveApplication) LeaveApplicationResponse {
	resp := LeaveApplicationResponse{
		ID:        app.ID.String(),
		CompanyID: app.CompanyID.String(),
		Employee: EmployeeSummary{
			ID:         app.EmployeeID.String(),
			FullName:   app.Employee.FullName,
			Email:      app.Employee.Email,
			Department: app.Employee.Department,
		},
		LeavePlan: LeavePlanSummary{
			ID:           app.LeavePlanID.String(),
			Name:         app.LeavePlan.Name,
			DurationDays: app.LeavePlan.DurationDays,
			IsPaid:       app.LeavePlan.IsPaid,
			AllowRecall:  app.LeavePlan.AllowRecall,
		},
		StartDate:    app.StartDate.Format(dateLayout),
		EndDate:      app.EndDate.Format(dateLayout),
		DurationDays: app.DurationDays,
		Reason:       app.Reason,
		Status:       app.Status,
	}

	if app.ReviewedBy != nil {
		v := app.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if app.ReviewedAt != nil {
		v := app.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	resp.RejectionReason = app.RejectionReason
	if app.ResumptionDate != nil {
		v := app.ResumptionDate.Format(dateLayout)
		resp.ResumptionDate = &v
	}
	resp.DaysUsed = app.DaysUsed
	resp.DaysRefunded = app.DaysRefunded
	resp.RecallReason = app.RecallReason

	return resp
}

func mapToListResponse(apps []LeaveApplication) []LeaveApplicationResponse {
	resp := make([]LeaveApplicationResponse, 0, len(apps))
	for _, app := range apps {
		resp = append(resp, mapToResponse(app))
	}
	return resp
}
