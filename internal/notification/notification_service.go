package notification

import (
	"context"
	"errors"
	"time"

	notificationerrors "go-leave/internal/notification/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	NotifyEmployee(ctx context.Context, companyID, employeeID, title, message string) error
	GetAll(ctx context.Context, companyID, employeeID string) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, companyID, employeeID, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) NotifyEmployee(ctx context.Context, companyID, employeeID, title, message string) error {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return err
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return err
	}

	n := &Notification{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: employeeUUID,
		Title:      title,
		Message:    message,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	s.logger.Debug("notification created",
		zap.String("employee_id", employeeID),
		zap.String("title", title),
	)
	return nil
}

func (s *service) GetAll(ctx context.Context, companyID, employeeID string) ([]NotificationResponse, error) {
	notifications, err := s.repo.FindAllByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp = append(resp, NotificationResponse{
			ID:        n.ID.String(),
			Title:     n.Title,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}

func (s *service) MarkRead(ctx context.Context, companyID, employeeID, id string) error {
	err := s.repo.MarkRead(ctx, companyID, employeeID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notificationerrors.ErrNotificationNotFound
	}
	return err
}
