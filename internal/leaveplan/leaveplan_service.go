package leaveplan

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	leaveplanerrors "go-leave/internal/leaveplan/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	PlanAllKeyPrefix = "leave_plans:all:"
	planCacheTTL     = 30 * time.Minute
)

func GetPlanAllKey(companyID string) string {
	return PlanAllKeyPrefix + companyID
}

//go:generate mockgen -source=leaveplan_service.go -destination=mock/leaveplan_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateLeavePlanRequest) (LeavePlanResponse, error)
	GetAll(ctx context.Context, companyID string) ([]LeavePlanResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeavePlanResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateLeavePlanRequest) (LeavePlanResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leaveplan.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaveplan.service")
	}
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

// validatePlanFields runs before any repository call so a bad payload
// never reaches the store.
func validatePlanFields(name string, durationDays int) error {
	if strings.TrimSpace(name) == "" {
		return leaveplanerrors.ErrPlanNameRequired
	}
	if durationDays <= 0 {
		return leaveplanerrors.ErrInvalidDuration
	}
	return nil
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateLeavePlanRequest) (LeavePlanResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeavePlanResponse{}, leaveplanerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeavePlanResponse{}, leaveplanerrors.ErrInvalidActorID
	}

	if err := validatePlanFields(req.Name, req.DurationDays); err != nil {
		s.logger.Warn("create plan validation failed", zap.Error(err))
		return LeavePlanResponse{}, err
	}

	isPaid := true
	if req.IsPaid != nil {
		isPaid = *req.IsPaid
	}
	allowRecall := false
	if req.AllowRecall != nil {
		allowRecall = *req.AllowRecall
	}

	p := &LeavePlan{
		ID:           uuid.New(),
		CompanyID:    companyUUID,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		DurationDays: req.DurationDays,
		IsPaid:       isPaid,
		AllowRecall:  allowRecall,
		IsActive:     true,
		CreatedBy:    actorUUID,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("create plan persist failed", zap.Error(err))
		return LeavePlanResponse{}, mapRepositoryError(err)
	}

	s.invalidateCache(ctx, companyID)

	s.logger.Info("create plan success",
		zap.String("company_id", companyID),
		zap.String("plan_id", p.ID.String()),
		zap.String("name", p.Name),
	)

	return mapToResponse(*p), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]LeavePlanResponse, error) {
	cacheKey := GetPlanAllKey(companyID)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var resp []LeavePlanResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	// Singleflight collapses concurrent misses into one DB query.
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		plans, err := s.repo.FindAllByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(plans)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, planCacheTTL)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]LeavePlanResponse), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeavePlanResponse, error) {
	p, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return LeavePlanResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*p), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateLeavePlanRequest) (LeavePlanResponse, error) {
	if err := validatePlanFields(req.Name, req.DurationDays); err != nil {
		s.logger.Warn("update plan validation failed", zap.Error(err))
		return LeavePlanResponse{}, err
	}

	p, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return LeavePlanResponse{}, mapRepositoryError(err)
	}

	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.DurationDays = req.DurationDays
	if req.IsPaid != nil {
		p.IsPaid = *req.IsPaid
	}
	if req.AllowRecall != nil {
		p.AllowRecall = *req.AllowRecall
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("update plan persist failed", zap.Error(err))
		return LeavePlanResponse{}, mapRepositoryError(err)
	}

	s.invalidateCache(ctx, companyID)

	return mapToResponse(*p), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := s.repo.FindByIDAndCompany(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := s.repo.SoftDelete(ctx, companyID, id); err != nil {
		s.logger.Error("delete plan failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	s.invalidateCache(ctx, companyID)

	s.logger.Info("delete plan success",
		zap.String("company_id", companyID),
		zap.String("plan_id", id),
	)

	return nil
}

func (s *service) invalidateCache(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetPlanAllKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Warn("plan cache invalidation failed",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

func mapToResponse(p LeavePlan) LeavePlanResponse {
	return LeavePlanResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		Description:  p.Description,
		DurationDays: p.DurationDays,
		IsPaid:       p.IsPaid,
		AllowRecall:  p.AllowRecall,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(plans []LeavePlan) []LeavePlanResponse {
	resp := make([]LeavePlanResponse, 0, len(plans))
	for _, p := range plans {
		resp = append(resp, mapToResponse(p))
	}
	return resp
}
