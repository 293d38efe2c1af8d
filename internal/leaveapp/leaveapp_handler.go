package leaveapp

import (
	"encoding/json"
	"net/http"
	"time"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leaveapp.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaveapp.handler")
	}
	return &Handler{service: service, logger: l}
}

// NewHandlerWithRedis wires the redis client used to finish the
// idempotency cycle on recall.
func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, logger...)
	h.rdb = rdb
	return h
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id_validated")
	}
	return actorID
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave application request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetAll(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.GetAll(c.Request.Context(), companyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// GetOngoing lists approved applications whose period covers the
// given as_of date (default today) on plans that permit recall.
func (h *Handler) GetOngoing(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.GetOngoingRecallable(c.Request.Context(), companyID, c.Query("as_of"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.GetByID(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RecallPreview(c *gin.Context) {
	companyID := c.GetString("company_id")

	resumptionDate := c.Query("resumption_date")
	if resumptionDate == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "resumption_date query parameter is required", nil)
		return
	}

	resp, err := h.service.RecallPreview(c.Request.Context(), companyID, c.Param("id"), resumptionDate)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := getActorID(c)

	resp, err := h.service.Approve(c.Request.Context(), companyID, actorID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := getActorID(c)

	var req RejectLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		vErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, vErr.Status, vErr.Code, vErr.Message, nil)
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), companyID, actorID, c.Param("id"), req.RejectionReason)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Recall(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	companyID := c.GetString("company_id")
	actorID := getActorID(c)

	var req RecallLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		vErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, vErr.Status, vErr.Code, vErr.Message, nil)
		return
	}

	resp, err := h.service.Recall(c.Request.Context(), companyID, actorID, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusOK, resp, nil)
}
