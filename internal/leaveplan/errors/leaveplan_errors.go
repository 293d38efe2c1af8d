package leaveplanerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrPlanNameRequired = apperror.New(
		apperror.CodeInvalidInput,
		"plan name is required",
		http.StatusBadRequest,
	)
	ErrInvalidDuration = apperror.New(
		apperror.CodeInvalidInput,
		"duration_days must be greater than zero",
		http.StatusBadRequest,
	)
	ErrPlanNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave plan not found",
		http.StatusNotFound,
	)
	ErrPlanNameAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"a leave plan with this name already exists",
		http.StatusConflict,
	)
	ErrPlanInactive = apperror.New(
		apperror.CodeInvalidState,
		"leave plan is inactive",
		http.StatusBadRequest,
	)
)
